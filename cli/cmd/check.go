package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/ysx/log"
	"github.com/ardnew/ysx/sexpr"
)

// Check parses and builds every source without writing any output.
// It reports the first error per source and succeeds silently otherwise.
type Check struct {
	Env bool `help:"Substitute $${...} placeholders from the environment" short:"e"`

	Sources []string `arg:"" help:"YAML source file(s) or '-' for stdin" name:"source" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	opts := []sexpr.Option{
		sexpr.WithEnvSubstitution(c.Env),
		sexpr.WithLogger(log.Default()),
	}

	if src := SourceFilesFrom(ctx); src != nil && !src.IsZero() {
		if err := checkReader(ctx, "", src, opts); err != nil {
			return err
		}
	}

	paths := c.Sources
	if len(paths) == 0 && SourceFilesFrom(ctx) == nil {
		paths = []string{stdinSource}
	}

	for _, path := range paths {
		if err := checkPath(ctx, path, opts); err != nil {
			return err
		}
	}

	return nil
}

func checkPath(ctx context.Context, path string, opts []sexpr.Option) error {
	if path == stdinSource {
		return checkReader(ctx, path, os.Stdin, opts)
	}

	file, err := os.Open(path)
	if err != nil {
		return ErrOpenSource.Wrap(err).With(slog.String("path", path))
	}
	defer file.Close()

	return checkReader(ctx, path, file, opts)
}

func checkReader(
	ctx context.Context,
	name string,
	r io.Reader,
	opts []sexpr.Option,
) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return ErrOpenSource.Wrap(err).With(slog.String("source", name))
	}

	if _, err := sexpr.Build(ctx, string(data), opts...); err != nil {
		return ErrConvert.Wrap(err).With(slog.String("source", name))
	}

	return nil
}
