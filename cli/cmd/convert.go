package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/ysx/log"
	"github.com/ardnew/ysx/sexpr"
)

// Convert renders YAML source files as S-expressions.
type Convert struct {
	Output string `default:"-" help:"Output file or '-' for stdout"          short:"o"`
	Pretty bool   `            help:"Pretty-print output over multiple lines"           negatable:""`
	Indent int    `default:"2" help:"Indent width for pretty output"         short:"i"`
	Env    bool   `            help:"Substitute $${...} placeholders from the environment" short:"e"`

	Sources []string `arg:"" help:"YAML source file(s) or '-' for stdin" name:"source" optional:""`
}

// Run executes the convert command.
// Each source converts independently and renders to the output in order.
func (c *Convert) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	out := os.Stdout

	if c.Output != "-" && c.Output != "" {
		out, err = os.Create(c.Output)
		if err != nil {
			return ErrWriteOutput.Wrap(err).
				With(slog.String("path", c.Output))
		}
		defer out.Close()
	}

	opts := []sexpr.Option{
		sexpr.WithPretty(c.Pretty),
		sexpr.WithIndent(c.Indent),
		sexpr.WithEnvSubstitution(c.Env),
		sexpr.WithLogger(log.Default()),
	}

	// Sources given with the global --source flag form one combined stream.
	if src := SourceFilesFrom(ctx); src != nil && !src.IsZero() {
		if err := convertTo(ctx, out, "", src, opts); err != nil {
			return err
		}
	}

	paths := c.Sources
	if len(paths) == 0 && SourceFilesFrom(ctx) == nil {
		paths = []string{stdinSource}
	}

	for _, path := range paths {
		if err := convertPath(ctx, out, path, opts); err != nil {
			return err
		}
	}

	return nil
}

func convertPath(
	ctx context.Context,
	out io.Writer,
	path string,
	opts []sexpr.Option,
) error {
	if path == stdinSource {
		return convertTo(ctx, out, path, os.Stdin, opts)
	}

	file, err := os.Open(path)
	if err != nil {
		return ErrOpenSource.Wrap(err).With(slog.String("path", path))
	}
	defer file.Close()

	return convertTo(ctx, out, path, file, opts)
}

func convertTo(
	ctx context.Context,
	out io.Writer,
	name string,
	r io.Reader,
	opts []sexpr.Option,
) error {
	text, err := sexpr.ConvertReader(ctx, r, opts...)
	if err != nil {
		return ErrConvert.Wrap(err).With(slog.String("source", name))
	}

	if _, err := io.WriteString(out, text+"\n"); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("source", name))
	}

	return nil
}
