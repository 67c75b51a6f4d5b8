package sexpr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"

	"github.com/ardnew/ysx/log"
)

// placeholderPattern matches ${...} placeholders. The body may be empty but
// cannot contain braces, so placeholders never nest.
var placeholderPattern = regexp.MustCompile(`\$\{([^{}]*)\}`)

// identPattern matches a plain environment variable name.
// Placeholder bodies that do not match are evaluated as expressions.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// substitute replaces every ${...} placeholder in input.
//
// A plain identifier body is a strict lookup in environ: an undefined name
// aborts the whole substitution with [ErrMissingVariable]. Any other body is
// compiled and evaluated as an expression against [placeholderEnv].
// Substitution is a single left-to-right pass over the raw text; results are
// not rescanned for further placeholders.
func substitute(
	ctx context.Context,
	input string,
	environ map[string]string,
	logger log.Logger,
) (string, error) {
	var firstErr error

	count := 0

	output := placeholderPattern.ReplaceAllStringFunc(
		input,
		func(match string) string {
			if firstErr != nil {
				return match
			}

			count++

			body := match[2 : len(match)-1]

			if identPattern.MatchString(body) {
				value, ok := environ[body]
				if !ok {
					firstErr = ErrMissingVariable.With(
						slog.String("name", body),
					)

					return match
				}

				return value
			}

			value, err := evalPlaceholder(body, environ)
			if err != nil {
				firstErr = err

				return match
			}

			return value
		},
	)

	if firstErr != nil {
		return "", firstErr
	}

	logger.TraceContext(ctx, "substituted placeholders",
		slog.Int("count", count),
	)

	return output, nil
}

// evalPlaceholder compiles and runs one expression placeholder body.
// The result is stringified with %v.
func evalPlaceholder(body string, environ map[string]string) (string, error) {
	env := placeholderEnv(environ)

	program, err := expr.Compile(body, expr.Env(env))
	if err != nil {
		return "", ErrExprCompile.Wrap(err).With(slog.String("expr", body))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return "", ErrExprEvaluate.Wrap(err).With(slog.String("expr", body))
	}

	return fmt.Sprintf("%v", out), nil
}

// placeholderEnv builds the evaluation environment for expression
// placeholders: the substitution mapping as "env", filesystem path helpers,
// and list munging via mung.
func placeholderEnv(environ map[string]string) map[string]any {
	return map[string]any{
		"env": environ,
		"path": map[string]any{
			"abs": func(p string) string {
				abs, err := filepath.Abs(p)
				if err != nil {
					return p
				}

				return abs
			},
			"cat": func(parts ...string) string {
				return filepath.Join(parts...)
			},
			"rel": func(base, target string) string {
				rel, err := filepath.Rel(base, target)
				if err != nil {
					return target
				}

				return rel
			},
		},
		"mung": map[string]any{
			"prefix": func(subject, delim string, items ...string) string {
				return mung.Make(
					mung.WithDelim(delim),
					mung.WithSubjectItems(subject),
					mung.WithPrefixItems(items...),
				).String()
			},
		},
	}
}

// environMap converts "KEY=VALUE" entries to a lookup map.
// A nil slice reads the process environment; an empty non-nil slice is a
// valid empty environment.
func environMap(environ []string) map[string]string {
	if environ == nil {
		environ = os.Environ()
	}

	m := make(map[string]string, len(environ))

	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}

		m[key] = value
	}

	return m
}
