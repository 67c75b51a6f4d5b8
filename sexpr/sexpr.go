package sexpr

import (
	"context"
	"log/slog"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/ardnew/ysx/log"
)

// DefaultIndent is the indent width used by pretty mode when no explicit
// width is configured.
const DefaultIndent = 2

// options holds the configuration for a single conversion.
// All configuration is explicit and call-scoped; nothing is process-global.
type options struct {
	logger     log.Logger
	environ    []string
	indent     int
	pretty     bool
	substitute bool
}

// Option applies a configuration option to a conversion.
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{
		indent: DefaultIndent,
		logger: log.Default(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// effectiveIndent returns the printer indent: zero (compact) unless pretty
// mode is enabled.
func (o options) effectiveIndent() int {
	if !o.pretty {
		return 0
	}

	return o.indent
}

// WithPretty enables or disables pretty-printed output.
// The default is compact output.
func WithPretty(enable bool) Option {
	return func(o *options) { o.pretty = enable }
}

// WithIndent sets the indent width used by pretty mode.
// Non-positive widths are ignored.
func WithIndent(indent int) Option {
	return func(o *options) {
		if indent > 0 {
			o.indent = indent
		}
	}
}

// WithEnvSubstitution enables or disables ${...} placeholder substitution
// on the raw document text before parsing. The default is disabled.
func WithEnvSubstitution(enable bool) Option {
	return func(o *options) { o.substitute = enable }
}

// WithEnviron sets the environment for placeholder substitution as
// "KEY=VALUE" entries. A nil slice (the default) reads the process
// environment at conversion time; an empty non-nil slice is a valid empty
// environment.
func WithEnviron(environ []string) Option {
	return func(o *options) { o.environ = environ }
}

// WithLogger sets the logger used for trace events during conversion.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Convert renders the YAML document(s) in input as an S-expression.
//
// The conversion is pure: identical input and options produce identical
// output, and nothing is written unless the whole pipeline succeeds.
// Multiple documents render as one enclosing untagged form listing the
// per-document forms in order.
func Convert(ctx context.Context, input string, opts ...Option) (string, error) {
	o := makeOptions(opts...)

	root, err := build(ctx, input, o)
	if err != nil {
		return "", err
	}

	return root.Render(o.effectiveIndent())
}

// Build runs substitution and parsing and returns the node tree without
// rendering it.
func Build(ctx context.Context, input string, opts ...Option) (*Node, error) {
	o := makeOptions(opts...)

	return build(ctx, input, o)
}

func build(ctx context.Context, input string, o options) (*Node, error) {
	text := input

	if o.substitute {
		var err error

		text, err = substitute(ctx, input, environMap(o.environ), o.logger)
		if err != nil {
			return nil, err
		}
	}

	file, err := parser.ParseBytes([]byte(text), 0)
	if err != nil {
		return nil, ErrParse.Wrap(err)
	}

	o.logger.TraceContext(ctx, "parsed input",
		slog.Int("documents", len(file.Docs)),
		slog.Int("bytes", len(text)),
	)

	roots := make([]*Node, 0, len(file.Docs))

	for _, doc := range file.Docs {
		// Anchors are scoped to their document.
		b := newBuilder(o.logger)

		var body ast.Node
		if doc != nil {
			body = doc.Body
		}

		root, err := b.document(ctx, body)
		if err != nil {
			return nil, err
		}

		roots = append(roots, root)
	}

	switch len(roots) {
	case 0:
		return Null(), nil

	case 1:
		return roots[0], nil

	default:
		return Form("", roots...), nil
	}
}
