package sexpr

import (
	"fmt"
	"log/slog"
)

// Error is the base error type for all conversion errors.
// It carries structured attributes for logging and supports error wrapping.
type Error struct {
	err   error
	msg   string
	attrs []slog.Attr
}

// NewError creates a new Error with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error returns the error message, including any wrapped error.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}

	return e.msg
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel as e.
// Two Errors match when they share the same message, which lets wrapped and
// attributed copies satisfy errors.Is against their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.msg == t.msg
}

// Wrap returns a copy of e that wraps err.
func (e *Error) Wrap(err error) *Error {
	return &Error{err: err, msg: e.msg, attrs: e.attrs}
}

// With returns a copy of e with the given attributes appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	combined := make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	combined = append(combined, e.attrs...)
	combined = append(combined, attrs...)

	return &Error{err: e.err, msg: e.msg, attrs: combined}
}

// LogValue implements [slog.LogValuer] so that errors logged via slog carry
// their attributes as structured fields.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)
	attrs = append(attrs, slog.String("msg", e.msg))

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	attrs = append(attrs, e.attrs...)

	return slog.GroupValue(attrs...)
}

// Sentinel errors returned by the conversion pipeline.
// Each call site attaches context via [Error.With] and [Error.Wrap].
var (
	// ErrReadInput indicates the input source could not be read.
	ErrReadInput = NewError("cannot read input")

	// ErrParse indicates the input is not well-formed YAML.
	ErrParse = NewError("cannot parse input")

	// ErrMissingVariable indicates a ${NAME} placeholder references an
	// environment variable that is not defined.
	ErrMissingVariable = NewError("undefined environment variable")

	// ErrExprCompile indicates an expression placeholder failed to compile.
	ErrExprCompile = NewError("cannot compile placeholder expression")

	// ErrExprEvaluate indicates an expression placeholder failed to evaluate.
	ErrExprEvaluate = NewError("cannot evaluate placeholder expression")

	// ErrUnsupportedValue indicates the document contains a YAML construct
	// with no S-expression rendering.
	ErrUnsupportedValue = NewError("unsupported value")

	// ErrUnknownAlias indicates an alias references an anchor that was not
	// declared earlier in the same document.
	ErrUnknownAlias = NewError("unknown alias")

	// ErrMalformedNode indicates the printer received a node of an
	// undefined kind. It signals an internal defect, not bad input.
	ErrMalformedNode = NewError("malformed node")
)
