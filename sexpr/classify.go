package sexpr

import (
	"regexp"
	"strings"
)

const (
	// tagPrefix namespaces the form tags derived from mapping keys.
	tagPrefix = "yaml"

	// dateTag is the form tag for ISO calendar dates.
	dateTag = "make-date"

	// itemTag is the form tag wrapping each element of a record sequence.
	itemTag = tagPrefix + ":item"
)

// isoDatePattern matches exactly YYYY-MM-DD with capture groups for each
// component. Dates are recognized on every string scalar, quoted or not.
var isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// numberPattern matches an optionally signed integer or decimal literal.
// It decides whether an unquoted string scalar renders as a number.
var numberPattern = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)

// keyTag builds the form tag for a mapping entry key.
// Keys are used verbatim; no escaping or normalization is applied.
func keyTag(key string) string {
	return tagPrefix + ":" + key
}

// classifyString converts a string scalar to its node rendering.
// quoted reports whether the scalar was written with single or double quotes
// in the source document: quoting suppresses numeric reinterpretation but
// not date recognition.
func classifyString(s string, quoted bool) *Node {
	if n := dateNode(s); n != nil {
		return n
	}

	if !quoted && numberPattern.MatchString(s) {
		return Number(s)
	}

	if isBareSymbol(s) {
		return Symbol(s)
	}

	return String(quoteString(s))
}

// dateNode returns a (make-date YYYY MM DD) form when s is an ISO calendar
// date, or nil otherwise. The components keep their zero-padded source text.
func dateNode(s string) *Node {
	m := isoDatePattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	return Form(dateTag, Number(m[1]), Number(m[2]), Number(m[3]))
}

// isBareSymbol reports whether s can render as a bare quoted symbol.
// Symbols are non-empty, contain only letters, digits, and the punctuation
// set "-_./+", and do not start with a digit.
func isBareSymbol(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r == '-', r == '_', r == '.', r == '/', r == '+':
		default:
			return false
		}
	}

	return true
}

// quoteString renders s as a double-quoted string literal, escaping
// backslashes, double quotes, and newlines.
func quoteString(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}
