package sexpr

// Kind discriminates the variants of [Node].
type Kind int

const (
	// KindInvalid is the zero value. It is not a valid node kind.
	KindInvalid Kind = iota

	// KindSymbol is a quoted Lisp symbol, rendered as 'text.
	KindSymbol

	// KindString is a double-quoted string literal.
	KindString

	// KindNumber is a numeric literal, rendered verbatim.
	KindNumber

	// KindBoolean is #t or #f.
	KindBoolean

	// KindNull is the symbol 'nil.
	KindNull

	// KindForm is a parenthesized form with an optional tag and children.
	KindForm
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindForm:
		return "form"
	default:
		return "invalid"
	}
}

// Node is a single S-expression node.
//
// It is a tagged variant: Kind selects which fields are meaningful.
// Atom kinds (Symbol, String, Number, Boolean, Null) carry their rendered
// text in Text. KindForm carries an optional Tag (the first element of the
// form, e.g. "yaml:key" or "make-date") and its children in List; an empty
// Tag is an untagged form whose children follow the opening parenthesis
// directly.
type Node struct {
	Text string
	Tag  string
	List []*Node
	Kind Kind
}

// Symbol creates a quoted symbol node.
func Symbol(text string) *Node { return &Node{Kind: KindSymbol, Text: "'" + text} }

// String creates a string literal node from already-quoted text.
func String(quoted string) *Node { return &Node{Kind: KindString, Text: quoted} }

// Number creates a numeric literal node with the given verbatim text.
func Number(text string) *Node { return &Node{Kind: KindNumber, Text: text} }

// Boolean creates a boolean node.
func Boolean(value bool) *Node {
	text := "#f"
	if value {
		text = "#t"
	}

	return &Node{Kind: KindBoolean, Text: text}
}

// Null creates a null node.
func Null() *Node { return &Node{Kind: KindNull, Text: "'nil"} }

// Form creates a form node with the given tag and children.
// An empty tag produces an untagged form.
func Form(tag string, children ...*Node) *Node {
	return &Node{Kind: KindForm, Tag: tag, List: children}
}

// IsAtom reports whether the node is an atom (any kind except form).
func (n *Node) IsAtom() bool {
	return n.Kind != KindForm && n.Kind != KindInvalid
}
