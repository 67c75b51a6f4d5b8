package sexpr

import (
	"io"
	"log/slog"
	"strings"
)

// Print writes the S-expression rendering of the node tree rooted at n.
//
// An indent of 0 selects compact mode: a single line with elements separated
// by single spaces. A positive indent selects pretty mode: atoms stay on the
// line of their enclosing form, and nested forms each begin on a new line
// indented by indent columns past the column of the parent's opening
// parenthesis. The closing parenthesis shares the last child's line. Output
// is byte-stable across repeated prints of the same tree.
func (n *Node) Print(w io.Writer, indent int) error {
	text, err := n.render(indent)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, text)

	return err
}

// Render returns the S-expression rendering of the node tree as a string.
// See [Node.Print] for the indent semantics.
func (n *Node) Render(indent int) (string, error) {
	return n.render(indent)
}

func (n *Node) render(indent int) (string, error) {
	p := printer{indent: indent}

	if err := p.node(n, 0); err != nil {
		return "", err
	}

	return p.out.String(), nil
}

type printer struct {
	out    strings.Builder
	indent int
}

// node emits one node. col is the column at which the node begins, used to
// place the children of pretty-printed forms.
func (p *printer) node(n *Node, col int) error {
	switch n.Kind {
	case KindSymbol, KindString, KindNumber, KindBoolean, KindNull:
		p.out.WriteString(n.Text)

		return nil

	case KindForm:
		return p.form(n, col)

	default:
		return ErrMalformedNode.With(slog.String("kind", n.Kind.String()))
	}
}

func (p *printer) form(n *Node, col int) error {
	p.out.WriteByte('(')

	inner := col + p.indent

	pending := n.List

	if n.Tag != "" {
		p.out.WriteString(n.Tag)
	} else if len(pending) > 0 {
		// The first child of an untagged form sits in the tag position,
		// directly after the opening parenthesis.
		if err := p.node(pending[0], col+1); err != nil {
			return err
		}

		pending = pending[1:]
	}

	for _, child := range pending {
		if p.indent > 0 && child.Kind == KindForm {
			p.out.WriteByte('\n')
			p.out.WriteString(strings.Repeat(" ", inner))

			if err := p.form(child, inner); err != nil {
				return err
			}

			continue
		}

		p.out.WriteByte(' ')

		if err := p.node(child, inner); err != nil {
			return err
		}
	}

	p.out.WriteByte(')')

	return nil
}
