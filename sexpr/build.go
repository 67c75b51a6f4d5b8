package sexpr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"

	"github.com/ardnew/ysx/log"
)

// builder walks a parsed YAML document and produces the node tree.
//
// A builder is scoped to a single document: anchors declared in one document
// are not visible from another. The path slice tracks the current position
// for error reporting.
type builder struct {
	anchors map[string]ast.Node
	logger  log.Logger
	path    []string
}

func newBuilder(logger log.Logger) *builder {
	return &builder{
		anchors: make(map[string]ast.Node),
		logger:  logger,
	}
}

// document converts one document body to its root node.
// A root mapping becomes an untagged form of its entry forms; a root
// sequence or scalar renders as itself. An empty document renders as nil.
func (b *builder) document(ctx context.Context, body ast.Node) (*Node, error) {
	if body == nil {
		return Null(), nil
	}

	node, err := b.resolve(body)
	if err != nil {
		return nil, err
	}

	b.logger.TraceContext(ctx, "building document",
		slog.String("root", fmt.Sprintf("%T", node)),
	)

	switch n := node.(type) {
	case *ast.MappingNode, *ast.MappingValueNode:
		forms, err := b.mappingForms(n)
		if err != nil {
			return nil, err
		}

		return Form("", forms...), nil

	case *ast.SequenceNode:
		return b.sequence(n)

	default:
		return b.scalar(node)
	}
}

// mappingForms renders every entry of a mapping, after merge-key expansion,
// as a slice of tagged forms.
func (b *builder) mappingForms(node ast.Node) ([]*Node, error) {
	entries, err := b.entries(node)
	if err != nil {
		return nil, err
	}

	forms := make([]*Node, 0, len(entries))

	for _, mv := range entries {
		form, err := b.entry(mv)
		if err != nil {
			return nil, err
		}

		forms = append(forms, form)
	}

	return forms, nil
}

// entries flattens a mapping into its ordered entry list, expanding merge
// keys ("<<") per the YAML merge rule: merged entries appear at the merge
// position, keys declared explicitly by the mapping itself win, and the
// first occurrence of a key wins among multiple merges.
func (b *builder) entries(node ast.Node) ([]*ast.MappingValueNode, error) {
	values, err := b.mappingValues(node)
	if err != nil {
		return nil, err
	}

	explicit := make(map[string]bool, len(values))

	for _, mv := range values {
		if _, merge := mv.Key.(*ast.MergeKeyNode); merge {
			continue
		}

		key, err := b.key(mv.Key)
		if err != nil {
			return nil, err
		}

		explicit[key] = true
	}

	var flat []*ast.MappingValueNode

	seen := make(map[string]bool, len(values))

	for _, mv := range values {
		if _, merge := mv.Key.(*ast.MergeKeyNode); merge {
			merged, err := b.mergeSources(mv.Value)
			if err != nil {
				return nil, err
			}

			for _, src := range merged {
				key, err := b.key(src.Key)
				if err != nil {
					return nil, err
				}

				if explicit[key] || seen[key] {
					continue
				}

				seen[key] = true

				flat = append(flat, src)
			}

			continue
		}

		key, err := b.key(mv.Key)
		if err != nil {
			return nil, err
		}

		seen[key] = true

		flat = append(flat, mv)
	}

	return flat, nil
}

// mergeSources resolves the value of a merge key into the ordered entry
// lists of the referenced mappings. The value is either a single mapping
// (usually via alias) or a sequence of mappings.
func (b *builder) mergeSources(value ast.Node) ([]*ast.MappingValueNode, error) {
	resolved, err := b.resolve(value)
	if err != nil {
		return nil, err
	}

	if seq, ok := resolved.(*ast.SequenceNode); ok {
		var all []*ast.MappingValueNode

		for _, elem := range seq.Values {
			inner, err := b.resolve(elem)
			if err != nil {
				return nil, err
			}

			values, err := b.mappingValues(inner)
			if err != nil {
				return nil, err
			}

			all = append(all, values...)
		}

		return all, nil
	}

	return b.mappingValues(resolved)
}

// mappingValues returns the entry list of a mapping node, accepting both the
// multi-entry and the single-entry parse forms.
func (b *builder) mappingValues(node ast.Node) ([]*ast.MappingValueNode, error) {
	switch n := node.(type) {
	case *ast.MappingNode:
		return n.Values, nil

	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{n}, nil

	default:
		return nil, ErrUnsupportedValue.With(
			slog.String("path", b.location()),
			slog.String("type", fmt.Sprintf("%T", node)),
		)
	}
}

// entry renders one mapping entry as a form tagged "yaml:<key>".
// A mapping value splices its entry forms directly into the parent form; a
// sequence or scalar value contributes a single child.
func (b *builder) entry(mv *ast.MappingValueNode) (*Node, error) {
	key, err := b.key(mv.Key)
	if err != nil {
		return nil, err
	}

	b.path = append(b.path, key)
	defer func() { b.path = b.path[:len(b.path)-1] }()

	value, err := b.resolve(mv.Value)
	if err != nil {
		return nil, err
	}

	switch n := value.(type) {
	case *ast.MappingNode, *ast.MappingValueNode:
		children, err := b.mappingForms(n)
		if err != nil {
			return nil, err
		}

		return Form(keyTag(key), children...), nil

	case *ast.SequenceNode:
		child, err := b.sequence(n)
		if err != nil {
			return nil, err
		}

		return Form(keyTag(key), child), nil

	default:
		child, err := b.scalar(value)
		if err != nil {
			return nil, err
		}

		return Form(keyTag(key), child), nil
	}
}

// sequence renders a sequence as an untagged form.
// When every element is a mapping the sequence is a record sequence: each
// element becomes a form tagged "yaml:item" with the element's entries
// spliced in. Otherwise elements render individually in order.
func (b *builder) sequence(node *ast.SequenceNode) (*Node, error) {
	resolved := make([]ast.Node, len(node.Values))

	for i, elem := range node.Values {
		r, err := b.resolve(elem)
		if err != nil {
			return nil, err
		}

		resolved[i] = r
	}

	records := len(resolved) > 0

	for _, elem := range resolved {
		switch elem.(type) {
		case *ast.MappingNode, *ast.MappingValueNode:
		default:
			records = false
		}
	}

	children := make([]*Node, 0, len(resolved))

	for i, elem := range resolved {
		b.path = append(b.path, strconv.Itoa(i))

		var (
			child *Node
			err   error
		)

		if records {
			var forms []*Node

			forms, err = b.mappingForms(elem)
			if err == nil {
				child = Form(itemTag, forms...)
			}
		} else {
			child, err = b.element(elem)
		}

		b.path = b.path[:len(b.path)-1]

		if err != nil {
			return nil, err
		}

		children = append(children, child)
	}

	return Form("", children...), nil
}

// element renders one element of a mixed sequence.
// Mapping elements become untagged forms of their entry forms.
func (b *builder) element(node ast.Node) (*Node, error) {
	switch n := node.(type) {
	case *ast.MappingNode, *ast.MappingValueNode:
		forms, err := b.mappingForms(n)
		if err != nil {
			return nil, err
		}

		return Form("", forms...), nil

	case *ast.SequenceNode:
		return b.sequence(n)

	default:
		return b.scalar(node)
	}
}

// scalar renders a scalar node as an atom, honoring the declared YAML kind.
// Numeric and boolean kinds keep their verbatim source text; strings pass
// through lexical classification.
func (b *builder) scalar(node ast.Node) (*Node, error) {
	switch n := node.(type) {
	case *ast.StringNode:
		tok := n.GetToken()
		quoted := tok != nil &&
			(tok.Type == token.SingleQuoteType ||
				tok.Type == token.DoubleQuoteType)

		return classifyString(n.Value, quoted), nil

	case *ast.LiteralNode:
		// Block scalars are never plain, so they keep string form.
		return classifyString(n.Value.Value, true), nil

	case *ast.IntegerNode, *ast.FloatNode, *ast.InfinityNode, *ast.NanNode:
		return Number(node.GetToken().Value), nil

	case *ast.BoolNode:
		return Boolean(n.Value), nil

	case *ast.NullNode:
		return Null(), nil

	default:
		return nil, ErrUnsupportedValue.With(
			slog.String("path", b.location()),
			slog.String("type", fmt.Sprintf("%T", node)),
		)
	}
}

// resolve unwraps anchors, aliases, and tags until a concrete value node
// remains. Anchors register their value for later alias references.
func (b *builder) resolve(node ast.Node) (ast.Node, error) {
	for {
		switch n := node.(type) {
		case *ast.AnchorNode:
			b.anchors[n.Name.GetToken().Value] = n.Value
			node = n.Value

		case *ast.AliasNode:
			name := n.Value.GetToken().Value

			anchored, ok := b.anchors[name]
			if !ok {
				return nil, ErrUnknownAlias.With(
					slog.String("path", b.location()),
					slog.String("alias", name),
				)
			}

			node = anchored

		case *ast.TagNode:
			node = n.Value

		default:
			return node, nil
		}
	}
}

// key extracts the verbatim text of a mapping key.
func (b *builder) key(node ast.MapKeyNode) (string, error) {
	resolved, err := b.resolve(node)
	if err != nil {
		return "", err
	}

	switch n := resolved.(type) {
	case *ast.StringNode:
		return n.Value, nil

	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.NullNode:
		return resolved.GetToken().Value, nil

	default:
		return "", ErrUnsupportedValue.With(
			slog.String("path", b.location()),
			slog.String("type", fmt.Sprintf("%T", resolved)),
		)
	}
}

// location formats the current key path for error attributes, e.g. "$.a.0.b".
func (b *builder) location() string {
	if len(b.path) == 0 {
		return "$"
	}

	return "$." + strings.Join(b.path, ".")
}
