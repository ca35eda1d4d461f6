// Package sexp provides a streaming S-expression layer for KiCad files
// that survives a parse -> edit -> write round trip. Nodes keep track of
// whether an atom was quoted in the source so rewritten files stay
// loadable by the CAD tool.
package sexp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind discriminates node types.
type Kind int

const (
	KindList   Kind = iota // ( ... )
	KindSymbol             // bare atom: identifiers, numbers
	KindString             // quoted atom
)

// Node is one element of the S-expression tree. Lists own their
// children; atoms carry their text in Value.
type Node struct {
	Kind     Kind
	Value    string
	Children []*Node
}

// Sym builds a bare symbol atom.
func Sym(v string) *Node { return &Node{Kind: KindSymbol, Value: v} }

// Str builds a quoted string atom.
func Str(v string) *Node { return &Node{Kind: KindString, Value: v} }

// Num builds a symbol atom holding a formatted number.
func Num(v float64) *Node { return Sym(FormatFloat(v)) }

// List builds a keyed list node: (name children...).
func List(name string, children ...*Node) *Node {
	n := &Node{Kind: KindList, Children: []*Node{Sym(name)}}
	n.Children = append(n.Children, children...)
	return n
}

// FormatFloat renders a coordinate the way KiCad writes them: fixed
// point with up to six decimals, trailing zeros trimmed.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

// IsList reports whether the node is a list.
func (n *Node) IsList() bool { return n != nil && n.Kind == KindList }

// Name returns the leading symbol of a list (the node key), or the
// atom's own value.
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	if n.Kind != KindList {
		return n.Value
	}
	if len(n.Children) == 0 || n.Children[0].Kind == KindList {
		return ""
	}
	return n.Children[0].Value
}

// Len returns the child count of a list.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// Get returns the child at index i, or nil when out of range.
// Index 0 is the list key.
func (n *Node) Get(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Find returns the first child list keyed by name.
func (n *Node) Find(name string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, c := range n.Children {
		if c.Kind == KindList && c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// FindAll returns every child list keyed by name, in document order.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	if n == nil {
		return out
	}
	for _, c := range n.Children {
		if c.Kind == KindList && c.Name() == name {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the atom text at index i.
func (n *Node) Text(i int) (string, error) {
	c := n.Get(i)
	if c == nil {
		return "", fmt.Errorf("index %d out of bounds (length %d)", i, n.Len())
	}
	if c.Kind == KindList {
		return "", fmt.Errorf("expected atom at index %d, got list", i)
	}
	return c.Value, nil
}

// Float returns the numeric atom at index i.
func (n *Node) Float(i int) (float64, error) {
	s, err := n.Text(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", s, err)
	}
	return v, nil
}

// Int returns the integer atom at index i.
func (n *Node) Int(i int) (int, error) {
	s, err := n.Text(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", s, err)
	}
	return v, nil
}

// SetFloat overwrites the atom at index i with a formatted number,
// appending padding atoms when the list is shorter than i.
func (n *Node) SetFloat(i int, v float64) {
	for n.Len() <= i {
		n.Children = append(n.Children, Sym("0"))
	}
	n.Children[i] = Num(v)
}

// Append adds children to the end of a list.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Parse reads a single top-level S-expression from r.
func Parse(r io.Reader) (*Node, error) {
	p := newParser(r)
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, fmt.Errorf("empty input")
	}
	return node, nil
}

// ParseString parses a single S-expression from a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}
