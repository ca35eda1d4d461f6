package sexp

import (
	"bufio"
	"io"
	"strings"
)

// Write serializes a node tree back to KiCad-style text: lists with no
// list children stay on one line, nested lists go one per line with tab
// indentation. The output is not byte-identical to the source file but
// stays loadable by the CAD tool.
func Write(w io.Writer, root *Node) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, root, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

func writeNode(w *bufio.Writer, n *Node, depth int) {
	switch n.Kind {
	case KindSymbol:
		w.WriteString(n.Value)
		return
	case KindString:
		w.WriteString(quote(n.Value))
		return
	}

	if !hasListChild(n) {
		w.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				w.WriteByte(' ')
			}
			writeNode(w, c, depth+1)
		}
		w.WriteByte(')')
		return
	}

	// Leading atoms share the opening line, each list child gets its own.
	w.WriteByte('(')
	i := 0
	for ; i < len(n.Children) && n.Children[i].Kind != KindList; i++ {
		if i > 0 {
			w.WriteByte(' ')
		}
		writeNode(w, n.Children[i], depth+1)
	}
	for ; i < len(n.Children); i++ {
		w.WriteByte('\n')
		w.WriteString(strings.Repeat("\t", depth+1))
		writeNode(w, n.Children[i], depth+1)
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat("\t", depth))
	w.WriteByte(')')
}

func hasListChild(n *Node) bool {
	for _, c := range n.Children {
		if c.Kind == KindList {
			return true
		}
	}
	return false
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
