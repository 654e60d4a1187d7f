package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// Write pretty-prints expr to w in the layout KiCad uses: a list whose
// children are all atoms stays on one line, any other list puts each nested
// list on its own indented line.
func Write(w io.Writer, expr Sexp) error {
	bw := bufio.NewWriter(w)
	writeExpr(bw, expr, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

func writeExpr(w *bufio.Writer, expr Sexp, depth int) {
	list, ok := expr.(*List)
	if !ok || isFlat(list) {
		w.WriteString(expr.String())
		return
	}

	w.WriteByte('(')
	for i, elem := range list.elements {
		if _, nested := elem.(*List); nested && i > 0 {
			w.WriteByte('\n')
			w.WriteString(strings.Repeat("  ", depth+1))
		} else if i > 0 {
			w.WriteByte(' ')
		}
		writeExpr(w, elem, depth+1)
	}
	w.WriteByte(')')
}

// isFlat reports whether a list is short enough to stay on a single line.
func isFlat(l *List) bool {
	for _, elem := range l.elements {
		sub, ok := elem.(*List)
		if !ok {
			continue
		}
		for _, inner := range sub.elements {
			if _, nested := inner.(*List); nested {
				return false
			}
		}
		if len(l.elements) > 4 {
			return false
		}
	}
	return true
}
