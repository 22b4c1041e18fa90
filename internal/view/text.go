package view

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteText writes nodes as indented plain text, two spaces per depth, with
// events numbered within their list.
func WriteText(w io.Writer, nodes []Node) error {
	bw := bufio.NewWriter(w)
	for i, n := range nodes {
		if n.Kind == NodeRoom && i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw, PlainLine(n)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// PlainLine returns the unstyled text of a node, indentation included.
func PlainLine(n Node) string {
	indent := strings.Repeat("  ", n.Depth)
	if n.Kind == NodeEvent {
		return fmt.Sprintf("%s%d. %s", indent, n.Ordinal, n.Line.String())
	}
	return indent + n.Text
}
