package tree

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented plain-text outline of the tree.
func Fprint(w io.Writer, root *Node) error {
	var err error
	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	root.Walk(
		func(n *Node, depth int) {
			write("%s%s/ (%d)\n", strings.Repeat("  ", depth), n.Name, n.PostCount())
		},
		nil,
		func(e Entry, depth int) {
			write("%s%s  [%s]\n", strings.Repeat("  ", depth), e.Post.Title, e.Post.Slug)
		},
	)
	return err
}
