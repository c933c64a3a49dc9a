package render

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Minify drops comments and whitespace-only text between tags. Whitespace
// between two inline siblings ("<b>a</b> <i>b</i>") collapses to one space
// instead, so words stay apart. Content of pre, textarea, script and style
// elements is left untouched.
func Minify(doc []byte) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse for minify: %w", err)
	}
	strip(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("render minified: %w", err)
	}
	return buf.Bytes(), nil
}

func strip(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case blankText(c):
			if inline(meaningfulSibling(c, true)) && inline(meaningfulSibling(c, false)) {
				c.Data = " "
			} else {
				n.RemoveChild(c)
			}
		case c.Type == html.ElementNode && preserved(c.DataAtom):
		default:
			strip(c)
		}
		c = next
	}
}

func blankText(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

// meaningfulSibling returns the nearest sibling that is neither a comment nor
// blank text.
func meaningfulSibling(n *html.Node, before bool) *html.Node {
	for {
		if before {
			n = n.PrevSibling
		} else {
			n = n.NextSibling
		}
		if n == nil || (n.Type != html.CommentNode && !blankText(n)) {
			return n
		}
	}
}

func inline(n *html.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		return !blockAtoms[n.DataAtom]
	}
	return false
}

var blockAtoms = map[atom.Atom]bool{
	atom.Html: true, atom.Head: true, atom.Body: true, atom.Title: true,
	atom.Meta: true, atom.Link: true, atom.Script: true, atom.Style: true,
	atom.Noscript: true, atom.Template: true, atom.Base: true,
	atom.Header: true, atom.Footer: true, atom.Main: true, atom.Nav: true,
	atom.Aside: true, atom.Section: true, atom.Article: true, atom.Div: true,
	atom.P: true, atom.Pre: true, atom.Blockquote: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.Table: true, atom.Thead: true, atom.Tbody: true, atom.Tfoot: true,
	atom.Tr: true, atom.Th: true, atom.Td: true, atom.Caption: true,
	atom.Figure: true, atom.Figcaption: true, atom.Details: true, atom.Summary: true,
	atom.Form: true, atom.Fieldset: true, atom.Br: true,
}

func preserved(a atom.Atom) bool {
	switch a {
	case atom.Pre, atom.Textarea, atom.Script, atom.Style:
		return true
	}
	return false
}
