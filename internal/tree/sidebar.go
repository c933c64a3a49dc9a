package tree

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sidebar markup classes consumed by the client-side loader.
const (
	ClassFolder = "sidebar-folder"
	ClassFile   = "sidebar-file"
	ClassLink   = "blog-link"
)

// RenderSidebar renders the tree as nested <li> items:
//
//	<li class="sidebar-folder"><span>Notes</span><ul>
//	  <li class="sidebar-file"><a href="#" class="blog-link" data-slug="Notes/a">A</a></li>
//	</ul></li>
//
// Text and attribute values are HTML-escaped.
func RenderSidebar(root *Node) (string, error) {
	var sb strings.Builder
	for _, n := range sidebarNodes(root, "") {
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("render sidebar: %w", err)
		}
	}
	return sb.String(), nil
}

func sidebarNodes(n *Node, indent string) []*html.Node {
	var out []*html.Node
	for _, f := range n.Folders {
		ul := element(atom.Ul)
		ul.AppendChild(text("\n"))
		for _, child := range sidebarNodes(f, indent+"  ") {
			ul.AppendChild(child)
		}
		ul.AppendChild(text(indent))

		span := element(atom.Span)
		span.AppendChild(text(f.Name))

		li := element(atom.Li, html.Attribute{Key: "class", Val: ClassFolder})
		li.AppendChild(span)
		li.AppendChild(ul)
		out = append(out, text(indent), li, text("\n"))
	}
	for _, e := range n.Files {
		a := element(atom.A,
			html.Attribute{Key: "href", Val: "#"},
			html.Attribute{Key: "class", Val: ClassLink},
			html.Attribute{Key: "data-slug", Val: e.Post.Slug},
		)
		a.AppendChild(text(e.Post.Title))

		li := element(atom.Li, html.Attribute{Key: "class", Val: ClassFile})
		li.AppendChild(a)
		out = append(out, text(indent), li, text("\n"))
	}
	return out
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
