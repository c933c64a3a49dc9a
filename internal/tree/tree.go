// Package tree rebuilds the folder hierarchy implied by post slugs.
//
// The tree is derived, never persisted, and its order is a pure function of
// the slug set: at every level folders come before files, and each group is
// sorted by name with locale-aware collation.
package tree

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/vaultblog/internal/post"
	"git.home.luguber.info/inful/vaultblog/internal/slug"
)

// Node is a folder. The root node has an empty Name and Path.
type Node struct {
	Name    string
	Path    string // slash-joined folder path from the root
	Folders []*Node
	Files   []Entry
}

// Entry is a post placed in a folder under its leaf slug segment.
type Entry struct {
	Name string
	Post *post.Post
}

// Build arranges posts into a sorted folder tree. lang is a BCP-47 tag
// selecting the collation; unknown or empty tags fall back to the root collation.
func Build(posts []*post.Post, lang string) *Node {
	root := &Node{}
	index := map[string]*Node{"": root}

	for _, p := range posts {
		folders, leaf := slug.Segments(p.Slug)
		parent := root
		for i := range folders {
			key := strings.Join(folders[:i+1], "/")
			child, ok := index[key]
			if !ok {
				child = &Node{Name: folders[i], Path: key}
				index[key] = child
				parent.Folders = append(parent.Folders, child)
			}
			parent = child
		}
		parent.Files = append(parent.Files, Entry{Name: leaf, Post: p})
	}

	root.sort(newOrdering(lang))
	return root
}

// PostCount returns the number of posts at or below n.
func (n *Node) PostCount() int {
	count := len(n.Files)
	for _, f := range n.Folders {
		count += f.PostCount()
	}
	return count
}

// Walk visits folders depth-first in render order. enter and leave bracket
// each folder below the root; file is called for each entry after the
// folder's subfolders. Any callback may be nil.
func (n *Node) Walk(enter func(*Node, int), leave func(*Node, int), file func(Entry, int)) {
	n.walk(0, enter, leave, file)
}

func (n *Node) walk(depth int, enter func(*Node, int), leave func(*Node, int), file func(Entry, int)) {
	for _, f := range n.Folders {
		if enter != nil {
			enter(f, depth)
		}
		f.walk(depth+1, enter, leave, file)
		if leave != nil {
			leave(f, depth)
		}
	}
	if file != nil {
		for _, e := range n.Files {
			file(e, depth)
		}
	}
}

func (n *Node) sort(o *ordering) {
	o.sortNodes(n.Folders)
	o.sortEntries(n.Files)
	for _, f := range n.Folders {
		f.sort(o)
	}
}

// ordering compares names with a collator; byte order breaks collation ties
// so distinct names never compare equal.
type ordering struct {
	c *collate.Collator
}

func newOrdering(lang string) *ordering {
	tag := language.Und
	if lang != "" {
		if t, err := language.Parse(lang); err == nil {
			tag = t
		}
	}
	return &ordering{c: collate.New(tag)}
}

func (o *ordering) compare(a, b string) int {
	if c := o.c.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
