package tree

import "slices"

func (o *ordering) sortNodes(nodes []*Node) {
	slices.SortFunc(nodes, func(a, b *Node) int { return o.compare(a.Name, b.Name) })
}

func (o *ordering) sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int { return o.compare(a.Name, b.Name) })
}
