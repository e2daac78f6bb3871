package asm

// Drawable is one item of the collapsed graph: either an unclaimed node or a
// whole group. The only implementations are [NodeItem] and [GroupItem].
type Drawable interface {
	drawable()
}

// NodeItem is a node that no group claimed.
type NodeItem struct {
	ID NodeID
}

// GroupItem is a group drawn as one opaque box.
type GroupItem struct {
	ID GroupID
}

func (NodeItem) drawable()  {}
func (GroupItem) drawable() {}

// ItemOf returns the drawable item that contains the node: its group when it
// is claimed, the node itself otherwise.
func (g *Graph) ItemOf(id NodeID) Drawable {
	if gid := g.nodes[id].Group; gid != NoGroup {
		return GroupItem{ID: gid}
	}
	return NodeItem{ID: id}
}

// Members returns the nodes a drawable item stands for.
func (g *Graph) Members(item Drawable) []NodeID {
	switch it := item.(type) {
	case NodeItem:
		return []NodeID{it.ID}
	case GroupItem:
		return g.groups[it.ID].Members
	default:
		panic("asm: unknown drawable item")
	}
}

// ItemName returns the name under which an item is laid out: the node name
// for nodes and the group name for groups.
func (g *Graph) ItemName(item Drawable) string {
	switch it := item.(type) {
	case NodeItem:
		return g.nodes[it.ID].Name
	case GroupItem:
		return g.groups[it.ID].Name
	default:
		panic("asm: unknown drawable item")
	}
}

// Drawables returns every group in creation order followed by every
// unclaimed node in arena order.
func (g *Graph) Drawables() []Drawable {
	items := make([]Drawable, 0, len(g.groups)+len(g.nodes))
	for i := range g.groups {
		items = append(items, GroupItem{ID: GroupID(i)})
	}
	for i := range g.nodes {
		if g.nodes[i].Group == NoGroup {
			items = append(items, NodeItem{ID: NodeID(i)})
		}
	}
	return items
}
