package list

import "github.com/dshills/richlist/internal/engine/model"

// appendNested appends items to the trailing nested list of item when that
// list has type listType, or nests them in a new list of that type.
func (r *Roles) appendNested(item *model.Node, listType *model.NodeType, items []*model.Node) *model.Node {
	if len(items) == 0 {
		return item
	}
	children := item.Children()
	if last := item.LastChild(); last != nil && last.Type() == listType {
		joined := last.CopyNodes(append(last.Children(), items...)...)
		children[len(children)-1] = joined
		return item.CopyNodes(children...)
	}
	return item.CopyNodes(append(children, listType.Create(nil, items...))...)
}

// joinAdjacentLists merges runs of consecutive lists of the same type. The
// first list of each run keeps its attributes.
func (r *Roles) joinAdjacentLists(nodes []*model.Node) []*model.Node {
	out := make([]*model.Node, 0, len(nodes))
	for _, n := range nodes {
		if last := len(out) - 1; last >= 0 && r.IsList(n) && out[last].Type() == n.Type() {
			prev := out[last]
			out[last] = prev.CopyNodes(append(prev.Children(), n.Children()...)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

// unwrapItems returns the children of every item, in order.
func unwrapItems(items []*model.Node) []*model.Node {
	var out []*model.Node
	for _, item := range items {
		out = append(out, item.Children()...)
	}
	return out
}

// withoutChild returns parent with its child at index replaced by
// replacement, which may be nil to drop the child.
func withoutChild(parent *model.Node, index int, replacement *model.Node) *model.Node {
	if replacement == nil {
		return parent.Copy(parent.Content().Splice(index, index+1))
	}
	return parent.Copy(parent.Content().ReplaceChild(index, replacement))
}

// listOf returns a copy of list holding items, or nil when items is empty.
func listOf(list *model.Node, items []*model.Node) *model.Node {
	if len(items) == 0 {
		return nil
	}
	return list.CopyNodes(items...)
}

// mergeTarget is the textblock that received merged inline content.
type mergeTarget struct {
	block  *model.Node
	offset int
}

// mergeIntoTail appends inline content to the textblock that visually ends
// node (a list or a list item), descending into trailing nested lists.
// extra blocks are appended to the item holding that textblock.
func (r *Roles) mergeIntoTail(node *model.Node, inline model.Fragment, extra []*model.Node) (*model.Node, mergeTarget, bool) {
	last := node.LastChild()
	if last == nil {
		return nil, mergeTarget{}, false
	}
	index := node.ChildCount() - 1
	switch {
	case r.IsList(node):
		item, target, ok := r.mergeIntoTail(last, inline, extra)
		if !ok {
			return nil, mergeTarget{}, false
		}
		return withoutChild(node, index, item), target, true
	case r.IsItem(node) && r.IsList(last):
		list, target, ok := r.mergeIntoTail(last, inline, extra)
		if !ok {
			return nil, mergeTarget{}, false
		}
		return withoutChild(node, index, list), target, true
	case r.IsItem(node) && r.isPlainTextblock(last):
		merged := last.Copy(last.Content().Append(inline))
		children := node.Children()
		children[index] = merged
		children = append(children, extra...)
		return node.CopyNodes(children...), mergeTarget{block: merged, offset: last.ContentSize()}, true
	}
	return nil, mergeTarget{}, false
}
