package list

import (
	"github.com/dshills/richlist/internal/engine/model"
)

// Direction selects a neighbour.
type Direction int

// Directions for sibling queries and moves.
const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// NodeWithPos is a node together with the position before it.
type NodeWithPos struct {
	Node *model.Node
	Pos  int
}

// Resolve resolves pos in doc. It exists so callers of this package need
// not reach into model for the common case.
func Resolve(doc *model.Node, pos int) (*model.ResolvedPos, error) {
	return doc.Resolve(pos)
}

// DepthOfNearestListItem returns the depth of the innermost list item
// around rp.
func (r *Roles) DepthOfNearestListItem(rp *model.ResolvedPos) (int, bool) {
	for d := rp.Depth; d > 0; d-- {
		if r.IsItem(rp.Node(d)) {
			return d, true
		}
	}
	return 0, false
}

// IsAtStartOfTextblock reports whether rp is at the start of a textblock.
func IsAtStartOfTextblock(rp *model.ResolvedPos) bool {
	return rp.Parent().IsTextblock() && rp.ParentOffset == 0
}

// IsAtEndOfTextblock reports whether rp is at the end of a textblock.
func IsAtEndOfTextblock(rp *model.ResolvedPos) bool {
	return rp.Parent().IsTextblock() && rp.ParentOffset == rp.Parent().ContentSize()
}

// IsEmptyTextblock reports whether n is a textblock without content.
func IsEmptyTextblock(n *model.Node) bool {
	return n != nil && n.IsTextblock() && n.ContentSize() == 0
}

// IsEmptyItem reports whether item holds nothing but one empty textblock.
func IsEmptyItem(item *model.Node) bool {
	return item.ChildCount() == 1 && IsEmptyTextblock(item.FirstChild())
}

// SiblingListItem returns the item next to the item at itemPos.
func (r *Roles) SiblingListItem(doc *model.Node, itemPos int, dir Direction) (NodeWithPos, bool) {
	rp, err := doc.Resolve(itemPos)
	if err != nil {
		return NodeWithPos{}, false
	}
	list := rp.Parent()
	if !r.IsList(list) || !r.IsItem(rp.NodeAfter()) {
		return NodeWithPos{}, false
	}
	index := rp.Index(rp.Depth)
	switch dir {
	case Up:
		if index == 0 {
			return NodeWithPos{}, false
		}
		sib := list.Child(index - 1)
		return NodeWithPos{Node: sib, Pos: itemPos - sib.Size()}, true
	default:
		if index+1 >= list.ChildCount() {
			return NodeWithPos{}, false
		}
		return NodeWithPos{Node: list.Child(index + 1), Pos: itemPos + list.Child(index).Size()}, true
	}
}

// ListLevel returns the number of lists among the ancestors of rp up to and
// including depth.
func (r *Roles) ListLevel(rp *model.ResolvedPos, depth int) int {
	level := 0
	for d := 0; d <= depth && d <= rp.Depth; d++ {
		if r.IsList(rp.Node(d)) {
			level++
		}
	}
	return level
}

// SubtreeListDepth returns how many levels of lists are nested inside node.
func (r *Roles) SubtreeListDepth(node *model.Node) int {
	deepest := 0
	for _, child := range node.Children() {
		d := r.SubtreeListDepth(child)
		if r.IsList(child) {
			d++
		}
		deepest = max(deepest, d)
	}
	return deepest
}

// ItemRange is a run of sibling items inside one list.
type ItemRange struct {
	// List is the list holding the items.
	List *model.Node
	// Start and End delimit the items as child indices [Start, End).
	Start, End int

	rp    *model.ResolvedPos
	depth int
}

// Items returns the items in the range.
func (ir ItemRange) Items() []*model.Node {
	return ir.List.Children()[ir.Start:ir.End]
}

// ListPos returns the position before the list.
func (ir ItemRange) ListPos() int {
	return ir.rp.Before(ir.depth)
}

// Depth returns the depth of the list in the document tree.
func (ir ItemRange) Depth() int {
	return ir.depth
}

func (ir ItemRange) listStart() int      { return ir.rp.Start(ir.depth) }
func (ir ItemRange) parent() *model.Node { return ir.rp.Node(ir.depth - 1) }
func (ir ItemRange) parentStart() int    { return ir.rp.Start(ir.depth - 1) }
func (ir ItemRange) indexInParent() int  { return ir.rp.Index(ir.depth - 1) }

// nested reports whether the list sits inside a list item.
func (ir ItemRange) nested(r *Roles) bool {
	return ir.depth >= 3 && r.IsItem(ir.parent())
}

// SelectedItems returns the items of the innermost list that contains both
// from and to.
func (r *Roles) SelectedItems(doc *model.Node, from, to int) (ItemRange, bool) {
	rpFrom, err := doc.Resolve(from)
	if err != nil {
		return ItemRange{}, false
	}
	rpTo, err := doc.Resolve(to)
	if err != nil {
		return ItemRange{}, false
	}
	nr, ok := rpFrom.BlockRange(rpTo, r.IsList)
	if !ok {
		return ItemRange{}, false
	}
	if nr.From.Pos > nr.To.Pos {
		nr.From, nr.To = nr.To, nr.From
	}
	ir := ItemRange{List: nr.Parent(), Start: nr.StartIndex(), End: nr.EndIndex(), rp: nr.From, depth: nr.Depth}
	if ir.End <= ir.Start || ir.End > ir.List.ChildCount() {
		return ItemRange{}, false
	}
	return ir, true
}

// itemsOverlapping returns the items of the list around the textblock at
// blockPos that overlap [from, to].
func (r *Roles) itemsOverlapping(doc *model.Node, blockPos, from, to int) (ItemRange, bool) {
	rp, err := doc.Resolve(blockPos + 1)
	if err != nil || rp.Depth < 3 || !r.IsItem(rp.Node(-1)) {
		return ItemRange{}, false
	}
	depth := rp.Depth - 2
	list := rp.Node(depth)
	start := rp.Start(depth)
	lo := max(from, start) - start
	hi := min(to, rp.End(depth)) - start
	first, _ := list.Content().FindIndex(lo)
	last, offset := list.Content().FindIndex(hi)
	end := last + 1
	if offset == hi && hi > lo {
		end = last
	}
	end = min(max(end, first+1), list.ChildCount())
	return ItemRange{List: list, Start: first, End: end, rp: rp, depth: depth}, true
}

// itemContext describes a textblock that is a direct child of a list item.
type itemContext struct {
	rp         *model.ResolvedPos
	block      *model.Node
	blockIndex int
	item       *model.Node
	itemIndex  int
	list       *model.Node
	listDepth  int
}

// itemAt returns the item context around rp, which must be inside a
// textblock held directly by a list item.
func (r *Roles) itemAt(rp *model.ResolvedPos) (itemContext, bool) {
	if rp.Depth < 3 || !rp.Parent().IsTextblock() || !r.IsItem(rp.Node(-1)) || !r.IsList(rp.Node(-2)) {
		return itemContext{}, false
	}
	return itemContext{
		rp:         rp,
		block:      rp.Parent(),
		blockIndex: rp.Index(-1),
		item:       rp.Node(-1),
		itemIndex:  rp.Index(-2),
		list:       rp.Node(-2),
		listDepth:  rp.Depth - 2,
	}, true
}

func (ic itemContext) listStart() int { return ic.rp.Start(ic.listDepth) }

func (ic itemContext) nested(r *Roles) bool {
	return ic.listDepth >= 3 && r.IsItem(ic.rp.Node(ic.listDepth-1))
}

// itemRange returns the range holding just this item.
func (ic itemContext) itemRange() ItemRange {
	return ItemRange{List: ic.list, Start: ic.itemIndex, End: ic.itemIndex + 1, rp: ic.rp, depth: ic.listDepth}
}

// textblockAt is a textblock with its position.
type textblockAt struct {
	node   *model.Node
	pos    int
	parent *model.Node
}

// textblocksBetween returns the textblocks overlapping [from, to] in
// document order. A collapsed range yields the textblock around it.
func textblocksBetween(doc *model.Node, from, to int) []textblockAt {
	var out []textblockAt
	doc.NodesBetween(from, to, func(node *model.Node, pos int, parent *model.Node, _ int) bool {
		if node.IsTextblock() {
			out = append(out, textblockAt{node: node, pos: pos, parent: parent})
			return false
		}
		return true
	})
	return out
}
