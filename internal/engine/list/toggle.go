package list

import (
	"github.com/dshills/richlist/internal/engine/model"
)

// maxToggleRounds bounds the lift and convert loops. Each round lowers the
// nesting of at least one selected textblock, so real documents finish far
// below it. Reaching it fails the transform with ErrNoProgress.
var maxToggleRounds = 1000

// ToggleList toggles the selected textblocks into or out of a list of type
// target.
//
//   - When every selected textblock sits in a list whose innermost type is
//     target, they are lifted out of all lists and become plain paragraphs.
//     Items that followed them stay a list after them.
//   - When every selected textblock sits in a list but some lists have
//     another type, those innermost lists are converted to target. A list
//     that is only partly selected is split around the selected items.
//   - Otherwise the selected top-level blocks are wrapped: paragraphs and
//     headings become items, selected items of other lists join them, and
//     code blocks or blockquotes end a run. The result joins adjacent lists
//     of type target.
//
// A selection that starts at the very end of a textblock does not include
// that textblock.
func ToggleList(state State, roles *Roles, target *model.NodeType) (Result, error) {
	e, err := begin(state, roles)
	if err != nil {
		return Result{}, err
	}
	t := e.newToggle()
	blocks := textblocksBetween(e.tr.Doc(), e.resolve(t.from), e.resolve(t.to))
	if len(blocks) == 0 {
		return NotApplicable(ReasonNoTextblock), nil
	}

	allInList, allTarget := true, true
	for _, b := range blocks {
		list, ok := roles.listOfBlock(e.tr.Doc(), b)
		if !ok {
			allInList, allTarget = false, false
			break
		}
		if list.Type() != target {
			allTarget = false
		}
	}

	switch {
	case allInList && allTarget:
		err = e.untoggle(t)
	case allInList:
		err = e.convert(t, target)
	default:
		var wrapped bool
		wrapped, err = e.wrap(t, target)
		if err == nil && !wrapped {
			return NotApplicable(ReasonNoTextblock), nil
		}
	}
	if err != nil {
		return Result{}, err
	}
	return e.finish(), nil
}

// ToggleBulletList is ToggleList with a bullet list target.
func ToggleBulletList(state State, roles *Roles) (Result, error) {
	return ToggleList(state, roles, roles.BulletList)
}

// ToggleOrderedList is ToggleList with an ordered list target.
func ToggleOrderedList(state State, roles *Roles) (Result, error) {
	return ToggleList(state, roles, roles.OrderedList)
}

// toggleRange is the tracked range a toggle works on.
type toggleRange struct {
	from *pin
	to   *pin
}

// newToggle pins the selection range before any step is applied. A
// textblock the selection only touches at its very end, or only at its very
// start, is left out of the range.
func (e *edit) newToggle() toggleRange {
	doc := e.tr.Doc()
	from, to := e.selectionRange()
	if from < to {
		if rp, err := doc.Resolve(from); err == nil && IsAtEndOfTextblock(rp) && to > rp.End(rp.Depth) {
			if next, ok := nextTextblockStart(doc, rp.After(rp.Depth)); ok && next <= to {
				from = next
			}
		}
	}
	if from < to {
		if rp, err := doc.Resolve(to); err == nil && IsAtStartOfTextblock(rp) && from < rp.Start(rp.Depth) {
			if prev, ok := prevTextblockEnd(doc, rp.Before(rp.Depth)); ok && prev >= from {
				to = prev
			}
		}
	}
	return toggleRange{from: e.pin(from), to: e.pin(to)}
}

func nextTextblockStart(doc *model.Node, pos int) (int, bool) {
	found := -1
	doc.NodesBetween(pos, doc.ContentSize(), func(n *model.Node, p int, _ *model.Node, _ int) bool {
		if found >= 0 {
			return false
		}
		if n.IsTextblock() && p >= pos {
			found = p + 1
			return false
		}
		return true
	})
	return found, found >= 0
}

func prevTextblockEnd(doc *model.Node, pos int) (int, bool) {
	found := -1
	doc.NodesBetween(0, pos, func(n *model.Node, p int, _ *model.Node, _ int) bool {
		if n.IsTextblock() {
			if p+n.Size() <= pos {
				found = p + 1 + n.ContentSize()
			}
			return false
		}
		return true
	})
	return found, found >= 0
}

// listOfBlock returns the list holding the item whose direct child is b.
func (r *Roles) listOfBlock(doc *model.Node, b textblockAt) (*model.Node, bool) {
	if !r.IsItem(b.parent) {
		return nil, false
	}
	rp, err := doc.Resolve(b.pos + 1)
	if err != nil || rp.Depth < 3 {
		return nil, false
	}
	return rp.Node(-2), true
}

// untoggle lifts every selected textblock out of all lists.
func (e *edit) untoggle(t toggleRange) error {
	for round := 0; round < maxToggleRounds; round++ {
		doc := e.tr.Doc()
		from, to := e.resolve(t.from), e.resolve(t.to)
		ir, ok := e.firstListed(doc, from, to, nil)
		if !ok {
			return nil
		}
		if err := e.lift(ir); err != nil {
			return err
		}
	}
	return ErrNoProgress
}

// convert changes the innermost lists of the selected textblocks to target.
func (e *edit) convert(t toggleRange, target *model.NodeType) error {
	skip := func(list *model.Node) bool { return list.Type() == target }
	for round := 0; round < maxToggleRounds; round++ {
		doc := e.tr.Doc()
		from, to := e.resolve(t.from), e.resolve(t.to)
		ir, ok := e.firstListed(doc, from, to, skip)
		if !ok {
			return nil
		}
		if err := e.convertRange(ir, target); err != nil {
			return err
		}
	}
	return ErrNoProgress
}

// firstListed returns the items overlapping [from, to] in the list of the
// first selected textblock held by a list item, ignoring lists for which
// skip reports true.
func (e *edit) firstListed(doc *model.Node, from, to int, skip func(*model.Node) bool) (ItemRange, bool) {
	r := e.roles
	for _, b := range textblocksBetween(doc, from, to) {
		list, ok := r.listOfBlock(doc, b)
		if !ok || (skip != nil && skip(list)) {
			continue
		}
		if ir, ok := r.itemsOverlapping(doc, b.pos, from, to); ok {
			return ir, true
		}
	}
	return ItemRange{}, false
}

// convertRange turns the items of ir into a list of type target, splitting
// the list around them and joining neighbouring lists of type target.
func (e *edit) convertRange(ir ItemRange, target *model.NodeType) error {
	r := e.roles
	items := ir.List.Children()
	converted := make([]*model.Node, 0, ir.End-ir.Start)
	for _, item := range ir.Items() {
		converted = append(converted, r.convertItem(item))
	}

	var out []*model.Node
	if l := listOf(ir.List, items[:ir.Start]); l != nil {
		out = append(out, l)
	}
	out = append(out, target.Create(nil, converted...))
	if l := listOf(ir.List, items[ir.End:]); l != nil {
		out = append(out, l)
	}

	parent := ir.parent()
	lo := ir.indexInParent()
	hi := lo + 1
	if ir.Start == 0 && lo > 0 && parent.Child(lo-1).Type() == target {
		out = append([]*model.Node{parent.Child(lo - 1)}, out...)
		lo--
	}
	if ir.End == len(items) && hi < parent.ChildCount() && parent.Child(hi).Type() == target {
		out = append(out, parent.Child(hi))
		hi++
	}
	return e.tr.ReplaceChildren(ir.parentStart(), parent, lo, hi, r.joinAdjacentLists(out)...)
}

// wrap wraps the selected top-level blocks into lists of type target. It
// reports false, leaving the document alone, when no selected block can
// become or join an item.
func (e *edit) wrap(t toggleRange, target *model.NodeType) (bool, error) {
	r := e.roles
	doc := e.tr.Doc()
	from, to := e.resolve(t.from), e.resolve(t.to)
	rpFrom, err := doc.Resolve(from)
	if err != nil {
		return false, err
	}
	rpTo, err := doc.Resolve(to)
	if err != nil {
		return false, err
	}

	// The container is the innermost common ancestor that is not part of a
	// list or a textblock.
	d := rpFrom.SharedDepth(to)
	for d > 0 {
		n := rpFrom.Node(d)
		if !r.IsList(n) && !r.IsItem(n) && !n.IsTextblock() {
			break
		}
		d--
	}
	container := rpFrom.Node(d)
	start := rpFrom.Start(d)
	first := rpFrom.Index(d)
	last := max(first, rpTo.IndexAfter(d)-1)

	var out, run []*model.Node
	wrapped := false
	flush := func() {
		if len(run) > 0 {
			out = append(out, target.Create(nil, run...))
			run = nil
		}
	}
	for i := first; i <= last && i < container.ChildCount(); i++ {
		block := container.Child(i)
		pos := start + container.Content().OffsetOf(i)
		switch {
		case block.Type() == r.Paragraph:
			run = append(run, r.ListItem.Create(nil, block))
			wrapped = true
		case r.isPlainTextblock(block):
			p := r.paragraph(block.Content())
			e.relink(block, p, 0)
			run = append(run, r.ListItem.Create(nil, p))
			wrapped = true
		case r.IsList(block):
			// pos+2 is the first textblock: every list starts with an item
			// holding a paragraph.
			ir, ok := r.itemsOverlapping(doc, pos+2, from, to)
			if !ok {
				flush()
				out = append(out, block)
				continue
			}
			items := block.Children()
			if ir.Start > 0 {
				flush()
				out = append(out, block.CopyNodes(items[:ir.Start]...))
			}
			for _, item := range ir.Items() {
				if block.Type() != target {
					item = r.convertItem(item)
				}
				run = append(run, item)
				wrapped = true
			}
			if ir.End < len(items) {
				flush()
				out = append(out, block.CopyNodes(items[ir.End:]...))
			}
		default:
			flush()
			out = append(out, block)
		}
	}
	flush()
	if !wrapped {
		return false, nil
	}

	lo, hi := first, last+1
	if lo > 0 && container.Child(lo-1).Type() == target {
		out = append([]*model.Node{container.Child(lo - 1)}, out...)
		lo--
	}
	if hi < container.ChildCount() && container.Child(hi).Type() == target {
		out = append(out, container.Child(hi))
		hi++
	}
	return true, e.tr.ReplaceChildren(start, container, lo, hi, r.joinAdjacentLists(out)...)
}
