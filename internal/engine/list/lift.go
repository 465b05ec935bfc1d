package list

import "github.com/dshills/richlist/internal/engine/model"

// LiftListItem outdents the selected list items by one level.
//
// Items of a nested list become siblings following their parent item, and
// the items that followed them in the nested list move along as a nested
// list under the last lifted item. Items of a top-level list are unwrapped
// into plain blocks; the items that followed them stay a list of the
// original type after those blocks.
func LiftListItem(state State, roles *Roles) (Result, error) {
	e, err := begin(state, roles)
	if err != nil {
		return Result{}, err
	}
	from, to := e.selectionRange()
	ir, ok := roles.SelectedItems(e.tr.Doc(), from, to)
	if !ok {
		return NotApplicable(ReasonNotInList), nil
	}
	if err := e.lift(ir); err != nil {
		return Result{}, err
	}
	return e.finish(), nil
}

// lift outdents the items of ir by one level.
func (e *edit) lift(ir ItemRange) error {
	r := e.roles
	items := ir.List.Children()
	before, moved, after := items[:ir.Start], items[ir.Start:ir.End], items[ir.End:]

	if ir.nested(r) {
		parentItem := ir.parent()
		outer := ir.rp.Node(ir.depth - 2)
		itemIndex := ir.rp.Index(ir.depth - 2)

		newParent := withoutChild(parentItem, ir.indexInParent(), listOf(ir.List, before))
		lifted := make([]*model.Node, len(moved))
		for i, item := range moved {
			lifted[i] = r.fitItem(item, outer.Type())
		}
		last := len(lifted) - 1
		lifted[last] = r.appendNested(lifted[last], ir.List.Type(), after)

		return e.tr.ReplaceChildren(ir.rp.Start(ir.depth-2), outer, itemIndex, itemIndex+1,
			append([]*model.Node{newParent}, lifted...)...)
	}

	var out []*model.Node
	if l := listOf(ir.List, before); l != nil {
		out = append(out, l)
	}
	out = append(out, unwrapItems(moved)...)
	if l := listOf(ir.List, after); l != nil {
		out = append(out, l)
	}
	index := ir.indexInParent()
	return e.tr.ReplaceChildren(ir.parentStart(), ir.parent(), index, index+1, r.joinAdjacentLists(out)...)
}
