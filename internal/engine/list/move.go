package list

import "github.com/dshills/richlist/internal/engine/model"

// MoveListItem moves the selected items, with their nested children, past
// the adjacent sibling in direction dir.
//
// When there is no sibling in that direction the items leave their list:
// moving up places them before the parent item, moving down places them
// after the parent item and past the parent's next sibling when there is
// one. Items of a top-level list that leave it become plain blocks before
// or after the list.
func MoveListItem(state State, roles *Roles, dir Direction) (Result, error) {
	e, err := begin(state, roles)
	if err != nil {
		return Result{}, err
	}
	from, to := e.selectionRange()
	ir, ok := roles.SelectedItems(e.tr.Doc(), from, to)
	if !ok {
		return NotApplicable(ReasonNotInList), nil
	}
	if err := e.move(ir, dir); err != nil {
		return Result{}, err
	}
	return e.finish(), nil
}

// MoveListItemUp is MoveListItem in the Up direction.
func MoveListItemUp(state State, roles *Roles) (Result, error) {
	return MoveListItem(state, roles, Up)
}

// MoveListItemDown is MoveListItem in the Down direction.
func MoveListItemDown(state State, roles *Roles) (Result, error) {
	return MoveListItem(state, roles, Down)
}

func (e *edit) move(ir ItemRange, dir Direction) error {
	r := e.roles
	items := ir.List.Children()
	moved := ir.Items()

	switch {
	case dir == Up && ir.Start > 0:
		swapped := append(append([]*model.Node{}, moved...), items[ir.Start-1])
		return e.tr.ReplaceChildren(ir.listStart(), ir.List, ir.Start-1, ir.End, swapped...)
	case dir == Down && ir.End < len(items):
		swapped := append([]*model.Node{items[ir.End]}, moved...)
		return e.tr.ReplaceChildren(ir.listStart(), ir.List, ir.Start, ir.End+1, swapped...)
	}

	// Blocked: the items leave their list. Whatever stays behind is on the
	// other side of them.
	remaining := items[ir.End:]
	if dir == Down {
		remaining = items[:ir.Start]
	}

	if ir.nested(r) {
		outer := ir.rp.Node(ir.depth - 2)
		outerStart := ir.rp.Start(ir.depth - 2)
		parentIndex := ir.rp.Index(ir.depth - 2)
		newParent := withoutChild(ir.parent(), ir.indexInParent(), listOf(ir.List, remaining))

		lifted := make([]*model.Node, len(moved))
		for i, item := range moved {
			lifted[i] = r.fitItem(item, outer.Type())
		}
		if dir == Up {
			return e.tr.ReplaceChildren(outerStart, outer, parentIndex, parentIndex+1,
				append(lifted, newParent)...)
		}
		if parentIndex+1 < outer.ChildCount() {
			uncle := outer.Child(parentIndex + 1)
			return e.tr.ReplaceChildren(outerStart, outer, parentIndex, parentIndex+2,
				append([]*model.Node{newParent, uncle}, lifted...)...)
		}
		return e.tr.ReplaceChildren(outerStart, outer, parentIndex, parentIndex+1,
			append([]*model.Node{newParent}, lifted...)...)
	}

	blocks := unwrapItems(moved)
	var out []*model.Node
	if dir == Up {
		out = append(blocks, listOf(ir.List, remaining))
	} else {
		out = append([]*model.Node{listOf(ir.List, remaining)}, blocks...)
	}
	index := ir.indexInParent()
	return e.tr.ReplaceChildren(ir.parentStart(), ir.parent(), index, index+1, out...)
}
