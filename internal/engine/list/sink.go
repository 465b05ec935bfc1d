package list

// SinkListItem nests the selected list items under their previous sibling.
// They join the sibling's trailing nested list when it has the type of the
// current list, or form a new nested list of that type.
//
// Sinking is refused when there is no previous sibling or when the deepest
// list inside the moved items would end up deeper than roles.MaxDepth.
func SinkListItem(state State, roles *Roles) (Result, error) {
	e, err := begin(state, roles)
	if err != nil {
		return Result{}, err
	}
	from, to := e.selectionRange()
	ir, ok := roles.SelectedItems(e.tr.Doc(), from, to)
	if !ok {
		return NotApplicable(ReasonNotInList), nil
	}
	reason, err := e.sink(ir)
	if err != nil {
		return Result{}, err
	}
	if reason != ReasonNone {
		return NotApplicable(reason), nil
	}
	return e.finish(), nil
}

func (e *edit) sink(ir ItemRange) (Reason, error) {
	r := e.roles
	if ir.Start == 0 {
		return ReasonNoPreviousSibling, nil
	}
	moved := ir.Items()
	deepest := 0
	for _, item := range moved {
		deepest = max(deepest, r.SubtreeListDepth(item))
	}
	if r.ListLevel(ir.rp, ir.depth)+1+deepest > r.MaxDepth {
		return ReasonMaxDepthExceeded, nil
	}

	prev := ir.List.Child(ir.Start - 1)
	newPrev := r.appendNested(prev, ir.List.Type(), moved)
	return ReasonNone, e.tr.ReplaceChildren(ir.listStart(), ir.List, ir.Start-1, ir.End, newPrev)
}
