package list

// InsertEmptyListItem inserts an empty item next to the innermost item
// around the selection, above or below it, and moves the cursor into it.
// Inserting below places the new item after the whole item, including its
// nested children.
func InsertEmptyListItem(state State, roles *Roles, dir Direction) (Result, error) {
	e, err := begin(state, roles)
	if err != nil {
		return Result{}, err
	}
	from, _ := e.selectionRange()
	rp, err := e.tr.Doc().Resolve(from)
	if err != nil {
		return Result{}, err
	}
	d, ok := roles.DepthOfNearestListItem(rp)
	if !ok || d < 2 {
		return NotApplicable(ReasonNotInList), nil
	}
	item := rp.Node(d)
	list := rp.Node(d - 1)
	index := rp.Index(d - 1)
	if dir == Down {
		index++
	}

	newItem := roles.newItemFor(item)
	if err := e.tr.ReplaceChildren(rp.Start(d-1), list, index, index, newItem); err != nil {
		return Result{}, err
	}
	e.cursor(newItem.FirstChild(), 0)
	return e.finish(), nil
}

// InsertEmptyListItemAbove is InsertEmptyListItem in the Up direction.
func InsertEmptyListItemAbove(state State, roles *Roles) (Result, error) {
	return InsertEmptyListItem(state, roles, Up)
}

// InsertEmptyListItemBelow is InsertEmptyListItem in the Down direction.
func InsertEmptyListItemBelow(state State, roles *Roles) (Result, error) {
	return InsertEmptyListItem(state, roles, Down)
}
