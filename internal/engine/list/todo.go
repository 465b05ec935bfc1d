package list

// ToggleTodoChecked flips the checkbox of the innermost todo item around the
// selection's start.
func ToggleTodoChecked(state State, roles *Roles) (Result, error) {
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
	if !isTodo(item) {
		return NotApplicable(ReasonNotTodo), nil
	}
	checked, _ := todoState(item).(bool)
	index := rp.Index(d - 1)
	if err := e.tr.ReplaceChildren(rp.Start(d-1), rp.Node(d-1), index, index+1, item.WithAttr(todoAttr, !checked)); err != nil {
		return Result{}, err
	}
	return e.finish(), nil
}

// ToggleTodoList turns the items holding the selected textblocks into todo
// items, or back into plain bullet items when all of them already are todo
// items. Selected blocks outside a bullet list are first wrapped into or
// converted to one.
func ToggleTodoList(state State, roles *Roles) (Result, error) {
	e, err := begin(state, roles)
	if err != nil {
		return Result{}, err
	}
	t := e.newToggle()
	doc := e.tr.Doc()
	blocks := textblocksBetween(doc, e.resolve(t.from), e.resolve(t.to))
	if len(blocks) == 0 {
		return NotApplicable(ReasonNoTextblock), nil
	}

	allInList, allBullet, allTodo := true, true, true
	for _, b := range blocks {
		list, ok := roles.listOfBlock(doc, b)
		if !ok {
			allInList, allBullet, allTodo = false, false, false
			break
		}
		if list.Type() != roles.BulletList {
			allBullet = false
		}
		if !isTodo(b.parent) {
			allTodo = false
		}
	}

	switch {
	case allBullet && allTodo:
		err = e.setTodo(t, false)
	case allBullet:
		err = e.setTodo(t, true)
	case allInList:
		if err = e.convert(t, roles.BulletList); err == nil {
			err = e.setTodo(t, true)
		}
	default:
		var wrapped bool
		if wrapped, err = e.wrap(t, roles.BulletList); err == nil {
			if !wrapped {
				return NotApplicable(ReasonNoTextblock), nil
			}
			err = e.setTodo(t, true)
		}
	}
	if err != nil {
		return Result{}, err
	}
	return e.finish(), nil
}

// setTodo makes every bullet item holding a selected textblock an unchecked
// todo item, or a plain item when todo is false. Todo items keep their
// checked state. One item is replaced per step.
func (e *edit) setTodo(t toggleRange, todo bool) error {
	var state any
	if todo {
		state = false
	}
	r := e.roles
	for round := 0; round < maxToggleRounds; round++ {
		doc := e.tr.Doc()
		from, to := e.resolve(t.from), e.resolve(t.to)
		changed := false
		for _, b := range textblocksBetween(doc, from, to) {
			list, ok := r.listOfBlock(doc, b)
			if !ok || list.Type() != r.BulletList || isTodo(b.parent) == todo {
				continue
			}
			rp, err := doc.Resolve(b.pos + 1)
			if err != nil {
				return err
			}
			index := rp.Index(-2)
			if err := e.tr.ReplaceChildren(rp.Start(-2), list, index, index+1, b.parent.WithAttr(todoAttr, state)); err != nil {
				return err
			}
			changed = true
			break
		}
		if !changed {
			return nil
		}
	}
	return ErrNoProgress
}
