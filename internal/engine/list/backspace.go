package list

import "github.com/dshills/richlist/internal/engine/model"

// BackspaceAtListItemStart handles Backspace with the cursor at the start of
// a list item's first textblock.
//
//   - With a previous sibling, the item merges into the textblock that ends
//     that sibling (descending into its nested lists); the item's remaining
//     blocks and nested lists follow. An empty previous sibling is deleted
//     instead and the cursor stays where it is.
//   - The first item of a nested list is outdented.
//   - The first item of a top-level list merges into a paragraph or heading
//     right before the list, or otherwise leaves the list as a paragraph.
func BackspaceAtListItemStart(state State, roles *Roles) (Result, error) {
	e, err := begin(state, roles)
	if err != nil {
		return Result{}, err
	}
	from, to := e.selectionRange()
	p, ic, reason := roles.backspaceContext(e.tr.Doc(), from, to)
	if reason != ReasonNone {
		return NotApplicable(reason), nil
	}

	switch BackspaceTable.Decide(p) {
	case MergeWithPrevious:
		reason, err = e.mergeWithPrevious(ic)
	case OutdentItem:
		err = e.lift(ic.itemRange())
	case LeaveList:
		err = e.leaveList(ic)
	default:
		if !p.Collapsed {
			return NotApplicable(ReasonRangeSelection), nil
		}
		return NotApplicable(ReasonNotAtStart), nil
	}
	if err != nil {
		return Result{}, err
	}
	if reason != ReasonNone {
		return NotApplicable(reason), nil
	}
	return e.finish(), nil
}

func (e *edit) mergeWithPrevious(ic itemContext) (Reason, error) {
	r := e.roles
	prev := ic.list.Child(ic.itemIndex - 1)
	if IsEmptyItem(prev) {
		return ReasonNone, e.tr.ReplaceChildren(ic.listStart(), ic.list, ic.itemIndex-1, ic.itemIndex)
	}

	rest := ic.item.Children()[1:]
	merged, target, ok := r.mergeIntoTail(prev, ic.block.Content(), rest)
	if !ok {
		return ReasonNoMergeTarget, nil
	}
	if err := e.tr.ReplaceChildren(ic.listStart(), ic.list, ic.itemIndex-1, ic.itemIndex+1, merged); err != nil {
		return ReasonNone, err
	}
	e.cursor(target.block, target.offset)
	return ReasonNone, nil
}

// leaveList handles the first item of a top-level list.
func (e *edit) leaveList(ic itemContext) error {
	r := e.roles
	container := ic.rp.Node(ic.listDepth - 1)
	listIndex := ic.rp.Index(ic.listDepth - 1)
	if listIndex == 0 || !r.isPlainTextblock(container.Child(listIndex-1)) {
		return e.lift(ic.itemRange())
	}

	prevBlock := container.Child(listIndex - 1)
	joined := prevBlock.Copy(prevBlock.Content().Append(ic.block.Content()))

	// What is left of the item keeps its slot in the list when it still
	// starts with a paragraph; a leading nested list gives up its items.
	rest := ic.item.Children()[1:]
	var slot, loose []*model.Node
	switch {
	case len(rest) == 0:
	case rest[0].Type() == r.Paragraph:
		slot = []*model.Node{ic.item.CopyNodes(rest...)}
	case r.IsList(rest[0]):
		for _, item := range rest[0].Children() {
			slot = append(slot, r.fitItem(item, ic.list.Type()))
		}
		last := len(slot) - 1
		slot[last] = slot[last].CopyNodes(append(slot[last].Children(), rest[1:]...)...)
	default:
		loose = rest
	}

	items := ic.list.Children()
	remaining := append(append(append([]*model.Node{}, items[:ic.itemIndex]...), slot...), items[ic.itemIndex+1:]...)
	out := append([]*model.Node{joined}, loose...)
	if l := listOf(ic.list, remaining); l != nil {
		out = append(out, l)
	}
	if err := e.tr.ReplaceChildren(ic.rp.Start(ic.listDepth-1), container, listIndex-1, listIndex+1, out...); err != nil {
		return err
	}
	e.cursor(joined, prevBlock.ContentSize())
	return nil
}

// JoinTextblockIntoPrecedingList handles Backspace at the start of a
// paragraph or heading that directly follows a list: its content is appended
// to the list's last textblock. When the block is followed by a list of the
// same type, the two lists become one.
func JoinTextblockIntoPrecedingList(state State, roles *Roles) (Result, error) {
	e, err := begin(state, roles)
	if err != nil {
		return Result{}, err
	}
	from, to := e.selectionRange()
	if from != to {
		return NotApplicable(ReasonRangeSelection), nil
	}
	rp, err := e.tr.Doc().Resolve(from)
	if err != nil {
		return Result{}, err
	}
	block := rp.Parent()
	if !roles.isPlainTextblock(block) || rp.ParentOffset != 0 || rp.Depth < 1 {
		return NotApplicable(ReasonNotAtStart), nil
	}
	container := rp.Node(-1)
	index := rp.Index(-1)
	if roles.IsItem(container) || index == 0 || !roles.IsList(container.Child(index-1)) {
		return NotApplicable(ReasonNoPrecedingList), nil
	}

	prevList := container.Child(index - 1)
	merged, target, ok := roles.mergeIntoTail(prevList, block.Content(), nil)
	if !ok {
		return NotApplicable(ReasonNoMergeTarget), nil
	}
	end := index + 1
	if next := container.MaybeChild(index + 1); next != nil && next.Type() == prevList.Type() {
		merged = merged.CopyNodes(append(merged.Children(), next.Children()...)...)
		end++
	}
	if err := e.tr.ReplaceChildren(rp.Start(-1), container, index-1, end, merged); err != nil {
		return Result{}, err
	}
	e.cursor(target.block, target.offset)
	return e.finish(), nil
}
