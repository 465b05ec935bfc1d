package list

import "github.com/dshills/richlist/internal/engine/model"

// SplitListItem handles Enter inside a list item.
//
// In a non-empty item the textblock is split at the selection (a selected
// range is deleted first) and the content after it, together with the
// item's following blocks and nested lists, moves into a new item at the
// same depth. The new item is an unchecked todo when the source item is a
// todo item. An empty item is outdented instead; at the top level it leaves
// the list as a paragraph, splitting the list around it.
func SplitListItem(state State, roles *Roles) (Result, error) {
	e, err := begin(state, roles)
	if err != nil {
		return Result{}, err
	}
	from, to := e.selectionRange()
	p, ic, reason := roles.enterContext(e.tr.Doc(), from, to)
	if reason != ReasonNone {
		return NotApplicable(reason), nil
	}

	switch EnterTable.Decide(p) {
	case SplitItem:
		err = e.split(ic, ic.rp.ParentOffset, ic.rp.ParentOffset+(to-from))
	case OutdentItem:
		err = e.lift(ic.itemRange())
	default:
		return NotApplicable(ReasonRangeSelection), nil
	}
	if err != nil {
		return Result{}, err
	}
	return e.finish(), nil
}

// split splits ic's textblock, dropping the content between the offsets.
func (e *edit) split(ic itemContext, fromOffset, toOffset int) error {
	r := e.roles
	block := ic.block
	content := block.Content()

	left := block.Copy(content.Cut(0, fromOffset))
	rest := content.Cut(toOffset, content.Size())
	var right *model.Node
	if block.Type() == r.Paragraph {
		right = block.Copy(rest)
	} else {
		right = r.paragraph(rest)
	}

	children := ic.item.Children()
	kept := append(append([]*model.Node{}, children[:ic.blockIndex]...), left)
	moved := append([]*model.Node{right}, children[ic.blockIndex+1:]...)

	oldItem := ic.item.CopyNodes(kept...)
	newItem := r.newItemFor(ic.item, moved...)
	if err := e.tr.ReplaceChildren(ic.listStart(), ic.list, ic.itemIndex, ic.itemIndex+1, oldItem, newItem); err != nil {
		return err
	}
	e.cursor(right, 0)
	return nil
}
