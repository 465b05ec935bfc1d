package transform

import "github.com/dshills/richlist/internal/engine/model"

// Locate returns the position before target in doc, matching by identity.
// Textblocks are not searched into, so target must be a block node.
func Locate(doc, target *model.Node) (int, bool) {
	found := -1
	doc.Descendants(func(node *model.Node, pos int, _ *model.Node, _ int) bool {
		if found >= 0 {
			return false
		}
		if node == target {
			found = pos
			return false
		}
		return !node.IsTextblock()
	})
	return found, found >= 0
}

// LocateText returns the position at offset inside the textblock block.
func LocateText(doc, block *model.Node, offset int) (int, bool) {
	pos, ok := Locate(doc, block)
	if !ok {
		return 0, false
	}
	offset = max(0, min(offset, block.ContentSize()))
	return pos + 1 + offset, true
}
