package transform

import (
	"fmt"

	"github.com/dshills/richlist/internal/engine/model"
)

// Step is an atomic document change.
type Step interface {
	// Apply returns the document with the step applied.
	Apply(doc *model.Node) (*model.Node, error)
	// Map returns the position mapping of the step.
	Map() StepMap
	// Invert returns the step that undoes this one, given the document the
	// step was applied to.
	Invert(doc *model.Node) (Step, error)
}

// ReplaceStep replaces the content between From and To, two positions with
// the same parent, with Content.
type ReplaceStep struct {
	From    int
	To      int
	Content model.Fragment
}

// NewReplaceStep creates a step replacing [from, to) with nodes.
func NewReplaceStep(from, to int, nodes ...*model.Node) ReplaceStep {
	return ReplaceStep{From: from, To: to, Content: model.NewFragment(nodes...)}
}

// Apply replaces the range, rebuilding the parent and its ancestors. Every
// other node is shared with doc.
func (s ReplaceStep) Apply(doc *model.Node) (*model.Node, error) {
	if s.From > s.To {
		return nil, fmt.Errorf("%w: %d > %d", ErrRangeInvalid, s.From, s.To)
	}
	from, err := doc.Resolve(s.From)
	if err != nil {
		return nil, err
	}
	to, err := doc.Resolve(s.To)
	if err != nil {
		return nil, err
	}
	if from.Depth != to.Depth || from.Start(from.Depth) != to.Start(to.Depth) {
		return nil, fmt.Errorf("%w: %s and %s", ErrNotFlat, from, to)
	}

	parent := from.Parent()
	content := parent.Content()
	replaced := content.Cut(0, from.ParentOffset).
		Append(s.Content).
		Append(content.Cut(to.ParentOffset, content.Size()))
	if !parent.Type().ValidContent(replaced) {
		return nil, fmt.Errorf("%w: %s cannot hold %s", model.ErrSchemaViolation, parent.Type().Name, replaced)
	}

	node := parent.Copy(replaced)
	for d := from.Depth - 1; d >= 0; d-- {
		ancestor := from.Node(d)
		node = ancestor.Copy(ancestor.Content().ReplaceChild(from.Index(d), node))
	}
	return node, nil
}

// Map returns the step's position mapping.
func (s ReplaceStep) Map() StepMap {
	return StepMap{From: s.From, OldSize: s.To - s.From, NewSize: s.Content.Size()}
}

// Invert returns the step that restores the replaced content.
func (s ReplaceStep) Invert(doc *model.Node) (Step, error) {
	from, err := doc.Resolve(s.From)
	if err != nil {
		return nil, err
	}
	to, err := doc.Resolve(s.To)
	if err != nil {
		return nil, err
	}
	old := from.Parent().Content().Cut(from.ParentOffset, to.ParentOffset)
	return ReplaceStep{From: s.From, To: s.From + s.Content.Size(), Content: old}, nil
}

// String returns a human-readable representation of the step.
func (s ReplaceStep) String() string {
	if s.From == s.To {
		return fmt.Sprintf("Insert(%d, %s)", s.From, s.Content)
	}
	if s.Content.Size() == 0 {
		return fmt.Sprintf("Delete(%d, %d)", s.From, s.To)
	}
	return fmt.Sprintf("Replace(%d, %d) with %s", s.From, s.To, s.Content)
}

// StepMap describes how one step moved positions: OldSize tokens at From
// were replaced by NewSize tokens.
type StepMap struct {
	From    int
	OldSize int
	NewSize int
}

// Delta returns the change in document size caused by the step.
func (m StepMap) Delta() int {
	return m.NewSize - m.OldSize
}

// Map updates a position after the step.
//
// Transformation rules:
//   - Positions before the replaced range are unchanged
//   - Positions after the replaced range shift by the delta
//   - The end of the replaced range maps to the end of the new content
//   - Positions strictly inside the replaced range collapse to its start
//   - At a pure insertion point, assoc < 0 stays before the new content and
//     assoc >= 0 moves after it
func (m StepMap) Map(pos, assoc int) int {
	end := m.From + m.OldSize
	switch {
	case pos < m.From:
		return pos
	case pos > end:
		return pos + m.Delta()
	case m.OldSize == 0:
		if assoc < 0 {
			return m.From
		}
		return m.From + m.NewSize
	case pos == m.From:
		return m.From
	case pos == end:
		return m.From + m.NewSize
	default:
		return m.From
	}
}

// Invert returns the mapping of the inverse step.
func (m StepMap) Invert() StepMap {
	return StepMap{From: m.From, OldSize: m.NewSize, NewSize: m.OldSize}
}

// Mapping is a sequence of step maps applied in order.
type Mapping struct {
	maps []StepMap
}

// Append adds a step map to the end of the mapping.
func (m *Mapping) Append(sm StepMap) {
	m.maps = append(m.maps, sm)
}

// Maps returns a copy of the step maps.
func (m *Mapping) Maps() []StepMap {
	out := make([]StepMap, len(m.maps))
	copy(out, m.maps)
	return out
}

// Map carries a position through every step map.
func (m *Mapping) Map(pos, assoc int) int {
	for _, sm := range m.maps {
		pos = sm.Map(pos, assoc)
	}
	return pos
}
