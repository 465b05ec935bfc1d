package execctx

import (
	"sync"

	"github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/engine/transform"
)

// MemoryEditor is an EditorInterface holding its state in memory.
type MemoryEditor struct {
	mu      sync.RWMutex
	state   list.State
	applied int
}

// NewMemoryEditor creates an editor starting at state.
func NewMemoryEditor(state list.State) *MemoryEditor {
	return &MemoryEditor{state: state}
}

// State implements EditorInterface.
func (e *MemoryEditor) State() list.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetState replaces the current state without a transaction.
func (e *MemoryEditor) SetState(state list.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
}

// Apply implements EditorInterface. The transaction must have been built
// from the current document.
func (e *MemoryEditor) Apply(tr *transform.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tr.Before() != e.state.Doc {
		return ErrStaleTransaction
	}
	e.state = list.State{Doc: tr.Doc(), Selection: tr.Selection()}
	e.applied++
	return nil
}

// Applied returns the number of transactions committed.
func (e *MemoryEditor) Applied() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.applied
}
