package app

import (
	"github.com/google/uuid"

	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/engine/transform"
)

// sessionEditor commits transactions to an in-memory state. Each
// transaction is stamped with a uuid before it is applied so log lines,
// change-log records and hooks can refer to the same commit.
type sessionEditor struct {
	*execctx.MemoryEditor

	logger   *Logger
	newID    func() string
	onCommit func(tr *transform.Transaction)
}

func newSessionEditor(state list.State, logger *Logger) *sessionEditor {
	return &sessionEditor{
		MemoryEditor: execctx.NewMemoryEditor(state),
		logger:       logger.WithComponent("editor"),
		newID:        uuid.NewString,
	}
}

// Apply implements execctx.EditorInterface.
func (e *sessionEditor) Apply(tr *transform.Transaction) error {
	if tr.ID() == "" {
		tr.SetMeta(transform.MetaID, e.newID())
	}
	log := e.logger.WithField("tx", tr.ID())

	if err := e.MemoryEditor.Apply(tr); err != nil {
		log.Warn("commit rejected: %v", err)
		return err
	}
	if origin, ok := tr.Meta(transform.MetaOrigin).(string); ok {
		log = log.WithField("origin", origin)
	}
	log.Debug("committed %d step(s)", len(tr.Steps()))

	if e.onCommit != nil {
		e.onCommit(tr)
	}
	return nil
}
