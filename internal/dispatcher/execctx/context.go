// Package execctx provides the execution context for action handlers.
package execctx

import (
	"github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/engine/transform"
)

// EditorInterface abstracts the document being edited.
type EditorInterface interface {
	// State returns the current document and selection.
	State() list.State

	// Apply commits a transaction, making its document and selection current.
	Apply(tr *transform.Transaction) error
}

// Logger is the leveled logger handlers write to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// NopLogger discards everything.
var NopLogger Logger = nopLogger{}

// ExecutionContext provides context for action execution.
type ExecutionContext struct {
	// Editor owns the current state and commits transactions.
	Editor EditorInterface

	// Roles names the node types that play the list roles.
	Roles *list.Roles

	// Logger receives handler diagnostics.
	Logger Logger

	// ReadOnly blocks actions that change the document.
	ReadOnly bool

	// Execution options
	Count  int  // Repeat count (1 if not specified)
	DryRun bool // If true, don't commit changes (for preview)

	// Data holds handler-specific context data.
	Data map[string]interface{}
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Count: 1,
		Data:  make(map[string]interface{}),
	}
}

// WithEditor returns the context with the editor set.
func (ctx *ExecutionContext) WithEditor(editor EditorInterface) *ExecutionContext {
	ctx.Editor = editor
	return ctx
}

// WithRoles returns the context with the list roles set.
func (ctx *ExecutionContext) WithRoles(roles *list.Roles) *ExecutionContext {
	ctx.Roles = roles
	return ctx
}

// WithLogger returns the context with the logger set.
func (ctx *ExecutionContext) WithLogger(logger Logger) *ExecutionContext {
	ctx.Logger = logger
	return ctx
}

// WithReadOnly returns the context with read-only mode set.
func (ctx *ExecutionContext) WithReadOnly(readOnly bool) *ExecutionContext {
	ctx.ReadOnly = readOnly
	return ctx
}

// WithCount returns the context with repeat count set.
func (ctx *ExecutionContext) WithCount(count int) *ExecutionContext {
	if count > 0 {
		ctx.Count = count
	}
	return ctx
}

// WithDryRun returns the context with dry run mode enabled.
func (ctx *ExecutionContext) WithDryRun(dryRun bool) *ExecutionContext {
	ctx.DryRun = dryRun
	return ctx
}

// GetCount returns the repeat count, defaulting to 1.
func (ctx *ExecutionContext) GetCount() int {
	if ctx.Count <= 0 {
		return 1
	}
	return ctx.Count
}

// Log returns the logger, never nil.
func (ctx *ExecutionContext) Log() Logger {
	if ctx.Logger == nil {
		return NopLogger
	}
	return ctx.Logger
}

// State returns the editor's current state.
func (ctx *ExecutionContext) State() (list.State, error) {
	if ctx.Editor == nil {
		return list.State{}, ErrMissingEditor
	}
	return ctx.Editor.State(), nil
}

// HasSelection returns true if the current selection is not collapsed.
func (ctx *ExecutionContext) HasSelection() bool {
	if ctx.Editor == nil {
		return false
	}
	sel := ctx.Editor.State().Selection
	return sel != nil && !sel.Empty()
}

// IsReadOnly returns true if the document is read-only.
func (ctx *ExecutionContext) IsReadOnly() bool {
	return ctx.ReadOnly
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value interface{}) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]interface{})
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (interface{}, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetDataInt retrieves an int value from context data.
func (ctx *ExecutionContext) GetDataInt(key string) int {
	if v, ok := ctx.GetData(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// GetDataBool retrieves a bool value from context data.
func (ctx *ExecutionContext) GetDataBool(key string) bool {
	if v, ok := ctx.GetData(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Validate checks that the context has all required components.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Editor == nil {
		return ErrMissingEditor
	}
	if ctx.Roles == nil {
		return ErrMissingRoles
	}
	return nil
}

// ValidateForEdit checks that the context is valid for editing operations.
func (ctx *ExecutionContext) ValidateForEdit() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.IsReadOnly() {
		return ErrReadOnly
	}
	return nil
}
