// Package handler defines what the dispatcher calls to carry out an action
// and the Result it gets back.
package handler

import (
	"sort"

	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/input"
)

// Handler carries out actions registered under exact names.
type Handler interface {
	Handle(action input.Action, ctx *execctx.ExecutionContext) Result

	// CanHandle reports whether the handler claims actionName.
	CanHandle(actionName string) bool

	// Priority orders handlers registered for the same action; the
	// highest is used.
	Priority() int
}

// Func implements a single action. As a Handler it claims every action
// name it is registered under, at priority zero.
type Func func(action input.Action, ctx *execctx.ExecutionContext) Result

// Handle implements Handler.
func (f Func) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	if f == nil {
		return Errorf("nil handler for %s", action.Name)
	}
	return f(action, ctx)
}

// CanHandle implements Handler.
func (Func) CanHandle(string) bool { return true }

// Priority implements Handler.
func (Func) Priority() int { return 0 }

type prioritized struct {
	Func
	priority int
}

func (p *prioritized) Priority() int { return p.priority }

// WithPriority returns fn as a Handler with the given priority. The result
// is a distinct pointer, so registrations can be compared.
func WithPriority(fn Func, priority int) Handler {
	return &prioritized{Func: fn, priority: priority}
}

// NamespaceHandler serves every action under a name prefix, such as the
// "list" in "list.indent".
type NamespaceHandler interface {
	HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result
	CanHandle(actionName string) bool
	Namespace() string
}

type namespaced struct {
	NamespaceHandler
}

func (n namespaced) Handle(action input.Action, ctx *execctx.ExecutionContext) Result {
	return n.HandleAction(action, ctx)
}

func (namespaced) Priority() int { return 0 }

// AsHandler presents a namespace handler as a Handler.
func AsHandler(ns NamespaceHandler) Handler {
	return namespaced{ns}
}

// Table is a NamespaceHandler backed by a map of action names to Funcs.
type Table struct {
	namespace string
	actions   map[string]Func
}

// NewTable creates an empty table for namespace.
func NewTable(namespace string) *Table {
	return &Table{namespace: namespace, actions: make(map[string]Func)}
}

// Register sets the function for actionName, replacing any earlier one.
func (t *Table) Register(actionName string, fn Func) {
	t.actions[actionName] = fn
}

// Namespace implements NamespaceHandler.
func (t *Table) Namespace() string { return t.namespace }

// CanHandle implements NamespaceHandler.
func (t *Table) CanHandle(actionName string) bool {
	_, ok := t.actions[actionName]
	return ok
}

// Actions returns the registered names, sorted.
func (t *Table) Actions() []string {
	names := make([]string, 0, len(t.actions))
	for name := range t.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandleAction implements NamespaceHandler.
func (t *Table) HandleAction(action input.Action, ctx *execctx.ExecutionContext) Result {
	fn, ok := t.actions[action.Name]
	if !ok {
		return Errorf("%s: no action %s", t.namespace, action.Name)
	}
	return fn(action, ctx)
}
