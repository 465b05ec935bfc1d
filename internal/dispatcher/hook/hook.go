// Package hook runs named, prioritized code around every dispatched list
// action.
package hook

import (
	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/input"
)

// Hook identifies a hook to the Manager. Names are unique; registering a
// second hook under a name replaces the first.
type Hook interface {
	Name() string

	// Priority orders hooks: higher runs first before dispatch and last
	// after it.
	Priority() int
}

// PreDispatchHook sees an action before its handler runs. It may rewrite
// the action or context; returning false cancels the action and the
// caller gets a cancelled result.
type PreDispatchHook interface {
	Hook
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook sees the result of every action that was not cancelled.
type PostDispatchHook interface {
	Hook
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// Func is a hook built from plain functions. Either function may be nil.
type Func struct {
	name     string
	priority int

	pre  func(action *input.Action, ctx *execctx.ExecutionContext) bool
	post func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// Pre returns a pre-dispatch hook that calls fn.
func Pre(name string, priority int, fn func(action *input.Action, ctx *execctx.ExecutionContext) bool) *Func {
	return &Func{name: name, priority: priority, pre: fn}
}

// Post returns a post-dispatch hook that calls fn.
func Post(name string, priority int, fn func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)) *Func {
	return &Func{name: name, priority: priority, post: fn}
}

// Name implements Hook.
func (f *Func) Name() string { return f.name }

// Priority implements Hook.
func (f *Func) Priority() int { return f.priority }

// PreDispatch implements PreDispatchHook. A nil function lets the action
// through.
func (f *Func) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f.pre == nil || f.pre(action, ctx)
}

// PostDispatch implements PostDispatchHook.
func (f *Func) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if f.post != nil {
		f.post(action, ctx, result)
	}
}
