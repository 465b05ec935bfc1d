package dispatcher

import (
	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/dispatcher/hook"
	"github.com/dshills/richlist/internal/input"
)

// PreDispatchFunc runs before an action's handler. Returning false cancels
// the action.
type PreDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext) bool

// PostDispatchFunc runs after an action's handler with its result.
type PostDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)

// Hook is a named, prioritized hook; see the hook package.
type Hook = hook.Hook
