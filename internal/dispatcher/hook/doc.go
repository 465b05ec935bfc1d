// Package hook provides extensible pre/post dispatch hooks for the dispatcher.
//
// Hooks intercept action dispatch for logging, validation and bookkeeping.
// They are ordered by priority.
//
// # Hook Types
//
//   - PreDispatchHook: called before an action is dispatched. Can cancel the action.
//   - PostDispatchHook: called after dispatch completes. Can inspect or modify results.
//
// Hooks implement the base Hook interface with Name() and Priority() methods
// for identification and ordering.
//
// # Priority System
//
// Pre-hooks run from the highest priority down; post-hooks run from the
// lowest priority up, so the highest priority post-hook sees the final
// result.
//
//	PriorityAudit      = 1000
//	PriorityCountLimit = 900
//	PriorityValidation = 800
//	PriorityFilter     = 700
//	PriorityRepeat     = 500
//	PriorityChangeLog  = 100
//
// # Built-in Hooks
//
//   - AuditHook: logs every dispatch and its outcome
//   - RepeatHook: remembers the last applied list action for repetition
//   - ChangeLogHook: keeps a bounded log of committed transactions
//   - CountLimitHook: caps the repeat count
//   - ValidationHook: custom validation; NewSelectionValidationHook rejects
//     list actions without a valid selection
//   - ReadOnlyHook: blocks list actions on read-only documents
//   - ActionFilterHook: custom allow/deny; NewDisabledActionsHook blocks
//     actions turned off in the configuration
//   - TimingHook: reports how long each dispatch took
//
// # Usage Example
//
//	manager := hook.NewManager()
//	manager.Register(hook.NewAuditHook(logger))
//	manager.RegisterPre(hook.NewCountLimitHook(100))
//	manager.RegisterPre(hook.NewSelectionValidationHook())
//
//	changes := hook.NewChangeLogHook(256)
//	manager.RegisterPost(changes)
//
//	if manager.RunPreDispatch(&action, ctx) {
//	    result := h.Handle(action, ctx)
//	    manager.RunPostDispatch(&action, ctx, &result)
//	}
//
// # Thread Safety
//
// All hook types are safe for concurrent use. The Manager copies its hook
// lists before running them, so hooks may be registered while a dispatch
// is in progress.
package hook
