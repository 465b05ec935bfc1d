// Package dispatcher routes list-editing actions to handlers and coordinates
// their execution.
//
// Hosts translate key presses or commands into input.Actions ("list.indent",
// "list.toggleBulletList", ...) and hand them to a Dispatcher. The dispatcher
// finds a handler, gives it an ExecutionContext holding the editor, the
// schema roles and a logger, and returns the handler's Result.
//
// # Architecture
//
// Actions are routed in two tiers:
//
//  1. Namespace Router: "list.indent" goes to the handler owning the "list"
//     namespace, provided it accepts the action.
//  2. Handler Registry: exact action names, several handlers per name sorted
//     by priority.
//
// # Dispatch
//
// When an action is dispatched:
//
//  1. An ExecutionContext is built from the editor, roles, logger and
//     read-only flag, with the action's count clamped to MaxRepeatCount
//  2. Pre-dispatch hooks run and may cancel the action
//  3. The router, then the registry, supply a handler
//  4. The handler runs, with panics turned into ErrPanic results when
//     RecoverFromPanic is set
//  5. Post-dispatch hooks run
//  6. Metrics are recorded (if enabled)
//
// List handlers commit through the editor themselves. A result with
// StatusOK carries the committed transaction; StatusNoOp carries the reason
// nothing applied, and a host should then perform its default behaviour for
// the key.
//
// # Usage
//
//	d := dispatcher.NewWithDefaults()
//	d.SetEditor(editor)
//	d.SetRoles(list.DefaultRoles(schema))
//	d.RegisterNamespace(listhandler.Namespace, listhandler.NewHandler())
//
//	result := d.Dispatch(input.NewAction(listhandler.ActionIndent, input.SourceKeyboard))
//
// DryRun dispatches without committing. With async dispatch, actions queued
// with Send are executed in order by a single goroutine:
//
//	d := dispatcher.New(dispatcher.DefaultConfig().WithAsyncDispatch(64))
//	d.Start()
//	_ = d.Send(action)
//	result := <-d.Results()
//	d.Stop()
//
// System bundles a dispatcher with the list handler and the standard hooks
// (count limit, read-only, selection validation, repeat, change log and,
// once a logger is set, audit).
package dispatcher
