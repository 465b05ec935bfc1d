package dispatcher

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/dispatcher/hook"
	"github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/input"
)

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	router   *Router

	// Document being edited and the node roles list commands work with.
	editor   execctx.EditorInterface
	roles    *list.Roles
	logger   execctx.Logger
	readOnly bool

	config  Config
	metrics *Metrics

	hooks     *hook.Manager
	hookSeq   int
	closeOnce sync.Once

	actionChan chan input.Action
	resultChan chan handler.Result
	done       chan struct{}
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		router:   NewRouter(),
		logger:   execctx.NopLogger,
		config:   config,
		hooks:    hook.NewManager(),
		done:     make(chan struct{}),
	}

	if config.AsyncDispatch {
		bufSize := config.ActionBufferSize
		if bufSize <= 0 {
			bufSize = DefaultConfig().ActionBufferSize
		}
		d.actionChan = make(chan input.Action, bufSize)
		d.resultChan = make(chan handler.Result, bufSize)
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
		if config.SlowActionThreshold > 0 {
			d.metrics.SetSlowActionCallback(config.SlowActionThreshold, func(action string, duration time.Duration) {
				d.log().Warn("slow action: action=%s duration=%s", action, duration)
			})
		}
	}

	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetEditor sets the editor whose state actions read and apply to.
func (d *Dispatcher) SetEditor(editor execctx.EditorInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editor = editor
}

// Editor returns the editor.
func (d *Dispatcher) Editor() execctx.EditorInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.editor
}

// SetRoles sets the schema roles list commands resolve nodes against.
func (d *Dispatcher) SetRoles(roles *list.Roles) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roles = roles
}

// Roles returns the configured roles.
func (d *Dispatcher) Roles() *list.Roles {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.roles
}

// SetLogger sets the logger handed to handlers and hooks.
// A nil logger discards output.
func (d *Dispatcher) SetLogger(logger execctx.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if logger == nil {
		logger = execctx.NopLogger
	}
	d.logger = logger
}

func (d *Dispatcher) log() execctx.Logger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.logger
}

// SetReadOnly marks the document read-only for subsequent dispatches.
func (d *Dispatcher) SetReadOnly(readOnly bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readOnly = readOnly
}

// Dispatch executes an action synchronously.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	return d.dispatchInternal(action, false)
}

// DryRun executes an action without committing its transaction.
// An applicable action returns StatusOK with the transaction it would apply.
func (d *Dispatcher) DryRun(action input.Action) handler.Result {
	return d.dispatchInternal(action, true)
}

// dispatchInternal is the core dispatch logic.
func (d *Dispatcher) dispatchInternal(action input.Action, dryRun bool) handler.Result {
	startTime := time.Now()

	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}

	ctx := d.buildContext().WithDryRun(dryRun)
	if action.Count > 0 {
		ctx.Count = action.Count
	}
	if max := d.config.MaxRepeatCount; max > 0 && ctx.Count > max {
		ctx.Count = max
	}

	if !d.hooks.RunPreDispatch(&action, ctx) {
		result := handler.Cancelled("cancelled by hook")
		result.Error = ErrActionCancelled
		d.record(action.Name, startTime, result)
		return result
	}

	h := d.router.Route(action.Name)
	if h == nil {
		h = d.registry.Get(action.Name)
	}
	if h == nil {
		result := handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
		d.record(action.Name, startTime, result)
		return result
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, action, ctx)
	} else {
		result = h.Handle(action, ctx)
	}

	d.hooks.RunPostDispatch(&action, ctx, &result)
	d.record(action.Name, startTime, result)

	return result
}

func (d *Dispatcher) record(actionName string, start time.Time, result handler.Result) {
	if d.metrics != nil {
		d.metrics.RecordDispatch(actionName, time.Since(start), result)
	}
}

// executeWithRecovery executes a handler, turning a panic into an error
// result wrapping ErrPanic.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			ctx.Log().Error("handler panic: action=%s panic=%v\n%s", action.Name, r, stack[:n])

			result = handler.Error(fmt.Errorf("%w: %s: %v", ErrPanic, action.Name, r))

			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()

	return h.Handle(action, ctx)
}

// buildContext builds an execution context from the dispatcher's state.
func (d *Dispatcher) buildContext() *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return execctx.New().
		WithEditor(d.editor).
		WithRoles(d.roles).
		WithLogger(d.logger).
		WithReadOnly(d.readOnly)
}

// RegisterHandler registers a handler for an exact action name.
func (d *Dispatcher) RegisterHandler(actionName string, h handler.Handler) {
	d.registry.Register(actionName, h)
}

// RegisterHandlerFunc registers a handler function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(actionName string, fn handler.Func) {
	d.registry.Register(actionName, handler.WithPriority(fn, 0))
}

// RegisterNamespace registers a namespace handler.
func (d *Dispatcher) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	d.router.RegisterNamespace(namespace, h)
}

// UnregisterHandler removes the handlers for an action name.
func (d *Dispatcher) UnregisterHandler(actionName string) {
	d.registry.Unregister(actionName)
}

// RegisterPreHook registers fn as an unnamed pre-dispatch hook at priority
// zero, after every prioritized hook above it.
func (d *Dispatcher) RegisterPreHook(fn PreDispatchFunc) {
	d.hooks.RegisterPre(hook.Pre(d.nextHookName("pre"), 0, fn))
}

// RegisterPostHook registers fn as an unnamed post-dispatch hook at
// priority zero.
func (d *Dispatcher) RegisterPostHook(fn PostDispatchFunc) {
	d.hooks.RegisterPost(hook.Post(d.nextHookName("post"), 0, fn))
}

func (d *Dispatcher) nextHookName(kind string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hookSeq++
	return kind + "-hook-" + strconv.Itoa(d.hookSeq)
}

// Start starts the async dispatch loop (if enabled).
func (d *Dispatcher) Start() {
	if !d.config.AsyncDispatch {
		return
	}
	go d.dispatchLoop()
}

// Stop stops the async dispatch loop. It is safe to call more than once.
func (d *Dispatcher) Stop() {
	d.closeOnce.Do(func() { close(d.done) })
}

// Send queues an action for async dispatch without blocking.
func (d *Dispatcher) Send(action input.Action) error {
	if !d.config.AsyncDispatch {
		return ErrAsyncNotEnabled
	}
	select {
	case <-d.done:
		return ErrDispatcherStopped
	default:
	}
	select {
	case d.actionChan <- action:
		return nil
	default:
		return ErrQueueFull
	}
}

// dispatchLoop processes queued actions in order.
func (d *Dispatcher) dispatchLoop() {
	for {
		select {
		case action := <-d.actionChan:
			result := d.Dispatch(action)
			select {
			case d.resultChan <- result:
			default:
				d.log().Warn("result queue full, dropping result: action=%s status=%s", action.Name, result.Status)
			}
		case <-d.done:
			return
		}
	}
}

// Results returns the result channel for async dispatch.
// Returns nil if async dispatch is not enabled.
func (d *Dispatcher) Results() <-chan handler.Result {
	return d.resultChan
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Metrics returns the metrics collector (nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// HookManager returns the hook manager.
func (d *Dispatcher) HookManager() *hook.Manager {
	return d.hooks
}
