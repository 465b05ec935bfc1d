package dispatcher

import (
	"sync"
	"time"

	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	listhandler "github.com/dshills/richlist/internal/dispatcher/handlers/list"
	"github.com/dshills/richlist/internal/dispatcher/hook"
	"github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/input"
)

// System is the facade a host embeds: a dispatcher with the list handler
// registered and the standard hooks installed.
type System struct {
	mu sync.RWMutex

	dispatcher  *Dispatcher
	listHandler *listhandler.Handler

	hookManager *hook.Manager
	repeatHook  *hook.RepeatHook
	changeLog   *hook.ChangeLogHook

	config  SystemConfig
	started bool
}

// SystemConfig holds configuration for the dispatcher system.
type SystemConfig struct {
	// DispatcherConfig is the underlying dispatcher configuration.
	DispatcherConfig Config

	// EnableRepeatHook remembers the last applied action for RepeatLastAction.
	EnableRepeatHook bool

	// EnableChangeLog keeps a log of committed transactions.
	EnableChangeLog bool

	// ChangeLogSize bounds the change log (0 = unlimited).
	ChangeLogSize int

	// EnableAudit logs every dispatch through the system logger.
	EnableAudit bool

	// DisabledActions are refused before they reach a handler.
	DisabledActions []string

	// OnTiming, when set, receives how long each dispatched action took.
	OnTiming func(action string, duration time.Duration)
}

// DefaultSystemConfig returns a configuration with sensible defaults.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		DispatcherConfig: DefaultConfig().WithMetrics(),
		EnableRepeatHook: true,
		EnableChangeLog:  true,
		ChangeLogSize:    500,
		EnableAudit:      true,
	}
}

// NewSystem creates a dispatcher system with the given configuration.
func NewSystem(config SystemConfig) *System {
	s := &System{
		config:      config,
		dispatcher:  New(config.DispatcherConfig),
		listHandler: listhandler.NewHandler(),
	}
	s.hookManager = s.dispatcher.HookManager()

	s.dispatcher.RegisterNamespace(listhandler.Namespace, s.listHandler)
	s.initializeHooks(config)
	return s
}

// NewSystemWithDefaults creates a system with the default configuration.
func NewSystemWithDefaults() *System {
	return NewSystem(DefaultSystemConfig())
}

// initializeHooks installs the standard hooks.
func (s *System) initializeHooks(config SystemConfig) {
	if config.DispatcherConfig.MaxRepeatCount > 0 {
		s.hookManager.RegisterPre(hook.NewCountLimitHook(config.DispatcherConfig.MaxRepeatCount))
	}
	s.hookManager.RegisterPre(hook.NewReadOnlyHook())
	s.hookManager.RegisterPre(hook.NewSelectionValidationHook())

	if len(config.DisabledActions) > 0 {
		s.hookManager.RegisterPre(hook.NewDisabledActionsHook(config.DisabledActions))
	}
	if config.EnableRepeatHook {
		s.repeatHook = hook.NewRepeatHook()
		s.hookManager.RegisterPost(s.repeatHook)
	}
	if config.EnableChangeLog {
		s.changeLog = hook.NewChangeLogHook(config.ChangeLogSize)
		s.hookManager.RegisterPost(s.changeLog)
	}
	if config.OnTiming != nil {
		s.hookManager.Register(hook.NewTimingHook(config.OnTiming))
	}
}

// SetEditor sets the editor actions read from and commit to.
func (s *System) SetEditor(editor execctx.EditorInterface) {
	s.dispatcher.SetEditor(editor)
}

// SetRoles sets the schema roles list actions use.
func (s *System) SetRoles(roles *list.Roles) {
	s.dispatcher.SetRoles(roles)
}

// SetLogger sets the logger for handlers and hooks. With auditing enabled
// the audit hook is re-installed on the new logger.
func (s *System) SetLogger(logger execctx.Logger) {
	s.dispatcher.SetLogger(logger)
	if s.config.EnableAudit && logger != nil {
		s.hookManager.Register(hook.NewAuditHook(logger))
	}
}

// SetReadOnly marks the document read-only. Editing actions are cancelled
// while it is set.
func (s *System) SetReadOnly(readOnly bool) {
	s.dispatcher.SetReadOnly(readOnly)
}

// Dispatch executes an action synchronously.
func (s *System) Dispatch(action input.Action) handler.Result {
	return s.dispatcher.Dispatch(action)
}

// DryRun executes an action without committing its transaction.
func (s *System) DryRun(action input.Action) handler.Result {
	return s.dispatcher.DryRun(action)
}

// DispatchBatch executes actions in order.
// Stops after the first error if stopOnError is true.
func (s *System) DispatchBatch(actions []input.Action, stopOnError bool) []handler.Result {
	results := make([]handler.Result, 0, len(actions))
	for _, action := range actions {
		result := s.Dispatch(action)
		results = append(results, result)
		if stopOnError && result.IsError() {
			break
		}
	}
	return results
}

// Start starts the async dispatch loop if enabled.
func (s *System) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.dispatcher.Start()
	s.started = true
}

// Stop stops the async dispatch loop. A stopped system cannot be restarted.
func (s *System) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.dispatcher.Stop()
	s.started = false
}

// IsStarted returns true if the async loop is running.
func (s *System) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Send queues an action for async dispatch.
func (s *System) Send(action input.Action) error {
	return s.dispatcher.Send(action)
}

// Results returns the result channel for async dispatch.
func (s *System) Results() <-chan handler.Result {
	return s.dispatcher.Results()
}

// Dispatcher returns the underlying dispatcher.
func (s *System) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// HookManager returns the hook manager.
func (s *System) HookManager() *hook.Manager {
	return s.hookManager
}

// ListHandler returns the registered list handler.
func (s *System) ListHandler() *listhandler.Handler {
	return s.listHandler
}

// RepeatHook returns the repeat hook (nil if disabled).
func (s *System) RepeatHook() *hook.RepeatHook {
	return s.repeatHook
}

// ChangeLog returns the change log hook (nil if disabled).
func (s *System) ChangeLog() *hook.ChangeLogHook {
	return s.changeLog
}

// Metrics returns the metrics collector (nil if disabled).
func (s *System) Metrics() *Metrics {
	return s.dispatcher.Metrics()
}

// LastRepeatableAction returns the last applied editing action.
func (s *System) LastRepeatableAction() (*input.Action, int) {
	if s.repeatHook == nil {
		return nil, 0
	}
	return s.repeatHook.LastAction()
}

// RepeatLastAction dispatches the last applied editing action again with
// its count. Returns NoOp if there is nothing to repeat.
func (s *System) RepeatLastAction() handler.Result {
	action, count := s.LastRepeatableAction()
	if action == nil {
		return handler.NoOpWithMessage("no action to repeat")
	}
	if count > 0 {
		action.Count = count
	}
	return s.Dispatch(*action)
}

// RecentChanges returns the n most recent committed changes.
func (s *System) RecentChanges(n int) []hook.ChangeRecord {
	if s.changeLog == nil {
		return nil
	}
	return s.changeLog.RecentChanges(n)
}

// RegisterHook registers a hook with the hook manager.
func (s *System) RegisterHook(h hook.Hook) {
	s.hookManager.Register(h)
}

// UnregisterHook removes a hook by name.
func (s *System) UnregisterHook(name string) bool {
	return s.hookManager.Unregister(name)
}

// RegisterHandler registers a handler for a specific action.
func (s *System) RegisterHandler(actionName string, h handler.Handler) {
	s.dispatcher.RegisterHandler(actionName, h)
}

// RegisterNamespace registers a namespace handler.
func (s *System) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	s.dispatcher.RegisterNamespace(namespace, h)
}

// CanHandle returns true if some handler accepts the action.
func (s *System) CanHandle(actionName string) bool {
	return s.dispatcher.Router().CanRoute(actionName) || s.dispatcher.Registry().Has(actionName)
}

// ListActions returns the list actions followed by exact-name registrations.
func (s *System) ListActions() []string {
	return append(s.listHandler.Actions(), s.dispatcher.Registry().List()...)
}

// Reset clears metrics, the repeat state and the change log.
func (s *System) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m := s.dispatcher.Metrics(); m != nil {
		m.Reset()
	}
	if s.repeatHook != nil {
		s.repeatHook.Clear()
	}
	if s.changeLog != nil {
		s.changeLog.Clear()
	}
}

// SystemStats holds system statistics.
type SystemStats struct {
	Metrics *MetricsSnapshot

	NamespaceCount int
	ActionCount    int
	PreHookCount   int
	PostHookCount  int
	ChangeCount    int

	IsRunning bool
}

// Stats returns current system statistics.
func (s *System) Stats() SystemStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := SystemStats{
		NamespaceCount: len(s.dispatcher.Router().Namespaces()),
		ActionCount:    len(s.ListActions()),
		PreHookCount:   s.hookManager.PreHookCount(),
		PostHookCount:  s.hookManager.PostHookCount(),
		IsRunning:      s.started,
	}
	if s.changeLog != nil {
		stats.ChangeCount = len(s.changeLog.Changes())
	}
	if m := s.dispatcher.Metrics(); m != nil {
		snapshot := m.Snapshot()
		stats.Metrics = &snapshot
	}
	return stats
}
