package hook

import (
	"sort"
	"sync"

	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/input"
)

// Manager manages dispatch hooks with priority-based ordering.
//
// Pre-hooks run from highest to lowest priority and may cancel the
// dispatch. Post-hooks run from lowest to highest priority so the highest
// priority hook sees the final result. Registering a hook under an existing
// name replaces it.
type Manager struct {
	mu        sync.RWMutex
	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// NewManager creates a new hook manager.
func NewManager() *Manager {
	return &Manager{}
}

// upsert replaces the hook named like h or appends it, then re-sorts.
func upsert[H Hook](hooks []H, h H, less func(a, b H) bool) []H {
	replaced := false
	for i, existing := range hooks {
		if existing.Name() == h.Name() {
			hooks[i] = h
			replaced = true
			break
		}
	}
	if !replaced {
		hooks = append(hooks, h)
	}
	sort.SliceStable(hooks, func(i, j int) bool { return less(hooks[i], hooks[j]) })
	return hooks
}

// remove deletes the hook with the given name.
func remove[H Hook](hooks []H, name string) ([]H, bool) {
	for i, h := range hooks {
		if h.Name() == name {
			return append(hooks[:i], hooks[i+1:]...), true
		}
	}
	return hooks, false
}

func names[H Hook](hooks []H) []string {
	out := make([]string, len(hooks))
	for i, h := range hooks {
		out[i] = h.Name()
	}
	return out
}

// RegisterPre adds a pre-dispatch hook.
func (m *Manager) RegisterPre(h PreDispatchHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preHooks = upsert(m.preHooks, h, func(a, b PreDispatchHook) bool {
		return a.Priority() > b.Priority()
	})
}

// RegisterPost adds a post-dispatch hook.
func (m *Manager) RegisterPost(h PostDispatchHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postHooks = upsert(m.postHooks, h, func(a, b PostDispatchHook) bool {
		return a.Priority() < b.Priority()
	})
}

// Register adds a hook to the pre list, the post list or both, depending
// on the interfaces it implements.
func (m *Manager) Register(h Hook) {
	if pre, ok := h.(PreDispatchHook); ok {
		m.RegisterPre(pre)
	}
	if post, ok := h.(PostDispatchHook); ok {
		m.RegisterPost(post)
	}
}

// UnregisterPre removes a pre-dispatch hook by name.
func (m *Manager) UnregisterPre(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	m.preHooks, ok = remove(m.preHooks, name)
	return ok
}

// UnregisterPost removes a post-dispatch hook by name.
func (m *Manager) UnregisterPost(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	m.postHooks, ok = remove(m.postHooks, name)
	return ok
}

// Unregister removes a hook by name from both pre and post lists.
func (m *Manager) Unregister(name string) bool {
	pre := m.UnregisterPre(name)
	post := m.UnregisterPost(name)
	return pre || post
}

// RunPreDispatch runs all pre-dispatch hooks in priority order.
// Returns false if any hook cancels the action.
func (m *Manager) RunPreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	m.mu.RLock()
	hooks := append([]PreDispatchHook(nil), m.preHooks...)
	m.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

// RunPostDispatch runs all post-dispatch hooks from lowest to highest priority.
func (m *Manager) RunPostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	m.mu.RLock()
	hooks := append([]PostDispatchHook(nil), m.postHooks...)
	m.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(action, ctx, result)
	}
}

// PreHookCount returns the number of registered pre-dispatch hooks.
func (m *Manager) PreHookCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.preHooks)
}

// PostHookCount returns the number of registered post-dispatch hooks.
func (m *Manager) PostHookCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.postHooks)
}

// PreHookNames returns the names of all pre-dispatch hooks in run order.
func (m *Manager) PreHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return names(m.preHooks)
}

// PostHookNames returns the names of all post-dispatch hooks in run order.
func (m *Manager) PostHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return names(m.postHooks)
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preHooks = nil
	m.postHooks = nil
}
