package dispatcher

import (
	"slices"
	"strings"
	"sync"

	"github.com/dshills/richlist/internal/dispatcher/handler"
)

// Router routes actions to namespace handlers.
// An action named "list.indent" is routed to the handler owning "list".
type Router struct {
	mu         sync.RWMutex
	namespaces map[string]handler.NamespaceHandler
	fallback   handler.Handler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{namespaces: make(map[string]handler.NamespaceHandler)}
}

// RegisterNamespace registers a handler for all actions in a namespace,
// replacing any previous owner.
func (r *Router) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[namespace] = h
}

// UnregisterNamespace removes a namespace handler.
func (r *Router) UnregisterNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.namespaces, namespace)
}

// SetFallback sets the handler used for actions no namespace claims.
func (r *Router) SetFallback(h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// Route finds the handler for an action, or nil.
func (r *Router) Route(actionName string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ns, ok := r.claim(actionName); ok {
		return handler.AsHandler(ns)
	}
	return r.fallback
}

// CanRoute reports whether Route would return a handler.
func (r *Router) CanRoute(actionName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.claim(actionName); ok {
		return true
	}
	return r.fallback != nil
}

// claim returns the namespace handler that accepts the action.
// Must be called with the lock held.
func (r *Router) claim(actionName string) (handler.NamespaceHandler, bool) {
	namespace := extractNamespace(actionName)
	if namespace == "" {
		return nil, false
	}
	h, ok := r.namespaces[namespace]
	if !ok || !h.CanHandle(actionName) {
		return nil, false
	}
	return h, true
}

// GetNamespaceHandler returns the handler for a namespace, or nil.
func (r *Router) GetNamespaceHandler(namespace string) handler.NamespaceHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namespaces[namespace]
}

// HasNamespace reports whether a handler owns the namespace.
func (r *Router) HasNamespace(namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.namespaces[namespace]
	return ok
}

// Namespaces returns the registered namespace names, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// extractNamespace returns the part of "namespace.action" before the first
// dot, or "" if there is no dot.
func extractNamespace(actionName string) string {
	namespace, _, ok := strings.Cut(actionName, ".")
	if !ok {
		return ""
	}
	return namespace
}

// ExtractActionName strips the namespace from an action name.
// For "list.indent", returns "indent". Names without a namespace are
// returned unchanged.
func ExtractActionName(fullName string) string {
	_, name, ok := strings.Cut(fullName, ".")
	if !ok {
		return fullName
	}
	return name
}

// BuildActionName joins a namespace and an action.
// For "list" and "indent", returns "list.indent".
func BuildActionName(namespace, action string) string {
	if namespace == "" {
		return action
	}
	return namespace + "." + action
}
