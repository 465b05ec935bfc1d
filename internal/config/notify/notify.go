// Package notify delivers configuration change notifications.
//
// Observers subscribe to every change or to a settings path; a path
// subscription also receives changes below it, so "logging" sees
// "logging.level". Diff turns two merged settings maps into the changes
// between them.
package notify

import (
	"reflect"
	"sort"
	"sync"

	"github.com/dshills/richlist/internal/config/layer"
)

// ChangeType is the kind of a configuration change.
type ChangeType int

const (
	// ChangeSet indicates a value was added or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a value was removed.
	ChangeDelete
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one changed setting.
type Change struct {
	// Path is the dot-separated setting path.
	Path string

	// Type is the kind of change.
	Type ChangeType

	// OldValue is the previous value; nil when the setting was added.
	OldValue any

	// NewValue is the new value; nil for deletes.
	NewValue any

	// Source identifies what triggered the change.
	Source string
}

// Observer is called for each delivered change.
type Observer func(change Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the observer.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	path     string // empty for global observers
	observer Observer
}

// Notifier manages subscriptions and delivers changes synchronously in
// subscription order.
type Notifier struct {
	mu      sync.RWMutex
	entries map[uint64]entry
	nextID  uint64
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{entries: make(map[uint64]entry)}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribePath("", observer)
}

// SubscribePath registers an observer for changes at path or below it.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.entries[id] = entry{path: path, observer: observer}
	return &Subscription{id: id, notifier: n}
}

// Notify delivers change to every matching observer. Observers run
// outside the lock and may unsubscribe.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	ids := make([]uint64, 0, len(n.entries))
	for id, e := range n.entries {
		if e.path == "" || e.path == change.Path || isParentPath(e.path, change.Path) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = n.entries[id].observer
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// NotifyAll delivers changes in order.
func (n *Notifier) NotifyAll(changes []Change) {
	for _, c := range changes {
		n.Notify(c)
	}
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entries, id)
}

// isParentPath reports whether parent is a proper path prefix of child,
// e.g. "logging" of "logging.level".
func isParentPath(parent, child string) bool {
	return len(child) > len(parent) && child[:len(parent)] == parent && child[len(parent)] == '.'
}

// Diff returns the leaf settings that differ between two merged settings
// maps, sorted by path.
func Diff(prev, next map[string]any, source string) []Change {
	before, after := layer.Flatten(prev), layer.Flatten(next)

	var changes []Change
	for path, nv := range after {
		ov, existed := before[path]
		if existed && reflect.DeepEqual(ov, nv) {
			continue
		}
		changes = append(changes, Change{Path: path, Type: ChangeSet, OldValue: ov, NewValue: nv, Source: source})
	}
	for path, ov := range before {
		if _, ok := after[path]; !ok {
			changes = append(changes, Change{Path: path, Type: ChangeDelete, OldValue: ov, Source: source})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}
