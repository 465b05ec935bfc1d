package keymap

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/dshills/richlist/internal/input/key"
)

// ErrNilKeymap is returned when registering a nil keymap.
var ErrNilKeymap = errors.New("cannot register nil keymap")

// Registry manages layered keymaps and provides binding lookup.
type Registry struct {
	mu sync.RWMutex

	// keymaps holds all registered keymaps by name.
	keymaps map[string]*registered

	// mac selects how the abstract Mod modifier resolves.
	mac bool

	seq int
}

type registered struct {
	*ParsedKeymap
	order int
}

// NewRegistry creates a new keymap registry for the running platform.
func NewRegistry() *Registry {
	return &Registry{
		keymaps: make(map[string]*registered),
		mac:     runtime.GOOS == "darwin",
	}
}

// SetMac selects whether Mod resolves to Meta (true) or Ctrl (false).
func (r *Registry) SetMac(mac bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mac = mac
}

// Register adds a keymap to the registry.
// If a keymap with the same name already exists, it is replaced.
func (r *Registry) Register(km *Keymap) error {
	if km == nil {
		return ErrNilKeymap
	}

	parsed, err := km.Parse()
	if err != nil {
		return fmt.Errorf("parsing keymap %q: %w", km.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.keymaps[km.Name] = &registered{ParsedKeymap: parsed, order: r.seq}
	return nil
}

// Unregister removes a keymap from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keymaps, name)
}

// Get returns a keymap by name.
func (r *Registry) Get(name string) *ParsedKeymap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if km, ok := r.keymaps[name]; ok {
		return km.ParsedKeymap
	}
	return nil
}

// Lookup finds the winning binding for a pressed chord.
// It returns nil when nothing is bound or the winner unbinds the chord.
func (r *Registry) Lookup(keys string) (*Binding, error) {
	chord, err := key.Parse(keys)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.findMatches(chord)
	if len(matches) == 0 || matches[0].IsUnbind() {
		return nil, nil
	}
	b := matches[0].Binding
	return &b, nil
}

// LookupAll returns every binding for a chord, highest precedence first.
func (r *Registry) LookupAll(keys string) ([]BindingMatch, error) {
	chord, err := key.Parse(keys)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findMatches(chord), nil
}

func (r *Registry) findMatches(chord key.Chord) []BindingMatch {
	matches := make([]BindingMatch, 0)
	for _, km := range r.keymaps {
		for i := range km.ParsedBindings {
			pb := &km.ParsedBindings[i]
			if !pb.Match(chord, r.mac) {
				continue
			}
			match := BindingMatch{ParsedBinding: pb, Keymap: km.Keymap, order: km.order}
			match.CalculateScore()
			matches = append(matches, match)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Less(matches[j])
	})
	return matches
}

// Bindings returns the effective binding of every chord, sorted by key.
// Chords whose winning binding unbinds them are left out.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := make(map[key.Chord]BindingMatch)
	for _, km := range r.keymaps {
		for i := range km.ParsedBindings {
			pb := &km.ParsedBindings[i]
			match := BindingMatch{ParsedBinding: pb, Keymap: km.Keymap, order: km.order}
			match.CalculateScore()

			c := pb.Chord.Resolve(r.mac)
			if cur, ok := best[c]; !ok || match.Less(cur) {
				best[c] = match
			}
		}
	}

	out := make([]Binding, 0, len(best))
	for _, m := range best {
		if !m.IsUnbind() {
			out = append(out, m.Binding)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Keys < out[j].Keys
	})
	return out
}

// Keymaps returns all registered keymaps in registration order.
func (r *Registry) Keymaps() []*ParsedKeymap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*registered, 0, len(r.keymaps))
	for _, km := range r.keymaps {
		all = append(all, km)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].order < all[j].order })

	result := make([]*ParsedKeymap, len(all))
	for i, km := range all {
		result[i] = km.ParsedKeymap
	}
	return result
}

// KeysFor returns the chords bound to an action, sorted.
func (r *Registry) KeysFor(action string) []string {
	var keys []string
	for _, b := range r.Bindings() {
		if b.Action == action {
			keys = append(keys, b.Keys)
		}
	}
	return keys
}
