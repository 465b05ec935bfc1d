package keymap

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/richlist/internal/dispatcher/handlers/list"
)

func TestKeymapBuilders(t *testing.T) {
	km := NewKeymap("test").
		WithPriority(10).
		WithSource("test-source").
		Add("Tab", list.ActionIndent).
		AddBinding(NewBinding("Shift-Tab", list.ActionOutdent).WithCategory("Structure"))

	if km.Priority != 10 || km.Source != "test-source" {
		t.Errorf("unexpected keymap %+v", km)
	}
	if len(km.Bindings) != 2 {
		t.Fatalf("len(Bindings) = %d, want 2", len(km.Bindings))
	}
	if km.Bindings[1].Category != "Structure" {
		t.Errorf("Category = %q", km.Bindings[1].Category)
	}
}

func TestKeymapValidate(t *testing.T) {
	tests := []struct {
		name    string
		keymap  *Keymap
		wantErr bool
	}{
		{"valid", NewKeymap("a").Add("Enter", list.ActionEnter), false},
		{"unbind", NewKeymap("a").Add("Enter", ""), false},
		{"empty keys", NewKeymap("a").Add("", list.ActionEnter), true},
		{"bad chord", NewKeymap("a").Add("Hyper-x", list.ActionEnter), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.keymap.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestKeymapParseCanonicalizes(t *testing.T) {
	parsed, err := NewKeymap("a").Add("shift+mod+8", list.ActionToggleBulletList).Parse()
	if err != nil {
		t.Fatal(err)
	}
	if got := parsed.ParsedBindings[0].Keys; got != "Mod-Shift-8" {
		t.Errorf("Keys = %q, want Mod-Shift-8", got)
	}
}

func TestKeymapMerge(t *testing.T) {
	base := NewKeymap("base").Add("Tab", list.ActionIndent).Add("Enter", list.ActionEnter)
	over := NewKeymap("over").Add("tab", list.ActionOutdent).Add("Mod-Enter", list.ActionToggleTodoChecked)

	if err := base.Merge(over); err != nil {
		t.Fatal(err)
	}
	if len(base.Bindings) != 3 {
		t.Fatalf("len(Bindings) = %d, want 3", len(base.Bindings))
	}
	if base.Bindings[0].Action != list.ActionOutdent {
		t.Errorf("Tab action = %q", base.Bindings[0].Action)
	}
}

func TestKeymapClone(t *testing.T) {
	km := NewKeymap("a").Add("Tab", list.ActionIndent)
	clone := km.Clone()
	clone.Bindings[0].Action = "changed"
	if km.Bindings[0].Action != list.ActionIndent {
		t.Error("Clone shares bindings")
	}
}

func TestDefaultLookup(t *testing.T) {
	r := Default()
	r.SetMac(false)

	tests := []struct {
		keys   string
		action string
	}{
		{"Enter", list.ActionEnter},
		{"Backspace", list.ActionBackspace},
		{"Tab", list.ActionIndent},
		{"Shift-Tab", list.ActionOutdent},
		{"Alt-ArrowUp", list.ActionMoveUp},
		{"alt+down", list.ActionMoveDown},
		{"Mod-Shift-8", list.ActionToggleBulletList},
		{"Ctrl-Shift-9", list.ActionToggleOrderedList},
		{"Ctrl-Shift-7", list.ActionToggleTodoList},
		{"Ctrl-Enter", list.ActionToggleTodoChecked},
		{"Mod-Shift-Enter", list.ActionInsertEmptyAbove},
		{"Mod-Alt-Enter", list.ActionInsertEmptyBelow},
	}
	for _, tc := range tests {
		b, err := r.Lookup(tc.keys)
		if err != nil {
			t.Errorf("Lookup(%q) error: %v", tc.keys, err)
			continue
		}
		if b == nil || b.Action != tc.action {
			t.Errorf("Lookup(%q) = %+v, want %s", tc.keys, b, tc.action)
		}
	}

	if b, _ := r.Lookup("Meta-Enter"); b != nil {
		t.Errorf("Meta-Enter bound off mac: %+v", b)
	}
	if _, err := r.Lookup("Nope-x"); err == nil {
		t.Error("expected parse error")
	}
}

func TestMacResolution(t *testing.T) {
	r := Default()
	r.SetMac(true)

	b, err := r.Lookup("Meta-Shift-8")
	if err != nil || b == nil || b.Action != list.ActionToggleBulletList {
		t.Errorf("Lookup(Meta-Shift-8) = %+v, %v", b, err)
	}
	if b, _ := r.Lookup("Ctrl-Shift-8"); b != nil {
		t.Errorf("Ctrl-Shift-8 bound on mac: %+v", b)
	}
}

func TestRegistryPrecedence(t *testing.T) {
	r := Default()
	r.SetMac(false)

	user := NewKeymap("user").WithPriority(UserPriority).
		Add("Tab", list.ActionOutdent).
		Add("Mod-Enter", "")
	if err := r.Register(user); err != nil {
		t.Fatal(err)
	}

	if b, _ := r.Lookup("Tab"); b == nil || b.Action != list.ActionOutdent {
		t.Errorf("Tab = %+v, want outdent", b)
	}
	if b, _ := r.Lookup("Mod-Enter"); b != nil {
		t.Errorf("Mod-Enter should be unbound, got %+v", b)
	}

	all, err := r.LookupAll("Tab")
	if err != nil || len(all) != 2 {
		t.Fatalf("LookupAll = %d, %v", len(all), err)
	}
	if all[0].Keymap.Name != "user" {
		t.Errorf("first match from %q", all[0].Keymap.Name)
	}

	r.Unregister("user")
	if b, _ := r.Lookup("Tab"); b == nil || b.Action != list.ActionIndent {
		t.Errorf("Tab after unregister = %+v", b)
	}
}

func TestRegistryLaterWinsTie(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewKeymap("a").Add("Tab", list.ActionIndent))
	_ = r.Register(NewKeymap("b").Add("Tab", list.ActionOutdent))

	if b, _ := r.Lookup("Tab"); b == nil || b.Action != list.ActionOutdent {
		t.Errorf("Tab = %+v, want later registration", b)
	}
	if names := r.Keymaps(); len(names) != 2 || names[0].Name != "a" {
		t.Errorf("Keymaps order wrong")
	}
	if err := r.Register(nil); err != ErrNilKeymap {
		t.Errorf("Register(nil) = %v", err)
	}
}

func TestBindingsSorted(t *testing.T) {
	r := Default()
	r.SetMac(false)
	_ = r.Register(NewKeymap("user").WithPriority(1).Add("Alt-ArrowUp", ""))

	bindings := r.Bindings()
	if len(bindings) != len(DefaultListKeymap().Bindings)-1 {
		t.Fatalf("len(Bindings) = %d", len(bindings))
	}
	for i := 1; i < len(bindings); i++ {
		if bindings[i-1].Keys > bindings[i].Keys {
			t.Errorf("not sorted at %d: %q > %q", i, bindings[i-1].Keys, bindings[i].Keys)
		}
	}
	if keys := r.KeysFor(list.ActionMoveUp); len(keys) != 0 {
		t.Errorf("KeysFor(moveUp) = %v", keys)
	}
	if keys := r.KeysFor(list.ActionIndent); len(keys) != 1 || keys[0] != "Tab" {
		t.Errorf("KeysFor(indent) = %v", keys)
	}
}

func TestDefaultsCoverEveryAction(t *testing.T) {
	actions := DefaultListKeymap().Actions()
	for _, action := range list.Commands {
		if !actions[action] {
			t.Errorf("no default binding for %s", action)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	src := `name: mine
priority: 5
bindings:
  - keys: ctrl+shift+b
    action: list.toggleBulletList
    description: bullets
  - keys: Tab
    action: ""
`
	km, err := LoadYAML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if km.Name != "mine" || km.Priority != 5 || len(km.Bindings) != 2 {
		t.Fatalf("unexpected keymap %+v", km)
	}
	if !km.Bindings[1].IsUnbind() {
		t.Error("expected unbind")
	}

	if _, err := LoadYAML(strings.NewReader("bindings:\n  - keys: Hyper-x\n    action: a\n")); err == nil {
		t.Error("expected invalid chord error")
	}
	if _, err := LoadYAML(strings.NewReader("unknown: 1\n")); err == nil {
		t.Error("expected unknown field error")
	}
	if km, err := LoadYAML(strings.NewReader("")); err != nil || len(km.Bindings) != 0 {
		t.Errorf("empty document = %+v, %v", km, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	r, err := Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if len(r.Keymaps()) != 1 {
		t.Errorf("expected defaults only")
	}

	path := filepath.Join(dir, "keys.yaml")
	if err := os.WriteFile(path, []byte("bindings:\n  - keys: Tab\n    action: list.outdent\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	user := r.Get("user")
	if user == nil || user.Source != "user" || user.Priority != UserPriority {
		t.Fatalf("user keymap = %+v", user)
	}
	if b, _ := r.Lookup("Tab"); b == nil || b.Action != list.ActionOutdent {
		t.Errorf("Tab = %+v", b)
	}

	if err := os.WriteFile(path, []byte("bindings: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestEncodeYAMLRoundTrip(t *testing.T) {
	km := NewKeymap("out").Add("shift+tab", list.ActionOutdent)

	var buf bytes.Buffer
	if err := km.EncodeYAML(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "keys: Shift-Tab") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if km.Bindings[0].Keys != "shift+tab" {
		t.Error("EncodeYAML modified the keymap")
	}

	back, err := LoadYAML(&buf)
	if err != nil || back.Bindings[0].Action != list.ActionOutdent {
		t.Errorf("reload = %+v, %v", back, err)
	}

	path := filepath.Join(t.TempDir(), "k.yaml")
	if err := km.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Error(err)
	}
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory(DefaultListKeymap().Bindings)
	if len(groups) == 0 || groups[0].Name != "Structure" || len(groups[0].Bindings) != 4 {
		t.Errorf("unexpected groups %+v", groups)
	}
	if g := GroupByCategory([]Binding{{Keys: "x"}}); g[0].Name != "Other" {
		t.Errorf("uncategorised = %q", g[0].Name)
	}
}
