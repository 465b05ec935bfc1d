package layer

import (
	"reflect"
	"testing"
)

func TestSource_String(t *testing.T) {
	tests := []struct {
		source Source
		want   string
	}{
		{SourceDefaults, "defaults"},
		{SourceFile, "file"},
		{SourceEnv, "environment"},
		{SourceFlags, "flags"},
		{Source(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.source.String(); got != tt.want {
			t.Errorf("Source(%d).String() = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestStack_MergeByPriority(t *testing.T) {
	s := NewStack(
		New(SourceEnv, map[string]any{"logging": map[string]any{"level": "debug"}}),
		New(SourceDefaults, map[string]any{
			"logging": map[string]any{"level": "info", "format": "text"},
			"lists":   map[string]any{"maxDepth": int64(5)},
		}),
		New(SourceFile, map[string]any{
			"logging": map[string]any{"level": "warn", "format": "json"},
		}),
	)

	got := s.Merge()
	want := map[string]any{
		"logging": map[string]any{"level": "debug", "format": "json"},
		"lists":   map[string]any{"maxDepth": int64(5)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}

	names := []string{}
	for _, l := range s.Layers() {
		names = append(names, l.Name)
	}
	if !reflect.DeepEqual(names, []string{"defaults", "file", "environment"}) {
		t.Errorf("Layers() = %v", names)
	}
}

func TestStack_MergeDoesNotAliasLayers(t *testing.T) {
	defaults := New(SourceDefaults, map[string]any{"logging": map[string]any{"level": "info"}})
	s := NewStack(defaults, New(SourceFile, map[string]any{"logging": map[string]any{"level": "warn"}}))

	s.Merge()
	if v, _ := GetByPath(defaults.Data, "logging.level"); v != "info" {
		t.Errorf("defaults layer changed to %v", v)
	}
}

func TestStack_Lookup(t *testing.T) {
	s := NewStack(
		New(SourceDefaults, map[string]any{"logging": map[string]any{"level": "info", "format": "text"}}),
		New(SourceFile, map[string]any{"logging": map[string]any{"level": "warn"}}),
	)

	val, l, ok := s.Lookup("logging.level")
	if !ok || val != "warn" || l.Name != "file" {
		t.Errorf("Lookup(level) = %v, %v, %v", val, l, ok)
	}
	val, l, ok = s.Lookup("logging.format")
	if !ok || val != "text" || l.Name != "defaults" {
		t.Errorf("Lookup(format) = %v, %v, %v", val, l, ok)
	}
	if _, _, ok := s.Lookup("logging.color"); ok {
		t.Error("Lookup(color) found a value")
	}
}

func TestStack_SetCreatesLayer(t *testing.T) {
	s := NewStack(New(SourceDefaults, map[string]any{"logging": map[string]any{"level": "info"}}))
	s.Set(SourceFlags, "logging.level", "error")

	if l := s.Layer("flags"); l == nil || l.Priority != PriorityFlags {
		t.Fatalf("flags layer = %+v", l)
	}
	if v, _ := GetByPath(s.Merge(), "logging.level"); v != "error" {
		t.Errorf("merged level = %v", v)
	}

	s.Set(SourceFlags, "logging.format", "json")
	if got := len(s.Layers()); got != 2 {
		t.Errorf("len(Layers()) = %d, want 2", got)
	}
}

func TestStack_AddReplacesByName(t *testing.T) {
	s := NewStack(New(SourceFile, map[string]any{"a": int64(1)}))
	s.Add(New(SourceFile, map[string]any{"a": int64(2)}))

	if got := len(s.Layers()); got != 1 {
		t.Fatalf("len(Layers()) = %d, want 1", got)
	}
	if v, _ := GetByPath(s.Merge(), "a"); v != int64(2) {
		t.Errorf("a = %v", v)
	}
}

func TestStack_Clone(t *testing.T) {
	s := NewStack(New(SourceFlags, map[string]any{"logging": map[string]any{"level": "debug"}}))
	c := s.Clone()
	c.Set(SourceFlags, "logging.level", "error")

	if v, _ := GetByPath(s.Merge(), "logging.level"); v != "debug" {
		t.Errorf("original changed to %v", v)
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten(map[string]any{
		"logging": map[string]any{"level": "info"},
		"top":     true,
	})
	want := map[string]any{"logging.level": "info", "top": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestGetSetByPath(t *testing.T) {
	data := map[string]any{}
	SetByPath(data, "a.b.c", 1)
	if v, ok := GetByPath(data, "a.b.c"); !ok || v != 1 {
		t.Errorf("GetByPath(a.b.c) = %v, %v", v, ok)
	}
	if _, ok := GetByPath(data, "a.b.c.d"); ok {
		t.Error("GetByPath through a leaf succeeded")
	}
	if _, ok := GetByPath(data, "a.x"); ok {
		t.Error("GetByPath(a.x) succeeded")
	}
}
