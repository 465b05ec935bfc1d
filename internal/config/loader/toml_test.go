package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestTOMLLoader_Load(t *testing.T) {
	fsys := fstest.MapFS{"config.toml": {Data: []byte(`
[lists]
maxDepth = 3

[logging]
level = "debug"
format = "json"

[dispatcher]
disabledActions = ["list.moveUp"]
`)}}

	config, err := NewTOMLLoaderFS(fsys, "config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := getByPath(config, "lists.maxDepth"); !ok || val != int64(3) {
		t.Errorf("lists.maxDepth = %v (%T), want 3", val, val)
	}
	if val, ok := getByPath(config, "logging.level"); !ok || val != "debug" {
		t.Errorf("logging.level = %v, want debug", val)
	}
	val, ok := getByPath(config, "dispatcher.disabledActions")
	if arr, isArr := val.([]any); !ok || !isArr || len(arr) != 1 || arr[0] != "list.moveUp" {
		t.Errorf("dispatcher.disabledActions = %v", val)
	}
}

func TestTOMLLoader_MissingFile(t *testing.T) {
	config, err := NewTOMLLoaderFS(fstest.MapFS{}, "missing.toml").Load()
	if err != nil {
		t.Errorf("missing file should not be an error: %v", err)
	}
	if config != nil {
		t.Errorf("missing file should return nil map, got %v", config)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	fsys := fstest.MapFS{"bad.toml": {Data: []byte("[lists]\nmaxDepth = = 3\n")}}

	_, err := NewTOMLLoaderFS(fsys, "bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Path != "bad.toml" || perr.Line != 2 {
		t.Errorf("ParseError = %+v, want line 2 of bad.toml", perr)
	}
	if !strings.Contains(perr.Error(), "line 2") {
		t.Errorf("Error() = %q", perr.Error())
	}
}

func TestTOMLLoader_EmptyPath(t *testing.T) {
	config, err := NewTOMLLoader("").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v, want nil, nil", config, err)
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader("[keymap]\nfile = \"keys.yaml\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if val, _ := getByPath(config, "keymap.file"); val != "keys.yaml" {
		t.Errorf("keymap.file = %v", val)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"lists":   map[string]any{"maxDepth": int64(5)},
		"logging": map[string]any{"level": "info", "format": "text"},
	}
	src := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"keymap":  map[string]any{"file": "k.yaml"},
	}

	merged := DeepMerge(dst, src)

	if val, _ := getByPath(merged, "logging.level"); val != "debug" {
		t.Errorf("logging.level = %v, want debug", val)
	}
	if val, _ := getByPath(merged, "logging.format"); val != "text" {
		t.Errorf("logging.format = %v, want text", val)
	}
	if val, _ := getByPath(merged, "keymap.file"); val != "k.yaml" {
		t.Errorf("keymap.file = %v", val)
	}
	if val, _ := getByPath(merged, "lists.maxDepth"); val != int64(5) {
		t.Errorf("lists.maxDepth = %v", val)
	}

	if got := DeepMerge(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("DeepMerge(nil, nil) = %v", got)
	}
}

// getByPath reads a value from a nested map using a dot-separated path.
func getByPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}
