package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/richlist/internal/config/loader"
	"github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/engine/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadConfig(t *testing.T, path string, env ...string) (*Config, error) {
	t.Helper()
	return LoadFrom(loader.NewTOMLLoader(path), loader.NewEnvLoaderFrom(loader.Prefix, env))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Lists.MaxDepth != list.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d", cfg.Lists.MaxDepth)
	}
	if cfg.RoleNames() != list.DefaultRoleNames() {
		t.Errorf("RoleNames = %+v", cfg.RoleNames())
	}
	if cfg.LogLevel() != logrus.InfoLevel {
		t.Errorf("LogLevel = %v", cfg.LogLevel())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := loadConfig(t, filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[lists]
maxDepth = 3

[logging]
format = "json"

[dispatcher]
slowAction = "5ms"
disabledActions = ["list.moveUp"]
`)

	cfg, err := loadConfig(t, path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q", cfg.Source)
	}
	if cfg.Lists.MaxDepth != 3 || cfg.Logging.Format != "json" {
		t.Errorf("unexpected %+v", cfg)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("unset level should keep default, got %q", cfg.Logging.Level)
	}
	if cfg.SlowActionThreshold() != 5*time.Millisecond {
		t.Errorf("SlowActionThreshold = %v", cfg.SlowActionThreshold())
	}
	if len(cfg.Dispatcher.DisabledActions) != 1 || cfg.Dispatcher.DisabledActions[0] != "list.moveUp" {
		t.Errorf("DisabledActions = %v", cfg.Dispatcher.DisabledActions)
	}
	if !cfg.Dispatcher.Metrics {
		t.Error("unset metrics should keep default")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"warn\"\n\n[lists]\nmaxDepth = 3\n")

	cfg, err := loadConfig(t, path,
		"RICHLIST_LOG_LEVEL=debug",
		"RICHLIST_MAX_DEPTH=1",
		"RICHLIST_KEYMAP=/tmp/keys.yaml",
		"RICHLIST_DISPATCHER_AUDIT=false",
	)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" || cfg.LogLevel() != logrus.DebugLevel {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if cfg.Lists.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d", cfg.Lists.MaxDepth)
	}
	if cfg.Keymap.File != "/tmp/keys.yaml" {
		t.Errorf("Keymap.File = %q", cfg.Keymap.File)
	}
	if cfg.Dispatcher.Audit {
		t.Error("audit should be disabled")
	}
}

func TestLoad_UnknownSetting(t *testing.T) {
	path := writeConfig(t, "[lists]\nmaxDepht = 3\n")

	_, err := loadConfig(t, path)
	if !errors.Is(err, ErrUnknownSetting) {
		t.Fatalf("expected ErrUnknownSetting, got %v", err)
	}
	if !strings.Contains(err.Error(), "maxDepht") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "[lists\n")

	_, err := loadConfig(t, path)
	var perr *loader.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"depth too small", func(c *Config) { c.Lists.MaxDepth = 0 }, "lists.maxDepth"},
		{"depth too large", func(c *Config) { c.Lists.MaxDepth = 17 }, "lists.maxDepth"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"role", func(c *Config) { c.Schema.ListItem = " " }, "schema.listItem"},
		{"platform", func(c *Config) { c.Keymap.Platform = "amiga" }, "keymap.platform"},
		{"slow action", func(c *Config) { c.Dispatcher.SlowAction = "soon" }, "dispatcher.slowAction"},
		{"repeat", func(c *Config) { c.Dispatcher.MaxRepeatCount = -1 }, "dispatcher.maxRepeatCount"},
		{"changelog", func(c *Config) { c.Dispatcher.ChangeLogSize = -1 }, "dispatcher.changeLogSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Errorf("error path = %v, want %s", err, tt.path)
			}
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Lists.MaxDepth = 99
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"lists.maxDepth", "logging.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %s", err, want)
		}
	}
}

func TestRoles(t *testing.T) {
	cfg := Default()
	cfg.Lists.MaxDepth = 2

	roles, err := cfg.Roles(model.DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	if roles.MaxDepth != 2 || roles.ListItem.Name != "list_item" {
		t.Errorf("unexpected roles %+v", roles)
	}

	cfg.Schema.BulletList = "nope"
	if _, err := cfg.Roles(model.DefaultSchema()); err == nil {
		t.Error("expected unknown type error")
	}
}

func TestMac(t *testing.T) {
	cfg := Default()
	if !cfg.Mac(true) || cfg.Mac(false) {
		t.Error("auto should follow host")
	}
	cfg.Keymap.Platform = "mac"
	if !cfg.Mac(false) {
		t.Error("mac should force Meta")
	}
	cfg.Keymap.Platform = "other"
	if cfg.Mac(true) {
		t.Error("other should force Ctrl")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Lists.MaxDepth = 7

	data, err := cfg.Encode()
	if err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, string(data))

	back, err := loadConfig(t, path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Lists.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d", back.Lists.MaxDepth)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultPath(); got != filepath.Join("/xdg", "richlist", "config.toml") {
		t.Errorf("DefaultPath = %q", got)
	}
}

func TestOrigin(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"warn\"\n")

	cfg, err := loadConfig(t, path, "RICHLIST_KEYMAP=/tmp/keys.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Override("logging.format", "json"); err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q after Override", cfg.Logging.Format)
	}

	tests := []struct {
		path  string
		value any
		layer string
	}{
		{"logging.level", "warn", "file"},
		{"logging.format", "json", "flags"},
		{"keymap.file", "/tmp/keys.yaml", "environment"},
		{"lists.maxDepth", int64(list.DefaultMaxDepth), "defaults"},
	}
	for _, tt := range tests {
		val, from, ok := cfg.Origin(tt.path)
		if !ok || val != tt.value || from != tt.layer {
			t.Errorf("Origin(%s) = %v, %q, %v; want %v, %q", tt.path, val, from, ok, tt.value, tt.layer)
		}
	}
	if _, _, ok := cfg.Origin("lists.nope"); ok {
		t.Error("Origin(lists.nope) found a value")
	}
}

func TestOverride(t *testing.T) {
	cfg := Default()
	if err := cfg.Override("lists.maxDepth", 2); err != nil {
		t.Fatal(err)
	}
	if cfg.Lists.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d", cfg.Lists.MaxDepth)
	}
	if _, from, _ := cfg.Origin("lists.maxDepth"); from != "flags" {
		t.Errorf("origin = %q, want flags", from)
	}

	if err := cfg.Override("lists.depth", 2); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("expected ErrUnknownSetting, got %v", err)
	}
}

func TestReload(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"warn\"\n")

	cfg, err := loadConfig(t, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Override("logging.format", "json"); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"error\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	next, err := cfg.Reload()
	if err != nil {
		t.Fatal(err)
	}
	if next.Logging.Level != "error" {
		t.Errorf("Level = %q after reload", next.Logging.Level)
	}
	if next.Logging.Format != "json" {
		t.Errorf("Format = %q, flags override lost", next.Logging.Format)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Reload changed the receiver: %q", cfg.Logging.Level)
	}

	changes := Changes(cfg, next)
	if len(changes) != 1 || changes[0].Path != "logging.level" || changes[0].OldValue != "warn" || changes[0].NewValue != "error" {
		t.Errorf("Changes = %+v", changes)
	}
}

func TestReload_Invalid(t *testing.T) {
	path := writeConfig(t, "[lists]\nmaxDepth = 3\n")

	cfg, err := loadConfig(t, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[lists]\nmaxDepth = 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.Reload(); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected validation error, got %v", err)
	}
}
