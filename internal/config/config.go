package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/dshills/richlist/internal/config/layer"
	"github.com/dshills/richlist/internal/config/loader"
	"github.com/dshills/richlist/internal/config/notify"
	"github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/engine/model"
)

// Depth limits accepted for lists.maxDepth.
const (
	MinMaxDepth = 1
	MaxMaxDepth = 16
)

// Config is the typed richlist configuration.
type Config struct {
	Schema     SchemaConfig     `toml:"schema"`
	Lists      ListsConfig      `toml:"lists"`
	Logging    LoggingConfig    `toml:"logging"`
	Keymap     KeymapConfig     `toml:"keymap"`
	Dispatcher DispatcherConfig `toml:"dispatcher"`

	// Source is the file the configuration was read from, if any.
	Source string `toml:"-"`

	layers *layer.Stack
	file   *loader.TOMLLoader
	env    *loader.EnvLoader
}

// SchemaConfig names the schema node types that play each list role.
type SchemaConfig struct {
	ListItem    string `toml:"listItem"`
	BulletList  string `toml:"bulletList"`
	OrderedList string `toml:"orderedList"`
	Paragraph   string `toml:"paragraph"`
	// Heading may be empty when the schema has no heading type.
	Heading string `toml:"heading"`
}

// ListsConfig holds list editing limits.
type ListsConfig struct {
	// MaxDepth is the deepest list level Tab may create.
	MaxDepth int `toml:"maxDepth"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	// Level is a logrus level name ("debug", "info", "warn", ...).
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`
}

// KeymapConfig locates the user keymap.
type KeymapConfig struct {
	// File is a YAML keymap layered over the defaults. Empty means none.
	File string `toml:"file"`

	// Platform selects how Mod resolves: "auto", "mac" or "other".
	Platform string `toml:"platform"`
}

// DispatcherConfig tunes the action dispatcher.
type DispatcherConfig struct {
	Metrics         bool     `toml:"metrics"`
	SlowAction      string   `toml:"slowAction"`
	MaxRepeatCount  int      `toml:"maxRepeatCount"`
	ChangeLogSize   int      `toml:"changeLogSize"`
	Audit           bool     `toml:"audit"`
	DisabledActions []string `toml:"disabledActions"`
}

// Default returns the built-in configuration.
func Default() *Config {
	names := list.DefaultRoleNames()
	return &Config{
		Schema: SchemaConfig{
			ListItem:    names.ListItem,
			BulletList:  names.BulletList,
			OrderedList: names.OrderedList,
			Paragraph:   names.Paragraph,
			Heading:     names.Heading,
		},
		Lists: ListsConfig{MaxDepth: list.DefaultMaxDepth},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Keymap: KeymapConfig{Platform: "auto"},
		Dispatcher: DispatcherConfig{
			Metrics:        true,
			MaxRepeatCount: 1000,
			ChangeLogSize:  500,
			Audit:          true,
		},
	}
}

// DefaultPath returns the user configuration file location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "richlist", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "richlist", "config.toml")
}

// Load builds the configuration from the defaults, the TOML file at path
// and the RICHLIST_* environment, in increasing precedence, then validates
// it. A missing file is not an error. Override adds command-line values on
// top.
func Load(path string) (*Config, error) {
	return LoadFrom(loader.NewTOMLLoader(path), loader.NewEnvLoader(loader.Prefix))
}

// LoadFrom is Load with explicit sources. Either may be nil.
func LoadFrom(file *loader.TOMLLoader, env *loader.EnvLoader) (*Config, error) {
	cfg, err := load(file, env, nil)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load stacks the defaults, file, env and flags layers and decodes the
// result. flags may be nil.
func load(file *loader.TOMLLoader, env *loader.EnvLoader, flags *layer.Layer) (*Config, error) {
	defaults, err := Default().encodeSettings()
	if err != nil {
		return nil, err
	}
	stack := layer.NewStack(layer.New(layer.SourceDefaults, defaults))

	var source string
	if file != nil {
		data, err := file.Load()
		if err != nil {
			return nil, err
		}
		if data != nil {
			l := layer.New(layer.SourceFile, data)
			l.Path = file.Path()
			stack.Add(l)
			source = file.Path()
		}
	}

	if env != nil {
		data, err := env.Load()
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			stack.Add(layer.New(layer.SourceEnv, data))
		}
	}

	if flags != nil {
		stack.Add(flags.Clone())
	}

	cfg := Default()
	if err := cfg.apply(stack.Merge()); err != nil {
		return nil, err
	}
	cfg.Source = source
	cfg.layers = stack
	cfg.file = file
	cfg.env = env
	return cfg, nil
}

// Reload reads the file and environment again, keeping command-line
// overrides, and validates the result. The receiver is not changed.
func (c *Config) Reload() (*Config, error) {
	var flags *layer.Layer
	if c.layers != nil {
		flags = c.layers.Layer(layer.SourceFlags.String())
	}
	next, err := load(c.file, c.env, flags)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return next, nil
}

// Override sets a setting in the command-line layer, above every other
// source. The caller validates afterwards.
func (c *Config) Override(path string, value any) error {
	stack, err := c.stack()
	if err != nil {
		return err
	}
	stack.Set(layer.SourceFlags, path, value)
	return c.apply(stack.Merge())
}

// Settings returns the merged settings as a nested map.
func (c *Config) Settings() map[string]any {
	stack, err := c.stack()
	if err != nil {
		return nil
	}
	return stack.Merge()
}

// Origin returns the value of a setting and the name of the layer that
// supplied it: "defaults", "file", "environment" or "flags".
func (c *Config) Origin(path string) (any, string, bool) {
	stack, err := c.stack()
	if err != nil {
		return nil, "", false
	}
	val, l, ok := stack.Lookup(path)
	if !ok {
		return nil, "", false
	}
	return val, l.Name, true
}

// Changes lists the settings that differ between two configurations.
func Changes(prev, next *Config) []notify.Change {
	return notify.Diff(prev.Settings(), next.Settings(), next.Source)
}

// stack returns the layers the configuration was built from. A Config
// made by Default gets a single defaults layer.
func (c *Config) stack() (*layer.Stack, error) {
	if c.layers == nil {
		defaults, err := c.encodeSettings()
		if err != nil {
			return nil, err
		}
		c.layers = layer.NewStack(layer.New(layer.SourceDefaults, defaults))
	}
	return c.layers, nil
}

// encodeSettings returns the configuration as a nested settings map.
func (c *Config) encodeSettings() (map[string]any, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	settings := make(map[string]any)
	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return settings, nil
}

// apply decodes a merged settings map over the current values.
func (c *Config) apply(settings map[string]any) error {
	if len(settings) == 0 {
		return nil
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding merged settings: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s", ErrUnknownSetting, strings.TrimSpace(strict.String()))
		}
		return fmt.Errorf("decoding settings: %w", err)
	}
	return nil
}

// Validate checks every setting and reports all failures together.
func (c *Config) Validate() error {
	var errs []error

	roles := []struct{ path, name string }{
		{"schema.listItem", c.Schema.ListItem},
		{"schema.bulletList", c.Schema.BulletList},
		{"schema.orderedList", c.Schema.OrderedList},
		{"schema.paragraph", c.Schema.Paragraph},
	}
	for _, r := range roles {
		if strings.TrimSpace(r.name) == "" {
			errs = append(errs, invalid(r.path, r.name, "role name must not be empty"))
		}
	}

	if c.Lists.MaxDepth < MinMaxDepth || c.Lists.MaxDepth > MaxMaxDepth {
		errs = append(errs, invalid("lists.maxDepth", c.Lists.MaxDepth, "must be between %d and %d", MinMaxDepth, MaxMaxDepth))
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, invalid("logging.level", c.Logging.Level, "unknown level"))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, invalid("logging.format", c.Logging.Format, "must be text or json"))
	}

	switch c.Keymap.Platform {
	case "", "auto", "mac", "other":
	default:
		errs = append(errs, invalid("keymap.platform", c.Keymap.Platform, "must be auto, mac or other"))
	}

	if c.Dispatcher.SlowAction != "" {
		if d, err := time.ParseDuration(c.Dispatcher.SlowAction); err != nil || d < 0 {
			errs = append(errs, invalid("dispatcher.slowAction", c.Dispatcher.SlowAction, "must be a non-negative duration"))
		}
	}
	if c.Dispatcher.MaxRepeatCount < 0 {
		errs = append(errs, invalid("dispatcher.maxRepeatCount", c.Dispatcher.MaxRepeatCount, "must not be negative"))
	}
	if c.Dispatcher.ChangeLogSize < 0 {
		errs = append(errs, invalid("dispatcher.changeLogSize", c.Dispatcher.ChangeLogSize, "must not be negative"))
	}

	return errors.Join(errs...)
}

// RoleNames returns the configured schema role names.
func (c *Config) RoleNames() list.RoleNames {
	return list.RoleNames{
		ListItem:    c.Schema.ListItem,
		BulletList:  c.Schema.BulletList,
		OrderedList: c.Schema.OrderedList,
		Paragraph:   c.Schema.Paragraph,
		Heading:     c.Schema.Heading,
	}
}

// Roles resolves the configured role names against schema.
func (c *Config) Roles(schema *model.Schema) (*list.Roles, error) {
	return list.NewRoles(schema, c.RoleNames(), c.Lists.MaxDepth)
}

// LogLevel returns the parsed logging level, defaulting to info.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// SlowActionThreshold returns the parsed slow-action threshold; zero
// disables slow-action reporting.
func (c *Config) SlowActionThreshold() time.Duration {
	d, _ := time.ParseDuration(c.Dispatcher.SlowAction)
	return d
}

// Mac reports whether Mod resolves to Meta, given the host platform.
func (c *Config) Mac(hostIsMac bool) bool {
	switch c.Keymap.Platform {
	case "mac":
		return true
	case "other":
		return false
	default:
		return hostIsMac
	}
}

// Encode writes the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
