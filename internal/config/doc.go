// Package config provides the richlist configuration.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command-line Flags      │  ← --log-level, --log-format
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← RICHLIST_*
//	├─────────────────────────────┤
//	│  2. User Settings           │  ← ~/.config/richlist/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← lowest priority
//	└─────────────────────────────┘
//
// Each source is read as a map and held as a layer; the merged layers are
// decoded into the typed Config with unknown keys rejected. Origin reports
// which layer supplied a setting, and Reload rereads the file and
// environment while keeping flag overrides.
//
// # Sub-packages
//
//   - loader: TOML and environment variable loading
//   - layer: priority-ordered layers and merging
//   - notify: change notification for reloaded settings
//   - watcher: fsnotify based file watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	roles, err := cfg.Roles(model.DefaultSchema())
//
// # Settings
//
//	[schema]
//	listItem = "list_item"
//	bulletList = "bullet_list"
//	orderedList = "ordered_list"
//	paragraph = "paragraph"
//	heading = "heading"
//
//	[lists]
//	maxDepth = 5
//
//	[logging]
//	level = "info"    # RICHLIST_LOG_LEVEL
//	format = "text"   # RICHLIST_LOG_FORMAT
//
//	[keymap]
//	file = ""         # RICHLIST_KEYMAP
//	platform = "auto"
//
//	[dispatcher]
//	metrics = true
//	slowAction = ""
//	maxRepeatCount = 1000
//	changeLogSize = 500
//	audit = true
//	disabledActions = []
//
// RICHLIST_MAX_DEPTH overrides lists.maxDepth. Other settings take their
// path in upper snake case, e.g. RICHLIST_DISPATCHER_MAX_REPEAT_COUNT.
package config
