// Package loader reads richlist configuration sources into nested maps.
//
// TOML files and RICHLIST_* environment variables are both loaded as
// map[string]any so they can be layered with DeepMerge before being
// decoded into the typed config.Config.
package loader

// Source is one configuration layer. Load returns nil, nil when the
// source is absent.
type Source interface {
	Load() (map[string]any, error)
}

var (
	_ Source = (*TOMLLoader)(nil)
	_ Source = (*EnvLoader)(nil)
)

// DeepMerge merges src into dst and returns dst. Tables merge key by key;
// any other value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, val := range src {
		if sub, ok := val.(map[string]any); ok {
			if existing, ok := dst[key].(map[string]any); ok {
				dst[key] = DeepMerge(existing, sub)
				continue
			}
		}
		dst[key] = val
	}
	return dst
}
