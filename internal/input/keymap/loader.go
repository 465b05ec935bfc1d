package keymap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/richlist/internal/input/key"
)

// UserPriority is the keymap priority given to user overrides.
const UserPriority = 10

// LoadYAML decodes a keymap from a YAML document and validates it.
//
//	name: my-keys
//	bindings:
//	  - keys: Ctrl-Shift-8
//	    action: list.toggleBulletList
//	  - keys: Mod-Shift-8
//	    action: ""        # unbind
func LoadYAML(r io.Reader) (*Keymap, error) {
	km := NewKeymap("")
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(km); err != nil {
		if errors.Is(err, io.EOF) {
			return km, nil
		}
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}
	if err := km.Validate(); err != nil {
		return nil, err
	}
	return km, nil
}

// LoadFile loads a keymap from a YAML file.
func LoadFile(path string) (*Keymap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	km, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return km, nil
}

// Load returns the default registry with the user keymap at path layered
// on top. An empty path or a missing file yields just the defaults.
func Load(path string) (*Registry, error) {
	r := Default()
	if path == "" {
		return r, nil
	}

	km, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, err
	}
	if km.Name == "" {
		km.Name = "user"
	}
	km.Source = "user"
	if km.Priority == 0 {
		km.Priority = UserPriority
	}
	if err := r.Register(km); err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeYAML renders the keymap with canonical chord names.
func (k *Keymap) EncodeYAML(w io.Writer) error {
	out := k.Clone()
	for i, b := range out.Bindings {
		if norm, err := key.Normalize(b.Keys); err == nil {
			out.Bindings[i].Keys = norm
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding keymap: %w", err)
	}
	return enc.Close()
}

// SaveFile saves a keymap to a YAML file.
func (k *Keymap) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}
	if err := k.EncodeYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
