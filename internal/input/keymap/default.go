package keymap

import "github.com/dshills/richlist/internal/dispatcher/handlers/list"

// LoadDefaults loads the default keymap into the registry.
func LoadDefaults(r *Registry) error {
	return r.Register(DefaultListKeymap())
}

// Default returns a registry for the running platform holding the default
// list bindings.
func Default() *Registry {
	r := NewRegistry()
	if err := LoadDefaults(r); err != nil {
		panic("keymap: invalid default keymap: " + err.Error())
	}
	return r
}

// DefaultListKeymap returns the default list editing bindings.
func DefaultListKeymap() *Keymap {
	return &Keymap{
		Name:   "default-list",
		Source: "default",
		Bindings: []Binding{
			// Structure
			{Keys: "Enter", Action: list.ActionEnter, Description: "Split or exit list item", Category: "Structure"},
			{Keys: "Backspace", Action: list.ActionBackspace, Description: "Lift or join at item start", Category: "Structure"},
			{Keys: "Tab", Action: list.ActionIndent, Description: "Indent list items", Category: "Structure"},
			{Keys: "Shift-Tab", Action: list.ActionOutdent, Description: "Outdent list items", Category: "Structure"},

			// Movement
			{Keys: "Alt-ArrowUp", Action: list.ActionMoveUp, Description: "Move items up", Category: "Movement"},
			{Keys: "Alt-ArrowDown", Action: list.ActionMoveDown, Description: "Move items down", Category: "Movement"},

			// List type
			{Keys: "Mod-Shift-8", Action: list.ActionToggleBulletList, Description: "Toggle bullet list", Category: "List Type"},
			{Keys: "Mod-Shift-9", Action: list.ActionToggleOrderedList, Description: "Toggle ordered list", Category: "List Type"},
			{Keys: "Mod-Shift-7", Action: list.ActionToggleTodoList, Description: "Toggle todo list", Category: "List Type"},

			// Todo
			{Keys: "Mod-Enter", Action: list.ActionToggleTodoChecked, Description: "Toggle todo checked", Category: "Todo"},

			// Insertion
			{Keys: "Mod-Shift-Enter", Action: list.ActionInsertEmptyAbove, Description: "Insert empty item above", Category: "Insertion"},
			{Keys: "Mod-Alt-Enter", Action: list.ActionInsertEmptyBelow, Description: "Insert empty item below", Category: "Insertion"},
		},
	}
}
