// Package script drives an edit session from Lua.
//
// A Runner exposes the session to a sandboxed gopher-lua state with only
// the base, string, table and math libraries open. Scripts see these
// globals:
//
//	run(action [, count])    dispatch an action; returns status, reason
//	press(keys)              run the action bound to a chord; returns status, reason
//	select(anchor [, head])  place a text selection
//	select_node(pos)         select the node starting at pos
//	selection()              anchor, head and "text" or "node"
//	text_cursor()            text of the textblock holding the head and the head's offset in it
//	find(text)               position of the first match inside a textblock, or nil
//	markdown()               the document as markdown
//	json()                   the document and selection as JSON
//	log(msg)                 write msg to the session logger
//	print(...)               write to the runner's output
//
// Errors from run, press and the selection functions are raised as Lua
// errors; a status of "no-op" is not an error.
//
// Example:
//
//	select(find("milk"))
//	press("Mod-Enter")
//	assert(markdown() == "- [x] milk\n")
package script
