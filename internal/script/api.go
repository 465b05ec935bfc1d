package script

import (
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/richlist/internal/app"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/engine/selection"
)

// install registers the session globals.
func (r *Runner) install() {
	funcs := map[string]lua.LGFunction{
		"run":         r.luaRun,
		"press":       r.luaPress,
		"select":      r.luaSelect,
		"select_node": r.luaSelectNode,
		"selection":   r.luaSelection,
		"text_cursor": r.luaTextCursor,
		"find":        r.luaFind,
		"markdown":    r.luaMarkdown,
		"json":        r.luaJSON,
		"log":         r.luaLog,
		"print":       r.luaPrint,
	}
	for name, fn := range funcs {
		r.L.SetGlobal(name, r.L.NewFunction(fn))
	}
}

// raise records err and raises it as a Lua error.
func (r *Runner) raise(L *lua.LState, err error) int {
	r.cause = err
	L.RaiseError("%s", err.Error())
	return 0
}

func pushResult(L *lua.LState, res handler.Result) int {
	L.Push(lua.LString(res.Status.String()))
	L.Push(lua.LString(res.Reason))
	return 2
}

func (r *Runner) luaRun(L *lua.LState) int {
	name := L.CheckString(1)
	count := L.OptInt(2, 1)
	res, err := r.session.Run(name, count)
	if err != nil {
		return r.raise(L, err)
	}
	return pushResult(L, res)
}

func (r *Runner) luaPress(L *lua.LState) int {
	res, err := r.session.Press(L.CheckString(1))
	if err != nil {
		return r.raise(L, err)
	}
	return pushResult(L, res)
}

func (r *Runner) luaSelect(L *lua.LState) int {
	anchor := L.CheckInt(1)
	head := L.OptInt(2, anchor)
	if err := r.session.Select(anchor, head); err != nil {
		return r.raise(L, err)
	}
	return 0
}

func (r *Runner) luaSelectNode(L *lua.LState) int {
	if err := r.session.SelectNode(L.CheckInt(1)); err != nil {
		return r.raise(L, err)
	}
	return 0
}

func (r *Runner) luaSelection(L *lua.LState) int {
	sel := r.session.Selection()
	kind := "text"
	if _, ok := sel.(selection.NodeSelection); ok {
		kind = "node"
	}
	L.Push(lua.LNumber(sel.Anchor()))
	L.Push(lua.LNumber(sel.Head()))
	L.Push(lua.LString(kind))
	return 3
}

// luaTextCursor returns the text of the textblock around the selection
// head and the head's offset in it, or nil outside a textblock.
func (r *Runner) luaTextCursor(L *lua.LState) int {
	rp, err := r.session.Doc().Resolve(r.session.Selection().Head())
	if err != nil {
		return r.raise(L, err)
	}
	parent := rp.Parent()
	if !parent.IsTextblock() {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(parent.TextContent()))
	L.Push(lua.LNumber(rp.ParentOffset))
	return 2
}

func (r *Runner) luaFind(L *lua.LState) int {
	pos, err := r.session.Find(L.CheckString(1))
	if errors.Is(err, app.ErrNotFound) {
		L.Push(lua.LNil)
		return 1
	}
	if err != nil {
		return r.raise(L, err)
	}
	L.Push(lua.LNumber(pos))
	return 1
}

func (r *Runner) luaMarkdown(L *lua.LState) int {
	L.Push(lua.LString(r.session.Markdown()))
	return 1
}

func (r *Runner) luaJSON(L *lua.LState) int {
	data, err := r.session.Encode(app.FormatJSON)
	if err != nil {
		return r.raise(L, err)
	}
	L.Push(lua.LString(data))
	return 1
}

func (r *Runner) luaLog(L *lua.LState) int {
	r.logger.Info("%s", L.CheckString(1))
	return 0
}

func (r *Runner) luaPrint(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}
