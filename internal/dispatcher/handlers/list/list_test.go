package list_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	listhandler "github.com/dshills/richlist/internal/dispatcher/handlers/list"
	listops "github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/engine/model"
	. "github.com/dshills/richlist/internal/engine/model/modeltest"
	"github.com/dshills/richlist/internal/engine/selection"
	"github.com/dshills/richlist/internal/engine/transform"
	"github.com/dshills/richlist/internal/input"
)

var roles = listops.DefaultRoles(Schema)

func editorFor(f Fixture) *execctx.MemoryEditor {
	return execctx.NewMemoryEditor(listops.State{Doc: f.Doc, Selection: f.Selection()})
}

func contextFor(editor *execctx.MemoryEditor) *execctx.ExecutionContext {
	return execctx.New().WithEditor(editor).WithRoles(roles)
}

func handle(t *testing.T, name string, ctx *execctx.ExecutionContext) handler.Result {
	t.Helper()
	return listhandler.NewHandler().HandleAction(input.NewAction(name, input.SourceAPI), ctx)
}

func requireState(t *testing.T, editor *execctx.MemoryEditor, want Fixture) {
	t.Helper()
	state := editor.State()
	assert.Equal(t, want.Doc.String(), state.Doc.String())
	assert.Equal(t, want.Selection(), state.Selection)
}

func TestHandlerNamespace(t *testing.T) {
	h := listhandler.NewHandler()
	assert.Equal(t, "list", h.Namespace())
}

func TestHandlerCanHandle(t *testing.T) {
	h := listhandler.NewHandler()
	for _, action := range listhandler.Commands {
		assert.True(t, h.CanHandle(action), action)
	}
	assert.False(t, h.CanHandle("list.unknown"))
	assert.False(t, h.CanHandle("cursor.moveLeft"))
	assert.Len(t, h.Actions(), len(listhandler.Commands))
}

func TestCommands(t *testing.T) {
	tests := map[string]string{
		"Enter":                listhandler.ActionEnter,
		"Backspace":            listhandler.ActionBackspace,
		"Tab":                  listhandler.ActionIndent,
		"Shift-Tab":            listhandler.ActionOutdent,
		"Alt-ArrowUp":          listhandler.ActionMoveUp,
		"Alt-ArrowDown":        listhandler.ActionMoveDown,
		"toggleBulletList":     listhandler.ActionToggleBulletList,
		"toggleOrderedList":    listhandler.ActionToggleOrderedList,
		"insertEmptyListAbove": listhandler.ActionInsertEmptyAbove,
		"insertEmptyListBelow": listhandler.ActionInsertEmptyBelow,
	}
	for command, want := range tests {
		got, ok := listhandler.ActionFor(command)
		require.True(t, ok, command)
		assert.Equal(t, want, got, command)
	}
	_, ok := listhandler.ActionFor("Escape")
	assert.False(t, ok)
}

func TestChain(t *testing.T) {
	h := listhandler.NewHandler()
	assert.Equal(t, []string{"backspaceAtListItemStart", "joinTextblockIntoPrecedingList"}, h.Chain(listhandler.ActionBackspace))
	assert.Equal(t, []string{"sinkListItem"}, h.Chain(listhandler.ActionIndent))
	assert.Empty(t, h.Chain("list.unknown"))
}

func TestHandleActionApplies(t *testing.T) {
	tests := []struct {
		name   string
		action string
		in     Fixture
		want   Fixture
	}{
		{
			name:   "enter splits the item",
			action: listhandler.ActionEnter,
			in:     Doc(UL(LI(P("foo<|>bar")))),
			want:   Doc(UL(LI(P("foo")), LI(P("<|>bar")))),
		},
		{
			name:   "backspace merges into the previous item",
			action: listhandler.ActionBackspace,
			in:     Doc(UL(LI(P("foo")), LI(P("<|>bar")))),
			want:   Doc(UL(LI(P("foo<|>bar")))),
		},
		{
			name:   "tab nests the item",
			action: listhandler.ActionIndent,
			in:     Doc(UL(LI(P("a")), LI(P("<|>b")))),
			want:   Doc(UL(LI(P("a"), UL(LI(P("<|>b")))))),
		},
		{
			name:   "toggle ordered list wraps paragraphs",
			action: listhandler.ActionToggleOrderedList,
			in:     Doc(P("<a>a"), P("b<h>")),
			want:   Doc(OL(LI(P("<a>a")), LI(P("b<h>")))),
		},
		{
			name:   "toggle todo checked",
			action: listhandler.ActionToggleTodoChecked,
			in:     Doc(UL(Todo(false, P("<|>a")))),
			want:   Doc(UL(Todo(true, P("<|>a")))),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			editor := editorFor(tc.in)
			result := handle(t, tc.action, contextFor(editor))

			require.True(t, result.IsOK(), "result: %s", result)
			require.NotNil(t, result.Transaction)
			assert.Equal(t, 1, editor.Applied())
			assert.Equal(t, 1, result.GetDataInt(listhandler.DataApplied))
			requireState(t, editor, tc.want)
		})
	}
}

func TestBackspaceFallsBackToJoin(t *testing.T) {
	editor := editorFor(Doc(OL(LI(P("A")), LI(P("B"))), P("<|>middle"), OL(LI(P("C")), LI(P("D")))))
	result := handle(t, listhandler.ActionBackspace, contextFor(editor))

	require.True(t, result.IsOK(), "result: %s", result)
	assert.Equal(t, "joinTextblockIntoPrecedingList", result.GetDataString(listhandler.DataTransform))
	assert.Equal(t, "joinTextblockIntoPrecedingList", result.Transaction.Meta(transform.MetaOrigin))
	requireState(t, editor, Doc(OL(LI(P("A")), LI(P("B<|>middle")), LI(P("C")), LI(P("D")))))
}

func TestHandleActionNotApplicable(t *testing.T) {
	tests := []struct {
		name   string
		action string
		in     Fixture
		reason listops.Reason
	}{
		{"backspace outside lists", listhandler.ActionBackspace, Doc(P("a"), P("<|>b")), listops.ReasonNoPrecedingList},
		{"tab on first item", listhandler.ActionIndent, Doc(UL(LI(P("<|>a")), LI(P("b")))), listops.ReasonNoPreviousSibling},
		{"enter outside lists", listhandler.ActionEnter, Doc(P("a<|>")), listops.ReasonNotInList},
		{"check a plain item", listhandler.ActionToggleTodoChecked, Doc(UL(LI(P("<|>a")))), listops.ReasonNotTodo},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			editor := editorFor(tc.in)
			result := handle(t, tc.action, contextFor(editor))

			assert.True(t, result.IsNoOp(), "result: %s", result)
			assert.Equal(t, string(tc.reason), result.Reason)
			assert.Nil(t, result.Transaction)
			assert.Zero(t, editor.Applied())
			assert.Same(t, tc.in.Doc, editor.State().Doc)
		})
	}
}

func TestCountRepeatsUntilNotApplicable(t *testing.T) {
	editor := editorFor(Doc(UL(LI(P("a")), LI(P("b")), LI(P("<|>c")))))
	result := handle(t, listhandler.ActionIndent, contextFor(editor).WithCount(5))

	require.True(t, result.IsOK(), "result: %s", result)
	// c nests under b, then has no previous sibling in its new list.
	assert.Equal(t, 1, result.GetDataInt(listhandler.DataApplied))
	assert.Equal(t, 1, editor.Applied())
	requireState(t, editor, Doc(UL(LI(P("a")), LI(P("b"), UL(LI(P("<|>c")))))))
}

func TestCountAppliesEveryRound(t *testing.T) {
	editor := editorFor(Doc(UL(LI(P("a<|>")))))
	result := handle(t, listhandler.ActionInsertEmptyBelow, contextFor(editor).WithCount(2))

	require.True(t, result.IsOK(), "result: %s", result)
	assert.Equal(t, 2, result.GetDataInt(listhandler.DataApplied))
	assert.Equal(t, 2, editor.Applied())
	assert.Equal(t, 3, editor.State().Doc.Child(0).ChildCount())
}

func TestDryRunDoesNotCommit(t *testing.T) {
	in := Doc(UL(LI(P("foo<|>bar"))))
	editor := editorFor(in)
	result := handle(t, listhandler.ActionEnter, contextFor(editor).WithDryRun(true))

	require.True(t, result.IsOK(), "result: %s", result)
	assert.Zero(t, editor.Applied())
	assert.Same(t, in.Doc, editor.State().Doc)
	assert.Equal(t, Doc(UL(LI(P("foo")), LI(P("bar")))).Doc.String(), result.Transaction.Doc().String())
}

func TestReadOnly(t *testing.T) {
	in := Doc(UL(LI(P("foo<|>bar"))))

	result := handle(t, listhandler.ActionEnter, contextFor(editorFor(in)).WithReadOnly(true))
	assert.True(t, result.IsError())
	assert.True(t, errors.Is(result.Error, execctx.ErrReadOnly))

	result = handle(t, listhandler.ActionEnter, contextFor(editorFor(in)).WithReadOnly(true).WithDryRun(true))
	assert.True(t, result.IsOK(), "result: %s", result)
}

func TestInvalidContext(t *testing.T) {
	in := Doc(UL(LI(P("a<|>"))))

	result := handle(t, listhandler.ActionEnter, execctx.New().WithRoles(roles))
	assert.True(t, errors.Is(result.Error, execctx.ErrMissingEditor))

	result = handle(t, listhandler.ActionEnter, execctx.New().WithEditor(editorFor(in)))
	assert.True(t, errors.Is(result.Error, execctx.ErrMissingRoles))

	result = handle(t, "list.unknown", contextFor(editorFor(in)))
	assert.True(t, result.IsError())
}

func TestTransformErrorsAreFatal(t *testing.T) {
	in := Doc(UL(LI(P("a"))))
	editor := execctx.NewMemoryEditor(listops.State{Doc: in.Doc, Selection: selection.Cursor(100)})

	result := handle(t, listhandler.ActionIndent, contextFor(editor))
	require.True(t, result.IsError())
	assert.True(t, errors.Is(result.Error, model.ErrOutOfRange))

	editor = execctx.NewMemoryEditor(listops.State{Doc: in.Doc})
	result = handle(t, listhandler.ActionToggleBulletList, contextFor(editor))
	require.True(t, result.IsError())
	assert.True(t, errors.Is(result.Error, listops.ErrNoSelection))
}
