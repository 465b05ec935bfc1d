package dispatcher_test

import (
	"reflect"
	"testing"

	"github.com/dshills/richlist/internal/dispatcher"
	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/input"
)

func messageHandler(msg string, priority int) handler.Handler {
	return handler.WithPriority(func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage(msg)
	}, priority)
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := dispatcher.NewRegistry()

	if registry.Get("list.indent") != nil {
		t.Fatal("expected nil for unregistered action")
	}
	if registry.Has("list.indent") {
		t.Fatal("expected Has to be false before registration")
	}

	h := messageHandler("indent", 0)
	registry.Register("list.indent", h)

	if registry.Get("list.indent") != h {
		t.Error("expected registered handler")
	}
	if !registry.Has("list.indent") {
		t.Error("expected Has to be true after registration")
	}
	if registry.Has("list.outdent") {
		t.Error("expected Has to be false for another action")
	}
}

func TestRegistryPriority(t *testing.T) {
	registry := dispatcher.NewRegistry()

	low := messageHandler("low", 1)
	high := messageHandler("high", 10)
	tie := messageHandler("tie", 1)
	registry.Register("list.enter", low)
	registry.Register("list.enter", high)
	registry.Register("list.enter", tie)

	if registry.Get("list.enter") != high {
		t.Error("expected highest priority handler first")
	}

	all := registry.GetAll("list.enter")
	want := []handler.Handler{high, low, tie}
	if len(all) != len(want) {
		t.Fatalf("expected %d handlers, got %d", len(want), len(all))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("handler %d out of order", i)
		}
	}

	// The returned slice is a copy.
	all[0] = nil
	if registry.Get("list.enter") != high {
		t.Error("GetAll result must not alias registry state")
	}
}

func TestRegistryUnregister(t *testing.T) {
	registry := dispatcher.NewRegistry()
	a := messageHandler("a", 0)
	b := messageHandler("b", 0)
	registry.Register("list.moveUp", a)
	registry.Register("list.moveUp", b)

	registry.UnregisterHandler("list.moveUp", a)
	if got := registry.GetAll("list.moveUp"); len(got) != 1 || got[0] != b {
		t.Errorf("expected only b to remain, got %d handlers", len(got))
	}

	registry.UnregisterHandler("list.moveUp", b)
	if registry.Has("list.moveUp") || registry.Count() != 0 {
		t.Error("expected action to be removed with its last handler")
	}

	registry.Register("list.moveDown", a)
	registry.Unregister("list.moveDown")
	if registry.Has("list.moveDown") {
		t.Error("expected Unregister to remove the action")
	}
}

func TestRegistryListCountClear(t *testing.T) {
	registry := dispatcher.NewRegistry()
	for _, name := range []string{"list.outdent", "list.enter", "list.indent"} {
		registry.Register(name, messageHandler(name, 0))
	}

	want := []string{"list.enter", "list.indent", "list.outdent"}
	if got := registry.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if registry.Count() != 3 {
		t.Errorf("Count() = %d, want 3", registry.Count())
	}

	registry.Clear()
	if registry.Count() != 0 || len(registry.List()) != 0 {
		t.Error("expected empty registry after Clear")
	}
}
