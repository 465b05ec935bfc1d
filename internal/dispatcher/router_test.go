package dispatcher_test

import (
	"reflect"
	"testing"

	"github.com/dshills/richlist/internal/dispatcher"
	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/input"
)

func listNamespace() *handler.Table {
	ns := handler.NewTable("list")
	ns.Register("list.indent", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("indented")
	})
	return ns
}

func TestRouterNamespaces(t *testing.T) {
	router := dispatcher.NewRouter()
	router.RegisterNamespace("list", listNamespace())
	router.RegisterNamespace("doc", handler.NewTable("doc"))

	if !router.HasNamespace("list") {
		t.Error("expected list namespace")
	}
	if got := router.GetNamespaceHandler("list"); got == nil || got.Namespace() != "list" {
		t.Error("expected list namespace handler")
	}
	if router.GetNamespaceHandler("cursor") != nil {
		t.Error("expected nil for unknown namespace")
	}
	if got := router.Namespaces(); !reflect.DeepEqual(got, []string{"doc", "list"}) {
		t.Errorf("Namespaces() = %v", got)
	}

	router.UnregisterNamespace("doc")
	if router.HasNamespace("doc") {
		t.Error("expected doc namespace to be removed")
	}
}

func TestRouterRoute(t *testing.T) {
	router := dispatcher.NewRouter()
	router.RegisterNamespace("list", listNamespace())

	h := router.Route("list.indent")
	if h == nil {
		t.Fatal("expected handler for list.indent")
	}
	if result := h.Handle(input.Action{Name: "list.indent"}, execctx.New()); result.Message != "indented" {
		t.Errorf("unexpected result %s", result)
	}

	for _, name := range []string{"list.unknown", "indent", "cursor.moveDown"} {
		if router.Route(name) != nil {
			t.Errorf("expected no route for %q", name)
		}
		if router.CanRoute(name) {
			t.Errorf("expected CanRoute(%q) to be false", name)
		}
	}
	if !router.CanRoute("list.indent") {
		t.Error("expected CanRoute(list.indent)")
	}
}

func TestRouterFallback(t *testing.T) {
	router := dispatcher.NewRouter()
	router.RegisterNamespace("list", listNamespace())
	router.SetFallback(messageHandler("fallback", 0))

	for _, name := range []string{"list.unknown", "indent"} {
		h := router.Route(name)
		if h == nil {
			t.Fatalf("expected fallback for %q", name)
		}
		if result := h.Handle(input.Action{Name: name}, execctx.New()); result.Message != "fallback" {
			t.Errorf("expected fallback result for %q, got %s", name, result)
		}
		if !router.CanRoute(name) {
			t.Errorf("expected CanRoute(%q) with fallback", name)
		}
	}
}

func TestExtractActionName(t *testing.T) {
	tests := map[string]string{
		"list.indent":         "indent",
		"list.toggle.ordered": "toggle.ordered",
		"indent":              "indent",
		"":                    "",
	}
	for in, want := range tests {
		if got := dispatcher.ExtractActionName(in); got != want {
			t.Errorf("ExtractActionName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildActionName(t *testing.T) {
	if got := dispatcher.BuildActionName("list", "indent"); got != "list.indent" {
		t.Errorf("BuildActionName = %q", got)
	}
	if got := dispatcher.BuildActionName("", "indent"); got != "indent" {
		t.Errorf("BuildActionName without namespace = %q", got)
	}
}
