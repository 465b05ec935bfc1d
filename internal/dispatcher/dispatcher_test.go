package dispatcher_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/richlist/internal/dispatcher"
	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/dispatcher/hook"
	listhandler "github.com/dshills/richlist/internal/dispatcher/handlers/list"
	listops "github.com/dshills/richlist/internal/engine/list"
	. "github.com/dshills/richlist/internal/engine/model/modeltest"
	"github.com/dshills/richlist/internal/input"
)

// listDispatcher returns a dispatcher wired to the list handler and an
// editor holding f.
func listDispatcher(config dispatcher.Config, f Fixture) (*dispatcher.Dispatcher, *execctx.MemoryEditor) {
	editor := execctx.NewMemoryEditor(listops.State{Doc: f.Doc, Selection: f.Selection()})
	d := dispatcher.New(config)
	d.SetEditor(editor)
	d.SetRoles(listops.DefaultRoles(Schema))
	d.RegisterNamespace(listhandler.Namespace, listhandler.NewHandler())
	return d, editor
}

func TestNewWithDefaults(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	if d.Registry() == nil || d.Router() == nil || d.HookManager() == nil {
		t.Fatal("expected registry, router and hook manager")
	}
	if d.Metrics() != nil {
		t.Error("expected nil metrics by default")
	}
	if d.Results() != nil {
		t.Error("expected nil result channel without async dispatch")
	}
	if d.Config().MaxRepeatCount != dispatcher.DefaultConfig().MaxRepeatCount {
		t.Error("expected default config")
	}
}

func TestDispatchListAction(t *testing.T) {
	d, editor := listDispatcher(dispatcher.DefaultConfig(), Doc(UL(LI(P("a")), LI(P("<|>b")))))

	result := d.Dispatch(input.NewAction(listhandler.ActionIndent, input.SourceKeyboard))

	if !result.IsOK() {
		t.Fatalf("expected ok, got %s", result)
	}
	want := Doc(UL(LI(P("a"), UL(LI(P("<|>b"))))))
	if got := editor.State().Doc.String(); got != want.Doc.String() {
		t.Errorf("doc = %s, want %s", got, want.Doc)
	}
	if result.Transaction == nil || result.Transaction.Doc() != editor.State().Doc {
		t.Error("expected the committed transaction on the result")
	}
}

func TestDispatchNotApplicable(t *testing.T) {
	d, editor := listDispatcher(dispatcher.DefaultConfig(), Doc(P("a<|>")))

	result := d.Dispatch(input.NewAction(listhandler.ActionEnter, input.SourceKeyboard))

	if !result.IsNoOp() {
		t.Fatalf("expected no-op, got %s", result)
	}
	if result.Reason != string(listops.ReasonNotInList) {
		t.Errorf("reason = %q", result.Reason)
	}
	if editor.Applied() != 0 {
		t.Error("expected nothing applied")
	}
}

func TestDryRun(t *testing.T) {
	in := Doc(UL(LI(P("a<|>"))))
	d, editor := listDispatcher(dispatcher.DefaultConfig(), in)

	result := d.DryRun(input.NewAction(listhandler.ActionEnter, input.SourceAPI))

	if !result.IsOK() || result.Transaction == nil {
		t.Fatalf("expected ok with transaction, got %s", result)
	}
	if editor.State().Doc != in.Doc || editor.Applied() != 0 {
		t.Error("dry run must not commit")
	}
}

func TestReadOnlyDispatch(t *testing.T) {
	d, editor := listDispatcher(dispatcher.DefaultConfig(), Doc(UL(LI(P("a<|>")))))
	d.SetReadOnly(true)

	result := d.Dispatch(input.NewAction(listhandler.ActionEnter, input.SourceAPI))
	if !errors.Is(result.Error, execctx.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %s", result)
	}

	d.HookManager().Register(hook.NewReadOnlyHook())
	result = d.Dispatch(input.NewAction(listhandler.ActionEnter, input.SourceAPI))
	if result.Status != handler.StatusCancelled || !errors.Is(result.Error, dispatcher.ErrActionCancelled) {
		t.Errorf("expected cancelled by read-only hook, got %s", result)
	}
	if editor.Applied() != 0 {
		t.Error("expected nothing applied")
	}
}

func TestDispatchInvalidAndUnknown(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	if result := d.Dispatch(input.Action{}); !errors.Is(result.Error, dispatcher.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %s", result)
	}
	if result := d.Dispatch(input.Action{Name: "list.indent"}); !errors.Is(result.Error, dispatcher.ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %s", result)
	}
}

func TestRegisterAndUnregisterHandler(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterHandlerFunc("doc.ping", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("pong")
	})

	if result := d.Dispatch(input.Action{Name: "doc.ping"}); result.Message != "pong" {
		t.Errorf("expected pong, got %s", result)
	}

	d.UnregisterHandler("doc.ping")
	if result := d.Dispatch(input.Action{Name: "doc.ping"}); !result.IsError() {
		t.Errorf("expected error after unregister, got %s", result)
	}
}

func TestRouterTakesPrecedence(t *testing.T) {
	d := dispatcher.NewWithDefaults()

	ns := handler.NewTable("doc")
	ns.Register("doc.ping", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("namespace")
	})
	d.RegisterNamespace("doc", ns)
	d.RegisterHandlerFunc("doc.ping", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("exact")
	})

	if result := d.Dispatch(input.Action{Name: "doc.ping"}); result.Message != "namespace" {
		t.Errorf("expected namespace handler to win, got %q", result.Message)
	}
}

func TestHooksRun(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.RegisterHandlerFunc("doc.ping", func(input.Action, *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("done")
	})

	var order []string
	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(*input.Action, *execctx.ExecutionContext) bool {
		order = append(order, "pre")
		return true
	}))
	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(_ *input.Action, _ *execctx.ExecutionContext, result *handler.Result) {
		order = append(order, "post:"+result.Message)
	}))
	d.HookManager().RegisterPre(hook.Pre("first", 100, func(*input.Action, *execctx.ExecutionContext) bool {
		order = append(order, "first")
		return true
	}))

	d.Dispatch(input.Action{Name: "doc.ping"})

	want := []string{"first", "pre", "post:done"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
	if got := d.HookManager().PreHookCount(); got != 2 {
		t.Errorf("PreHookCount() = %d, want 2", got)
	}
}

func TestPreDispatchHookCancel(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	called := false
	d.RegisterHandlerFunc("doc.ping", func(input.Action, *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})
	d.RegisterPreHook(dispatcher.PreDispatchFunc(func(*input.Action, *execctx.ExecutionContext) bool {
		return false
	}))

	result := d.Dispatch(input.Action{Name: "doc.ping"})

	if called {
		t.Error("expected handler not to run")
	}
	if result.Status != handler.StatusCancelled {
		t.Errorf("expected cancelled, got %s", result)
	}
}

func TestDispatchCount(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithMaxRepeatCount(3))

	var got int
	d.RegisterHandlerFunc("doc.count", func(_ input.Action, ctx *execctx.ExecutionContext) handler.Result {
		got = ctx.GetCount()
		return handler.Success()
	})

	d.Dispatch(input.Action{Name: "doc.count"})
	if got != 1 {
		t.Errorf("default count = %d, want 1", got)
	}
	d.Dispatch(input.Action{Name: "doc.count", Count: 2})
	if got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	d.Dispatch(input.Action{Name: "doc.count", Count: 50})
	if got != 3 {
		t.Errorf("clamped count = %d, want 3", got)
	}
}

func TestPanicRecovery(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithPanicRecovery(true).WithMetrics())
	d.RegisterHandlerFunc("doc.panic", func(input.Action, *execctx.ExecutionContext) handler.Result {
		panic("boom")
	})

	result := d.Dispatch(input.Action{Name: "doc.panic"})

	if !errors.Is(result.Error, dispatcher.ErrPanic) {
		t.Errorf("expected ErrPanic, got %s", result)
	}
	if d.Metrics().TotalPanics() != 1 {
		t.Errorf("TotalPanics() = %d, want 1", d.Metrics().TotalPanics())
	}
}

func TestNoPanicRecovery(t *testing.T) {
	d := dispatcher.New(dispatcher.DefaultConfig().WithPanicRecovery(false))
	d.RegisterHandlerFunc("doc.panic", func(input.Action, *execctx.ExecutionContext) handler.Result {
		panic("boom")
	})

	defer func() {
		if recover() == nil {
			t.Error("expected panic to propagate when recovery is disabled")
		}
	}()
	d.Dispatch(input.Action{Name: "doc.panic"})
}

func TestAsyncDispatch(t *testing.T) {
	d, editor := listDispatcher(dispatcher.DefaultConfig().WithAsyncDispatch(4), Doc(UL(LI(P("a")), LI(P("<|>b")))))

	d.Start()
	defer d.Stop()

	if err := d.Send(input.NewAction(listhandler.ActionIndent, input.SourceAPI)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case result := <-d.Results():
		if !result.IsOK() {
			t.Errorf("expected ok, got %s", result)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for async result")
	}
	if editor.Applied() != 1 {
		t.Errorf("Applied() = %d, want 1", editor.Applied())
	}
}

func TestSendErrors(t *testing.T) {
	if err := dispatcher.NewWithDefaults().Send(input.Action{Name: "list.enter"}); !errors.Is(err, dispatcher.ErrAsyncNotEnabled) {
		t.Errorf("expected ErrAsyncNotEnabled, got %v", err)
	}

	d := dispatcher.New(dispatcher.DefaultConfig().WithAsyncDispatch(1))
	if err := d.Send(input.Action{Name: "list.enter"}); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	if err := d.Send(input.Action{Name: "list.enter"}); !errors.Is(err, dispatcher.ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}

	d.Stop()
	d.Stop()
	if err := d.Send(input.Action{Name: "list.enter"}); !errors.Is(err, dispatcher.ErrDispatcherStopped) {
		t.Errorf("expected ErrDispatcherStopped, got %v", err)
	}
}

func TestMetricsRecording(t *testing.T) {
	d, _ := listDispatcher(dispatcher.DefaultConfig().WithMetrics(), Doc(UL(LI(P("a")), LI(P("<|>b")))))

	d.Dispatch(input.NewAction(listhandler.ActionIndent, input.SourceAPI))
	d.Dispatch(input.NewAction(listhandler.ActionIndent, input.SourceAPI))
	d.Dispatch(input.Action{Name: "doc.missing"})

	m := d.Metrics()
	if m.TotalDispatches() != 3 {
		t.Errorf("TotalDispatches() = %d, want 3", m.TotalDispatches())
	}
	if m.TotalErrors() != 1 {
		t.Errorf("TotalErrors() = %d, want 1", m.TotalErrors())
	}

	stats := m.ActionStats(listhandler.ActionIndent)
	if stats == nil {
		t.Fatal("expected stats for list.indent")
	}
	if stats.Dispatches != 2 || stats.Applied != 1 || stats.NoOps != 1 {
		t.Errorf("unexpected stats %+v", *stats)
	}
	if stats.Reasons[string(listops.ReasonNoPreviousSibling)] != 1 {
		t.Errorf("unexpected reasons %v", stats.Reasons)
	}
	if stats.ApplyRate() != 50 {
		t.Errorf("ApplyRate() = %v, want 50", stats.ApplyRate())
	}
	if stats.Latency.Count != 2 {
		t.Errorf("latency samples = %d, want 2", stats.Latency.Count)
	}
}

func TestSlowActionCallback(t *testing.T) {
	m := dispatcher.NewMetrics()
	var slow int32
	m.SetSlowActionCallback(time.Millisecond, func(string, time.Duration) {
		atomic.AddInt32(&slow, 1)
	})

	m.RecordDispatch("list.enter", 10*time.Microsecond, handler.Success())
	m.RecordDispatch("list.enter", 5*time.Millisecond, handler.Success())

	if atomic.LoadInt32(&slow) != 1 {
		t.Errorf("slow callbacks = %d, want 1", slow)
	}

	top := m.TopActions(5)
	if len(top) != 1 || top[0].Name != "list.enter" || top[0].Dispatches != 2 {
		t.Errorf("unexpected top actions %+v", top)
	}

	m.Reset()
	if m.TotalDispatches() != 0 || m.ActionStats("list.enter") != nil {
		t.Error("expected empty metrics after Reset")
	}
}
