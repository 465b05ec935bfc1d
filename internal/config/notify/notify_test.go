package notify

import (
	"reflect"
	"testing"
)

func TestChangeType_String(t *testing.T) {
	tests := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeSet, "set"},
		{ChangeDelete, "delete"},
		{ChangeType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestNotifier_Subscribe(t *testing.T) {
	n := New()

	var got []string
	sub := n.Subscribe(func(c Change) { got = append(got, c.Path) })

	n.Notify(Change{Path: "logging.level"})
	sub.Unsubscribe()
	n.Notify(Change{Path: "lists.maxDepth"})

	if !reflect.DeepEqual(got, []string{"logging.level"}) {
		t.Errorf("received %v", got)
	}
}

func TestNotifier_SubscribePath(t *testing.T) {
	n := New()

	var logging, level, lists int
	n.SubscribePath("logging", func(Change) { logging++ })
	n.SubscribePath("logging.level", func(Change) { level++ })
	n.SubscribePath("lists", func(Change) { lists++ })

	n.NotifyAll([]Change{
		{Path: "logging.level"},
		{Path: "logging.format"},
		{Path: "loggingx"},
	})

	if logging != 2 || level != 1 || lists != 0 {
		t.Errorf("logging=%d level=%d lists=%d, want 2 1 0", logging, level, lists)
	}
}

func TestNotifier_DeliversInSubscriptionOrder(t *testing.T) {
	n := New()

	var order []int
	for i := range 5 {
		n.Subscribe(func(Change) { order = append(order, i) })
	}
	n.Notify(Change{Path: "x"})

	if !reflect.DeepEqual(order, []int{0, 1, 2, 3, 4}) {
		t.Errorf("order = %v", order)
	}
}

func TestNotifier_UnsubscribeDuringDelivery(t *testing.T) {
	n := New()

	calls := 0
	var sub *Subscription
	sub = n.Subscribe(func(Change) {
		calls++
		sub.Unsubscribe()
	})

	n.Notify(Change{Path: "a"})
	n.Notify(Change{Path: "b"})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDiff(t *testing.T) {
	prev := map[string]any{
		"logging": map[string]any{"level": "info", "format": "text"},
		"keymap":  map[string]any{"file": "a.yaml"},
	}
	next := map[string]any{
		"logging": map[string]any{"level": "debug", "format": "text"},
		"lists":   map[string]any{"maxDepth": int64(3)},
	}

	got := Diff(prev, next, "reload")
	want := []Change{
		{Path: "keymap.file", Type: ChangeDelete, OldValue: "a.yaml", Source: "reload"},
		{Path: "lists.maxDepth", Type: ChangeSet, NewValue: int64(3), Source: "reload"},
		{Path: "logging.level", Type: ChangeSet, OldValue: "info", NewValue: "debug", Source: "reload"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Diff() =\n%v\nwant\n%v", got, want)
	}

	if got := Diff(prev, prev, "reload"); len(got) != 0 {
		t.Errorf("Diff(same) = %v", got)
	}
}
