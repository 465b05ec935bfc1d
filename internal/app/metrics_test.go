package app

import (
	"testing"
	"time"
)

func TestMetrics_RecordKey(t *testing.T) {
	m := NewMetrics()
	m.RecordKey(true)
	m.RecordKey(false)
	m.RecordKey(true)

	snap := m.Snapshot()
	if snap.KeyPresses != 3 {
		t.Errorf("KeyPresses = %d, want 3", snap.KeyPresses)
	}
	if snap.UnboundKeys != 1 {
		t.Errorf("UnboundKeys = %d, want 1", snap.UnboundKeys)
	}
}

func TestMetrics_RecordRun(t *testing.T) {
	m := NewMetrics()
	m.RecordRun(2*time.Millisecond, OutcomeCommitted)
	m.RecordRun(4*time.Millisecond, OutcomeNoOp)
	m.RecordRun(6*time.Millisecond, OutcomeError)

	snap := m.Snapshot()
	if snap.Runs != 3 || snap.Commits != 1 || snap.NoOps != 1 || snap.Errors != 1 {
		t.Errorf("unexpected counts %+v", snap)
	}
	if snap.AvgRun != 4*time.Millisecond {
		t.Errorf("AvgRun = %v, want 4ms", snap.AvgRun)
	}
	if snap.MaxRun != 6*time.Millisecond {
		t.Errorf("MaxRun = %v, want 6ms", snap.MaxRun)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.RecordKey(false)
	m.RecordRun(time.Millisecond, OutcomeCommitted)
	m.Reset()

	snap := m.Snapshot()
	if snap.KeyPresses != 0 || snap.Runs != 0 || snap.MaxRun != 0 {
		t.Errorf("expected zeroed snapshot, got %+v", snap)
	}
}

func TestMetrics_EmptySnapshot(t *testing.T) {
	snap := NewMetrics().Snapshot()
	if snap.AvgRun != 0 {
		t.Errorf("AvgRun = %v, want 0 with no runs", snap.AvgRun)
	}
}

func TestMetrics_RecordAction(t *testing.T) {
	m := NewMetrics()
	m.RecordAction("list.indent", 2*time.Millisecond)
	m.RecordAction("list.indent", 5*time.Millisecond)
	m.RecordAction("list.enter", time.Millisecond)

	snap := m.Snapshot()
	got := snap.Actions["list.indent"]
	if got.Count != 2 || got.Total != 7*time.Millisecond || got.Max != 5*time.Millisecond {
		t.Errorf("list.indent = %+v", got)
	}
	if snap.Actions["list.enter"].Count != 1 {
		t.Errorf("list.enter = %+v", snap.Actions["list.enter"])
	}

	m.Reset()
	if n := len(m.Snapshot().Actions); n != 0 {
		t.Errorf("len(Actions) = %d after Reset", n)
	}
}
