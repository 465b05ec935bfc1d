package handler_test

import (
	"errors"
	"testing"

	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/engine/model/modeltest"
	"github.com/dshills/richlist/internal/engine/transform"
)

func TestResultStatus(t *testing.T) {
	tests := []struct {
		status   handler.ResultStatus
		expected string
	}{
		{handler.StatusOK, "ok"},
		{handler.StatusNoOp, "no-op"},
		{handler.StatusError, "error"},
		{handler.StatusCancelled, "cancelled"},
		{handler.ResultStatus(99), "unknown"},
	}

	for _, tc := range tests {
		if tc.status.String() != tc.expected {
			t.Errorf("ResultStatus(%d).String() = %q, want %q", tc.status, tc.status.String(), tc.expected)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	err := errors.New("boom")
	tests := []struct {
		name    string
		result  handler.Result
		status  handler.ResultStatus
		message string
		reason  string
	}{
		{"success", handler.Success(), handler.StatusOK, "", ""},
		{"success with message", handler.SuccessWithMessage("done"), handler.StatusOK, "done", ""},
		{"no-op", handler.NoOp(), handler.StatusNoOp, "", ""},
		{"no-op with message", handler.NoOpWithMessage("nothing"), handler.StatusNoOp, "nothing", ""},
		{"not applicable", handler.NotApplicable("not in a list"), handler.StatusNoOp, "", "not in a list"},
		{"error", handler.Error(err), handler.StatusError, "", ""},
		{"cancelled", handler.Cancelled("hook"), handler.StatusCancelled, "hook", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.result.Status != tc.status {
				t.Errorf("expected %v, got %v", tc.status, tc.result.Status)
			}
			if tc.result.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, tc.result.Message)
			}
			if tc.result.Reason != tc.reason {
				t.Errorf("expected reason %q, got %q", tc.reason, tc.result.Reason)
			}
		})
	}
}

func TestErrorfResult(t *testing.T) {
	result := handler.Errorf("bad action %s", "x")

	if !result.IsError() {
		t.Errorf("expected StatusError, got %v", result.Status)
	}
	if result.Error == nil || result.Error.Error() != "bad action x" {
		t.Errorf("unexpected error %v", result.Error)
	}
}

func TestResultPredicates(t *testing.T) {
	if !handler.Success().IsOK() || handler.NoOp().IsOK() {
		t.Error("IsOK mismatch")
	}
	if !handler.NoOp().IsNoOp() || handler.Success().IsNoOp() {
		t.Error("IsNoOp mismatch")
	}
	if !handler.Error(errors.New("x")).IsError() || handler.Success().IsError() {
		t.Error("IsError mismatch")
	}
}

func TestAppliedCarriesTransaction(t *testing.T) {
	f := modeltest.Doc(modeltest.P("a<|>"))
	tr := transform.New(f.Doc, f.Selection())

	result := handler.Applied(tr)
	if !result.IsOK() {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
	if result.Transaction != tr {
		t.Error("expected the transaction to be carried")
	}
}

func TestResultWithData(t *testing.T) {
	original := handler.Success().WithData("key", "value")
	result := original.WithData("count", 3).WithData("ok", true)

	if result.GetDataString("key") != "value" {
		t.Errorf("expected 'value', got %q", result.GetDataString("key"))
	}
	if result.GetDataInt("count") != 3 {
		t.Errorf("expected 3, got %d", result.GetDataInt("count"))
	}
	if !result.GetDataBool("ok") {
		t.Error("expected true")
	}
	if _, ok := original.GetData("count"); ok {
		t.Error("expected WithData to leave the original untouched")
	}
}

func TestResultGetDataNilMap(t *testing.T) {
	result := handler.Success()

	if _, ok := result.GetData("key"); ok {
		t.Error("expected GetData to return false for nil map")
	}
	if result.GetDataString("key") != "" || result.GetDataInt("key") != 0 || result.GetDataBool("key") {
		t.Error("expected zero values for missing keys")
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		result   handler.Result
		expected string
	}{
		{handler.Success(), "ok"},
		{handler.NotApplicable("no sibling"), "no-op: no sibling"},
		{handler.SuccessWithMessage("done"), "ok: done"},
		{handler.Error(errors.New("boom")), "error: boom"},
	}

	for _, tc := range tests {
		if got := tc.result.String(); got != tc.expected {
			t.Errorf("String() = %q, want %q", got, tc.expected)
		}
	}
}
