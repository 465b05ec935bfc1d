package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger_DefaultOutput(t *testing.T) {
	logger := NewLogger(LoggerConfig{Level: logrus.InfoLevel})
	if logger.Entry().Logger.Out == nil {
		t.Error("expected default output to be set")
	}
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: logrus.DebugLevel, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info %d", 2)
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	for _, want := range []string{
		`level=debug msg="debug message"`,
		`level=info msg="info 2"`,
		`level=warning msg="warn message"`,
		`level=error msg="error message"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: logrus.WarnLevel, Output: &buf})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	output := buf.String()
	if strings.Contains(output, "msg=debug") || strings.Contains(output, "msg=info") {
		t.Errorf("messages below warn were written:\n%s", output)
	}
	if !strings.Contains(output, "msg=warn") || !strings.Contains(output, "msg=error") {
		t.Errorf("expected warn and error in output:\n%s", output)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: logrus.ErrorLevel, Output: &buf})
	child := logger.WithComponent("session")

	child.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	logger.SetLevel(logrus.InfoLevel)
	if child.Level() != logrus.InfoLevel {
		t.Errorf("derived logger level = %v, want info", child.Level())
	}
	child.Info("shown")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("expected message after SetLevel, got %q", buf.String())
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: logrus.InfoLevel, Output: &buf})

	logger.WithComponent("dispatcher").
		WithFields(map[string]any{"action": "list.enter", "count": 2}).
		Info("dispatched")

	output := buf.String()
	for _, want := range []string{"component=dispatcher", "action=list.enter", "count=2"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output %q", want, output)
		}
	}

	buf.Reset()
	logger.Info("plain")
	if strings.Contains(buf.String(), "component=") {
		t.Errorf("fields leaked into parent logger: %q", buf.String())
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: logrus.InfoLevel, Format: LogFormatJSON, Output: &buf})

	logger.WithField("tx", "abc").Warn("stale %s", "transaction")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "stale transaction" || entry["level"] != "warning" || entry["tx"] != "abc" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestLogger_SetOutput(t *testing.T) {
	var first, second bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: logrus.InfoLevel, Output: &first})
	logger.SetOutput(&second)
	logger.Info("moved")

	if first.Len() != 0 || !strings.Contains(second.String(), "msg=moved") {
		t.Errorf("first=%q second=%q", first.String(), second.String())
	}
}

func TestNullLogger(t *testing.T) {
	// must not panic or write anywhere visible
	NullLogger.Debug("debug")
	NullLogger.Error("error %v", "x")
	NullLogger.WithComponent("x").Warn("warn")
}

func TestGlobalLogger(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	if orig == nil {
		t.Fatal("GetLogger() returned nil")
	}

	custom := NewLogger(LoggerConfig{Level: logrus.DebugLevel, Output: &bytes.Buffer{}})
	SetLogger(custom)
	if GetLogger() != custom {
		t.Error("GetLogger() did not return the logger set with SetLogger")
	}
}
