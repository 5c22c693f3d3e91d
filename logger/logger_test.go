package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTextOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewStdLogger()
	l.SetOutput(buf)

	l.Info("pool ready, max connections: %d", 5)
	out := buf.String()
	if !strings.Contains(out, "[STATIOND]") || !strings.Contains(out, "INFO") {
		t.Errorf("missing prefix or level: %q", out)
	}
	if !strings.Contains(out, "pool ready, max connections: 5") {
		t.Errorf("missing formatted message: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewStdLogger()
	l.SetOutput(buf)
	l.SetLevel(LogLevelError)

	l.Info("hidden")
	l.Warn("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("info/warn/debug should be filtered at error level: %q", buf.String())
	}

	l.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("error messages must pass at error level")
	}
}

func TestJSONOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewStdLogger()
	l.SetOutput(buf)
	l.SetFormat(LogFormatJSON)

	l.WithFields(map[string]any{"request_id": "abc"}).Info("hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if record["level"] != "INFO" || record["msg"] != "hello" || record["request_id"] != "abc" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestSQLHook(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewStdLogger()
	l.SetOutput(buf)

	l.SQL("堡垒雨量站北斗卫星状态", "SELECT 1", 12*time.Millisecond, nil)
	if !strings.Contains(buf.String(), "堡垒雨量站北斗卫星状态") {
		t.Errorf("task name missing from SQL log: %q", buf.String())
	}

	buf.Reset()
	l.SQL("broken", "SELECT x", time.Millisecond, errors.New("ORA-00904"))
	if !strings.Contains(buf.String(), "ORA-00904") {
		t.Errorf("error missing from SQL log: %q", buf.String())
	}
}

func TestWithFieldsIsolation(t *testing.T) {
	buf := new(bytes.Buffer)
	base := NewStdLogger()
	base.SetOutput(buf)

	child := base.WithFields(map[string]any{"batch": 1})
	base.Info("no fields here")
	if strings.Contains(buf.String(), "batch") {
		t.Error("fields on the child must not leak into the parent")
	}

	buf.Reset()
	child.Info("tagged")
	if !strings.Contains(buf.String(), "batch") {
		t.Error("child logger should carry its fields")
	}
}
