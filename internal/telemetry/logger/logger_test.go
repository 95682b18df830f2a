// Package logger provides structured logging for ViewGate.
package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("hello", "answer", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["answer"] != float64(42) {
		t.Errorf("answer = %v", entry["answer"])
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("plain message")
	if !strings.Contains(buf.String(), "plain message") {
		t.Errorf("text output missing message: %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "warn", Format: "json", Output: &buf})

	l.Debug("not shown")
	l.Info("not shown either")
	if buf.Len() != 0 {
		t.Errorf("info/debug logged at warn level: %s", buf.String())
	}

	l.Warn("shown")
	if buf.Len() == 0 {
		t.Error("warn not logged at warn level")
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	SetLevel("error")
	defer SetLevel("info")

	if GetLevel() != "error" {
		t.Errorf("GetLevel() = %q, want error", GetLevel())
	}

	l.Info("filtered out")
	if buf.Len() != 0 {
		t.Errorf("info logged after SetLevel(error): %s", buf.String())
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	l.With("component", "overlay").Info("msg")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["component"] != "overlay" {
		t.Errorf("component = %v", entry["component"])
	}
}

func TestTokenRedactionInOutput(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	l.Info("issued", "value", "vgtk_AAAABBBBCCCCDDDD")

	out := buf.String()
	if strings.Contains(out, "AAAABBBBCCCCDDDD") {
		t.Errorf("plaintext token leaked to log: %s", out)
	}
	if !strings.Contains(out, "vgtk_") {
		t.Errorf("masked token lost its prefix hint: %s", out)
	}
}

func TestPasswordRedactionInOutput(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	l.Info("login attempt", "password", "hunter2")

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("password leaked to log: %s", out)
	}
	if !strings.Contains(out, redactedValue) {
		t.Errorf("password not replaced with placeholder: %s", out)
	}
}

func TestDefaultLogger(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() = nil")
	}

	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})
	old := Default()
	SetDefault(l)
	defer SetDefault(old)

	Info("through default")
	if !strings.Contains(buf.String(), "through default") {
		t.Error("default logger did not receive message")
	}
}
