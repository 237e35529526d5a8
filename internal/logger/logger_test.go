package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.log")

	l, err := New("prod", WithLevel("debug"), WithOutput(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.With("session", "abc").Debug("lock changed", "content", "c1", "state", "timed")
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"msg":"lock changed"`, `"session":"abc"`, `"content":"c1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.log")

	l, err := New("prod", WithLevel("warn"), WithOutput(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hidden")
	l.Warn("shown")
	l.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("info line written at warn level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("warn line missing")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New("dev", WithLevel("loud")); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestWrapperForwardsKeyValues(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Error("journal append failed", "err", "disk full")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["err"]; got != "disk full" {
		t.Errorf("err field = %v, want %q", got, "disk full")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	l.With("k", "v").Error("still nothing")
}
