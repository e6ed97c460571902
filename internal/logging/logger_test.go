package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWriterRespectsLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, "warn", "json")
	logger.Info("hidden")
	logger.Warn("shown", "event_id", "bedtime")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected json record: %v", err)
	}
	if rec["msg"] != "shown" || rec["event_id"] != "bedtime" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "playroom.log")
	logger, closeFn, err := New(Config{Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("tick", "dropped", 2)
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "msg=tick") || !strings.Contains(string(data), "dropped=2") {
		t.Fatalf("unexpected log output: %q", data)
	}
}

func TestNewWithoutPathDiscards(t *testing.T) {
	logger, closeFn, err := New(Config{})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Error("nowhere")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != slog.LevelDebug || ParseLevel("bogus") != slog.LevelInfo || ParseLevel("warning") != slog.LevelWarn {
		t.Fatal("unexpected level mapping")
	}
}
