package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type memSink struct {
	bytes.Buffer
	closed bool
}

func (m *memSink) Close() error {
	m.closed = true
	return nil
}

func decodeEvents(t *testing.T, data []byte) []Event {
	t.Helper()
	var events []Event
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("invalid event line %q: %v", scanner.Text(), err)
		}
		events = append(events, event)
	}
	return events
}

func TestNew(t *testing.T) {
	logger := New(&bytes.Buffer{})
	if logger.runID == "" {
		t.Error("run ID should be generated")
	}
	if logger.minLevel != LevelInfo {
		t.Errorf("minLevel = %v, want %v", logger.minLevel, LevelInfo)
	}
	if other := New(nil); other.runID == logger.runID {
		t.Error("run IDs should be unique per logger")
	}
}

func TestWarnWritesConsoleAndSink(t *testing.T) {
	var console bytes.Buffer
	sink := &memSink{}
	logger := New(&console)
	logger.SetSink(sink)

	logger.Warn(CategorySource, "source_read_failed", "missing.txt not found!", map[string]any{"path": "missing.txt"})

	if got := console.String(); got != "grepline: missing.txt not found!\n" {
		t.Errorf("console = %q", got)
	}

	events := decodeEvents(t, sink.Bytes())
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Level != LevelWarn || ev.Category != CategorySource || ev.EventType != "source_read_failed" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.RunID != logger.runID {
		t.Errorf("RunID = %q, want %q", ev.RunID, logger.runID)
	}
	if ev.Details["path"] != "missing.txt" {
		t.Errorf("details = %v", ev.Details)
	}
	if ev.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestInfoAndDebugStayOffConsole(t *testing.T) {
	var console bytes.Buffer
	sink := &memSink{}
	logger := New(&console)
	logger.SetSink(sink)

	logger.Info(CategoryRun, "run_started", "starting", nil)
	logger.Debug(CategoryRun, "detail", "filtered out", nil)

	if console.Len() != 0 {
		t.Errorf("console should be empty, got %q", console.String())
	}
	events := decodeEvents(t, sink.Bytes())
	if len(events) != 1 || events[0].EventType != "run_started" {
		t.Fatalf("debug should be filtered at info level: %+v", events)
	}

	logger.SetMinLevel(LevelDebug)
	logger.Debug(CategoryRun, "detail", "kept", nil)
	if events = decodeEvents(t, sink.Bytes()); len(events) != 2 {
		t.Fatalf("expected debug event after lowering level, got %d", len(events))
	}
}

func TestShouldLog(t *testing.T) {
	logger := New(nil)
	logger.SetMinLevel(LevelWarn)

	cases := map[Level]bool{
		LevelDebug: false,
		LevelInfo:  false,
		LevelWarn:  true,
		LevelError: true,
	}
	for level, want := range cases {
		if got := logger.shouldLog(level); got != want {
			t.Errorf("shouldLog(%s) = %v, want %v", level, got, want)
		}
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Warn(CategoryPalette, "x", "y", nil)
	logger.Info(CategoryRun, "x", "y", nil)
	logger.SetSink(&memSink{})
	logger.SetMinLevel(LevelDebug)
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
}

func TestCloseClosesSink(t *testing.T) {
	sink := &memSink{}
	logger := New(nil)
	logger.SetSink(sink)

	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !sink.closed {
		t.Error("sink should be closed")
	}
	// events after close are dropped
	logger.Error(CategoryOutput, "late", "late", nil)
	if sink.Len() != 0 {
		t.Error("no events should be written after close")
	}
}

func TestFileSinkWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.jsonl")
	sink, err := NewFileSink(path, 1, 1)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	logger := New(nil)
	logger.SetSink(sink)
	logger.Info(CategoryConfig, "config_loaded", "loaded", map[string]any{"path": "x"})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read event log: %v", err)
	}
	events := decodeEvents(t, data)
	if len(events) != 1 || events[0].Category != CategoryConfig {
		t.Fatalf("unexpected events: %+v", events)
	}
}
