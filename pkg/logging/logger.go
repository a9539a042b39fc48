package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Category represents the subsystem generating the log
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryPalette Category = "palette"
	CategorySource  Category = "source"
	CategoryOutput  Category = "output"
	CategoryRun     Category = "run"
)

// ConsolePrefix starts every diagnostic line written to the console.
const ConsolePrefix = "grepline: "

// Event represents a structured log event
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Category  Category       `json:"category"`
	EventType string         `json:"type"`
	RunID     string         `json:"run_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Message   string         `json:"message,omitempty"`
}

// Logger writes human diagnostics to a console stream and, when a sink is
// attached, every event as one JSON line. A nil *Logger discards everything.
type Logger struct {
	runID    string
	console  io.Writer
	sink     io.WriteCloser
	mu       sync.Mutex
	minLevel Level
}

// New creates a logger whose warnings and errors go to console.
func New(console io.Writer) *Logger {
	return &Logger{
		runID:    ulid.Make().String(),
		console:  console,
		minLevel: LevelInfo,
	}
}

// NewFileSink opens a size-rotated JSONL event log at path.
func NewFileSink(path string, maxSizeMB, maxBackups int) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}, nil
}

// SetSink attaches the JSONL event sink.
func (l *Logger) SetSink(sink io.WriteCloser) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
}

// SetMinLevel sets the minimum level recorded in the event sink
func (l *Logger) SetMinLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// Log records an event in the sink. Console output is handled by the level
// helpers so that callers decide whether a message is user-facing.
func (l *Logger) Log(event Event) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RunID == "" {
		event.RunID = l.runID
	}

	if l.sink == nil || !l.shouldLog(event.Level) {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	data = append(data, '\n')

	if _, err := l.sink.Write(data); err != nil {
		return fmt.Errorf("failed to write event log: %w", err)
	}
	return nil
}

// shouldLog checks if event should be logged based on level
func (l *Logger) shouldLog(level Level) bool {
	levels := map[Level]int{
		LevelDebug: 0,
		LevelInfo:  1,
		LevelWarn:  2,
		LevelError: 3,
	}
	return levels[level] >= levels[l.minLevel]
}

func (l *Logger) printConsole(message string) {
	if l == nil || l.console == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s%s\n", ConsolePrefix, message)
}

// Debug logs a debug event
func (l *Logger) Debug(category Category, eventType string, message string, details map[string]any) {
	_ = l.Log(Event{
		Level:     LevelDebug,
		Category:  category,
		EventType: eventType,
		Message:   message,
		Details:   details,
	})
}

// Info logs an info event
func (l *Logger) Info(category Category, eventType string, message string, details map[string]any) {
	_ = l.Log(Event{
		Level:     LevelInfo,
		Category:  category,
		EventType: eventType,
		Message:   message,
		Details:   details,
	})
}

// Warn logs a warning event and prints it to the console
func (l *Logger) Warn(category Category, eventType string, message string, details map[string]any) {
	l.printConsole(message)
	_ = l.Log(Event{
		Level:     LevelWarn,
		Category:  category,
		EventType: eventType,
		Message:   message,
		Details:   details,
	})
}

// Error logs an error event and prints it to the console
func (l *Logger) Error(category Category, eventType string, message string, details map[string]any) {
	l.printConsole(message)
	_ = l.Log(Event{
		Level:     LevelError,
		Category:  category,
		EventType: eventType,
		Message:   message,
		Details:   details,
	})
}

// Close closes the event sink
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sink == nil {
		return nil
	}
	err := l.sink.Close()
	l.sink = nil
	if err != nil {
		return fmt.Errorf("errors closing event log: %w", err)
	}
	return nil
}
