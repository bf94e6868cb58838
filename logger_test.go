package unihttp

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type logEntry struct {
	level string
	msg   string
	kvs   []any
}

// captureLogger records entries for assertions in tests.
type captureLogger struct {
	mu  sync.Mutex
	log []logEntry
}

func (l *captureLogger) record(level, msg string, kvs []any) {
	l.mu.Lock()
	l.log = append(l.log, logEntry{level: level, msg: msg, kvs: kvs})
	l.mu.Unlock()
}

func (l *captureLogger) entries() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.log...)
}

func (l *captureLogger) Debug(msg string, kvs ...any) { l.record("debug", msg, kvs) }
func (l *captureLogger) Info(msg string, kvs ...any)  { l.record("info", msg, kvs) }
func (l *captureLogger) Warn(msg string, kvs ...any)  { l.record("warn", msg, kvs) }
func (l *captureLogger) Error(msg string, kvs ...any) { l.record("error", msg, kvs) }

func TestSimpleLoggerLevels(t *testing.T) {
	logger := NewSimpleLogger()

	logger.Debug("debug message", "k", "v")
	logger.Info("info message")
	logger.Warn("warn message", "count", 2)
	logger.Error("error message")
}

func TestZapLoggerAdapter(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	adapter := NewZapLogger(zap.New(core))

	adapter.Debug("starting request", "method", "GET")
	adapter.Error("request failed", "kind", "Network")

	logs := observed.All()
	if len(logs) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(logs))
	}
	if logs[0].Message != "starting request" {
		t.Errorf("Expected message 'starting request', got %q", logs[0].Message)
	}
	if got := logs[0].ContextMap()["method"]; got != "GET" {
		t.Errorf("Expected method=GET field, got %v", got)
	}
	if logs[1].Level != zapcore.ErrorLevel {
		t.Errorf("Expected error level, got %v", logs[1].Level)
	}
}

func TestDefaultDebugConfig(t *testing.T) {
	cfg := DefaultDebugConfig()

	if cfg.Enabled {
		t.Error("Expected debug disabled by default")
	}
	if !cfg.LogRequests || !cfg.LogAuth {
		t.Error("Expected all log categories on by default")
	}
	if cfg.RequestIDGen == nil {
		t.Fatal("Expected a default request ID generator")
	}
	if id := cfg.RequestIDGen(); id == "" {
		t.Error("Expected non-empty generated request ID")
	}
	if a, b := cfg.RequestIDGen(), cfg.RequestIDGen(); a == b {
		t.Error("Expected unique request IDs")
	}
}
