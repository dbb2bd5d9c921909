package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type testLogConfig struct {
	level, output, file string
}

func (c testLogConfig) GetLevel() string  { return c.level }
func (c testLogConfig) GetOutput() string { return c.output }
func (c testLogConfig) GetFile() string   { return c.file }

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(INFO, &buf)

	l.Debug("hidden %d", 1)
	l.Info("donation %d approved", 42)
	l.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["message"] != "donation 42 approved" || entry["level"] != "INFO" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		"error":   ERROR,
		"fatal":   FATAL,
		"bogus":   INFO,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Fatalf("ParseLogLevel(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestInitFromConfigFile(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefaultLogger(prev) })

	if err := InitFromConfig(testLogConfig{level: "info", output: "file", file: t.TempDir() + "/app.log"}); err != nil {
		t.Fatalf("InitFromConfig: %v", err)
	}
	if Default() == prev {
		t.Fatal("default logger was not replaced")
	}

	if err := InitFromConfig(testLogConfig{level: "info", output: "file"}); err == nil {
		t.Fatal("expected error for empty log file")
	}
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	g := NewGormLogger(NewWithWriter(DEBUG, &buf), "warn")

	sql := func() (string, int64) { return "SELECT 1", 1 }

	g.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Fatalf("record not found should not be logged: %q", buf.String())
	}

	g.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected sql error to be logged, got %q", buf.String())
	}

	buf.Reset()
	g.LogMode(gormLogger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("silent mode should not log: %q", buf.String())
	}
}
