package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	mdwlog "github.com/msto63/tempus/foundation/core/log"
	"github.com/msto63/tempus/pkg/core/config"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected mdwlog.Level
	}{
		{"trace", mdwlog.LevelTrace},
		{"debug", mdwlog.LevelDebug},
		{"info", mdwlog.LevelInfo},
		{"warning", mdwlog.LevelWarn},
		{"error", mdwlog.LevelError},
		{"invalid", mdwlog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLogger_Output(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName:       "chronos",
		Level:             "debug",
		Format:            "json",
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Debug("engine ready")

	if primary.Len() == 0 || extra.Len() == 0 {
		t.Fatalf("outputs = %d/%d bytes, want both written", primary.Len(), extra.Len())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(primary.Bytes()), &entry); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, output %s", err, primary.String())
	}
	if !strings.Contains(primary.String(), "engine ready") {
		t.Errorf("output = %s, want message", primary.String())
	}
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{ServiceName: "chronos", Level: "warn", Format: "text", Output: &buf})

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info written at warn level: %s", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %s, want warn message", buf.String())
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig("alarm", config.LogConfig{Level: "debug", Format: "console"})

	if cfg.ServiceName != "alarm" || cfg.Level != "debug" || cfg.Format != "console" {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("my-service")

	if cfg.ServiceName != "my-service" {
		t.Errorf("ServiceName = %v, want my-service", cfg.ServiceName)
	}
	if cfg.Level != "info" {
		t.Errorf("Level = %v, want info", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %v, want json", cfg.Format)
	}
}

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := Wrap(NewLogger(LoggerConfig{ServiceName: "test", Level: "debug", Output: &buf}))

	logger.Info("message", "key1", "value1", "key2", 42, "orphan")

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !strings.Contains(buf.String(), "value1") {
		t.Errorf("output = %s, want key1 value", buf.String())
	}
	if strings.Contains(buf.String(), "orphan") {
		t.Errorf("output = %s, orphan key should be dropped", buf.String())
	}
}

func TestLogger_WithLevel(t *testing.T) {
	logger := New("test")
	result := logger.WithLevel(LevelError)

	if result.name != "test" {
		t.Errorf("name = %v, want test", result.name)
	}
	if result.GetLevel() != mdwlog.LevelError {
		t.Errorf("GetLevel() = %v, want error", result.GetLevel())
	}
}

func TestToFields(t *testing.T) {
	if fields := toFields(); fields != nil {
		t.Error("toFields() with no args should return nil")
	}

	fields := toFields("key1", "value1", "key2", 42)
	if fields["key1"] != "value1" {
		t.Errorf("fields[key1] = %v, want value1", fields["key1"])
	}
	if fields["key2"] != 42 {
		t.Errorf("fields[key2] = %v, want 42", fields["key2"])
	}

	fields = toFields(123, "value")
	if len(fields) != 0 {
		t.Errorf("Non-string key should be skipped, got %v fields", len(fields))
	}
}
