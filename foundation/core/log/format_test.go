// File: format_test.go
// Title: Log Format Tests
// Description: Tests for JSON, text and console formatters.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: Sorted text fields, dropped logfmt

package log

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
)

func testEntry() *Entry {
	entry := NewEntry(LevelInfo, "alarm fired")
	entry.Timestamp = time.Date(2013, 10, 5, 16, 20, 15, 0, time.UTC)
	entry.Logger = "alarm"
	entry.Fields["b"] = 2
	entry.Fields["a"] = "x"
	return entry
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"TEXT", FormatText, false},
		{"console", FormatConsole, false},
		{"xml", FormatJSON, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseFormat(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestTextFormatter(t *testing.T) {
	out, err := NewTextFormatter().Format(testEntry())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "16:20:15 [INF] {alarm} alarm fired [a=x b=2]\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestJSONFormatterWithError(t *testing.T) {
	entry := testEntry()
	entry.Error = mdwerror.New("cannot store").WithCode(mdwerror.CodeDatabaseError)
	entry.Duration = 1500 * time.Microsecond

	out, err := NewJSONFormatter().Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(out, &data); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if data["error"] != "cannot store" {
		t.Errorf("error = %v", data["error"])
	}
	details, ok := data["error_details"].(map[string]interface{})
	if !ok {
		t.Fatalf("error_details missing: %v", data)
	}
	if details["code"] != "DATABASE_ERROR" {
		t.Errorf("error_details.code = %v", details["code"])
	}
	if _, ok := details["stack_trace"]; ok {
		t.Error("error_details should not carry the stack trace")
	}
	if data["duration_ms"] != 1.5 {
		t.Errorf("duration_ms = %v, want 1.5", data["duration_ms"])
	}
}

func TestJSONFormatterErrorField(t *testing.T) {
	entry := testEntry()
	entry.Fields["error"] = errors.New("plain")

	out, err := NewJSONFormatter().Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(string(out), `"error":"plain"`) {
		t.Errorf("Format() = %s, want error rendered as string", out)
	}
}

func TestConsoleFormatter(t *testing.T) {
	f := NewConsoleFormatter()
	out, _ := f.Format(testEntry())
	if !strings.HasPrefix(string(out), LevelInfo.Color()) {
		t.Errorf("console output should start with color code: %q", out)
	}

	f.DisableColors = true
	out, _ = f.Format(testEntry())
	if strings.Contains(string(out), "\033[") {
		t.Errorf("console output with colors disabled = %q", out)
	}
}
