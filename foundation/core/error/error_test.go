// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, severity and metadata.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2026-10-19 v0.2.0: Calendar codes, errors.As based helpers

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "cannot parse date"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}
	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
	trace := err.StackTrace()
	if len(trace) == 0 {
		t.Fatal("StackTrace() should not be empty")
	}
	if !strings.Contains(trace[0].Function, "TestNew") {
		t.Errorf("StackTrace()[0].Function = %q, want caller TestNew", trace[0].Function)
	}
}

func TestNewf(t *testing.T) {
	err := Newf("unknown unit %q", "fortnight")
	if err.Error() != `unknown unit "fortnight"` {
		t.Errorf("Newf() = %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		message string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "wrapper message",
			wantNil: true,
		},
		{
			name:    "wrap standard error",
			err:     errors.New("original error"),
			message: "wrapper message",
			wantMsg: "wrapper message: original error",
		},
		{
			name:    "wrap structured error",
			err:     New("no such alarm").WithCode(CodeNotFound),
			message: "cancel alarm",
			wantMsg: "cancel alarm: no such alarm",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := Wrap(tc.err, tc.message)

			if tc.wantNil {
				if wrapped != nil {
					t.Errorf("Wrap() = %v, want nil", wrapped)
				}
				return
			}
			if wrapped == nil {
				t.Fatal("Wrap() returned nil")
			}
			if wrapped.Error() != tc.wantMsg {
				t.Errorf("Error() = %q, want %q", wrapped.Error(), tc.wantMsg)
			}
			if mdwErr, ok := tc.err.(*Error); ok {
				if wrapped.Code() != mdwErr.Code() {
					t.Errorf("Code() = %v, want %v", wrapped.Code(), mdwErr.Code())
				}
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	original := errors.New("root cause")
	middle := Wrap(original, "middle layer")
	top := Wrap(middle, "top layer")

	expected := "top layer: middle layer: root cause"
	if top.Error() != expected {
		t.Errorf("Error() = %q, want %q", top.Error(), expected)
	}
	if !errors.Is(top, middle) {
		t.Error("errors.Is() should find middle layer")
	}
	if !errors.Is(top, original) {
		t.Error("errors.Is() should find original error")
	}
	if top.RootCause() != original {
		t.Errorf("RootCause() = %v, want %v", top.RootCause(), original)
	}
}

func TestWithCode(t *testing.T) {
	err := New("bad date").WithCode(CodeInvalidDate)

	if err.Code() != CodeInvalidDate {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeInvalidDate)
	}
	if err.Severity() != SeverityLow {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityLow)
	}

	explicit := New("db down").WithSeverity(SeverityCritical).WithCode(CodeDatabaseError)
	if explicit.Severity() != SeverityCritical {
		t.Errorf("explicit Severity() = %v, want %v", explicit.Severity(), SeverityCritical)
	}
}

func TestWithDetail(t *testing.T) {
	err := New("test error").
		WithDetail("pattern", "%d.%m.%Y").
		WithDetails(map[string]interface{}{"input": "32.01.2013", "line": 3})

	details := err.Details()
	if len(details) != 3 {
		t.Errorf("Details() length = %d, want 3", len(details))
	}
	if details["pattern"] != "%d.%m.%Y" {
		t.Errorf("Details()[\"pattern\"] = %v", details["pattern"])
	}

	details["pattern"] = "changed"
	if err.Details()["pattern"] != "%d.%m.%Y" {
		t.Error("Details() should return a copy")
	}
}

func TestHelpersThroughFmtWrap(t *testing.T) {
	base := New("unknown locale").WithCode(CodeUnknownLocale).WithOperation("i18n.Names")
	err := fmt.Errorf("select locale: %w", base)

	if !HasCode(err, CodeUnknownLocale) {
		t.Error("HasCode() should see through fmt.Errorf wrapping")
	}
	if GetCode(err) != CodeUnknownLocale {
		t.Errorf("GetCode() = %v, want %v", GetCode(err), CodeUnknownLocale)
	}
	if GetSeverity(err) != SeverityLow {
		t.Errorf("GetSeverity() = %v, want %v", GetSeverity(err), SeverityLow)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode() of plain error should be CodeUnknown")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(errors.New("disk full"), "save alarm").
		WithCode(CodeDatabaseError).
		WithOperation("store.Save").
		WithRequestID("req-1")

	data, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("json.Marshal() error = %v", mErr)
	}

	var decoded map[string]interface{}
	if uErr := json.Unmarshal(data, &decoded); uErr != nil {
		t.Fatalf("json.Unmarshal() error = %v", uErr)
	}
	if decoded["code"] != "DATABASE_ERROR" {
		t.Errorf("code = %v, want DATABASE_ERROR", decoded["code"])
	}
	if decoded["operation"] != "store.Save" {
		t.Errorf("operation = %v, want store.Save", decoded["operation"])
	}
	if decoded["cause"] != "disk full" {
		t.Errorf("cause = %v, want disk full", decoded["cause"])
	}
	if decoded["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", decoded["request_id"])
	}
}

func TestString(t *testing.T) {
	s := New("bad").WithCode(CodeInvalidFormat).WithOperation("timex.Parse").String()
	for _, want := range []string{"Error: bad", "Code: INVALID_FORMAT", "Operation: timex.Parse"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q in %q", want, s)
		}
	}
}
