// File: level.go
// Title: Log Level Definitions
// Description: Defines log levels for filtering and controlling log output.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with standard log levels
// - 2026-10-19 v0.2.0: Dropped audit level, table driven names and aliases

package log

import (
	"strings"
)

// Level represents the importance level of a log message
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// levelInfo describes one level. The first alias is the canonical name.
type levelInfo struct {
	aliases []string
	short   string
	color   string
}

var levels = [...]levelInfo{
	LevelTrace: {[]string{"trace", "trc"}, "TRC", "\033[37m"},
	LevelDebug: {[]string{"debug", "dbg"}, "DBG", "\033[36m"},
	LevelInfo:  {[]string{"info", "inf", "information"}, "INF", "\033[32m"},
	LevelWarn:  {[]string{"warn", "wrn", "warning"}, "WRN", "\033[33m"},
	LevelError: {[]string{"error", "err"}, "ERR", "\033[31m"},
	LevelFatal: {[]string{"fatal", "ftl"}, "FTL", "\033[35m"},
}

const colorReset = "\033[0m"

func (l Level) info() (levelInfo, bool) {
	if l < LevelTrace || l > LevelFatal {
		return levelInfo{}, false
	}
	return levels[l], true
}

func (l Level) String() string {
	if info, ok := l.info(); ok {
		return info.aliases[0]
	}
	return "unknown"
}

// ShortString returns a three letter representation of the log level
func (l Level) ShortString() string {
	if info, ok := l.info(); ok {
		return info.short
	}
	return "???"
}

// Color returns the ANSI color code for the log level
func (l Level) Color() string {
	if info, ok := l.info(); ok {
		return info.color
	}
	return colorReset
}

// ShouldLog reports whether l passes the minimum level
func (l Level) ShouldLog(minLevel Level) bool {
	return l >= minLevel
}

// ParseLevel accepts the level names and their aliases in any case.
// Unknown input yields LevelInfo and a *ParseError.
func ParseLevel(level string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(level))
	for l, info := range levels {
		for _, alias := range info.aliases {
			if alias == s {
				return Level(l), nil
			}
		}
	}
	return LevelInfo, &ParseError{Input: level, Type: "level"}
}

// ParseError reports an invalid log configuration value
type ParseError struct {
	Input string
	Type  string
}

func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// DefaultLevel returns the default log level
func DefaultLevel() Level {
	return LevelInfo
}
