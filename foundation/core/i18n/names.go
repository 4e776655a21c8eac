// File: names.go
// Title: Locale Name Tables
// Description: The Names table and its validation and lookup helpers.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package i18n

import (
	"strings"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	"github.com/msto63/tempus/foundation/utils/stringx"
)

// Names is one locale's calendar name table. Weekday slices start on Sunday.
type Names struct {
	MonthShortNames []string `toml:"month_short_names" yaml:"month_short_names" json:"month_short_names"`
	MonthLongNames  []string `toml:"month_long_names" yaml:"month_long_names" json:"month_long_names"`
	DaysShortNames  []string `toml:"days_short_names" yaml:"days_short_names" json:"days_short_names"`
	DaysLongNames   []string `toml:"days_long_names" yaml:"days_long_names" json:"days_long_names"`
}

// Validate checks the table sizes and rejects blank names.
func (n *Names) Validate() error {
	checks := []struct {
		key   string
		names []string
		want  int
	}{
		{"month_short_names", n.MonthShortNames, 12},
		{"month_long_names", n.MonthLongNames, 12},
		{"days_short_names", n.DaysShortNames, 7},
		{"days_long_names", n.DaysLongNames, 7},
	}

	for _, c := range checks {
		if len(c.names) != c.want {
			return mdwerror.New("locale table has wrong size").
				WithCode(mdwerror.CodeValidationFailed).
				WithOperation("i18n.Names.Validate").
				WithDetail("key", c.key).
				WithDetail("want", c.want).
				WithDetail("got", len(c.names))
		}
		for i, name := range c.names {
			if stringx.IsBlank(name) {
				return mdwerror.New("locale table has a blank name").
					WithCode(mdwerror.CodeValidationFailed).
					WithOperation("i18n.Names.Validate").
					WithDetail("key", c.key).
					WithDetail("index", i)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (n *Names) Clone() *Names {
	return &Names{
		MonthShortNames: append([]string(nil), n.MonthShortNames...),
		MonthLongNames:  append([]string(nil), n.MonthLongNames...),
		DaysShortNames:  append([]string(nil), n.DaysShortNames...),
		DaysLongNames:   append([]string(nil), n.DaysLongNames...),
	}
}

// Months returns the long or short month names.
func (n *Names) Months(long bool) []string {
	if long {
		return n.MonthLongNames
	}
	return n.MonthShortNames
}

// Days returns the long or short weekday names, Sunday first.
func (n *Names) Days(long bool) []string {
	if long {
		return n.DaysLongNames
	}
	return n.DaysShortNames
}

// MonthIndex returns the 1-based month for a short or long month name.
// Matching is exact first, then case-insensitive.
func (n *Names) MonthIndex(name string) (int, bool) {
	for _, table := range [][]string{n.MonthShortNames, n.MonthLongNames} {
		for i, candidate := range table {
			if candidate == name {
				return i + 1, true
			}
		}
	}
	for _, table := range [][]string{n.MonthShortNames, n.MonthLongNames} {
		for i, candidate := range table {
			if strings.EqualFold(candidate, name) {
				return i + 1, true
			}
		}
	}
	return 0, false
}
