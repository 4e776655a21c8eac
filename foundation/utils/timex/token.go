// File: token.go
// Title: Format Tokens
// Description: The Token interface, the adapter for custom tokens and the
//              closed set of built-in tokens.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.2.0: Initial implementation

package timex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/msto63/tempus/foundation/core/i18n"
)

// Token is one sigil of the pattern language. Render writes the token for a
// normalized date. Parse reads a matched substring into the fields it can
// recover; returning false fails the whole parse.
type Token interface {
	Sigil() string
	Pattern() string
	Render(d Date, names *i18n.Names) string
	Parse(s string, names *i18n.Names) (Fields, bool)
}

// RenderFunc renders a token for a normalized date.
type RenderFunc func(d Date, names *i18n.Names) string

// ParseFunc parses the substring matched by a token.
type ParseFunc func(s string, names *i18n.Names) (Fields, bool)

// FuncToken adapts a pair of functions and a regular expression fragment
// into a Token.
type FuncToken struct {
	sigil   string
	pattern string
	render  RenderFunc
	parse   ParseFunc
}

// NewToken creates a custom token. A nil parse func makes the token display
// only: it matches its fragment and contributes no fields.
func NewToken(sigil string, render RenderFunc, parse ParseFunc, pattern string) *FuncToken {
	return &FuncToken{sigil: sigil, pattern: pattern, render: render, parse: parse}
}

func (t *FuncToken) Sigil() string   { return t.sigil }
func (t *FuncToken) Pattern() string { return t.pattern }

func (t *FuncToken) Render(d Date, names *i18n.Names) string {
	if t.render == nil {
		return ""
	}
	return t.render(d, names)
}

func (t *FuncToken) Parse(s string, names *i18n.Names) (Fields, bool) {
	if t.parse == nil {
		return Fields{}, true
	}
	return t.parse(s, names)
}

// Regular expression fragments of the built-in tokens
const (
	twoDigits   = `\d{2}`
	fourDigits  = `\d{4}`
	weekdayNum  = `[0-6]`
	letters     = `\p{L}+`
	epochDigits = `-?\d+`
	isoDate     = `\d{4}-\d{2}-\d{2}`
	usDate      = `\d{2}/\d{2}/\d{4}`
)

// numberToken renders one base field zero padded to width.
type numberToken struct {
	sigil   string
	unit    Unit
	width   int
	pattern string
}

func (t numberToken) Sigil() string   { return t.sigil }
func (t numberToken) Pattern() string { return t.pattern }

func (t numberToken) Render(d Date, _ *i18n.Names) string {
	return pad(d.DateFields().Get(t.unit).OrElse(0), t.width)
}

func (t numberToken) Parse(s string, _ *i18n.Names) (Fields, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return Fields{}, false
	}
	var f Fields
	switch t.unit {
	case UnitYear:
		f.Year = Some(n)
	case UnitMonth:
		f.Month = Some(n)
	case UnitDay:
		f.Day = Some(n)
	case UnitHours:
		f.Hours = Some(n)
	case UnitMinutes:
		f.Minutes = Some(n)
	case UnitSeconds:
		f.Seconds = Some(n)
	}
	return f, true
}

// weekdayToken renders the weekday as a number or a name. A weekday does
// not determine a date, so parsing contributes no fields.
type weekdayToken struct {
	sigil   string
	numeric bool
	long    bool
}

func (t weekdayToken) Sigil() string { return t.sigil }

func (t weekdayToken) Pattern() string {
	if t.numeric {
		return weekdayNum
	}
	return letters
}

func (t weekdayToken) Render(d Date, names *i18n.Names) string {
	dow := d.DayOfWeek.OrElse(DayOfWeek(d))
	if t.numeric {
		return strconv.Itoa(dow)
	}
	if names == nil {
		return ""
	}
	return names.Days(t.long)[dow]
}

func (t weekdayToken) Parse(string, *i18n.Names) (Fields, bool) {
	return Fields{}, true
}

// monthNameToken renders and parses short or long month names.
type monthNameToken struct {
	sigil string
	long  bool
}

func (t monthNameToken) Sigil() string   { return t.sigil }
func (t monthNameToken) Pattern() string { return letters }

func (t monthNameToken) Render(d Date, names *i18n.Names) string {
	if names == nil || d.Month < 1 || d.Month > 12 {
		return ""
	}
	return names.Months(t.long)[d.Month-1]
}

func (t monthNameToken) Parse(s string, names *i18n.Names) (Fields, bool) {
	if names == nil {
		return Fields{}, false
	}
	table := names.Months(t.long)
	for i, name := range table {
		if name == s {
			return Fields{Month: Some(i + 1)}, true
		}
	}
	for i, name := range table {
		if strings.EqualFold(name, s) {
			return Fields{Month: Some(i + 1)}, true
		}
	}
	return Fields{}, false
}

// epochToken renders and parses seconds since the epoch.
type epochToken struct{}

func (epochToken) Sigil() string   { return "%s" }
func (epochToken) Pattern() string { return epochDigits }

func (epochToken) Render(d Date, _ *i18n.Names) string {
	return strconv.FormatInt(Time(d), 10)
}

func (epochToken) Parse(s string, _ *i18n.Names) (Fields, bool) {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Fields{}, false
	}
	return FromTimestamp(ts).DateFields(), true
}

// compositeDateToken renders YYYY-MM-DD or MM/DD/YYYY.
type compositeDateToken struct {
	sigil string
	iso   bool
}

func (t compositeDateToken) Sigil() string { return t.sigil }

func (t compositeDateToken) Pattern() string {
	if t.iso {
		return isoDate
	}
	return usDate
}

func (t compositeDateToken) Render(d Date, _ *i18n.Names) string {
	if t.iso {
		return pad(d.Year, 4) + "-" + pad(d.Month, 2) + "-" + pad(d.Day, 2)
	}
	return pad(d.Month, 2) + "/" + pad(d.Day, 2) + "/" + pad(d.Year, 4)
}

func (t compositeDateToken) Parse(s string, _ *i18n.Names) (Fields, bool) {
	if len(s) != 10 {
		return Fields{}, false
	}
	yearAt, monthAt, dayAt := [2]int{0, 4}, [2]int{5, 7}, [2]int{8, 10}
	if !t.iso {
		monthAt, dayAt, yearAt = [2]int{0, 2}, [2]int{3, 5}, [2]int{6, 10}
	}

	year, errY := strconv.Atoi(s[yearAt[0]:yearAt[1]])
	month, errM := strconv.Atoi(s[monthAt[0]:monthAt[1]])
	day, errD := strconv.Atoi(s[dayAt[0]:dayAt[1]])
	if errY != nil || errM != nil || errD != nil {
		return Fields{}, false
	}
	return Fields{Year: Some(year), Month: Some(month), Day: Some(day)}, true
}

// BuiltinTokens returns the built-in tokens in registry order.
func BuiltinTokens() []Token {
	return []Token{
		numberToken{sigil: "%d", unit: UnitDay, width: 2, pattern: twoDigits},
		numberToken{sigil: "%m", unit: UnitMonth, width: 2, pattern: twoDigits},
		numberToken{sigil: "%Y", unit: UnitYear, width: 4, pattern: fourDigits},
		weekdayToken{sigil: "%w", numeric: true},
		weekdayToken{sigil: "%a"},
		weekdayToken{sigil: "%A", long: true},
		monthNameToken{sigil: "%b"},
		monthNameToken{sigil: "%B", long: true},
		numberToken{sigil: "%H", unit: UnitHours, width: 2, pattern: twoDigits},
		numberToken{sigil: "%M", unit: UnitMinutes, width: 2, pattern: twoDigits},
		numberToken{sigil: "%S", unit: UnitSeconds, width: 2, pattern: twoDigits},
		epochToken{},
		compositeDateToken{sigil: "%F", iso: true},
		compositeDateToken{sigil: "%D"},
	}
}

func pad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
