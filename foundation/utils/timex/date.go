// File: date.go
// Title: Calendar Data Model
// Description: Defines the civil Date value, the partially specified Fields
//              map, calendar units and composite periods.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.2.0: Initial implementation

package timex

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Epoch defaults for missing fields
const (
	DefaultYear  = 1970
	DefaultMonth = 1
	DefaultDay   = 1
)

// Dater is anything that can be read as date fields: a full Date or a
// partial Fields map.
type Dater interface {
	DateFields() Fields
}

// Date is a civil UTC date. Dates returned by Normalize and FromTimestamp
// carry all six base fields in their canonical ranges. DayOfWeek and Week
// are only set when requested.
type Date struct {
	Year    int
	Month   int
	Day     int
	Hours   int
	Minutes int
	Seconds int

	DayOfWeek Optional[int]
	Week      Optional[int]
}

// NewDate builds a Date from its six base fields without normalizing.
func NewDate(year, month, day, hours, minutes, seconds int) Date {
	return Date{Year: year, Month: month, Day: day, Hours: hours, Minutes: minutes, Seconds: seconds}
}

// DateFields implements Dater with every field set.
func (d Date) DateFields() Fields {
	return Fields{
		Year:    Some(d.Year),
		Month:   Some(d.Month),
		Day:     Some(d.Day),
		Hours:   Some(d.Hours),
		Minutes: Some(d.Minutes),
		Seconds: Some(d.Seconds),
	}
}

// Base returns the date without its derived fields.
func (d Date) Base() Date {
	return NewDate(d.Year, d.Month, d.Day, d.Hours, d.Minutes, d.Seconds)
}

// Equal compares the six base fields.
func (d Date) Equal(other Date) bool {
	return d.Base() == other.Base()
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hours, d.Minutes, d.Seconds)
}

// Map returns the date as a generic map, the shape used on the wire.
func (d Date) Map() map[string]interface{} {
	m := map[string]interface{}{
		"year":    d.Year,
		"month":   d.Month,
		"day":     d.Day,
		"hours":   d.Hours,
		"minutes": d.Minutes,
		"seconds": d.Seconds,
	}
	if v, ok := d.DayOfWeek.Get(); ok {
		m["dayOfWeek"] = v
	}
	if v, ok := d.Week.Get(); ok {
		m["week"] = v
	}
	return m
}

// MarshalJSON encodes the date through Map.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}

// Fields is a partially specified date. Missing fields are defaulted to
// 1970-01-01 00:00:00 before any calculation.
type Fields struct {
	Year    Optional[int] `json:"year"`
	Month   Optional[int] `json:"month"`
	Day     Optional[int] `json:"day"`
	Hours   Optional[int] `json:"hours"`
	Minutes Optional[int] `json:"minutes"`
	Seconds Optional[int] `json:"seconds"`
}

// DateFields implements Dater.
func (f Fields) DateFields() Fields {
	return f
}

// Merge overlays the set fields of other. Fields set in other win.
func (f Fields) Merge(other Fields) Fields {
	pick := func(a, b Optional[int]) Optional[int] {
		if b.IsSet() {
			return b
		}
		return a
	}
	return Fields{
		Year:    pick(f.Year, other.Year),
		Month:   pick(f.Month, other.Month),
		Day:     pick(f.Day, other.Day),
		Hours:   pick(f.Hours, other.Hours),
		Minutes: pick(f.Minutes, other.Minutes),
		Seconds: pick(f.Seconds, other.Seconds),
	}
}

// IsEmpty reports whether no field is set.
func (f Fields) IsEmpty() bool {
	return f == Fields{}
}

// WithDefaults fills missing fields and returns the raw, unnormalized date.
func (f Fields) WithDefaults() Date {
	return NewDate(
		f.Year.OrElse(DefaultYear),
		f.Month.OrElse(DefaultMonth),
		f.Day.OrElse(DefaultDay),
		f.Hours.OrElse(0),
		f.Minutes.OrElse(0),
		f.Seconds.OrElse(0),
	)
}

// Get returns the named field. Names follow the Unit spelling.
func (f Fields) Get(unit Unit) Optional[int] {
	switch unit {
	case UnitYear:
		return f.Year
	case UnitMonth:
		return f.Month
	case UnitDay:
		return f.Day
	case UnitHours:
		return f.Hours
	case UnitMinutes:
		return f.Minutes
	case UnitSeconds:
		return f.Seconds
	}
	return None[int]()
}

// DateOptions selects the derived fields attached by Engine.Date.
type DateOptions struct {
	Week      bool
	DayOfWeek bool
}

// Unit is a calendar unit used by arithmetic, Between and periods.
type Unit string

const (
	UnitYear    Unit = "year"
	UnitMonth   Unit = "month"
	UnitDay     Unit = "day"
	UnitHours   Unit = "hours"
	UnitMinutes Unit = "minutes"
	UnitSeconds Unit = "seconds"
)

// Units lists all units from largest to smallest.
var Units = []Unit{UnitYear, UnitMonth, UnitDay, UnitHours, UnitMinutes, UnitSeconds}

// ParseUnit accepts the canonical unit names plus singular and plural
// spellings ("days", "hour", "minute").
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year", "years":
		return UnitYear, true
	case "month", "months":
		return UnitMonth, true
	case "day", "days":
		return UnitDay, true
	case "hours", "hour":
		return UnitHours, true
	case "minutes", "minute":
		return UnitMinutes, true
	case "seconds", "second":
		return UnitSeconds, true
	}
	return "", false
}

// IsValid reports whether u is a known unit.
func (u Unit) IsValid() bool {
	switch u {
	case UnitYear, UnitMonth, UnitDay, UnitHours, UnitMinutes, UnitSeconds:
		return true
	}
	return false
}

// Period returns a period of n units. Unknown units yield the zero period.
func (u Unit) Period(n int) Period {
	switch u {
	case UnitYear:
		return Period{Years: n}
	case UnitMonth:
		return Period{Months: n}
	case UnitDay:
		return Period{Days: n}
	case UnitHours:
		return Period{Hours: n}
	case UnitMinutes:
		return Period{Minutes: n}
	case UnitSeconds:
		return Period{Seconds: n}
	}
	return Period{}
}

// Period is a composite calendar delta. It is applied field by field and
// the result is normalized, so one month after January 31 is March 3 (or
// March 2 in leap years).
type Period struct {
	Years   int `json:"year"`
	Months  int `json:"month"`
	Days    int `json:"day"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Seconds returns a period of n plain seconds.
func Seconds(n int) Period {
	return Period{Seconds: n}
}

// UnitPeriod returns a period of one unit.
func UnitPeriod(u Unit) Period {
	return u.Period(1)
}

// PeriodOf builds a period from a field map; missing fields are zero.
func PeriodOf(f Fields) Period {
	return Period{
		Years:   f.Year.OrElse(0),
		Months:  f.Month.OrElse(0),
		Days:    f.Day.OrElse(0),
		Hours:   f.Hours.OrElse(0),
		Minutes: f.Minutes.OrElse(0),
		Seconds: f.Seconds.OrElse(0),
	}
}

// IsZero reports whether every component is zero.
func (p Period) IsZero() bool {
	return p == Period{}
}

// Negate returns the inverse period.
func (p Period) Negate() Period {
	return Period{
		Years:   -p.Years,
		Months:  -p.Months,
		Days:    -p.Days,
		Hours:   -p.Hours,
		Minutes: -p.Minutes,
		Seconds: -p.Seconds,
	}
}

func (p Period) String() string {
	var parts []string
	add := func(n int, unit Unit) {
		if n != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, unit))
		}
	}
	add(p.Years, UnitYear)
	add(p.Months, UnitMonth)
	add(p.Days, UnitDay)
	add(p.Hours, UnitHours)
	add(p.Minutes, UnitMinutes)
	add(p.Seconds, UnitSeconds)
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, " ")
}
