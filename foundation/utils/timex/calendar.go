// File: calendar.go
// Title: Calendar Normalizer
// Description: Converts between timestamps and civil dates on the proleptic
//              Gregorian calendar, with carry propagation for out-of-range
//              fields, weekday and week-number calculations and calendar
//              arithmetic.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time utilities
// - 2026-10-19 v0.2.0: Replaced time.Time helpers with the field-based calendar

package timex

import "math"

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400

	// Between approximates a month as 29.4 days
	averageMonthDays = 29.4
)

var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// sakamotoOffsets is indexed by month-1
var sakamotoOffsets = [12]int{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

// daysFromCivil returns the days since 1970-01-01 for a month in 1..12.
// day may be out of range; it is added linearly.
func daysFromCivil(year, month, day int64) int64 {
	if month <= 2 {
		year--
	}
	era := floorDiv(year, 400)
	yoe := year - era*400
	mp := (month + 9) % 12
	doy := (153*mp+2)/5 + day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(days int64) (year, month, day int64) {
	days += 719468
	era := floorDiv(days, 146097)
	doe := days - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153

	day = doy - (153*mp+2)/5 + 1
	if mp < 10 {
		month = mp + 3
	} else {
		month = mp - 9
	}
	year = yoe + era*400
	if month <= 2 {
		year++
	}
	return year, month, day
}

// Time returns the UTC seconds since the epoch for d. Missing fields are
// defaulted and out-of-range fields carry into the next larger unit.
func Time(d Dater) int64 {
	raw := d.DateFields().WithDefaults()

	month := int64(raw.Month) - 1
	year := int64(raw.Year) + floorDiv(month, 12)
	month = floorMod(month, 12) + 1

	days := daysFromCivil(year, month, 1) + int64(raw.Day) - 1
	return days*secondsPerDay +
		int64(raw.Hours)*secondsPerHour +
		int64(raw.Minutes)*secondsPerMinute +
		int64(raw.Seconds)
}

// FromTimestamp decomposes UTC seconds since the epoch into a Date.
// Negative timestamps are dates before 1970.
func FromTimestamp(ts int64) Date {
	days := floorDiv(ts, secondsPerDay)
	rest := ts - days*secondsPerDay
	year, month, day := civilFromDays(days)

	return NewDate(
		int(year),
		int(month),
		int(day),
		int(rest/secondsPerHour),
		int(rest%secondsPerHour/secondsPerMinute),
		int(rest%secondsPerMinute),
	)
}

// Normalize carries out-of-range fields: day 32 of December becomes
// January 1 of the following year.
func Normalize(d Dater) Date {
	return FromTimestamp(Time(d))
}

// IsLeapYear reports whether year has 366 days.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the length of month (1..12) in year. ok is false for
// a month outside 1..12.
func DaysInMonth(month, year int) (int, bool) {
	if month < 1 || month > 12 {
		return 0, false
	}
	days := daysPerMonth[month-1]
	if month == 2 && IsLeapYear(year) {
		days++
	}
	return days, true
}

// sakamoto returns the weekday of a canonical date, 0 = Sunday.
func sakamoto(year, month, day int) int {
	y := int64(year)
	if month < 3 {
		y--
	}
	sum := y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) +
		int64(sakamotoOffsets[month-1]) + int64(day)
	return int(floorMod(sum, 7))
}

// DayOfWeek returns the weekday of d, 0 = Sunday. d is normalized first.
func DayOfWeek(d Dater) int {
	date := Normalize(d)
	return sakamoto(date.Year, date.Month, date.Day)
}

// WeekNumber returns the 1-based week of the year of d: the count of whole
// 7-day periods since the Sunday on or before January 1, offset by one day
// when weeks start on Sunday. The week therefore turns over on Saturday in
// Sunday mode and on Sunday in Monday mode.
func WeekNumber(d Dater, weekStartsMonday bool) int {
	date := Normalize(d)

	jan1 := daysFromCivil(int64(date.Year), 1, 1)
	start := jan1 - int64(sakamoto(date.Year, 1, 1))

	var off int64
	if !weekStartsMonday {
		off = 1
	}

	today := daysFromCivil(int64(date.Year), int64(date.Month), int64(date.Day))
	return int(floorDiv(today-start+off, 7)) + 1
}

// IncDateBy adds p to d and normalizes the result.
func IncDateBy(d Dater, p Period) Date {
	raw := d.DateFields().WithDefaults()
	return Normalize(NewDate(
		raw.Year+p.Years,
		raw.Month+p.Months,
		raw.Day+p.Days,
		raw.Hours+p.Hours,
		raw.Minutes+p.Minutes,
		raw.Seconds+p.Seconds,
	))
}

// DecDateBy subtracts p from d and normalizes the result.
func DecDateBy(d Dater, p Period) Date {
	return IncDateBy(d, p.Negate())
}

// IncDate adds n units to d. ok is false for an unknown unit.
func IncDate(d Dater, n int, unit Unit) (Date, bool) {
	if !unit.IsValid() {
		return Date{}, false
	}
	return IncDateBy(d, unit.Period(n)), true
}

// DecDate subtracts n units from d. ok is false for an unknown unit.
func DecDate(d Dater, n int, unit Unit) (Date, bool) {
	return IncDate(d, -n, unit)
}

// Between returns the floored difference to-from in unit. Years and months
// use an average month of 29.4 days. ok is false for an unknown unit.
func Between(from, to Dater, unit Unit) (int64, bool) {
	diff := Time(to) - Time(from)

	switch unit {
	case UnitYear:
		return int64(math.Floor(float64(diff) / (secondsPerDay * 12 * averageMonthDays))), true
	case UnitMonth:
		return int64(math.Floor(float64(diff) / (secondsPerDay * averageMonthDays))), true
	case UnitDay:
		return floorDiv(diff, secondsPerDay), true
	case UnitHours:
		return floorDiv(diff, secondsPerHour), true
	case UnitMinutes:
		return floorDiv(diff, secondsPerMinute), true
	case UnitSeconds:
		return diff, true
	}
	return 0, false
}
