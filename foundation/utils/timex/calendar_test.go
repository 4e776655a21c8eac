// File: calendar_test.go
// Title: Calendar Normalizer Tests
// Description: Tests for timestamp conversion, normalization, leap years,
//              weekdays, week numbers, calendar arithmetic and Between.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial test implementation with comprehensive coverage
// - 2026-10-19 v0.2.0: Tests for the field based calendar

package timex

import (
	"testing"
	"time"
)

func ymd(year, month, day int) Date {
	return NewDate(year, month, day, 0, 0, 0)
}

func partial(year, month, day int) Fields {
	return Fields{Year: Some(year), Month: Some(month), Day: Some(day)}
}

func TestTime(t *testing.T) {
	testCases := []struct {
		name  string
		input Dater
		want  int64
	}{
		{"epoch defaults", Fields{}, 0},
		{"2013-11-05", partial(2013, 11, 5), 1383609600},
		{"2013-11-14", partial(2013, 11, 14), 1384387200},
		{"2013-10-15", ymd(2013, 10, 15), 1381795200},
		{"2013-03-12", ymd(2013, 3, 12), 1363046400},
		{"2013-03-15 15:21", NewDate(2013, 3, 15, 15, 21, 0), 1363360860},
		{"year only", Fields{Year: Some(2000)}, 946684800},
		{"before epoch", ymd(1969, 12, 31), -86400},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Time(tc.input); got != tc.want {
				t.Errorf("Time(%v) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestTimeMatchesStdlib(t *testing.T) {
	for year := -500; year <= 2500; year += 37 {
		for month := -14; month <= 26; month += 5 {
			for day := -40; day <= 70; day += 11 {
				for hours := -30; hours <= 50; hours += 13 {
					d := NewDate(year, month, day, hours, 61, -5)
					want := time.Date(year, time.Month(month), day, hours, 61, -5, 0, time.UTC).Unix()
					if got := Time(d); got != want {
						t.Fatalf("Time(%v) = %d, want %d", d, got, want)
					}
				}
			}
		}
	}
}

func TestFromTimestampMatchesStdlib(t *testing.T) {
	for ts := int64(-62135596800); ts < 32503680000; ts += 86400*97 + 3599 {
		want := time.Unix(ts, 0).UTC()
		got := FromTimestamp(ts)
		if got.Year != want.Year() || got.Month != int(want.Month()) || got.Day != want.Day() ||
			got.Hours != want.Hour() || got.Minutes != want.Minute() || got.Seconds != want.Second() {
			t.Fatalf("FromTimestamp(%d) = %v, want %v", ts, got, want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for year := 1600; year <= 2400; year += 7 {
		for month := 1; month <= 12; month++ {
			days, _ := DaysInMonth(month, year)
			for day := 1; day <= days; day++ {
				d := NewDate(year, month, day, 23, 59, 58)
				if got := FromTimestamp(Time(d)); got != d {
					t.Fatalf("FromTimestamp(Time(%v)) = %v", d, got)
				}
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name  string
		input Dater
		want  Date
	}{
		{"day overflow into next year", partial(2013, 12, 32), ymd(2014, 1, 1)},
		{"month and day overflow", partial(2013, 13, 46), ymd(2014, 2, 15)},
		{
			"negative month with time carry",
			Fields{Year: Some(2013), Month: Some(-5), Day: Some(32), Hours: Some(55), Seconds: Some(-2)},
			NewDate(2012, 8, 3, 6, 59, 58),
		},
		{"negative hour", Fields{Year: Some(2013), Month: Some(3), Day: Some(20), Hours: Some(-1)}, NewDate(2013, 3, 19, 23, 0, 0)},
		{"february 29 in common year", partial(2013, 2, 29), ymd(2013, 3, 1)},
		{"day zero", partial(2013, 3, 0), ymd(2013, 2, 28)},
		{"already canonical", NewDate(2012, 2, 29, 12, 30, 45), NewDate(2012, 2, 29, 12, 30, 45)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Errorf("Normalize(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestIsLeapYear(t *testing.T) {
	for year := -1000; year <= 3000; year++ {
		want := year%4 == 0 && (year%100 != 0 || year%400 == 0)
		if got := IsLeapYear(year); got != want {
			t.Fatalf("IsLeapYear(%d) = %v, want %v", year, got, want)
		}
	}

	for year, want := range map[int]bool{1900: false, 2000: true, 2012: true, 2013: false} {
		if got := IsLeapYear(year); got != want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", year, got, want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	testCases := []struct {
		month, year int
		want        int
		wantOK      bool
	}{
		{2, 2012, 29, true},
		{2, 2013, 28, true},
		{11, 2013, 30, true},
		{1, 2013, 31, true},
		{2, 1900, 28, true},
		{2, 2000, 29, true},
		{0, 2013, 0, false},
		{13, 2013, 0, false},
	}

	for _, tc := range testCases {
		got, ok := DaysInMonth(tc.month, tc.year)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("DaysInMonth(%d, %d) = %d, %v, want %d, %v", tc.month, tc.year, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestDayOfWeek(t *testing.T) {
	testCases := []struct {
		input Dater
		want  int
	}{
		{ymd(2013, 10, 5), 6},
		{ymd(2013, 10, 6), 0},
		{ymd(2014, 1, 1), 3},
		{ymd(1970, 1, 1), 4},
		{partial(2013, 9, 36), 0},
	}

	for _, tc := range testCases {
		if got := DayOfWeek(tc.input); got != tc.want {
			t.Errorf("DayOfWeek(%v) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestDayOfWeekMatchesStdlib(t *testing.T) {
	for ts := int64(-62135596800); ts < 32503680000; ts += 86400 * 13 {
		d := FromTimestamp(ts)
		want := int(time.Unix(ts, 0).UTC().Weekday())
		if got := DayOfWeek(d); got != want {
			t.Fatalf("DayOfWeek(%v) = %d, want %d", d, got, want)
		}
	}
}

func TestWeekNumber(t *testing.T) {
	testCases := []struct {
		name   string
		date   Date
		monday bool
		want   int
	}{
		{"jan 1 tuesday sunday mode", ymd(2013, 1, 1), false, 1},
		{"jan 1 tuesday monday mode", ymd(2013, 1, 1), true, 1},
		{"first friday sunday mode", ymd(2013, 1, 4), false, 1},
		{"first saturday sunday mode", ymd(2013, 1, 5), false, 2},
		{"first saturday monday mode", ymd(2013, 1, 5), true, 1},
		{"first sunday sunday mode", ymd(2013, 1, 6), false, 2},
		{"first sunday monday mode", ymd(2013, 1, 6), true, 2},
		{"first monday monday mode", ymd(2013, 1, 7), true, 2},
		{"jan 1 sunday sunday mode", ymd(2012, 1, 1), false, 1},
		{"jan 1 sunday monday mode", ymd(2012, 1, 1), true, 1},
		{"jan 2 monday monday mode", ymd(2012, 1, 2), true, 1},
		{"jan 7 saturday sunday mode", ymd(2012, 1, 7), false, 2},
		{"jan 8 sunday monday mode", ymd(2012, 1, 8), true, 2},
		{"dec 31", ymd(2013, 12, 31), false, 53},
		{"october saturday", ymd(2013, 10, 5), false, 41},
		{"october saturday monday mode", ymd(2013, 10, 5), true, 40},
		{"october friday", ymd(2013, 10, 4), false, 40},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WeekNumber(tc.date, tc.monday); got != tc.want {
				t.Errorf("WeekNumber(%v, %v) = %d, want %d", tc.date, tc.monday, got, tc.want)
			}
		})
	}
}

func TestWeekNumberTurnover(t *testing.T) {
	testCases := []struct {
		name     string
		monday   bool
		turnover int
	}{
		{"sunday mode turns on saturday", false, 6},
		{"monday mode turns on sunday", true, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prev := WeekNumber(ymd(2013, 1, 1), tc.monday)
			for day := 2; day <= 365; day++ {
				d := Normalize(partial(2013, 1, day))
				week := WeekNumber(d, tc.monday)
				if DayOfWeek(d) == tc.turnover {
					if week != prev+1 {
						t.Fatalf("WeekNumber(%v, %v) = %d, want %d", d, tc.monday, week, prev+1)
					}
				} else if week != prev {
					t.Fatalf("WeekNumber(%v, %v) = %d, want %d", d, tc.monday, week, prev)
				}
				prev = week
			}
		})
	}
}

func TestIncDecDate(t *testing.T) {
	testCases := []struct {
		name string
		date Date
		n    int
		unit Unit
		inc  bool
		want Date
	}{
		{"inc 7 days", ymd(2013, 10, 5), 7, UnitDay, true, ymd(2013, 10, 12)},
		{"inc 80 days", ymd(2013, 10, 25), 80, UnitDay, true, ymd(2014, 1, 13)},
		{"inc 11 months", ymd(2013, 1, 30), 11, UnitMonth, true, ymd(2013, 12, 30)},
		{"inc 15 years", ymd(2000, 1, 1), 15, UnitYear, true, ymd(2015, 1, 1)},
		{"dec 7 days", ymd(2013, 10, 5), 7, UnitDay, false, ymd(2013, 9, 28)},
		{"dec 80 days", ymd(2013, 10, 25), 80, UnitDay, false, ymd(2013, 8, 6)},
		{"dec 11 months", ymd(2013, 1, 1), 11, UnitMonth, false, ymd(2012, 2, 1)},
		{"dec 15 years", ymd(2000, 1, 1), 15, UnitYear, false, ymd(1985, 1, 1)},
		{"inc 90 minutes", NewDate(2013, 12, 31, 23, 0, 0), 90, UnitMinutes, true, NewDate(2014, 1, 1, 0, 30, 0)},
		{"dec 1 second", ymd(2014, 1, 1), 1, UnitSeconds, false, NewDate(2013, 12, 31, 23, 59, 59)},
		{"inc 25 hours", ymd(2013, 2, 28), 25, UnitHours, true, NewDate(2013, 3, 1, 1, 0, 0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got Date
			var ok bool
			if tc.inc {
				got, ok = IncDate(tc.date, tc.n, tc.unit)
			} else {
				got, ok = DecDate(tc.date, tc.n, tc.unit)
			}
			if !ok || got != tc.want {
				t.Errorf("got %v, %v, want %v", got, ok, tc.want)
			}
		})
	}

	if _, ok := IncDate(ymd(2013, 1, 1), 1, Unit("fortnight")); ok {
		t.Error("IncDate with unknown unit ok = true, want false")
	}
}

func TestIncDateBy(t *testing.T) {
	p := Period{Months: 1, Days: 1, Hours: 2}
	got := IncDateBy(ymd(2013, 1, 31), p)
	want := NewDate(2013, 3, 4, 2, 0, 0)
	if got != want {
		t.Errorf("IncDateBy(2013-01-31, %v) = %v, want %v", p, got, want)
	}
	if back := DecDateBy(ymd(2013, 3, 4), Period{Days: 4}); back != ymd(2013, 2, 28) {
		t.Errorf("DecDateBy = %v, want 2013-02-28", back)
	}
	if got := IncDateBy(Fields{}, Seconds(86400)); got != ymd(1970, 1, 2) {
		t.Errorf("IncDateBy(defaults, 1 day) = %v", got)
	}
}

func TestBetween(t *testing.T) {
	testCases := []struct {
		name     string
		from, to Date
		unit     Unit
		want     int64
	}{
		{"days", ymd(2013, 11, 1), ymd(2013, 11, 5), UnitDay, 4},
		{"months", ymd(2013, 11, 1), ymd(2014, 5, 5), UnitMonth, 6},
		{"minutes", ymd(2013, 11, 1), ymd(2014, 5, 5), UnitMinutes, 266400},
		{"hours", ymd(2013, 11, 1), ymd(2015, 1, 1), UnitHours, 10224},
		{"years", ymd(2000, 1, 1), ymd(2015, 1, 1), UnitYear, 15},
		{"seconds", ymd(2013, 11, 1), NewDate(2013, 11, 1, 0, 1, 5), UnitSeconds, 65},
		{"negative days", ymd(2013, 11, 5), ymd(2013, 11, 1), UnitDay, -4},
		{"negative partial hours floor", NewDate(2013, 11, 1, 1, 30, 0), ymd(2013, 11, 1), UnitHours, -2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Between(tc.from, tc.to, tc.unit)
			if !ok || got != tc.want {
				t.Errorf("Between(%v, %v, %s) = %d, %v, want %d", tc.from, tc.to, tc.unit, got, ok, tc.want)
			}
		})
	}

	if _, ok := Between(ymd(2013, 1, 1), ymd(2013, 1, 2), Unit("week")); ok {
		t.Error("Between with unknown unit ok = true, want false")
	}
}

func TestParseUnit(t *testing.T) {
	testCases := []struct {
		input  string
		want   Unit
		wantOK bool
	}{
		{"day", UnitDay, true},
		{"Days", UnitDay, true},
		{"hour", UnitHours, true},
		{" minutes ", UnitMinutes, true},
		{"fortnight", "", false},
	}

	for _, tc := range testCases {
		got, ok := ParseUnit(tc.input)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ParseUnit(%q) = %q, %v, want %q, %v", tc.input, got, ok, tc.want, tc.wantOK)
		}
	}
}
