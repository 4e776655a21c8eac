// File: engine_test.go
// Title: Engine Tests
// Description: Tests for engine construction, locale selection, week mode,
//              clock injection and concurrent use.
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
	"reflect"
	"sync"
	"testing"
	"time"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
)

func TestNewUnknownLocale(t *testing.T) {
	_, err := New(Options{Locale: "xx_XX"})
	if !mdwerror.HasCode(err, mdwerror.CodeUnknownLocale) {
		t.Errorf("New(xx_XX) error = %v, want %s", err, mdwerror.CodeUnknownLocale)
	}
}

func TestSetLocale(t *testing.T) {
	engine := newTestEngine(t)

	if got := engine.Locale(); got != "en_US" {
		t.Errorf("Locale() = %q, want en_US", got)
	}

	testCases := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"ru_RU", "ru_RU", true},
		{"de-de", "de_DE", true},
		{"xx_XX", "de_DE", false},
		{"", "en_US", true},
	}

	for _, tc := range testCases {
		got, ok := engine.SetLocale(tc.input)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("SetLocale(%q) = %q, %v, want %q, %v", tc.input, got, ok, tc.want, tc.wantOK)
		}
		if engine.Locale() != tc.want {
			t.Errorf("Locale() after SetLocale(%q) = %q, want %q", tc.input, engine.Locale(), tc.want)
		}
	}

	if got := engine.AvailableLocales(); !reflect.DeepEqual(got, []string{"de_DE", "en_US", "ru_RU"}) {
		t.Errorf("AvailableLocales() = %v", got)
	}
}

func TestNames(t *testing.T) {
	engine := newTestEngine(t)

	months := engine.MonthNames(true)
	if len(months) != 12 || months[0] != "January" {
		t.Fatalf("MonthNames(true) = %v", months)
	}
	months[0] = "changed"
	if engine.MonthNames(true)[0] != "January" {
		t.Error("MonthNames returned the shared table")
	}

	if got := engine.MonthNames(false)[11]; got != "Dec" {
		t.Errorf("MonthNames(false)[11] = %q, want Dec", got)
	}
	if got := engine.DayNames(true)[0]; got != "Sunday" {
		t.Errorf("DayNames(true)[0] = %q, want Sunday", got)
	}
	if got := engine.DayNames(false)[6]; got != "Sat" {
		t.Errorf("DayNames(false)[6] = %q, want Sat", got)
	}
}

func TestDaysInNamedMonth(t *testing.T) {
	engine := newTestEngine(t)

	testCases := []struct {
		name   string
		year   int
		want   int
		wantOK bool
	}{
		{"Feb", 2012, 29, true},
		{"February", 2013, 28, true},
		{"Nov", 2013, 30, true},
		{"Foo", 2013, 0, false},
	}

	for _, tc := range testCases {
		got, ok := engine.DaysInNamedMonth(tc.name, tc.year)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("DaysInNamedMonth(%q, %d) = %d, %v, want %d, %v", tc.name, tc.year, got, ok, tc.want, tc.wantOK)
		}
	}

	engine.SetLocale("ru_RU")
	if got, ok := engine.DaysInNamedMonth("Ноябрь", 2013); !ok || got != 30 {
		t.Errorf("DaysInNamedMonth(Ноябрь) = %d, %v, want 30", got, ok)
	}
	if got, ok := engine.DaysCountInMonth(2, 2012); !ok || got != 29 {
		t.Errorf("DaysCountInMonth(2, 2012) = %d, %v, want 29", got, ok)
	}
}

func TestDateOptions(t *testing.T) {
	engine := newTestEngine(t)
	ts := Time(ymd(2013, 1, 6))

	plain := engine.Date(ts, DateOptions{})
	if plain.Week.IsSet() || plain.DayOfWeek.IsSet() {
		t.Errorf("Date() without options set derived fields: %+v", plain)
	}

	full := engine.Date(ts, DateOptions{Week: true, DayOfWeek: true})
	if week, _ := full.Week.Get(); week != 2 {
		t.Errorf("Week = %d, want 2", week)
	}
	if dow, _ := full.DayOfWeek.Get(); dow != 0 {
		t.Errorf("DayOfWeek = %d, want 0", dow)
	}

	if !engine.SetWeekStartsMonday(true) || !engine.WeekStartsMonday() {
		t.Fatal("SetWeekStartsMonday(true) did not switch the mode")
	}
	monday := engine.Date(ts, DateOptions{Week: true})
	if week, _ := monday.Week.Get(); week != 2 {
		t.Errorf("Week in monday mode = %d, want 2", week)
	}
	if got := engine.WeekNumber(ymd(2013, 1, 5)); got != 1 {
		t.Errorf("WeekNumber(2013-01-05) = %d, want 1", got)
	}
}

func TestNow(t *testing.T) {
	fixed := time.Date(2013, 10, 5, 16, 20, 15, 0, time.FixedZone("CEST", 2*3600))
	engine := MustNew(Options{Clock: func() time.Time { return fixed }})

	now := engine.Now()
	want := NewDate(2013, 10, 5, 14, 20, 15)
	if !now.Equal(want) {
		t.Errorf("Now() = %v, want %v", now, want)
	}
	if dow, ok := now.DayOfWeek.Get(); !ok || dow != 6 {
		t.Errorf("Now().DayOfWeek = %d, %v, want 6", dow, ok)
	}
	if got := engine.NowUnix(); got != fixed.Unix() {
		t.Errorf("NowUnix() = %d, want %d", got, fixed.Unix())
	}
}

func TestVersion(t *testing.T) {
	if got := newTestEngine(t).Version(); got != "0.1.29" {
		t.Errorf("Version() = %q, want 0.1.29", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := ymd(2013, 10, 5)
	d.DayOfWeek = Some(6)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := map[string]int{"year": 2013, "month": 10, "day": 5, "hours": 0, "minutes": 0, "seconds": 0, "dayOfWeek": 6}
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("json = %v, want %v", decoded, want)
	}

	var f Fields
	if err := json.Unmarshal([]byte(`{"year": 2013, "day": null}`), &f); err != nil {
		t.Fatalf("Unmarshal(Fields) error = %v", err)
	}
	if f.Year.OrElse(0) != 2013 || f.Day.IsSet() || f.Month.IsSet() {
		t.Errorf("Fields = %+v", f)
	}
}

func TestFieldsMerge(t *testing.T) {
	base := Fields{Year: Some(2013), Month: Some(10)}
	overlay := Fields{Month: Some(11), Day: Some(5)}

	got := base.Merge(overlay)
	want := Fields{Year: Some(2013), Month: Some(11), Day: Some(5)}
	if got != want {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
	if got.WithDefaults() != ymd(2013, 11, 5) {
		t.Errorf("WithDefaults() = %v", got.WithDefaults())
	}
}

func TestConcurrentUse(t *testing.T) {
	engine := newTestEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				d := ymd(2000+i, 1+j%12, 1+j%28)
				s := engine.Format(d, "%d.%m.%Y %H:%M:%S")
				got, ok := engine.Parse(s, "")
				if !ok || got != d {
					t.Errorf("Parse(Format(%v)) = %v, %v", d, got, ok)
					return
				}
				if j%50 == 0 {
					engine.SetLocale([]string{"en_US", "ru_RU", "de_DE"}[j%3])
					engine.RegisterFormat("%z", nil, nil, `z`)
				}
			}
		}(i)
	}
	wg.Wait()
}
