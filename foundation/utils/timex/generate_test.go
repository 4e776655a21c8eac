// File: generate_test.go
// Title: Date Range Generator Tests
// Description: Tests for range enumeration, periods, rendering, key
//              deduplication and grouping.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial time range tests
// - 2026-10-19 v0.2.0: Calendar periods and grouping

package timex

import (
	"reflect"
	"testing"
)

func TestGenerateDays(t *testing.T) {
	engine := newTestEngine(t)

	result, ok := engine.Generate(GenerateOptions{From: ymd(2013, 10, 1), To: ymd(2013, 10, 10)})
	if !ok {
		t.Fatal("Generate() ok = false")
	}
	if len(result.Dates) != 10 {
		t.Fatalf("len(Dates) = %d, want 10", len(result.Dates))
	}
	for i, d := range result.Dates {
		if want := ymd(2013, 10, i+1); d != want {
			t.Errorf("Dates[%d] = %v, want %v", i, d, want)
		}
	}
	if result.Len() != 10 {
		t.Errorf("Len() = %d, want 10", result.Len())
	}
}

func TestGenerateFormatted(t *testing.T) {
	engine := newTestEngine(t)

	result, ok := engine.Generate(GenerateOptions{
		FromText: "01.10.2013",
		ToText:   "2013-10-03",
		Format:   "%d %b",
	})
	if !ok {
		t.Fatal("Generate() ok = false")
	}
	want := []string{"01 Oct", "02 Oct", "03 Oct"}
	if !reflect.DeepEqual(result.Strings, want) {
		t.Errorf("Strings = %v, want %v", result.Strings, want)
	}
	if len(result.Dates) != 0 {
		t.Errorf("Dates = %v, want none", result.Dates)
	}
}

func TestGeneratePeriods(t *testing.T) {
	engine := newTestEngine(t)

	testCases := []struct {
		name   string
		from   Date
		to     Date
		period Period
		want   []Date
	}{
		{
			"six hours",
			ymd(2013, 10, 1), ymd(2013, 10, 2), Period{Hours: 6},
			[]Date{ymd(2013, 10, 1), NewDate(2013, 10, 1, 6, 0, 0), NewDate(2013, 10, 1, 12, 0, 0), NewDate(2013, 10, 1, 18, 0, 0), ymd(2013, 10, 2)},
		},
		{
			"plain seconds",
			ymd(2013, 10, 1), NewDate(2013, 10, 1, 0, 0, 90), Seconds(45),
			[]Date{ymd(2013, 10, 1), NewDate(2013, 10, 1, 0, 0, 45), NewDate(2013, 10, 1, 0, 1, 30)},
		},
		{
			"month steps carry from the previous element",
			ymd(2013, 1, 31), ymd(2013, 6, 30), UnitPeriod(UnitMonth),
			[]Date{ymd(2013, 1, 31), ymd(2013, 3, 3), ymd(2013, 4, 3), ymd(2013, 5, 3), ymd(2013, 6, 3)},
		},
		{
			"composite",
			ymd(2013, 1, 1), ymd(2014, 3, 1), PeriodOf(Fields{Year: Some(1), Month: Some(1)}),
			[]Date{ymd(2013, 1, 1), ymd(2014, 2, 1)},
		},
		{
			"empty when from is after to",
			ymd(2013, 1, 2), ymd(2013, 1, 1), Period{},
			nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, ok := engine.Generate(GenerateOptions{From: tc.from, To: tc.to, Period: tc.period})
			if !ok {
				t.Fatal("Generate() ok = false")
			}
			if !reflect.DeepEqual(result.Dates, tc.want) {
				t.Errorf("Dates = %v, want %v", result.Dates, tc.want)
			}
		})
	}
}

func TestGenerateAsObject(t *testing.T) {
	engine := newTestEngine(t)

	result, ok := engine.Generate(GenerateOptions{
		From:     ymd(2013, 10, 30),
		To:       ymd(2013, 11, 2),
		AsObject: true,
		Format:   "%m",
	})
	if !ok {
		t.Fatal("Generate() ok = false")
	}
	if want := []string{"10", "11"}; !reflect.DeepEqual(result.Ordered, want) {
		t.Errorf("Ordered = %v, want %v", result.Ordered, want)
	}
	if len(result.Keys) != 2 {
		t.Errorf("len(Keys) = %d, want 2", len(result.Keys))
	}

	result, _ = engine.Generate(GenerateOptions{From: ymd(2013, 10, 30), To: ymd(2013, 10, 31), AsObject: true})
	if want := []string{"2013-10-30 00:00:00", "2013-10-31 00:00:00"}; !reflect.DeepEqual(result.Ordered, want) {
		t.Errorf("Ordered with default key format = %v, want %v", result.Ordered, want)
	}
}

func groupSizes(result *Result) []int {
	var sizes []int
	for _, g := range result.Groups {
		sizes = append(sizes, g.Len())
	}
	return sizes
}

func TestGenerateGroupByWeek(t *testing.T) {
	engine := newTestEngine(t)
	options := GenerateOptions{From: ymd(2013, 10, 1), To: ymd(2013, 10, 14), GroupBy: GroupByWeek}

	result, ok := engine.Generate(options)
	if !ok {
		t.Fatal("Generate() ok = false")
	}
	if got, want := groupSizes(result), []int{4, 7, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("group sizes = %v, want %v", got, want)
	}
	if len(result.Dates) != 0 {
		t.Errorf("ungrouped Dates = %v, want none", result.Dates)
	}

	// Group boundaries follow WeekNumber transitions
	for _, g := range result.Groups {
		for _, d := range g.Dates {
			if week := engine.WeekNumber(d); week != g.Value {
				t.Errorf("%v in group %d has week %d", d, g.Value, week)
			}
		}
	}

	engine.SetWeekStartsMonday(true)
	result, _ = engine.Generate(options)
	if got, want := groupSizes(result), []int{5, 7, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("monday mode group sizes = %v, want %v", got, want)
	}
}

func TestCollectPartialSequence(t *testing.T) {
	engine := newTestEngine(t)
	options := GenerateOptions{From: ymd(2013, 10, 1), To: ymd(2013, 10, 14), Format: "%d", GroupBy: GroupByWeek}

	dates, ok := engine.Dates(options)
	if !ok {
		t.Fatal("Dates() ok = false")
	}
	taken := 0
	firstSix := func(yield func(Date) bool) {
		for d := range dates {
			if taken == 6 || !yield(d) {
				return
			}
			taken++
		}
	}

	result := engine.Collect(firstSix, options)
	if result.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", result.Len())
	}
	if got, want := groupSizes(result), []int{4, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("group sizes = %v, want %v", got, want)
	}
	if got := result.Groups[1].Strings; !reflect.DeepEqual(got, []string{"05", "06"}) {
		t.Errorf("Groups[1].Strings = %v", got)
	}
}

func TestGenerateGroupByMonthFormatted(t *testing.T) {
	engine := newTestEngine(t)

	result, ok := engine.Generate(GenerateOptions{
		From:    ymd(2013, 1, 30),
		To:      ymd(2013, 2, 2),
		Format:  "%d",
		GroupBy: GroupByMonth,
	})
	if !ok {
		t.Fatal("Generate() ok = false")
	}
	if len(result.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2", len(result.Groups))
	}
	if g := result.Groups[0]; g.Value != 1 || !reflect.DeepEqual(g.Strings, []string{"30", "31"}) {
		t.Errorf("Groups[0] = %+v", g)
	}
	if g := result.Groups[1]; g.Value != 2 || !reflect.DeepEqual(g.Strings, []string{"01", "02"}) {
		t.Errorf("Groups[1] = %+v", g)
	}
}

func TestGenerateRejects(t *testing.T) {
	engine := newTestEngine(t)

	testCases := []struct {
		name    string
		options GenerateOptions
	}{
		{"negative period", GenerateOptions{From: ymd(2013, 1, 1), To: ymd(2013, 2, 1), Period: Period{Days: -1}}},
		{"period without net advance", GenerateOptions{From: ymd(2013, 1, 31), To: ymd(2013, 3, 1), Period: Period{Months: 1, Days: -31}}},
		{"unparseable from", GenerateOptions{FromText: "soon", To: ymd(2013, 2, 1)}},
		{"missing to", GenerateOptions{From: ymd(2013, 1, 1)}},
		{"unknown group field", GenerateOptions{From: ymd(2013, 1, 1), To: ymd(2013, 1, 2), GroupBy: "fortnight"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := engine.Generate(tc.options); ok {
				t.Error("Generate() ok = true, want false")
			}
		})
	}
}

func TestDatesIsLazy(t *testing.T) {
	engine := newTestEngine(t)

	seq, ok := engine.Dates(GenerateOptions{From: ymd(1970, 1, 1), To: ymd(9999, 12, 31), Period: Seconds(1)})
	if !ok {
		t.Fatal("Dates() ok = false")
	}

	var got []Date
	for d := range seq {
		got = append(got, d)
		if len(got) == 3 {
			break
		}
	}
	want := []Date{ymd(1970, 1, 1), NewDate(1970, 1, 1, 0, 0, 1), NewDate(1970, 1, 1, 0, 0, 2)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("first elements = %v, want %v", got, want)
	}
}
