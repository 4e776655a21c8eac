// File: generate.go
// Title: Date Range Generator
// Description: Enumerates dates between two endpoints at a fixed period,
//              with optional rendering, key deduplication and grouping by a
//              derived field.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation of time ranges
// - 2026-10-19 v0.2.0: Calendar periods, grouping, lazy sequences

package timex

import (
	"iter"
	"strings"
)

// GroupField names the date field that splits a range into groups.
type GroupField string

const (
	GroupByNone      GroupField = ""
	GroupByWeek      GroupField = "week"
	GroupByDayOfWeek GroupField = "dayOfWeek"
	GroupByYear      GroupField = "year"
	GroupByMonth     GroupField = "month"
	GroupByDay       GroupField = "day"
	GroupByHours     GroupField = "hours"
	GroupByMinutes   GroupField = "minutes"
	GroupBySeconds   GroupField = "seconds"
)

// ParseGroupField accepts the field names case-insensitively.
func ParseGroupField(s string) (GroupField, bool) {
	for _, field := range []GroupField{GroupByNone, GroupByWeek, GroupByDayOfWeek, GroupByYear,
		GroupByMonth, GroupByDay, GroupByHours, GroupByMinutes, GroupBySeconds} {
		if strings.EqualFold(string(field), strings.TrimSpace(s)) {
			return field, true
		}
	}
	return "", false
}

// GenerateOptions describes a date range. From and To take precedence over
// FromText and ToText. A zero Period steps one day.
type GenerateOptions struct {
	From       Dater
	To         Dater
	FromText   string
	FromFormat string
	ToText     string
	ToFormat   string

	Period   Period
	Format   string
	AsObject bool
	GroupBy  GroupField
}

// Bucket holds generated elements. Exactly one of Dates, Strings or Keys is
// used, depending on Format and AsObject.
type Bucket struct {
	Dates   []Date              `json:"dates,omitempty"`
	Strings []string            `json:"strings,omitempty"`
	Keys    map[string]struct{} `json:"-"`
	Ordered []string            `json:"keys,omitempty"`
}

// Len returns the number of elements.
func (b *Bucket) Len() int {
	return len(b.Dates) + len(b.Strings) + len(b.Ordered)
}

// Group is a run of consecutive elements sharing one value of the grouping
// field.
type Group struct {
	Value int `json:"value"`
	Bucket
}

// Result of Generate. Without GroupBy the elements are in the embedded
// Bucket; with GroupBy they are in Groups.
type Result struct {
	Bucket
	Groups []Group `json:"groups,omitempty"`
}

// Len returns the number of elements over all groups.
func (r *Result) Len() int {
	n := r.Bucket.Len()
	for i := range r.Groups {
		n += r.Groups[i].Len()
	}
	return n
}

// Dates returns the lazy sequence of dates from From to To inclusive. ok is
// false when an endpoint cannot be resolved or the period does not advance.
func (e *Engine) Dates(options GenerateOptions) (iter.Seq[Date], bool) {
	from, to, period, ok := e.resolveRange(options)
	if !ok {
		return nil, false
	}

	return func(yield func(Date) bool) {
		for ts := from; ts <= to; {
			date := FromTimestamp(ts)
			if !yield(date) {
				return
			}
			next := Time(IncDateBy(date, period))
			if next <= ts {
				return
			}
			ts = next
		}
	}, true
}

// Generate collects the range described by options.
func (e *Engine) Generate(options GenerateOptions) (*Result, bool) {
	if _, ok := ParseGroupField(string(options.GroupBy)); !ok {
		return nil, false
	}
	dates, ok := e.Dates(options)
	if !ok {
		return nil, false
	}
	return e.Collect(dates, options), true
}

// Collect formats and groups dates the way Generate does. Only Format,
// AsObject and GroupBy of options are used; dates may be any sequence, such
// as a Dates sequence cut short by the caller.
func (e *Engine) Collect(dates iter.Seq[Date], options GenerateOptions) *Result {
	result := &Result{}
	var current *Bucket
	if options.GroupBy == GroupByNone {
		current = &result.Bucket
	}

	for date := range dates {
		if options.GroupBy != GroupByNone {
			value := e.groupValue(date, options.GroupBy)
			if len(result.Groups) == 0 || result.Groups[len(result.Groups)-1].Value != value {
				result.Groups = append(result.Groups, Group{Value: value})
			}
			current = &result.Groups[len(result.Groups)-1].Bucket
		}
		e.addTo(current, date, options)
	}
	return result
}

func (e *Engine) addTo(bucket *Bucket, date Date, options GenerateOptions) {
	switch {
	case options.AsObject:
		pattern := options.Format
		if pattern == "" {
			pattern = DefaultKeyFormat
		}
		key := e.Format(date, pattern)
		if bucket.Keys == nil {
			bucket.Keys = make(map[string]struct{})
		}
		if _, seen := bucket.Keys[key]; !seen {
			bucket.Keys[key] = struct{}{}
			bucket.Ordered = append(bucket.Ordered, key)
		}
	case options.Format != "":
		bucket.Strings = append(bucket.Strings, e.Format(date, options.Format))
	default:
		bucket.Dates = append(bucket.Dates, date)
	}
}

func (e *Engine) groupValue(date Date, field GroupField) int {
	switch field {
	case GroupByWeek:
		return e.WeekNumber(date)
	case GroupByDayOfWeek:
		return DayOfWeek(date)
	case GroupByYear:
		return date.Year
	case GroupByMonth:
		return date.Month
	case GroupByDay:
		return date.Day
	case GroupByHours:
		return date.Hours
	case GroupByMinutes:
		return date.Minutes
	case GroupBySeconds:
		return date.Seconds
	}
	return 0
}

func (e *Engine) resolveRange(options GenerateOptions) (from, to int64, period Period, ok bool) {
	from, ok = e.resolveEndpoint(options.From, options.FromText, options.FromFormat)
	if !ok {
		return 0, 0, Period{}, false
	}
	to, ok = e.resolveEndpoint(options.To, options.ToText, options.ToFormat)
	if !ok {
		return 0, 0, Period{}, false
	}

	period = options.Period
	if period.IsZero() {
		period = UnitPeriod(UnitDay)
	}
	if Time(IncDateBy(FromTimestamp(from), period)) <= from {
		return 0, 0, Period{}, false
	}
	return from, to, period, true
}

func (e *Engine) resolveEndpoint(d Dater, text, pattern string) (int64, bool) {
	if d != nil {
		return Time(d), true
	}
	if text == "" {
		return 0, false
	}
	return e.TimeOf(text, pattern)
}
