// Package timex implements the tempus calendar engine.
//
// Package: timex
// Title: Calendar Engine
// Description: Converts between UTC timestamps, civil dates and strings
//              through a token based pattern language, with calendar
//              arithmetic and date range generation.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time operations
// - 2025-01-26 v0.1.1: Enhanced documentation with comprehensive examples
// - 2026-10-19 v0.2.0: Rewritten as a field based calendar engine
//
// Package Overview:
//
// # Dates
//
// A Date is a civil UTC date with six base fields and the optional derived
// fields DayOfWeek and Week. Fields is the partially specified form; missing
// fields default to 1970-01-01 00:00:00. Every function that accepts a date
// takes a Dater, which both types implement.
//
// All arithmetic goes through the normalizer: Time converts fields to
// seconds since the epoch and FromTimestamp converts back, so out-of-range
// fields carry into the next unit:
//
//	timex.Normalize(timex.Fields{Year: timex.Some(2013), Month: timex.Some(12), Day: timex.Some(32)})
//	// 2014-01-01 00:00:00
//
// # Patterns
//
// Patterns mix literal text with token sigils:
//
//	%d %m %Y    day, month, four-digit year
//	%H %M %S    hours, minutes, seconds
//	%w %a %A    weekday number, short and long weekday name
//	%b %B       short and long month name
//	%s          seconds since the epoch
//	%F %D       YYYY-MM-DD and MM/DD/YYYY
//
// Tokens live in a Registry owned by an Engine. Custom tokens are added
// with Engine.RegisterFormat and removed with Engine.UnregisterFormat.
// There is no escape syntax for a literal sigil.
//
// Format replaces the first occurrence of each sigil, in registry order.
// A sigil repeated in one pattern is expanded once.
//
// # Engine
//
// An Engine owns its registry, the selected locale and the week numbering
// mode, so several engines can be configured independently:
//
//	engine := timex.MustNew(timex.Options{Locale: "ru_RU"})
//	engine.Format(timex.NewDate(2013, 11, 7, 0, 0, 0), "%Y, %B, %d, %A")
//	// "2013, Ноябрь, 07, Четверг"
//
//	date, ok := engine.Parse("21.10.2013", "")  // pattern autodetected
//
// Failures never panic: operations return (value, ok) pairs.
//
// # Ranges
//
// Generate and Dates enumerate the dates between two endpoints, inclusive,
// stepping by a Period. Results may be rendered, deduplicated into keys or
// grouped by a derived field such as the week number.
package timex
