package service

import (
	"github.com/msto63/tempus/foundation/utils/timex"
)

// DateInput selects a date. The first set source wins: Fields, then
// Timestamp, then Text (parsed with Pattern or autodetected). An empty input
// means now.
type DateInput struct {
	Fields    *timex.Fields `json:"fields,omitempty"`
	Timestamp *int64        `json:"timestamp,omitempty"`
	Text      string        `json:"text,omitempty"`
	Pattern   string        `json:"pattern,omitempty"`
}

// IsEmpty reports whether no source is set
func (in DateInput) IsEmpty() bool {
	return in.Fields == nil && in.Timestamp == nil && in.Text == ""
}

// At returns an input for a timestamp
func At(ts int64) DateInput {
	return DateInput{Timestamp: &ts}
}

// FieldsInput returns an input for explicit fields
func FieldsInput(f timex.Fields) DateInput {
	return DateInput{Fields: &f}
}

// TextInput returns an input parsed with pattern
func TextInput(text, pattern string) DateInput {
	return DateInput{Text: text, Pattern: pattern}
}

// View selects the locale and week mode of one request. Empty values use
// the service defaults.
type View struct {
	Locale      string `json:"locale,omitempty"`
	MondayFirst *bool  `json:"monday_first,omitempty"`
}

// FormatRequest renders a date
type FormatRequest struct {
	View
	Date    DateInput `json:"date"`
	Pattern string    `json:"pattern"`
}

// ParseRequest parses a string. An empty pattern is autodetected.
type ParseRequest struct {
	View
	Text    string `json:"text"`
	Pattern string `json:"pattern,omitempty"`
}

// ParseResult is a parsed date with its derived fields
type ParseResult struct {
	Date      timex.Date `json:"date"`
	Timestamp int64      `json:"timestamp"`
	Pattern   string     `json:"pattern"`
}

// ReformatRequest converts a string between two patterns
type ReformatRequest struct {
	View
	Text string `json:"text"`
	From string `json:"from,omitempty"`
	To   string `json:"to"`
}

// ValidateRequest checks that a date survives normalization unchanged
type ValidateRequest struct {
	View
	Date DateInput `json:"date"`
}

// BetweenRequest measures the floored difference of two dates
type BetweenRequest struct {
	From DateInput `json:"from"`
	To   DateInput `json:"to"`
	Unit string    `json:"unit"`
}

// ShiftRequest moves a date by Amount units, or by Period when set
type ShiftRequest struct {
	View
	Date   DateInput     `json:"date"`
	Amount int           `json:"amount,omitempty"`
	Unit   string        `json:"unit,omitempty"`
	Period *timex.Period `json:"period,omitempty"`
}

// GenerateRequest enumerates a date range
type GenerateRequest struct {
	View
	From     DateInput    `json:"from"`
	To       DateInput    `json:"to"`
	Period   timex.Period `json:"period"`
	Format   string       `json:"format,omitempty"`
	AsObject bool         `json:"as_object,omitempty"`
	GroupBy  string       `json:"group_by,omitempty"`
	Limit    int          `json:"limit,omitempty"`
}

// MonthRequest asks for a month calendar
type MonthRequest struct {
	View
	Year  int `json:"year"`
	Month int `json:"month"`
}

// MonthView is a month laid out in weeks
type MonthView struct {
	Year      int        `json:"year"`
	Month     int        `json:"month"`
	MonthName string     `json:"month_name"`
	Days      int        `json:"days"`
	DayNames  []string   `json:"day_names"`
	Weeks     []WeekView `json:"weeks"`
}

// WeekView is one row of a month calendar. Days outside the month are 0.
type WeekView struct {
	Number int    `json:"number"`
	Days   [7]int `json:"days"`
}

// LocaleInfo describes one locale table
type LocaleInfo struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Months      []string `json:"months"`
	Days        []string `json:"days"`
	Default     bool     `json:"default,omitempty"`
}
