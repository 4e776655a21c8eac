// File: engine.go
// Title: Calendar Engine
// Description: The Engine bundles a token registry, the selected locale and
//              the week setting, and exposes the calendar operations that
//              depend on them.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.2.0: Initial implementation

package timex

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	"github.com/msto63/tempus/foundation/core/i18n"
	mdwlog "github.com/msto63/tempus/foundation/core/log"
	"github.com/msto63/tempus/foundation/utils/stringx"
)

// Version is the calendar library version reported by Engine.Version.
const Version = "0.1.29"

// DefaultKeyFormat renders the keys of Generate results with AsObject.
const DefaultKeyFormat = "%F %H:%M:%S"

// DefaultDetectFormats is the ordered candidate list used when a parse
// pattern is omitted. Order resolves ambiguity.
var DefaultDetectFormats = []string{
	"%d.%m.%Y",
	"%m/%d/%Y",
	"%Y-%m-%d",
	"%d.%m.%Y %H:%M:%S",
	"%Y-%m-%d %H:%M:%S",
	"%Y",
	"%Y-%m-%d %H:%M",
	"%Y-%m-%d %H",
}

// Pattern cache lifetimes
const (
	patternCacheTTL     = 30 * time.Minute
	patternCacheCleanup = time.Hour
)

// Options configures an Engine. The zero value is usable.
type Options struct {
	Locales          *i18n.Manager    // locale tables (default: i18n.Builtin())
	Locale           string           // initial locale (default: the manager's default)
	WeekStartsMonday bool             // week numbering mode
	DetectFormats    []string         // autodetect candidates (default: DefaultDetectFormats)
	Registry         *Registry        // token registry (default: NewRegistry())
	Clock            func() time.Time // time source for Now (default: time.Now)
	Logger           *mdwlog.Logger   // optional logger
}

// Engine is the calendar engine. It is safe for concurrent use.
type Engine struct {
	mu               sync.RWMutex
	locales          *i18n.Manager
	locale           string
	weekStartsMonday bool
	detectFormats    []string

	registry *Registry
	patterns *cache.Cache
	clock    func() time.Time
	logger   *mdwlog.Logger
}

// New creates an engine. It fails when the initial locale is unknown.
func New(options Options) (*Engine, error) {
	if options.Locales == nil {
		options.Locales = i18n.Builtin()
	}
	if stringx.IsBlank(options.Locale) {
		options.Locale = options.Locales.DefaultLocale()
	}
	if len(options.DetectFormats) == 0 {
		options.DetectFormats = DefaultDetectFormats
	}
	if options.Registry == nil {
		options.Registry = NewRegistry()
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}
	if options.Logger == nil {
		options.Logger = mdwlog.GetDefault()
	}

	locale := i18n.NormalizeLocale(options.Locale)
	if !options.Locales.HasLocale(locale) {
		return nil, mdwerror.New("unknown locale").
			WithCode(mdwerror.CodeUnknownLocale).
			WithOperation("timex.New").
			WithDetail("locale", options.Locale)
	}

	return &Engine{
		locales:          options.Locales,
		locale:           locale,
		weekStartsMonday: options.WeekStartsMonday,
		detectFormats:    append([]string(nil), options.DetectFormats...),
		registry:         options.Registry,
		patterns:         cache.New(patternCacheTTL, patternCacheCleanup),
		clock:            options.Clock,
		logger:           options.Logger.WithField("component", "timex"),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(options Options) *Engine {
	engine, err := New(options)
	if err != nil {
		panic(err)
	}
	return engine
}

// Registry returns the engine's token registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Locales returns the locale table manager.
func (e *Engine) Locales() *i18n.Manager {
	return e.locales
}

// Version returns the library version.
func (e *Engine) Version() string {
	return Version
}

// Locale returns the selected locale id.
func (e *Engine) Locale() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.locale
}

// SetLocale selects a locale and returns the selected id. An empty id
// selects en_US. An unknown id leaves the selection unchanged and returns
// false.
func (e *Engine) SetLocale(locale string) (string, bool) {
	if stringx.IsBlank(locale) {
		locale = i18n.DefaultLocale
	}
	id := i18n.NormalizeLocale(locale)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.locales.HasLocale(id) {
		e.logger.Debug("unknown locale requested", mdwlog.Fields{"locale": locale})
		return e.locale, false
	}
	e.locale = id
	e.logger.Debug("locale selected", mdwlog.Fields{"locale": id})
	return id, true
}

// AvailableLocales returns the ids of all known locales, sorted.
func (e *Engine) AvailableLocales() []string {
	return e.locales.GetAvailableLocales()
}

// names returns the table of the selected locale. A locale removed from the
// manager after selection falls back to the built-in en_US table.
func (e *Engine) names() *i18n.Names {
	if names, ok := e.locales.Names(e.Locale()); ok {
		return names
	}
	names, _ := i18n.Builtin().Names(i18n.DefaultLocale)
	return names
}

// MonthNames returns a copy of the short or long month names.
func (e *Engine) MonthNames(long bool) []string {
	return append([]string(nil), e.names().Months(long)...)
}

// DayNames returns a copy of the short or long weekday names, Sunday first.
func (e *Engine) DayNames(long bool) []string {
	return append([]string(nil), e.names().Days(long)...)
}

// SetWeekStartsMonday switches week numbering and returns the new setting.
func (e *Engine) SetWeekStartsMonday(monday bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.weekStartsMonday = monday
	return monday
}

// WeekStartsMonday reports the week numbering mode.
func (e *Engine) WeekStartsMonday() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weekStartsMonday
}

// DetectFormats returns the autodetect candidates in order.
func (e *Engine) DetectFormats() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.detectFormats...)
}

// RegisterFormat registers a custom token built from functions.
func (e *Engine) RegisterFormat(sigil string, render RenderFunc, parse ParseFunc, pattern string) error {
	return e.Register(NewToken(sigil, render, parse, pattern))
}

// Register registers a token with the engine's registry.
func (e *Engine) Register(token Token) error {
	if err := e.registry.Register(token); err != nil {
		return err
	}
	e.logger.Debug("format token registered", mdwlog.Fields{"sigil": token.Sigil(), "pattern": token.Pattern()})
	return nil
}

// UnregisterFormat removes a token and reports whether it existed.
func (e *Engine) UnregisterFormat(sigil string) bool {
	removed := e.registry.Unregister(sigil)
	if removed {
		e.logger.Debug("format token removed", mdwlog.Fields{"sigil": sigil})
	}
	return removed
}

// Time returns the timestamp of d.
func (e *Engine) Time(d Dater) int64 {
	return Time(d)
}

// TimeOf parses s and returns its timestamp. An empty pattern autodetects.
func (e *Engine) TimeOf(s, pattern string) (int64, bool) {
	date, ok := e.Parse(s, pattern)
	if !ok {
		return 0, false
	}
	return Time(date), true
}

// Date decomposes a timestamp and attaches the requested derived fields.
func (e *Engine) Date(ts int64, options DateOptions) Date {
	return e.withDerived(FromTimestamp(ts), options)
}

func (e *Engine) withDerived(date Date, options DateOptions) Date {
	if options.Week {
		date.Week = Some(WeekNumber(date, e.WeekStartsMonday()))
	}
	if options.DayOfWeek {
		date.DayOfWeek = Some(sakamoto(date.Year, date.Month, date.Day))
	}
	return date
}

// NormalizeDate carries out-of-range fields of d.
func (e *Engine) NormalizeDate(d Dater) Date {
	return Normalize(d)
}

// Now returns the current UTC date with its weekday.
func (e *Engine) Now() Date {
	return e.Date(e.NowUnix(), DateOptions{DayOfWeek: true})
}

// NowUnix returns the current timestamp.
func (e *Engine) NowUnix() int64 {
	return e.clock().Unix()
}

// IsLeapYear reports whether year has 366 days.
func (e *Engine) IsLeapYear(year int) bool {
	return IsLeapYear(year)
}

// DaysCountInMonth returns the length of month in year.
func (e *Engine) DaysCountInMonth(month, year int) (int, bool) {
	return DaysInMonth(month, year)
}

// DaysInNamedMonth returns the length of a month given by a short or long
// name of the selected locale.
func (e *Engine) DaysInNamedMonth(name string, year int) (int, bool) {
	month, ok := e.names().MonthIndex(name)
	if !ok {
		return 0, false
	}
	return DaysInMonth(month, year)
}

// DayOfWeek returns the weekday of d, 0 = Sunday.
func (e *Engine) DayOfWeek(d Dater) int {
	return DayOfWeek(d)
}

// WeekNumber returns the week of the year of d in the engine's mode.
func (e *Engine) WeekNumber(d Dater) int {
	return WeekNumber(d, e.WeekStartsMonday())
}

// IncDate adds n units to d.
func (e *Engine) IncDate(d Dater, n int, unit Unit) (Date, bool) {
	return IncDate(d, n, unit)
}

// DecDate subtracts n units from d.
func (e *Engine) DecDate(d Dater, n int, unit Unit) (Date, bool) {
	return DecDate(d, n, unit)
}

// IncDateBy adds a composite period to d.
func (e *Engine) IncDateBy(d Dater, p Period) Date {
	return IncDateBy(d, p)
}

// DecDateBy subtracts a composite period from d.
func (e *Engine) DecDateBy(d Dater, p Period) Date {
	return DecDateBy(d, p)
}

// Between returns the floored difference between two dates in unit.
func (e *Engine) Between(from, to Dater, unit Unit) (int64, bool) {
	return Between(from, to, unit)
}

// Validate reports whether d is a real calendar date: its fields survive
// normalization unchanged. Missing fields are defaulted first.
func (e *Engine) Validate(d Dater) bool {
	raw := d.DateFields().WithDefaults()
	return raw.Equal(Normalize(raw))
}

// ValidateString parses s without normalizing and validates the fields.
func (e *Engine) ValidateString(s, pattern string) bool {
	fields, ok := e.ParseFields(s, pattern)
	if !ok {
		return false
	}
	return e.Validate(fields)
}

// Reformat parses s with from and formats the result with to.
func (e *Engine) Reformat(s, from, to string) (string, bool) {
	date, ok := e.Parse(s, from)
	if !ok {
		return "", false
	}
	return e.Format(date, to), true
}
