package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	"github.com/msto63/tempus/foundation/core/i18n"
	"github.com/msto63/tempus/foundation/utils/timex"
	"github.com/msto63/tempus/pkg/core/logging"
)

// DefaultGenerateLimit caps the elements of one Generate call
const DefaultGenerateLimit = 10000

// Config holds service configuration
type Config struct {
	Engine        *timex.Engine    // base engine (default: a new engine over the built-in locales)
	Clock         func() time.Time // time source of derived engines (default: time.Now)
	GenerateLimit int              // default: DefaultGenerateLimit
	Logger        *logging.Logger
}

// Service is the transport-neutral calendar service. One base engine
// carries the defaults; requests for another locale or week mode use
// derived engines that share its token registry and locale tables.
type Service struct {
	base   *timex.Engine
	clock  func() time.Time
	limit  int
	logger *logging.Logger

	mu      sync.Mutex
	engines map[string]*timex.Engine
}

// NewService creates a new calendar service
func NewService(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.New("chronos")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.GenerateLimit <= 0 {
		cfg.GenerateLimit = DefaultGenerateLimit
	}
	if cfg.Engine == nil {
		engine, err := timex.New(timex.Options{Clock: cfg.Clock, Logger: cfg.Logger.Logger})
		if err != nil {
			return nil, err
		}
		cfg.Engine = engine
	}

	s := &Service{
		base:    cfg.Engine,
		clock:   cfg.Clock,
		limit:   cfg.GenerateLimit,
		logger:  cfg.Logger,
		engines: make(map[string]*timex.Engine),
	}

	cfg.Engine.Locales().OnChange(func(locale string, names *i18n.Names) {
		if names == nil {
			s.logger.Info("Locale table removed", "locale", locale)
			return
		}
		s.logger.Info("Locale table changed", "locale", locale)
	})

	s.logger.Info("Calendar service ready",
		"locale", cfg.Engine.Locale(),
		"week_starts_monday", cfg.Engine.WeekStartsMonday(),
		"version", cfg.Engine.Version(),
	)
	return s, nil
}

// Engine returns the base engine
func (s *Service) Engine() *timex.Engine {
	return s.base
}

// engineFor returns the engine for a request view
func (s *Service) engineFor(view View) (*timex.Engine, error) {
	locale := s.base.Locale()
	if view.Locale != "" {
		locale = i18n.NormalizeLocale(view.Locale)
		if !s.base.Locales().HasLocale(locale) {
			return nil, mdwerror.New("unknown locale").
				WithCode(mdwerror.CodeUnknownLocale).
				WithOperation("service.engineFor").
				WithDetail("locale", view.Locale)
		}
	}
	monday := s.base.WeekStartsMonday()
	if view.MondayFirst != nil {
		monday = *view.MondayFirst
	}
	if locale == s.base.Locale() && monday == s.base.WeekStartsMonday() {
		return s.base, nil
	}

	key := fmt.Sprintf("%s/%t", locale, monday)

	s.mu.Lock()
	defer s.mu.Unlock()

	if engine, ok := s.engines[key]; ok {
		return engine, nil
	}
	engine, err := timex.New(timex.Options{
		Locales:          s.base.Locales(),
		Locale:           locale,
		WeekStartsMonday: monday,
		DetectFormats:    s.base.DetectFormats(),
		Registry:         s.base.Registry(),
		Clock:            s.clock,
		Logger:           s.logger.Logger,
	})
	if err != nil {
		return nil, err
	}
	s.engines[key] = engine
	return engine, nil
}

// resolve turns an input into raw fields. Text is parsed without
// normalization so Validate can see out-of-range values.
func (s *Service) resolve(engine *timex.Engine, in DateInput) (timex.Fields, error) {
	switch {
	case in.Fields != nil:
		return *in.Fields, nil
	case in.Timestamp != nil:
		return timex.FromTimestamp(*in.Timestamp).DateFields(), nil
	case in.Text != "":
		fields, ok := engine.ParseFields(in.Text, in.Pattern)
		if !ok {
			return timex.Fields{}, mdwerror.New("text does not match the pattern").
				WithCode(mdwerror.CodeInvalidFormat).
				WithOperation("service.resolve").
				WithDetail("text", in.Text).
				WithDetail("pattern", in.Pattern)
		}
		return fields, nil
	default:
		return engine.Now().DateFields(), nil
	}
}

func parseUnit(op, name string) (timex.Unit, error) {
	unit, ok := timex.ParseUnit(name)
	if !ok {
		return "", mdwerror.New("unknown unit").
			WithCode(mdwerror.CodeUnknownUnit).
			WithOperation(op).
			WithDetail("unit", name)
	}
	return unit, nil
}

// Format renders a date with a pattern
func (s *Service) Format(ctx context.Context, req FormatRequest) (string, error) {
	engine, err := s.engineFor(req.View)
	if err != nil {
		return "", err
	}
	fields, err := s.resolve(engine, req.Date)
	if err != nil {
		return "", err
	}
	return engine.Format(fields, req.Pattern), nil
}

// Parse parses a string into a normalized date with day of week and week
// number
func (s *Service) Parse(ctx context.Context, req ParseRequest) (*ParseResult, error) {
	engine, err := s.engineFor(req.View)
	if err != nil {
		return nil, err
	}

	pattern := req.Pattern
	if pattern == "" {
		detected, ok := engine.DetectFormat(req.Text)
		if !ok {
			return nil, mdwerror.New("no known pattern matches").
				WithCode(mdwerror.CodeInvalidFormat).
				WithOperation("service.Parse").
				WithDetail("text", req.Text)
		}
		pattern = detected
	}

	date, ok := engine.Parse(req.Text, pattern)
	if !ok {
		return nil, mdwerror.New("text does not match the pattern").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("service.Parse").
			WithDetail("text", req.Text).
			WithDetail("pattern", pattern)
	}

	ts := engine.Time(date)
	return &ParseResult{
		Date:      engine.Date(ts, timex.DateOptions{DayOfWeek: true, Week: true}),
		Timestamp: ts,
		Pattern:   pattern,
	}, nil
}

// Reformat parses with From (autodetected when empty) and formats with To
func (s *Service) Reformat(ctx context.Context, req ReformatRequest) (string, error) {
	engine, err := s.engineFor(req.View)
	if err != nil {
		return "", err
	}
	out, ok := engine.Reformat(req.Text, req.From, req.To)
	if !ok {
		return "", mdwerror.New("text does not match the pattern").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("service.Reformat").
			WithDetail("text", req.Text).
			WithDetail("from", req.From)
	}
	return out, nil
}

// Validate reports whether the date survives normalization unchanged. Text
// that does not match its pattern is invalid rather than an error.
func (s *Service) Validate(ctx context.Context, req ValidateRequest) (bool, error) {
	engine, err := s.engineFor(req.View)
	if err != nil {
		return false, err
	}
	if req.Date.Fields == nil && req.Date.Timestamp == nil && req.Date.Text != "" {
		return engine.ValidateString(req.Date.Text, req.Date.Pattern), nil
	}
	fields, err := s.resolve(engine, req.Date)
	if err != nil {
		return false, err
	}
	return engine.Validate(fields), nil
}

// Between returns the floored difference from From to To in Unit
func (s *Service) Between(ctx context.Context, req BetweenRequest) (int64, error) {
	unit, err := parseUnit("service.Between", req.Unit)
	if err != nil {
		return 0, err
	}
	from, err := s.resolve(s.base, req.From)
	if err != nil {
		return 0, err
	}
	to, err := s.resolve(s.base, req.To)
	if err != nil {
		return 0, err
	}
	diff, _ := s.base.Between(from, to, unit)
	return diff, nil
}

// Shift adds Period, or Amount units, to a date. Negative amounts move
// backwards.
func (s *Service) Shift(ctx context.Context, req ShiftRequest) (timex.Date, error) {
	engine, err := s.engineFor(req.View)
	if err != nil {
		return timex.Date{}, err
	}
	fields, err := s.resolve(engine, req.Date)
	if err != nil {
		return timex.Date{}, err
	}

	if req.Period != nil {
		return engine.IncDateBy(fields, *req.Period), nil
	}
	unit, err := parseUnit("service.Shift", req.Unit)
	if err != nil {
		return timex.Date{}, err
	}
	if req.Amount < 0 {
		date, _ := engine.DecDate(fields, -req.Amount, unit)
		return date, nil
	}
	date, _ := engine.IncDate(fields, req.Amount, unit)
	return date, nil
}

// Generate enumerates a range in a single pass. Ranges longer than the limit
// are rejected as soon as the first element past it is reached.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*timex.Result, error) {
	engine, err := s.engineFor(req.View)
	if err != nil {
		return nil, err
	}
	group, ok := timex.ParseGroupField(req.GroupBy)
	if !ok {
		return nil, mdwerror.New("unknown group field").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("service.Generate").
			WithDetail("group_by", req.GroupBy)
	}
	if req.From.IsEmpty() || req.To.IsEmpty() {
		return nil, mdwerror.New("range needs both endpoints").
			WithCode(mdwerror.CodeRequiredField).
			WithOperation("service.Generate")
	}
	from, err := s.resolve(engine, req.From)
	if err != nil {
		return nil, err
	}
	to, err := s.resolve(engine, req.To)
	if err != nil {
		return nil, err
	}

	options := timex.GenerateOptions{
		From:     from,
		To:       to,
		Period:   req.Period,
		Format:   req.Format,
		AsObject: req.AsObject,
		GroupBy:  group,
	}

	limit := req.Limit
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	dates, ok := engine.Dates(options)
	if !ok {
		return nil, mdwerror.New("period does not advance").
			WithCode(mdwerror.CodeEmptyRange).
			WithOperation("service.Generate").
			WithDetail("period", req.Period.String())
	}
	var (
		count    int
		exceeded bool
		ctxErr   error
	)
	bounded := func(yield func(timex.Date) bool) {
		for date := range dates {
			if ctxErr = ctx.Err(); ctxErr != nil {
				return
			}
			if count++; count > limit {
				exceeded = true
				return
			}
			if !yield(date) {
				return
			}
		}
	}

	result := engine.Collect(bounded, options)
	if ctxErr != nil {
		return nil, ctxErr
	}
	if exceeded {
		return nil, mdwerror.New("range exceeds the element limit").
			WithCode(mdwerror.CodeValueOutOfRange).
			WithOperation("service.Generate").
			WithDetail("limit", limit)
	}
	s.logger.Debug("Range generated", "elements", result.Len(), "groups", len(result.Groups))
	return result, nil
}

// Month lays out a month in weeks, starting on Sunday or Monday
func (s *Service) Month(ctx context.Context, req MonthRequest) (*MonthView, error) {
	engine, err := s.engineFor(req.View)
	if err != nil {
		return nil, err
	}
	days, ok := engine.DaysCountInMonth(req.Month, req.Year)
	if !ok {
		return nil, mdwerror.New("month out of range").
			WithCode(mdwerror.CodeValueOutOfRange).
			WithOperation("service.Month").
			WithDetail("month", req.Month)
	}

	monday := engine.WeekStartsMonday()
	shortDays := engine.DayNames(false)
	if monday {
		shortDays = append(shortDays[1:], shortDays[0])
	}

	view := &MonthView{
		Year:      req.Year,
		Month:     req.Month,
		MonthName: engine.MonthNames(true)[req.Month-1],
		Days:      days,
		DayNames:  shortDays,
	}

	var week *WeekView
	for day := 1; day <= days; day++ {
		date := timex.NewDate(req.Year, req.Month, day, 0, 0, 0)
		column := engine.DayOfWeek(date)
		if monday {
			column = (column + 6) % 7
		}
		if week == nil || column == 0 {
			view.Weeks = append(view.Weeks, WeekView{Number: engine.WeekNumber(date)})
			week = &view.Weeks[len(view.Weeks)-1]
		}
		week.Days[column] = day
	}
	return view, nil
}

// Locales describes every locale table known to the engine
func (s *Service) Locales(ctx context.Context) []LocaleInfo {
	manager := s.base.Locales()
	var infos []LocaleInfo
	for _, id := range manager.GetAvailableLocales() {
		names, ok := manager.Names(id)
		if !ok {
			continue
		}
		infos = append(infos, LocaleInfo{
			ID:          id,
			DisplayName: i18n.GetLocaleDisplayName(id),
			Months:      names.Months(true),
			Days:        names.Days(true),
			Default:     id == s.base.Locale(),
		})
	}
	return infos
}

// Now returns the current date with derived fields
func (s *Service) Now(ctx context.Context, view View) (timex.Date, error) {
	engine, err := s.engineFor(view)
	if err != nil {
		return timex.Date{}, err
	}
	return engine.Date(engine.NowUnix(), timex.DateOptions{DayOfWeek: true, Week: true}), nil
}

// Timestamp resolves an input to Unix seconds
func (s *Service) Timestamp(ctx context.Context, view View, in DateInput) (int64, error) {
	engine, err := s.engineFor(view)
	if err != nil {
		return 0, err
	}
	fields, err := s.resolve(engine, in)
	if err != nil {
		return 0, err
	}
	return timex.Time(fields), nil
}
