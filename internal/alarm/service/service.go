package service

import (
	"context"
	"sync"
	"time"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	"github.com/msto63/tempus/foundation/utils/timex"
	"github.com/msto63/tempus/internal/alarm/store"
	chronos "github.com/msto63/tempus/internal/chronos/service"
	"github.com/msto63/tempus/pkg/core/health"
	"github.com/msto63/tempus/pkg/core/logging"
	"github.com/msto63/tempus/pkg/core/timer"
)

// DefaultPattern renders the fire time of an alarm without a pattern
const DefaultPattern = timex.DefaultKeyFormat

// DefaultPendingLimit is the pending alarm count above which health
// reports degraded
const DefaultPendingLimit = 1000

// Event is delivered when an alarm fires
type Event struct {
	Alarm   *store.Alarm `json:"alarm"`
	FiredAt int64        `json:"fired_at"`
	Text    string       `json:"text"`
}

// AddRequest creates an alarm
type AddRequest struct {
	chronos.View
	Label   string            `json:"label"`
	At      chronos.DateInput `json:"at"`
	Pattern string            `json:"pattern,omitempty"`
}

// Config holds service dependencies
type Config struct {
	Store        *store.Store
	Timers       *timer.Service
	Calendar     *chronos.Service
	Logger       *logging.Logger
	PendingLimit int
}

// Service schedules stored alarms on the timer service
type Service struct {
	store    *store.Store
	timers   *timer.Service
	calendar *chronos.Service
	logger   *logging.Logger
	limit    int

	mu          sync.Mutex
	ctx         context.Context
	handles     map[string]timer.Handle
	subscribers map[int]func(Event)
	nextSub     int
}

// NewService creates a new alarm service
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil || cfg.Timers == nil || cfg.Calendar == nil {
		return nil, mdwerror.New("alarm service needs a store, timers and a calendar").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("service.NewService")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("alarm")
	}
	if cfg.PendingLimit <= 0 {
		cfg.PendingLimit = DefaultPendingLimit
	}

	return &Service{
		store:       cfg.Store,
		timers:      cfg.Timers,
		calendar:    cfg.Calendar,
		logger:      cfg.Logger,
		limit:       cfg.PendingLimit,
		ctx:         context.Background(),
		handles:     make(map[string]timer.Handle),
		subscribers: make(map[int]func(Event)),
	}, nil
}

// Start schedules every pending alarm. Alarms whose target passed while
// the service was down fire on the first tick. Timers stop when ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	alarms, err := s.store.List(ctx, store.ListOptions{PendingOnly: true})
	if err != nil {
		return err
	}
	for _, alarm := range alarms {
		s.schedule(alarm)
	}
	s.logger.Info("Alarm service started", "pending", len(alarms))
	return nil
}

// Add stores and schedules a new alarm
func (s *Service) Add(ctx context.Context, req AddRequest) (*store.Alarm, error) {
	if req.At.IsEmpty() {
		return nil, mdwerror.New("alarm time is required").
			WithCode(mdwerror.CodeRequiredField).
			WithOperation("service.Add").
			WithDetail("field", "at")
	}

	target, err := s.calendar.Timestamp(ctx, req.View, req.At)
	if err != nil {
		return nil, err
	}

	alarm := &store.Alarm{
		Label:   req.Label,
		Target:  target,
		Locale:  req.Locale,
		Pattern: req.Pattern,
	}
	if err := s.store.Create(ctx, alarm); err != nil {
		return nil, err
	}

	s.schedule(alarm)
	s.logger.Info("Alarm added", "id", alarm.ID, "label", alarm.Label, "target", alarm.Target)
	return alarm, nil
}

// Remove cancels and deletes an alarm
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	h, ok := s.handles[id]
	delete(s.handles, id)
	s.mu.Unlock()

	if ok {
		s.timers.Cancel(h)
	}
	s.logger.Info("Alarm removed", "id", id)
	return nil
}

// Get returns a stored alarm
func (s *Service) Get(ctx context.Context, id string) (*store.Alarm, error) {
	return s.store.Get(ctx, id)
}

// List returns stored alarms ordered by target
func (s *Service) List(ctx context.Context, pendingOnly bool) ([]*store.Alarm, error) {
	return s.store.List(ctx, store.ListOptions{PendingOnly: pendingOnly})
}

// Scheduled returns the number of alarms waiting on a timer
func (s *Service) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Subscribe registers fn for fired alarms and returns a function that
// removes it
func (s *Service) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// RegisterHealth adds the store and backlog checks to a registry
func (s *Service) RegisterHealth(registry *health.Registry) {
	registry.Register(health.PingCheck("alarm-store", s.store))
	registry.Register(health.ThresholdCheck("alarm-backlog", s.Scheduled, s.limit))
}

// Stop cancels all scheduled alarms. Stored alarms stay pending.
func (s *Service) Stop() {
	s.mu.Lock()
	handles := s.handles
	s.handles = make(map[string]timer.Handle)
	s.mu.Unlock()

	for _, h := range handles {
		s.timers.Cancel(h)
	}
}

func (s *Service) schedule(alarm *store.Alarm) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handles[alarm.ID]; ok {
		return
	}
	s.handles[alarm.ID] = s.timers.Alarm(s.ctx, time.Unix(alarm.Target, 0), func(now time.Time) {
		s.fire(alarm, now)
	})
}

func (s *Service) fire(alarm *store.Alarm, now time.Time) {
	s.mu.Lock()
	_, scheduled := s.handles[alarm.ID]
	delete(s.handles, alarm.ID)
	ctx := s.ctx
	s.mu.Unlock()

	if !scheduled {
		return
	}

	if err := s.store.MarkFired(ctx, alarm.ID, now); err != nil {
		s.logger.Error("Failed to mark alarm fired", "id", alarm.ID, "error", err)
	}
	firedAt := now
	alarm.FiredAt = &firedAt

	pattern := alarm.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	text, err := s.calendar.Format(ctx, chronos.FormatRequest{
		View:    chronos.View{Locale: alarm.Locale},
		Date:    chronos.At(now.Unix()),
		Pattern: pattern,
	})
	if err != nil {
		s.logger.Warn("Failed to render alarm time", "id", alarm.ID, "error", err)
	}

	event := Event{Alarm: alarm, FiredAt: now.Unix(), Text: text}
	s.logger.Info("Alarm fired", "id", alarm.ID, "label", alarm.Label, "text", text)

	s.mu.Lock()
	subscribers := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
