// ============================================================================
// tempus - Calendar Engine
// ============================================================================
//
// Package:     timer
// Description: Host timer service with repeating and one-shot callbacks,
//              a per-second clock and a one-shot alarm
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package timer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	mdwlog "github.com/msto63/tempus/foundation/core/log"
	"github.com/msto63/tempus/foundation/utils/timex"
)

// DefaultTick is the interval of Clock and Alarm
const DefaultTick = time.Second

// Handle identifies a scheduled callback
type Handle string

// String returns the handle id
func (h Handle) String() string {
	return string(h)
}

// Kind of a scheduled callback
type Kind string

const (
	KindRepeating Kind = "repeating"
	KindOnce      Kind = "once"
	KindClock     Kind = "clock"
	KindAlarm     Kind = "alarm"
)

// Config holds timer service settings
type Config struct {
	Tick   time.Duration    // Clock and Alarm interval (default: DefaultTick)
	Now    func() time.Time // time source (default: time.Now)
	Logger *mdwlog.Logger   // optional logger
}

type entry struct {
	kind   Kind
	cancel context.CancelFunc
}

// Service runs callbacks on goroutines owned by the service. Every callback
// stops when its context is cancelled, when Cancel is called with its handle
// or when the service is stopped.
type Service struct {
	mu     sync.Mutex
	timers map[Handle]*entry
	wg     sync.WaitGroup

	tick   time.Duration
	now    func() time.Time
	logger *mdwlog.Logger
}

// New creates a timer service
func New(cfg Config) *Service {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = mdwlog.GetDefault()
	}
	return &Service{
		timers: make(map[Handle]*entry),
		tick:   cfg.Tick,
		now:    cfg.Now,
		logger: cfg.Logger.WithField("component", "timer"),
	}
}

// Tick returns the Clock and Alarm interval
func (s *Service) Tick() time.Duration {
	return s.tick
}

// ScheduleRepeating calls fn every interval until cancelled. A non-positive
// interval uses the service tick.
func (s *Service) ScheduleRepeating(ctx context.Context, fn func(), interval time.Duration) Handle {
	if interval <= 0 {
		interval = s.tick
	}
	return s.start(ctx, KindRepeating, func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	})
}

// ScheduleOnce calls fn once after delay unless cancelled first
func (s *Service) ScheduleOnce(ctx context.Context, fn func(), delay time.Duration) Handle {
	return s.start(ctx, KindOnce, func(ctx context.Context) {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
			fn()
		}
	})
}

// Clock calls fn with the current time immediately and then every tick
func (s *Service) Clock(ctx context.Context, fn func(now time.Time)) Handle {
	return s.start(ctx, KindClock, func(ctx context.Context) {
		fn(s.now())

		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(s.now())
			}
		}
	})
}

// Alarm checks the remaining seconds to target every tick and calls fn
// once, at the first tick where no time remains. A target in the past fires
// at the first tick.
func (s *Service) Alarm(ctx context.Context, target time.Time, fn func(now time.Time)) Handle {
	to := timex.FromTimestamp(target.Unix())

	return s.start(ctx, KindAlarm, func(ctx context.Context) {
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := s.now()
				remaining, _ := timex.Between(timex.FromTimestamp(now.Unix()), to, timex.UnitSeconds)
				if remaining <= 0 {
					fn(now)
					return
				}
			}
		}
	})
}

// Cancel stops the callback behind h. It reports whether h was active.
func (s *Service) Cancel(h Handle) bool {
	s.mu.Lock()
	e, ok := s.timers[h]
	delete(s.timers, h)
	s.mu.Unlock()

	if !ok {
		return false
	}
	e.cancel()
	s.logger.Debug("Timer cancelled", mdwlog.Fields{"handle": h.String(), "kind": string(e.kind)})
	return true
}

// Active reports whether h is still scheduled
func (s *Service) Active(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[h]
	return ok
}

// Len returns the number of scheduled callbacks
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every callback and waits for their goroutines to return
func (s *Service) Stop() {
	s.mu.Lock()
	for h, e := range s.timers {
		e.cancel()
		delete(s.timers, h)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Service) start(ctx context.Context, kind Kind, run func(ctx context.Context)) Handle {
	h := Handle(uuid.NewString())
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.timers[h] = &entry{kind: kind, cancel: cancel}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.remove(h)
		defer cancel()
		run(ctx)
	}()

	s.logger.Debug("Timer scheduled", mdwlog.Fields{"handle": h.String(), "kind": string(kind)})
	return h
}

func (s *Service) remove(h Handle) {
	s.mu.Lock()
	delete(s.timers, h)
	s.mu.Unlock()
}
