package server

import (
	"context"
	"time"

	"github.com/msto63/tempus/foundation/utils/timex"
	"github.com/msto63/tempus/internal/chronos/service"
	"github.com/msto63/tempus/pkg/core/health"
	"github.com/msto63/tempus/pkg/core/logging"
	"github.com/msto63/tempus/pkg/core/timer"
	"google.golang.org/protobuf/types/known/structpb"
)

// Ensure Server implements CalendarServer
var _ CalendarServer = (*Server)(nil)

// Config holds server dependencies
type Config struct {
	Service *service.Service
	Timers  *timer.Service
	Health  *health.Registry
	Logger  *logging.Logger
}

// Server binds the calendar service to gRPC
type Server struct {
	service *service.Service
	timers  *timer.Service
	health  *health.Registry
	logger  *logging.Logger
}

// New creates the gRPC binding
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.New("chronos-grpc")
	}
	if cfg.Timers == nil {
		cfg.Timers = timer.New(timer.Config{Logger: cfg.Logger.Logger})
	}
	return &Server{
		service: cfg.Service,
		timers:  cfg.Timers,
		health:  cfg.Health,
		logger:  cfg.Logger,
	}
}

// TextResponse carries a rendered string
type TextResponse struct {
	Text string `json:"text"`
}

// ValidResponse carries a validation result
type ValidResponse struct {
	Valid bool `json:"valid"`
}

// BetweenResponse carries a difference
type BetweenResponse struct {
	Value int64  `json:"value"`
	Unit  string `json:"unit"`
}

// DateResponse carries a date and its timestamp
type DateResponse struct {
	Date      timex.Date `json:"date"`
	Timestamp int64      `json:"timestamp"`
}

// LocalesResponse lists the locale tables
type LocalesResponse struct {
	Locales []service.LocaleInfo `json:"locales"`
}

// ClockRequest starts a clock stream. Count limits the number of ticks,
// zero streams until the client cancels.
type ClockRequest struct {
	service.View
	Pattern string `json:"pattern,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// ClockTick is one element of the clock stream
type ClockTick struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// unary decodes a request of type Req, runs fn and encodes its result
func unary[Req any](in *structpb.Struct, fn func(req Req) (interface{}, error)) (*structpb.Struct, error) {
	var req Req
	if err := Decode(in, &req); err != nil {
		return nil, err
	}
	resp, err := fn(req)
	if err != nil {
		return nil, err
	}
	return Encode(resp)
}

// Format renders a date
func (s *Server) Format(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return unary(in, func(req service.FormatRequest) (interface{}, error) {
		text, err := s.service.Format(ctx, req)
		return TextResponse{Text: text}, err
	})
}

// Parse parses a string into a date
func (s *Server) Parse(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return unary(in, func(req service.ParseRequest) (interface{}, error) {
		return s.service.Parse(ctx, req)
	})
}

// Reformat converts a string between patterns
func (s *Server) Reformat(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return unary(in, func(req service.ReformatRequest) (interface{}, error) {
		text, err := s.service.Reformat(ctx, req)
		return TextResponse{Text: text}, err
	})
}

// Validate checks a date
func (s *Server) Validate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return unary(in, func(req service.ValidateRequest) (interface{}, error) {
		valid, err := s.service.Validate(ctx, req)
		return ValidResponse{Valid: valid}, err
	})
}

// Between measures a difference
func (s *Server) Between(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return unary(in, func(req service.BetweenRequest) (interface{}, error) {
		value, err := s.service.Between(ctx, req)
		return BetweenResponse{Value: value, Unit: req.Unit}, err
	})
}

// Shift moves a date
func (s *Server) Shift(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return unary(in, func(req service.ShiftRequest) (interface{}, error) {
		date, err := s.service.Shift(ctx, req)
		return DateResponse{Date: date, Timestamp: timex.Time(date)}, err
	})
}

// Generate enumerates a range
func (s *Server) Generate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return unary(in, func(req service.GenerateRequest) (interface{}, error) {
		return s.service.Generate(ctx, req)
	})
}

// Month lays out a month
func (s *Server) Month(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return unary(in, func(req service.MonthRequest) (interface{}, error) {
		return s.service.Month(ctx, req)
	})
}

// Locales lists the locale tables
func (s *Server) Locales(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return Encode(LocalesResponse{Locales: s.service.Locales(ctx)})
}

// Now returns the current date
func (s *Server) Now(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return unary(in, func(req service.View) (interface{}, error) {
		date, err := s.service.Now(ctx, req)
		return DateResponse{Date: date, Timestamp: timex.Time(date)}, err
	})
}

// Health reports the health registry
func (s *Server) Health(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.health == nil {
		return Encode(health.Report{Status: health.StatusUnknown})
	}
	return Encode(s.health.Check(ctx))
}

// Clock streams the formatted time every tick of the timer service
func (s *Server) Clock(in *structpb.Struct, stream ClockStream) error {
	var req ClockRequest
	if err := Decode(in, &req); err != nil {
		return err
	}
	if req.Pattern == "" {
		req.Pattern = timex.DefaultKeyFormat
	}

	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	// Formatting errors surface before the first tick
	if _, err := s.service.Format(ctx, service.FormatRequest{View: req.View, Pattern: req.Pattern}); err != nil {
		return err
	}

	ticks := make(chan time.Time, 1)
	h := s.timers.Clock(ctx, func(now time.Time) {
		select {
		case ticks <- now:
		case <-ctx.Done():
		}
	})
	defer s.timers.Cancel(h)

	sent := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticks:
			ts := now.Unix()
			text, err := s.service.Format(ctx, service.FormatRequest{View: req.View, Date: service.At(ts), Pattern: req.Pattern})
			if err != nil {
				return err
			}
			msg, err := Encode(ClockTick{Text: text, Timestamp: ts})
			if err != nil {
				return err
			}
			if err := stream.Send(msg); err != nil {
				return err
			}
			sent++
			if req.Count > 0 && sent >= req.Count {
				return nil
			}
		}
	}
}
