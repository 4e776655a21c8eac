package gateway

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	alarmsvc "github.com/msto63/tempus/internal/alarm/service"
	"github.com/msto63/tempus/internal/chronos/handler"
	"github.com/msto63/tempus/internal/chronos/service"
	"github.com/msto63/tempus/pkg/core/config"
	"github.com/msto63/tempus/pkg/core/health"
	"github.com/msto63/tempus/pkg/core/logging"
	"github.com/msto63/tempus/pkg/core/timer"
)

// Server is the HTTP and WebSocket front of the calendar service
type Server struct {
	httpServer *http.Server
	health     *health.Registry
	logger     *logging.Logger
	config     Config

	mu       sync.Mutex
	listener net.Listener
}

// Config holds server configuration
type Config struct {
	Host           string
	HTTPPort       int
	ReadTimeout    time.Duration
	Version        string
	AllowedOrigins []string

	Service *service.Service
	Alarms  *alarmsvc.Service
	Timers  *timer.Service
	Health  *health.Registry
	Logger  *logging.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:        "0.0.0.0",
		HTTPPort:    9401,
		ReadTimeout: 30 * time.Second,
		Version:     "1.0.0",
	}
}

// ConfigFrom applies the HTTP section of the configuration to the defaults
func ConfigFrom(cfg config.HTTPConfig) Config {
	c := DefaultConfig()
	if cfg.Host != "" {
		c.Host = cfg.Host
	}
	c.HTTPPort = cfg.Port
	if cfg.ReadTimeout.Duration > 0 {
		c.ReadTimeout = cfg.ReadTimeout.Duration
	}
	c.AllowedOrigins = cfg.AllowedOrigins
	return c
}

// New creates a new gateway server
func New(cfg Config) (*Server, error) {
	if cfg.Service == nil || cfg.Timers == nil {
		return nil, mdwerror.New("gateway needs the calendar service and timers").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("gateway.New")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("chronos-gateway")
	}
	if cfg.Health == nil {
		cfg.Health = health.NewRegistry("tempus", cfg.Version)
	}

	h := handler.NewHandler(handler.Config{
		Service:        cfg.Service,
		Alarms:         cfg.Alarms,
		Health:         cfg.Health,
		Logger:         cfg.Logger,
		Version:        cfg.Version,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	wsHandler := handler.NewWebSocketHandler(handler.WebSocketConfig{
		Service:        cfg.Service,
		Alarms:         cfg.Alarms,
		Timers:         cfg.Timers,
		Logger:         cfg.Logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	mux := http.NewServeMux()
	mux.Handle("/ws/clock", wsHandler)
	mux.Handle("/", h)

	// No write timeout: WebSocket connections are long-lived and set
	// their own write deadlines
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort),
		Handler:           loggingMiddleware(cfg.Logger, mux),
		ReadHeaderTimeout: cfg.ReadTimeout,
	}

	cfg.Health.RegisterFunc("http", func(ctx context.Context) health.CheckResult {
		return health.CheckResult{
			Name:    "http",
			Status:  health.StatusHealthy,
			Message: "HTTP server is running",
		}
	})

	return &Server{
		httpServer: httpServer,
		health:     cfg.Health,
		logger:     cfg.Logger,
		config:     cfg,
	}, nil
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for the WebSocket upgrade
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// Listen binds the server address
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return mdwerror.Wrap(err, "failed to listen").
			WithCode(mdwerror.CodeConnectionFailed).
			WithOperation("gateway.Listen").
			WithDetail("address", s.httpServer.Addr)
	}
	s.listener = lis
	return nil
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.logger.Info("Starting tempus gateway", "address", s.Address())

	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartAsync starts the server asynchronously
func (s *Server) StartAsync() error {
	if err := s.Listen(); err != nil {
		return err
	}
	s.logger.Info("Starting tempus gateway (async)", "address", s.Address())

	go func() {
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping tempus gateway")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the bound address once listening, else the configured one
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
