package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/msto63/tempus/foundation/utils/timex"
	alarmsvc "github.com/msto63/tempus/internal/alarm/service"
	"github.com/msto63/tempus/internal/chronos/service"
	"github.com/msto63/tempus/pkg/core/logging"
	"github.com/msto63/tempus/pkg/core/timer"
)

// WebSocketHandler streams clock ticks and alarm notifications
type WebSocketHandler struct {
	service  *service.Service
	alarms   *alarmsvc.Service
	timers   *timer.Service
	logger   *logging.Logger
	upgrader websocket.Upgrader
}

// WebSocketConfig holds WebSocket handler dependencies. Alarms is optional.
type WebSocketConfig struct {
	Service        *service.Service
	Alarms         *alarmsvc.Service
	Timers         *timer.Service
	Logger         *logging.Logger
	AllowedOrigins []string
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cfg WebSocketConfig) *WebSocketHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.New("chronos-websocket")
	}
	origins := cfg.AllowedOrigins
	return &WebSocketHandler{
		service: cfg.Service,
		alarms:  cfg.Alarms,
		timers:  cfg.Timers,
		logger:  cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin(origins, origin)
			},
		},
	}
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`    // "ping", "clock", "stop", "alarms"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// WSClockPayload starts a clock
type WSClockPayload struct {
	service.View
	Pattern string `json:"pattern,omitempty"`
}

// WSResponse represents a WebSocket response
type WSResponse struct {
	Type    string      `json:"type"`    // "pong", "tick", "stopped", "subscribed", "alarm", "error"
	Payload interface{} `json:"payload"` // Response-specific payload
}

// WSTickPayload is one clock tick
type WSTickPayload struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// session is the state of one connection
type session struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu          sync.Mutex
	clock       timer.Handle
	unsubscribe func()
}

func (s *session) send(resp WSResponse) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return s.conn.WriteJSON(resp)
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(conn)
}

func (h *WebSocketHandler) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{conn: conn}
	defer func() {
		cancel()
		h.stopClock(s)
		s.mu.Lock()
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		s.mu.Unlock()
	}()

	conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		switch msg.Type {
		case "ping":
			h.sendResponse(s, WSResponse{Type: "pong"})

		case "clock":
			var payload WSClockPayload
			if len(msg.Payload) > 0 {
				if err := json.Unmarshal(msg.Payload, &payload); err != nil {
					h.sendError(s, "invalid_payload", "Invalid clock payload")
					continue
				}
			}
			h.startClock(ctx, s, payload)

		case "stop":
			h.stopClock(s)
			h.sendResponse(s, WSResponse{Type: "stopped"})

		case "alarms":
			h.subscribeAlarms(s)

		default:
			h.sendError(s, "unknown_type", "Unknown message type: "+msg.Type)
		}
	}
}

// startClock replaces the clock of a session
func (h *WebSocketHandler) startClock(ctx context.Context, s *session, payload WSClockPayload) {
	if payload.Pattern == "" {
		payload.Pattern = timex.DefaultKeyFormat
	}
	if _, err := h.service.Format(ctx, service.FormatRequest{View: payload.View, Pattern: payload.Pattern}); err != nil {
		h.sendError(s, "invalid_request", err.Error())
		return
	}

	h.stopClock(s)

	handle := h.timers.Clock(ctx, func(now time.Time) {
		ts := now.Unix()
		text, err := h.service.Format(ctx, service.FormatRequest{
			View:    payload.View,
			Date:    service.At(ts),
			Pattern: payload.Pattern,
		})
		if err != nil {
			h.sendError(s, "format_error", err.Error())
			return
		}
		h.sendResponse(s, WSResponse{Type: "tick", Payload: WSTickPayload{Text: text, Timestamp: ts}})
	})

	s.mu.Lock()
	s.clock = handle
	s.mu.Unlock()
}

func (h *WebSocketHandler) stopClock(s *session) {
	s.mu.Lock()
	handle := s.clock
	s.clock = ""
	s.mu.Unlock()

	if handle != "" {
		h.timers.Cancel(handle)
	}
}

func (h *WebSocketHandler) subscribeAlarms(s *session) {
	if h.alarms == nil {
		h.sendError(s, "service_unavailable", "Alarms not enabled")
		return
	}

	s.mu.Lock()
	if s.unsubscribe == nil {
		s.unsubscribe = h.alarms.Subscribe(func(e alarmsvc.Event) {
			h.sendResponse(s, WSResponse{Type: "alarm", Payload: e})
		})
	}
	s.mu.Unlock()

	h.sendResponse(s, WSResponse{Type: "subscribed"})
}

// sendResponse sends a response message via WebSocket
func (h *WebSocketHandler) sendResponse(s *session, resp WSResponse) {
	if err := s.send(resp); err != nil {
		h.logger.Debug("WebSocket send error", "error", err)
	}
}

// sendError sends an error response via WebSocket
func (h *WebSocketHandler) sendError(s *session, code, message string) {
	h.sendResponse(s, WSResponse{
		Type: "error",
		Payload: WSErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}
