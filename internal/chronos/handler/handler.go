package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	alarmsvc "github.com/msto63/tempus/internal/alarm/service"
	"github.com/msto63/tempus/internal/chronos/service"
	"github.com/msto63/tempus/pkg/core/health"
	"github.com/msto63/tempus/pkg/core/logging"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Config holds handler dependencies. Alarms and Health are optional.
type Config struct {
	Service        *service.Service
	Alarms         *alarmsvc.Service
	Health         *health.Registry
	Logger         *logging.Logger
	Version        string
	AllowedOrigins []string
}

// Handler serves the calendar JSON API
type Handler struct {
	service   *service.Service
	alarms    *alarmsvc.Service
	health    *health.Registry
	logger    *logging.Logger
	origins   []string
	startTime time.Time
	version   string
}

// NewHandler creates a new API handler
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.New("chronos-handler")
	}
	return &Handler{
		service:   cfg.Service,
		alarms:    cfg.Alarms,
		health:    cfg.Health,
		logger:    cfg.Logger,
		origins:   cfg.AllowedOrigins,
		startTime: time.Now(),
		version:   cfg.Version,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if origin := r.Header.Get("Origin"); origin != "" && allowOrigin(h.origins, origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	}

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch {
	case path == "":
		h.handleRoot(w, r)
	case path == "health":
		h.handleHealth(w, r)
	case path == "locales":
		h.handleLocales(w, r)
	case path == "now":
		h.handleNow(w, r)
	case path == "month":
		h.handleMonth(w, r)
	case path == "format":
		post(h, w, r, func(ctx context.Context, req service.FormatRequest) (interface{}, error) {
			text, err := h.service.Format(ctx, req)
			return map[string]string{"text": text}, err
		})
	case path == "parse":
		post(h, w, r, func(ctx context.Context, req service.ParseRequest) (interface{}, error) {
			return h.service.Parse(ctx, req)
		})
	case path == "reformat":
		post(h, w, r, func(ctx context.Context, req service.ReformatRequest) (interface{}, error) {
			text, err := h.service.Reformat(ctx, req)
			return map[string]string{"text": text}, err
		})
	case path == "validate":
		post(h, w, r, func(ctx context.Context, req service.ValidateRequest) (interface{}, error) {
			valid, err := h.service.Validate(ctx, req)
			return map[string]bool{"valid": valid}, err
		})
	case path == "between":
		post(h, w, r, func(ctx context.Context, req service.BetweenRequest) (interface{}, error) {
			value, err := h.service.Between(ctx, req)
			return map[string]interface{}{"value": value, "unit": req.Unit}, err
		})
	case path == "shift":
		post(h, w, r, func(ctx context.Context, req service.ShiftRequest) (interface{}, error) {
			return h.service.Shift(ctx, req)
		})
	case path == "generate":
		post(h, w, r, func(ctx context.Context, req service.GenerateRequest) (interface{}, error) {
			return h.service.Generate(ctx, req)
		})
	case path == "alarms":
		h.handleAlarms(w, r)
	case strings.HasPrefix(path, "alarms/"):
		h.handleAlarm(w, r, strings.TrimPrefix(path, "alarms/"))
	default:
		h.writeError(w, http.StatusNotFound, "not_found", "Endpoint not found", "")
	}
}

func allowOrigin(allowed []string, origin string) bool {
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// post decodes a JSON body into Req and writes the result of fn
func post[Req any](h *Handler, w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, req Req) (interface{}, error)) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use POST", "")
		return
	}

	var req Req
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON", err.Error())
		return
	}

	resp, err := fn(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "tempus",
		"version": h.version,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		"endpoints": []string{
			"GET /api/v1/health", "GET /api/v1/locales", "GET /api/v1/now", "GET /api/v1/month",
			"POST /api/v1/format", "POST /api/v1/parse", "POST /api/v1/reformat",
			"POST /api/v1/validate", "POST /api/v1/between", "POST /api/v1/shift",
			"POST /api/v1/generate", "GET|POST /api/v1/alarms", "DELETE /api/v1/alarms/{id}",
			"WS /ws/clock",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	if h.health == nil {
		h.writeJSON(w, http.StatusOK, health.Report{Service: "tempus", Version: h.version, Status: health.StatusUnknown})
		return
	}

	report := h.health.Check(r.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

func (h *Handler) handleLocales(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"locales": h.service.Locales(r.Context())})
}

func (h *Handler) handleNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	view, err := h.viewFromQuery(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid query", err.Error())
		return
	}

	now, err := h.service.Now(r.Context(), view)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, now)
}

func (h *Handler) handleMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	view, err := h.viewFromQuery(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid query", err.Error())
		return
	}

	req := service.MonthRequest{View: view}
	q := r.URL.Query()
	if q.Get("year") == "" || q.Get("month") == "" {
		now, err := h.service.Now(r.Context(), view)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		req.Year, req.Month = now.Year, now.Month
	}
	if v := q.Get("year"); v != "" {
		if req.Year, err = strconv.Atoi(v); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid year", err.Error())
			return
		}
	}
	if v := q.Get("month"); v != "" {
		if req.Month, err = strconv.Atoi(v); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid month", err.Error())
			return
		}
	}

	month, err := h.service.Month(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, month)
}

func (h *Handler) handleAlarms(w http.ResponseWriter, r *http.Request) {
	if h.alarms == nil {
		h.writeError(w, http.StatusServiceUnavailable, "service_unavailable", "Alarms not enabled", "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		pending := r.URL.Query().Get("pending") == "true"
		alarms, err := h.alarms.List(r.Context(), pending)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]interface{}{"alarms": alarms, "total": len(alarms)})
	case http.MethodPost:
		var req alarmsvc.AddRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON", err.Error())
			return
		}
		alarm, err := h.alarms.Add(r.Context(), req)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, alarm)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET or POST", "")
	}
}

func (h *Handler) handleAlarm(w http.ResponseWriter, r *http.Request, id string) {
	if h.alarms == nil {
		h.writeError(w, http.StatusServiceUnavailable, "service_unavailable", "Alarms not enabled", "")
		return
	}

	switch r.Method {
	case http.MethodGet:
		alarm, err := h.alarms.Get(r.Context(), id)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, alarm)
	case http.MethodDelete:
		if err := h.alarms.Remove(r.Context(), id); err != nil {
			h.writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET or DELETE", "")
	}
}

// viewFromQuery reads locale and monday_first. Without a locale parameter
// an Accept-Language header picks the closest available locale.
func (h *Handler) viewFromQuery(r *http.Request) (service.View, error) {
	q := r.URL.Query()
	view := service.View{Locale: q.Get("locale")}
	if accept := r.Header.Get("Accept-Language"); view.Locale == "" && accept != "" {
		view.Locale = h.service.Engine().Locales().DetectLocale(accept)
	}
	if v := q.Get("monday_first"); v != "" {
		monday, err := strconv.ParseBool(v)
		if err != nil {
			return view, err
		}
		view.MondayFirst = &monday
	}
	return view, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	h.writeJSON(w, status, resp)
}

// writeServiceError maps structured errors onto HTTP status codes
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var mdwErr *mdwerror.Error
	if !errors.As(err, &mdwErr) {
		h.logger.Error("Request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Internal error", err.Error())
		return
	}

	code := mdwErr.Code()
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err, "code", code.String())
	}
	h.writeError(w, status, strings.ToLower(code.String()), mdwErr.Error(), mdwErr.Operation())
}
