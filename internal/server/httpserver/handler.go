// Package httpserver provides the HTTP server for ViewGate.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/edvros/viewgate-go/internal/core/domain"
	"github.com/edvros/viewgate-go/internal/core/overlay"
	"github.com/edvros/viewgate-go/internal/infra/buildinfo"
	"github.com/edvros/viewgate-go/internal/slots"
	"github.com/edvros/viewgate-go/internal/telemetry/logger"
	"github.com/edvros/viewgate-go/internal/telemetry/metric"
)

// Callback is an application callback exposed through the protected
// endpoint. Input is the decoded JSON "input" field.
type Callback func(ctx context.Context, input any) (any, error)

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	Controller *overlay.Controller
	Slots      slots.Store
	Logger     logger.Logger
	Metrics    *metric.Registry

	// CookieName carries the session ID. Required.
	CookieName string

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool

	// SlotsBackend names the slot store backend for metrics labels.
	SlotsBackend string
}

// Handler routes HTTP requests into the session controller.
type Handler struct {
	controller   *overlay.Controller
	slots        slots.Store
	logger       logger.Logger
	metrics      *metric.Registry
	cookieName   string
	cookieSecure bool
	slotsBackend string

	mux *http.ServeMux

	mu        sync.RWMutex
	callbacks map[string]Callback
}

// NewHandler creates the Handler and registers all routes.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Controller == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("controller is required")
	}
	if cfg.Slots == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("slot store is required")
	}
	if cfg.CookieName == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("cookie name is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := &Handler{
		controller:   cfg.Controller,
		slots:        cfg.Slots,
		logger:       log,
		metrics:      cfg.Metrics,
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
		slotsBackend: cfg.SlotsBackend,
		mux:          http.NewServeMux(),
		callbacks:    make(map[string]Callback),
	}

	h.registerRoutes()
	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// RegisterCallback exposes an application callback under
// POST /callback/{name}, wrapped with a trailing status probe.
func (h *Handler) RegisterCallback(name string, fn Callback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callbacks[name] = fn
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /{$}", h.handleRoot)
	h.mux.HandleFunc("POST /login", h.handleLogin)
	h.mux.HandleFunc("POST /logout", h.handleLogout)
	h.mux.HandleFunc("POST /probe", h.handleProbe)
	h.mux.HandleFunc("POST /callback/{name}", h.handleCallback)

	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	if h.metrics != nil {
		h.mux.Handle("GET /metrics", h.metrics.Handler())
	}
}

// handleRoot renders the view for the current session without
// consulting the oracle.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	sessionID := h.ensureSessionCookie(w, r)
	ctx := logger.WithClientID(r.Context(), sessionID)

	state, err := h.loadState(ctx, sessionID)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	res, err := h.controller.Render(ctx, state)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	h.saveState(ctx, sessionID, state)
	h.writeJSON(w, r, http.StatusOK, sessionResponse(res))
}

// handleLogin delivers a button click with credentials.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrInvalidArgument.WithDetails("malformed login request"))
		return
	}

	h.evaluate(w, r, overlay.EventButtonClick, domain.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
}

// handleLogout delivers a button click without credentials. While
// logged in that is an explicit logout; while logged out it is a
// failing login attempt, which leaves the state untouched.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.evaluate(w, r, overlay.EventButtonClick, domain.Credentials{})
}

// handleProbe delivers an explicit status probe.
func (h *Handler) handleProbe(w http.ResponseWriter, r *http.Request) {
	h.evaluate(w, r, overlay.EventStatusProbe, domain.Credentials{})
}

// evaluate runs one controller evaluation against the request's
// session and persists the new slots.
func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request, ev overlay.Event, creds domain.Credentials) {
	sessionID := h.ensureSessionCookie(w, r)
	ctx := logger.WithClientID(r.Context(), sessionID)

	state, err := h.loadState(ctx, sessionID)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	start := time.Now()
	res, err := h.controller.Evaluate(ctx, state, ev, creds)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	h.observeEval(ev, time.Since(start), res)

	h.saveState(ctx, sessionID, state)
	h.writeJSON(w, r, http.StatusOK, sessionResponse(res))
}

// handleCallback runs a registered application callback wrapped with a
// trailing status probe.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	h.mu.RLock()
	fn, exists := h.callbacks[name]
	h.mu.RUnlock()

	if !exists {
		h.writeError(w, r, http.StatusNotFound,
			domain.ErrInvalidArgument.WithDetails("unknown callback: "+name))
		return
	}

	var req CallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrInvalidArgument.WithDetails("malformed callback request"))
		return
	}

	sessionID := h.ensureSessionCookie(w, r)
	ctx := logger.WithClientID(r.Context(), sessionID)

	state, err := h.loadState(ctx, sessionID)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	protected := overlay.Protect(h.controller, state, fn)
	res, cbErr := protected(ctx, req.Input)

	h.saveState(ctx, sessionID, state)

	if cbErr != nil {
		h.writeError(w, r, http.StatusInternalServerError,
			domain.ErrInternalServer.WithDetails("callback failed").WithCause(cbErr))
		return
	}

	h.writeJSON(w, r, http.StatusOK, CallbackResponse{
		Output:  res.Output,
		Session: sessionResponse(res.Session),
	})
}

// handleHealth handles GET /healthz.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": buildinfo.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// ensureSessionCookie returns the request's session ID, minting a ULID
// cookie when absent.
func (h *Handler) ensureSessionCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(h.cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := ulid.Make().String()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// loadState reads the session's slot pair. Store failures surface to
// the caller; a missing session is the logged-out pair.
func (h *Handler) loadState(ctx context.Context, sessionID string) (*overlay.State, error) {
	pair, err := h.slots.Load(ctx, sessionID)
	if err != nil {
		h.observeSlotOp("load_error")
		return nil, err
	}
	h.observeSlotOp("load")
	return &overlay.State{Current: pair.Current, Last: pair.Last}, nil
}

// saveState persists the session's slot pair. Persistence failures are
// logged, not surfaced: the response already carries the decision, and
// a lost write only means a settle on the next request.
func (h *Handler) saveState(ctx context.Context, sessionID string, state *overlay.State) {
	err := h.slots.Save(ctx, sessionID, slots.Pair{Current: state.Current, Last: state.Last})
	if err != nil {
		h.observeSlotOp("save_error")
		h.logger.Error("slot save failed",
			"session_id", sessionID,
			"error", err)
		return
	}
	h.observeSlotOp("save")
	state.ResetCycle()
}

func (h *Handler) observeEval(ev overlay.Event, d time.Duration, res *overlay.EvalResult) {
	if h.metrics == nil {
		return
	}
	h.metrics.EvalDuration.WithLabelValues(ev.String()).Observe(d.Seconds())
	if res.Changed {
		switch res.State {
		case domain.LoggedIn:
			h.metrics.SessionsActive.Inc()
		case domain.LoggedOut:
			h.metrics.SessionsActive.Dec()
		}
	}
}

func (h *Handler) observeSlotOp(op string) {
	if h.metrics != nil {
		h.metrics.SlotOps.WithLabelValues(h.slotsBackend, op).Inc()
	}
}

// sessionResponse converts a controller decision to the wire form.
func sessionResponse(res *overlay.EvalResult) SessionResponse {
	if res == nil {
		return SessionResponse{}
	}
	return SessionResponse{
		State:   res.State.String(),
		Label:   res.Label,
		Changed: res.Changed,
		Reason:  res.Reason.String(),
		View:    res.View,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	requestID := logger.RequestIDFromContext(r.Context())
	code := domain.GetErrorCode(err)
	if code == "" {
		code = domain.ErrInternalServer.Code
	}

	message := err.Error()
	var details any
	var derr *domain.DomainError
	if errors.As(err, &derr) {
		message = derr.Message
		if derr.Details != "" {
			details = derr.Details
		}
	}

	h.logger.Warn("request failed",
		"request_id", requestID,
		"code", code,
		"error", err)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message, details))
}
