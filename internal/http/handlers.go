package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dgarridoa/elevator-dispatch/internal/call"
	"github.com/dgarridoa/elevator-dispatch/internal/constants"
	"github.com/dgarridoa/elevator-dispatch/internal/dispatch"
	"github.com/dgarridoa/elevator-dispatch/internal/domain"
	"github.com/dgarridoa/elevator-dispatch/internal/hr"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/config"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/logging"
	"github.com/dgarridoa/elevator-dispatch/internal/manager"
	"github.com/dgarridoa/elevator-dispatch/metrics"
)

// V1Handlers contains all v1 API handlers
type V1Handlers struct {
	manager *manager.Manager
	cfg     *config.Config
	logger  *slog.Logger
}

// NewV1Handlers creates a new V1Handlers instance
func NewV1Handlers(manager *manager.Manager, cfg *config.Config, logger *slog.Logger) *V1Handlers {
	return &V1Handlers{
		manager: manager,
		cfg:     cfg,
		logger:  logger,
	}
}

// CallSpecBody is the JSON shape of dispatch.CallSpec. ElevatorID is only
// meaningful (and required) for "in" calls; it is a pointer so an absent
// field is distinguishable from the valid elevator id 0. Sense uses the same
// wire vocabulary as domain.ParseSense ("upward"/"downward").
type CallSpecBody struct {
	Type       string `json:"call_type"`
	Floor      int    `json:"floor"`
	Sense      string `json:"sense"`
	ElevatorID *int   `json:"elevator_id,omitempty"`
}

// RequestBody is the JSON shape of dispatch.Request. State maps an elevator
// id (as a string, since JSON object keys are always strings) to its
// authoritative floor at Timestamp.
type RequestBody struct {
	Timestamp time.Time      `json:"timestamp"`
	State     map[string]int `json:"state"`
	Call      *CallSpecBody  `json:"call,omitempty"`
}

// RequestResponse is the response to a dispatch request: the rendered
// system state after applying it.
type RequestResponse struct {
	Render string `json:"render"`
}

// RenderResponse wraps the system's current rendered state.
type RenderResponse struct {
	Render string `json:"render"`
}

// StatusResponse wraps a snapshot of every elevator.
type StatusResponse struct {
	Elevators []domain.ElevatorStatus `json:"elevators"`
}

// HRSampleRequestBody optionally overrides the configured default sample
// sizes.
type HRSampleRequestBody struct {
	NPersonas *int `json:"n_personas,omitempty"`
	NConyuges *int `json:"n_conyuges,omitempty"`
	NHijos    *int `json:"n_hijos,omitempty"`
}

// HRSampleResponse summarizes a completed sample; the rows themselves are
// meant for a caller with a real database (internal/hrstore.Insert), not
// this endpoint.
type HRSampleResponse struct {
	NPersonas int `json:"n_personas"`
	NConyuges int `json:"n_conyuges"`
	NHijos    int `json:"n_hijos"`
}

// APIInfoResponse represents API information
type APIInfoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}

func toCallSpec(body *CallSpecBody) (*dispatch.CallSpec, *domain.DomainError) {
	if body == nil {
		return nil, nil
	}

	callType := call.Type(body.Type)
	if !callType.IsValid() {
		return nil, domain.ErrInvalidCallType.WithContext("type", body.Type)
	}

	sense, err := domain.ParseSense(body.Sense)
	if err != nil {
		return nil, err
	}

	// -1 is the sentinel call.New rejects as "not set"; a bare int field
	// would decode an absent JSON elevator_id to 0, a valid id, and let it
	// silently bind to elevator 0 instead of erroring per spec §6.
	elevatorID := -1
	if body.ElevatorID != nil {
		elevatorID = *body.ElevatorID
	}
	if callType == call.In && body.ElevatorID == nil {
		return nil, domain.ErrMissingElevatorID
	}

	return &dispatch.CallSpec{
		Type:       callType,
		Floor:      body.Floor,
		Sense:      sense,
		ElevatorID: elevatorID,
	}, nil
}

func toDispatchState(raw map[string]int) (map[int]domain.Floor, *domain.DomainError) {
	state := make(map[int]domain.Floor, len(raw))
	for key, floor := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, domain.NewValidationError("state key must be an elevator id", err).
				WithContext("key", key)
		}
		state[id] = domain.NewFloor(floor)
	}
	return state, nil
}

// RequestHandler handles a dispatch request (POST /v1/requests): it applies
// every elevator's authoritative floor at Timestamp and, if Call is present,
// admits it, returning the freshly rendered system state.
func (h *V1Handlers) RequestHandler(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	rw := NewResponseWriter(w, h.logger, requestID)

	if r.Method != http.MethodPost {
		rw.WriteError(http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed,
			"Method not allowed", "Only POST method is supported")
		return
	}

	var body RequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to decode dispatch request",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID))
		rw.WriteError(http.StatusBadRequest, ErrorCodeInvalidJSON,
			"Invalid JSON", "Request body contains invalid JSON")
		return
	}

	state, vErr := toDispatchState(body.State)
	if vErr != nil {
		rw.WriteDomainError(vErr)
		return
	}

	callSpec, vErr := toCallSpec(body.Call)
	if vErr != nil {
		rw.WriteDomainError(vErr)
		return
	}

	render, err := h.manager.TakeRequest(r.Context(), dispatch.Request{
		Timestamp: body.Timestamp,
		State:     state,
		Call:      callSpec,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dispatch request rejected",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID))
		rw.WriteDomainError(err)
		return
	}

	h.logger.InfoContext(r.Context(), "dispatch request processed",
		slog.String("request_id", requestID),
		slog.String("component", constants.ComponentHTTPHandler))

	rw.WriteJSON(http.StatusOK, RequestResponse{Render: render})
}

// RenderHandler returns the current rendered system state without mutating
// anything (GET /v1/render).
func (h *V1Handlers) RenderHandler(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	rw := NewResponseWriter(w, h.logger, requestID)

	if r.Method != http.MethodGet {
		rw.WriteError(http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed,
			"Method not allowed", "Only GET method is supported")
		return
	}

	rw.WriteJSON(http.StatusOK, RenderResponse{Render: h.manager.Render()})
}

// StatusHandler returns a structured snapshot of every elevator (GET
// /v1/status).
func (h *V1Handlers) StatusHandler(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	rw := NewResponseWriter(w, h.logger, requestID)

	if r.Method != http.MethodGet {
		rw.WriteError(http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed,
			"Method not allowed", "Only GET method is supported")
		return
	}

	rw.WriteJSON(http.StatusOK, StatusResponse{Elevators: h.manager.Status()})
}

// HRSampleHandler triggers one HR sample draw with the configured seed
// (POST /v1/hr/sample). The request body may override the default sample
// sizes; omitted fields fall back to the configured defaults. An empty
// body is accepted.
func (h *V1Handlers) HRSampleHandler(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	rw := NewResponseWriter(w, h.logger, requestID)

	if r.Method != http.MethodPost {
		rw.WriteError(http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed,
			"Method not allowed", "Only POST method is supported")
		return
	}

	var body HRSampleRequestBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to decode HR sample request",
				slog.String("error", err.Error()),
				slog.String("request_id", requestID))
			rw.WriteError(http.StatusBadRequest, ErrorCodeInvalidJSON,
				"Invalid JSON", "Request body contains invalid JSON")
			return
		}
	}

	nPersonas := h.cfg.HRDefaultPersonas
	if body.NPersonas != nil {
		nPersonas = *body.NPersonas
	}
	nConyuges := h.cfg.HRDefaultConyuges
	if body.NConyuges != nil {
		nConyuges = *body.NConyuges
	}
	nHijos := h.cfg.HRDefaultHijos
	if body.NHijos != nil {
		nHijos = *body.NHijos
	}

	start := time.Now()
	sampler := hr.New(h.cfg.HRSeed, h.cfg.HRMinDate, h.cfg.HRMaxDate, h.cfg.HRAttemptCap)
	personas, conyuges, hijos, err := sampler.Sample(nPersonas, nConyuges, nHijos)
	metrics.RecordHRSampleDuration("full", time.Since(start).Seconds())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "HR sample failed",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID))
		rw.WriteDomainError(err)
		return
	}

	h.logger.InfoContext(r.Context(), "HR sample completed",
		slog.Int("n_personas", len(personas)),
		slog.Int("n_conyuges", len(conyuges)),
		slog.Int("n_hijos", len(hijos)),
		slog.String("request_id", requestID),
		slog.String("component", constants.ComponentHR))

	rw.WriteJSON(http.StatusOK, HRSampleResponse{
		NPersonas: len(personas),
		NConyuges: len(conyuges),
		NHijos:    len(hijos),
	})
}

// APIInfoHandler provides information about available API endpoints (GET /v1)
func (h *V1Handlers) APIInfoHandler(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	rw := NewResponseWriter(w, h.logger, requestID)

	if r.Method != http.MethodGet {
		rw.WriteError(http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed,
			"Method not allowed", "Only GET method is supported")
		return
	}

	response := APIInfoResponse{
		Name:        "Elevator Dispatch API",
		Version:     "v1",
		Description: "API for the elevator dispatcher and HR sampler",
		Endpoints: map[string]string{
			"POST /v1/requests":      "Apply elevator floor updates and (optionally) admit one call",
			"GET /v1/render":         "Get the current rendered system state",
			"GET /v1/status":         "Get a structured snapshot of every elevator",
			"POST /v1/hr/sample":     "Draw an HR dataset sample",
			"GET /v1/health/live":    "Liveness probe",
			"GET /v1/health/ready":   "Readiness probe",
			"GET /v1/health/detailed": "Detailed health status",
			"GET /v1":                "Get API information",
			"GET /metrics":           "Prometheus metrics endpoint",
			"WebSocket /ws/status":   "Real-time elevator status updates",
		},
	}

	rw.WriteJSON(http.StatusOK, response)
}
