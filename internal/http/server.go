package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgarridoa/elevator-dispatch/internal/constants"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/config"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/health"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/logging"
	"github.com/dgarridoa/elevator-dispatch/internal/manager"
)

// Server represents the HTTP server.
type Server struct {
	manager       *manager.Manager
	httpServer    *http.Server
	cfg           *config.Config
	logger        *slog.Logger
	healthService *health.HealthService
}

// upgrader is used to upgrade HTTP connections to WebSocket connections.
var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: false,
	Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
		fmt.Printf("WebSocket upgrade error: %v (status: %d)\n", reason, status)
		http.Error(w, reason.Error(), status)
	},
}

// NewServer creates a new instance of Server with versioned API and middleware.
func NewServer(cfg *config.Config, port int, mgr *manager.Manager) *Server {
	s := &Server{
		manager:       mgr,
		cfg:           cfg,
		logger:        slog.With(slog.String("component", constants.ComponentHTTPServer)),
		healthService: health.NewHealthService(30 * time.Second),
	}

	s.setupHealthChecks(mgr)

	addr := fmt.Sprintf(":%d", port)

	v1Handlers := NewV1Handlers(mgr, cfg, s.logger)

	rateLimiter := NewRateLimitMiddleware(cfg.RateLimitRPM, s.logger)

	middlewareChain := ChainMiddleware(
		RequestIDMiddleware(),
		LoggingMiddleware(s.logger),
		RecoveryMiddleware(s.logger),
		CORSMiddleware(),
		SecurityHeadersMiddleware(),
		rateLimiter.Handler(),
	)

	mux := http.NewServeMux()

	// === V1 API ROUTES ===
	mux.HandleFunc("/v1", v1Handlers.APIInfoHandler)
	mux.HandleFunc("/v1/requests", v1Handlers.RequestHandler)
	mux.HandleFunc("/v1/render", v1Handlers.RenderHandler)
	mux.HandleFunc("/v1/status", v1Handlers.StatusHandler)
	mux.HandleFunc("/v1/hr/sample", v1Handlers.HRSampleHandler)

	mux.HandleFunc("/v1/health/live", s.livenessHandler)
	mux.HandleFunc("/v1/health/ready", s.readinessHandler)
	mux.HandleFunc("/v1/health/detailed", s.detailedHealthHandler)

	// === MONITORING ROUTES ===
	mux.Handle("/metrics", promhttp.Handler())

	// === WEBSOCKET ROUTE ===
	mux.HandleFunc("/ws/status", s.statusWebSocketHandler)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      middlewareChain(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// setupHealthChecks initializes and registers health check components
func (s *Server) setupHealthChecks(mgr *manager.Manager) {
	s.healthService.Register(health.NewSystemResourceChecker(85.0, 1000))
	s.healthService.Register(health.NewLivenessChecker())

	managerHealthChecker := health.NewComponentHealthChecker("manager", func(ctx context.Context) (bool, string, map[string]interface{}) {
		if !mgr.IsHealthy() {
			return false, "dispatcher core is unreachable", nil
		}
		status := mgr.Status()
		return true, "dispatcher is reachable", map[string]interface{}{
			"elevator_count": len(status),
		}
	})
	s.healthService.Register(managerHealthChecker)

	readinessChecker := health.NewReadinessChecker(managerHealthChecker)
	s.healthService.Register(readinessChecker)

	s.logger.Info("health checks initialized", slog.Int("registered_checkers", 4))
}

// livenessHandler handles liveness probe requests
func (s *Server) livenessHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := s.healthService.Check(r.Context(), "liveness")
	if err != nil {
		http.Error(w, "Liveness check failed", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.Status == health.StatusHealthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// readinessHandler handles readiness probe requests
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := s.healthService.Check(r.Context(), "readiness")
	if err != nil {
		http.Error(w, "Readiness check failed", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.Status == health.StatusHealthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// detailedHealthHandler provides comprehensive health status
func (s *Server) detailedHealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	overallStatus, results := s.healthService.GetOverallStatus(r.Context())

	response := map[string]interface{}{
		"status":    string(overallStatus),
		"timestamp": time.Now(),
		"checks":    results,
		"summary": map[string]interface{}{
			"total_checks":     len(results),
			"healthy_checks":   countChecksWithStatus(results, health.StatusHealthy),
			"degraded_checks":  countChecksWithStatus(results, health.StatusDegraded),
			"unhealthy_checks": countChecksWithStatus(results, health.StatusUnhealthy),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	var statusCode int
	switch overallStatus {
	case health.StatusUnhealthy:
		statusCode = http.StatusServiceUnavailable
	default:
		statusCode = http.StatusOK
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// countChecksWithStatus counts health checks with a specific status
func countChecksWithStatus(results map[string]health.CheckResult, status health.Status) int {
	count := 0
	for _, result := range results {
		if result.Status == status {
			count++
		}
	}
	return count
}

// GetHandler returns the HTTP handler for testing purposes
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// statusWebSocketHandler upgrades the connection and periodically pushes the
// current elevator status to the client, matching the teacher's ping/pong
// keep-alive shape.
func (s *Server) statusWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	ctx := logging.NewContextWithCorrelation(r.Context())

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to upgrade connection to WebSocket",
			slog.String("error", err.Error()))
		return
	}
	defer func(ws *websocket.Conn) {
		if errOnClose := ws.Close(); errOnClose != nil {
			s.logger.ErrorContext(ctx, "failed to close WebSocket connection",
				slog.String("error", errOnClose.Error()))
		}
	}(ws)

	s.logger.InfoContext(ctx, "WebSocket connection established")

	if err := ws.WriteJSON(s.manager.Status()); err != nil {
		s.logger.ErrorContext(ctx, "failed to send initial status via WebSocket",
			slog.String("error", err.Error()))
		return
	}

	statusTicker := time.NewTicker(s.cfg.StatusUpdateInterval)
	defer statusTicker.Stop()

	pingTicker := time.NewTicker(s.cfg.WebSocketPingInterval)
	defer pingTicker.Stop()

	if err := ws.SetReadDeadline(time.Now().Add(s.cfg.WebSocketReadTimeout)); err != nil {
		s.logger.ErrorContext(ctx, "failed to set read deadline",
			slog.String("error", err.Error()))
		return
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(s.cfg.WebSocketReadTimeout))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					s.logger.WarnContext(ctx, "WebSocket connection closed unexpectedly",
						slog.String("error", err.Error()))
				}
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			s.logger.InfoContext(ctx, "WebSocket connection closed by client")
			return

		case <-ctx.Done():
			if err := ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Server shutdown"),
				time.Now().Add(s.cfg.WebSocketWriteTimeout)); err != nil {
				s.logger.ErrorContext(ctx, "failed to send close message",
					slog.String("error", err.Error()))
			}
			return

		case <-pingTicker.C:
			if err := ws.SetWriteDeadline(time.Now().Add(s.cfg.WebSocketWriteTimeout)); err != nil {
				s.logger.ErrorContext(ctx, "failed to set write deadline for ping",
					slog.String("error", err.Error()))
				return
			}
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.ErrorContext(ctx, "failed to send ping message",
					slog.String("error", err.Error()))
				return
			}

		case <-statusTicker.C:
			if err := ws.SetWriteDeadline(time.Now().Add(s.cfg.WebSocketWriteTimeout)); err != nil {
				s.logger.ErrorContext(ctx, "failed to set write deadline for status update",
					slog.String("error", err.Error()))
				return
			}
			if err := ws.WriteJSON(s.manager.Status()); err != nil {
				s.logger.ErrorContext(ctx, "failed to send status update via WebSocket",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}
