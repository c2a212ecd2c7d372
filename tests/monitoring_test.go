package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgarridoa/elevator-dispatch/internal/dispatch"
	httpPkg "github.com/dgarridoa/elevator-dispatch/internal/http"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/config"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/health"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/logging"
	"github.com/dgarridoa/elevator-dispatch/internal/manager"
	"github.com/dgarridoa/elevator-dispatch/metrics"
	"go.opentelemetry.io/otel/trace/noop"
)

func buildMonitoringTestConfig() *config.Config {
	return &config.Config{
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		IdleTimeout:           5 * time.Second,
		ShutdownTimeout:       time.Second,
		RateLimitRPM:          10000,
		StatusUpdateInterval:  time.Second,
		WebSocketPingInterval: time.Second,
		WebSocketWriteTimeout: time.Second,
		WebSocketReadTimeout:  5 * time.Second,
		HRSeed:                1,
		HRDefaultPersonas:     10,
		HRDefaultConyuges:     2,
		HRDefaultHijos:        2,
		HRAttemptCap:          1000,
		HRMinDate:             time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
		HRMaxDate:             time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMonitoringAndObservability(t *testing.T) {
	logging.InitLogger("INFO")

	cfg := buildMonitoringTestConfig()
	system := dispatch.New(3, 20, 10*time.Second, nil)
	elevatorManager := manager.New(system, nil, noop.NewTracerProvider().Tracer("monitoring"))
	server := httpPkg.NewServer(cfg, 8080, elevatorManager)

	t.Run("Health Check System", func(t *testing.T) {
		testHealthCheckSystem(t, server)
	})

	t.Run("Metrics Collection", func(t *testing.T) {
		testMetricsCollection(t, server, elevatorManager)
	})

	t.Run("Performance Monitoring", func(t *testing.T) {
		testPerformanceMonitoring(t, server)
	})

	t.Run("Correlation ID Tracking", func(t *testing.T) {
		testCorrelationIDTracking(t, server)
	})

	t.Run("Error Rate Monitoring", func(t *testing.T) {
		testErrorRateMonitoring(t, server)
	})
}

func testHealthCheckSystem(t *testing.T, server *httpPkg.Server) {
	t.Run("Liveness Endpoint", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/health/live", nil)
		w := httptest.NewRecorder()

		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		body := w.Body.String()
		assert.Contains(t, body, "liveness")
	})

	t.Run("Readiness Endpoint", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/health/ready", nil)
		w := httptest.NewRecorder()

		server.GetHandler().ServeHTTP(w, req)

		assert.True(t, w.Code == http.StatusOK || w.Code == http.StatusServiceUnavailable)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		body := w.Body.String()
		assert.Contains(t, body, "readiness")
	})

	t.Run("Detailed Health Endpoint", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/health/detailed", nil)
		w := httptest.NewRecorder()

		server.GetHandler().ServeHTTP(w, req)

		assert.True(t, w.Code == http.StatusOK || w.Code == http.StatusServiceUnavailable)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

		body := w.Body.String()
		assert.Contains(t, body, "status")
		assert.Contains(t, body, "checks")
		assert.Contains(t, body, "summary")
	})
}

func testMetricsCollection(t *testing.T, server *httpPkg.Server, elevatorManager *manager.Manager) {
	t.Run("Dispatch Metrics Collection", func(t *testing.T) {
		metrics.RecordRequestDuration(1.5)
		metrics.IncRequestsTotal("success")
		metrics.SetElevatorFloor("1", 5.0)
		metrics.SetElevatorPendingRequests("1", 2.0)
		metrics.SetBacklogSize(3.0)
		metrics.RecordHRSampleDuration("full", 0.2)

		metricFamilies, err := prometheus.DefaultGatherer.Gather()
		require.NoError(t, err)

		foundMetrics := make(map[string]bool)
		for _, mf := range metricFamilies {
			if strings.HasPrefix(mf.GetName(), "dispatch_") {
				foundMetrics[mf.GetName()] = true
			}
		}

		expectedMetrics := []string{
			"dispatch_request_duration_seconds",
			"dispatch_requests_total",
			"dispatch_elevator_floor",
			"dispatch_elevator_pending_requests",
			"dispatch_backlog_size",
			"dispatch_hr_sample_duration_seconds",
		}
		for _, expected := range expectedMetrics {
			assert.True(t, foundMetrics[expected], "expected metric %s not found", expected)
		}
	})

	t.Run("System Health Metrics", func(t *testing.T) {
		metrics.SetSystemHealthy(elevatorManager.IsHealthy())
		assert.Len(t, elevatorManager.Status(), 3)
	})
}

func testPerformanceMonitoring(t *testing.T, server *httpPkg.Server) {
	t.Run("HTTP Request Performance", func(t *testing.T) {
		body, _ := json.Marshal(httpPkg.RequestBody{
			Timestamp: time.Now(),
			State:     map[string]int{"0": 1, "1": 1, "2": 1},
		})
		req := httptest.NewRequest("POST", "/v1/requests", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		start := time.Now()
		server.GetHandler().ServeHTTP(w, req)
		duration := time.Since(start)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, duration < 5*time.Second, "request took too long: %v", duration)

		metricFamilies, err := prometheus.DefaultGatherer.Gather()
		require.NoError(t, err)

		foundHTTPMetrics := false
		for _, mf := range metricFamilies {
			if strings.Contains(mf.GetName(), "http_request") {
				foundHTTPMetrics = true
				break
			}
		}
		assert.True(t, foundHTTPMetrics, "HTTP performance metrics not found")
	})

	t.Run("Memory Usage Tracking", func(t *testing.T) {
		metrics.SetMemoryUsage("alloc", 1024*1024)
		metrics.SetMemoryUsage("sys", 2048*1024)

		metricFamilies, err := prometheus.DefaultGatherer.Gather()
		require.NoError(t, err)

		foundMemoryMetrics := false
		for _, mf := range metricFamilies {
			if strings.Contains(mf.GetName(), "process_memory") {
				foundMemoryMetrics = true
				break
			}
		}
		assert.True(t, foundMemoryMetrics, "memory usage metrics not found")
	})
}

func testCorrelationIDTracking(t *testing.T, server *httpPkg.Server) {
	t.Run("Request ID Generation", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/render", nil)
		w := httptest.NewRecorder()

		server.GetHandler().ServeHTTP(w, req)

		requestID := w.Header().Get("X-Request-ID")
		assert.NotEmpty(t, requestID, "request id should be generated and returned")
		assert.True(t, len(requestID) > 8, "request id should be sufficiently long")
	})

	t.Run("Request ID Preservation", func(t *testing.T) {
		existingRequestID := "test-request-123"
		req := httptest.NewRequest("GET", "/v1/render", nil)
		req.Header.Set("X-Request-ID", existingRequestID)
		w := httptest.NewRecorder()

		server.GetHandler().ServeHTTP(w, req)

		returnedRequestID := w.Header().Get("X-Request-ID")
		assert.Equal(t, existingRequestID, returnedRequestID, "existing request id should be preserved")
	})
}

func testErrorRateMonitoring(t *testing.T, server *httpPkg.Server) {
	t.Run("404 Error Tracking", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/nonexistent", nil)
		w := httptest.NewRecorder()

		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		metricFamilies, err := prometheus.DefaultGatherer.Gather()
		require.NoError(t, err)

		foundErrorMetrics := false
		for _, mf := range metricFamilies {
			if strings.Contains(mf.GetName(), "errors_total") || strings.Contains(mf.GetName(), "http_requests") {
				foundErrorMetrics = true
				break
			}
		}
		assert.True(t, foundErrorMetrics, "error tracking metrics not found")
	})

	t.Run("Method Not Allowed Error", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/v1/render", nil)
		w := httptest.NewRecorder()

		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

		requestID := w.Header().Get("X-Request-ID")
		assert.NotEmpty(t, requestID, "request id should be present even in error responses")
	})
}

func TestHealthServiceStandalone(t *testing.T) {
	t.Run("Health Service Components", func(t *testing.T) {
		healthService := health.NewHealthService(10 * time.Second)

		resourceChecker := health.NewSystemResourceChecker(90.0, 1500)
		livenessChecker := health.NewLivenessChecker()

		healthService.Register(resourceChecker)
		healthService.Register(livenessChecker)

		ctx := context.Background()

		result, err := healthService.Check(ctx, "system_resources")
		require.NoError(t, err)
		assert.Equal(t, "system_resources", result.Name)
		assert.True(t, result.Status == health.StatusHealthy || result.Status == health.StatusDegraded)

		overallStatus, results := healthService.GetOverallStatus(ctx)
		assert.True(t, overallStatus == health.StatusHealthy || overallStatus == health.StatusDegraded)
		assert.Len(t, results, 2)
	})
}

func TestMetricsCollection(t *testing.T) {
	t.Run("Prometheus Metrics", func(t *testing.T) {
		metrics.RecordRequestDuration(2.5)
		metrics.IncRequestsTotal("success")
		metrics.SetSystemHealthy(true)
		metrics.IncError("validation_error")

		metricFamilies, err := prometheus.DefaultGatherer.Gather()
		require.NoError(t, err)
		assert.True(t, len(metricFamilies) > 0, "should have metrics registered")

		foundExpected := false
		for _, mf := range metricFamilies {
			for _, prefix := range []string{"dispatch_", "go_", "promhttp_"} {
				if strings.HasPrefix(mf.GetName(), prefix) {
					foundExpected = true
				}
			}
		}
		assert.True(t, foundExpected, "should find metrics with expected prefixes")
	})
}
