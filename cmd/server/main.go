package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgarridoa/elevator-dispatch/internal/factory"
	httpPkg "github.com/dgarridoa/elevator-dispatch/internal/http"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/config"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/logging"
	"github.com/dgarridoa/elevator-dispatch/internal/infra/observability"
	"github.com/dgarridoa/elevator-dispatch/internal/manager"
)

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		slog.Error("failed to initialize configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.InfoContext(ctx, "elevator dispatch starting up",
		slog.String("environment", cfg.Environment),
		slog.String("log_level", cfg.LogLevel),
		slog.Int("port", cfg.Port),
		slog.Int("n_elevators", cfg.NElevators),
		slog.Int("n_floors", cfg.NFloors),
		slog.Bool("metrics_enabled", cfg.MetricsEnabled),
		slog.Bool("websocket_enabled", cfg.WebSocketEnabled))

	otelCfg, err := observability.LoadConfig()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load observability configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tracerProvider, err := observability.NewTracerProvider(otelCfg, slog.Default())
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize tracer provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dispatchFactory := factory.StandardSystemFactory{}
	system := dispatchFactory.CreateSystem(cfg, slog.With(slog.String("component", "dispatch")))
	elevatorManager := manager.New(system, slog.With(slog.String("component", "manager")), tracerProvider.Tracer())

	port := cfg.Port
	if port <= 0 {
		slog.WarnContext(ctx, "invalid port in configuration, using default",
			slog.Int("configured_port", port), slog.Int("default_port", 6660))
		port = 6660
	}

	server := httpPkg.NewServer(cfg, port, elevatorManager)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "starting HTTP server",
			slog.Int("port", port),
			slog.Duration("read_timeout", cfg.ReadTimeout),
			slog.Duration("write_timeout", cfg.WriteTimeout))

		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	select {
	case err := <-serverErrCh:
		slog.ErrorContext(ctx, "HTTP server failed to start", slog.String("error", err.Error()))
		shutdown(ctx, server, tracerProvider, cfg.ShutdownTimeout)
		os.Exit(1)

	case sig := <-quit:
		slog.InfoContext(ctx, "received shutdown signal", slog.String("signal", sig.String()))
	}

	cancel()
	shutdown(context.Background(), server, tracerProvider, cfg.ShutdownTimeout)
	slog.Info("graceful shutdown completed")
}

func shutdown(ctx context.Context, server *httpPkg.Server, tracerProvider *observability.TracerProvider, timeout time.Duration) {
	if err := server.Shutdown(); err != nil {
		slog.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		slog.Error("tracer provider shutdown failed", slog.String("error", err.Error()))
	}
}
