package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"TradeMind/internal/handler/ws"
	"TradeMind/internal/usecase"
	"TradeMind/pkg/cache"
	"TradeMind/pkg/config"
	xhttp "TradeMind/pkg/http"
	applogger "TradeMind/pkg/logger"
)

// App encapsulates the application lifecycle: the feed scheduler, the HTTP
// server, and the websocket hub, started together and torn down in reverse
// order on a shutdown signal.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	collector *applogger.LogCollector
	sched     *usecase.Scheduler
	hub       *ws.Hub
	cacheSvc  cache.Service
	handler   xhttp.Handler

	httpServer *xhttp.Server
}

// New assembles the application from its wired dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *applogger.LogCollector,
	sched *usecase.Scheduler,
	hub *ws.Hub,
	cacheSvc cache.Service,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		sched:     sched,
		hub:       hub,
		cacheSvc:  cacheSvc,
		handler:   handler,
	}
}

// Run starts the scheduler and HTTP server, then blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	if a.hub != nil {
		a.hub.RegisterRoutes(a.httpServer.Echo())
		a.sched.SetOnApplied(a.hub.Broadcast)
	}

	// Periodic feeds are due immediately on the first tick, so the
	// dashboard fills without waiting out a cadence.
	a.sched.Start(ctx)
	a.logger.Info("feed scheduler started",
		applogger.Duration("tick", a.cfg.Feeds.Tick),
		applogger.String("backend", a.cfg.Backend.BaseURL),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) error {
	a.sched.Stop()
	a.logger.Info("feed scheduler stopped")

	if a.hub != nil {
		a.hub.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.collector != nil {
		a.collector.Close()
	}

	a.logger.Info("shutdown complete")
	return nil
}
