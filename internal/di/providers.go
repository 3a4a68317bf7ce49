package di

import (
	"fmt"
	"time"

	"TradeMind/internal/domain/repository"
	"TradeMind/internal/handler/api"
	"TradeMind/internal/handler/ws"
	internalrepo "TradeMind/internal/repository"
	"TradeMind/internal/usecase"
	"TradeMind/pkg/cache"
	"TradeMind/pkg/config"
	xhttp "TradeMind/pkg/http"
	applogger "TradeMind/pkg/logger"
	"TradeMind/pkg/metrics"
	"TradeMind/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideLogCollector attaches the in-memory warn/error aggregator that
// feeds the status endpoint.
func ProvideLogCollector(l *applogger.Logger) *applogger.LogCollector {
	return l.AddCollector(&applogger.CollectionConfig{
		Retention: 15 * time.Minute,
		MaxUnique: 100,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBackend creates the HTTP client for the prediction service.
func ProvideBackend(cfg *config.Config) repository.Backend {
	return internalrepo.NewBackendClient(cfg)
}

// ProvideFeedStore creates the shared feed state store.
func ProvideFeedStore(m repository.Metrics) *usecase.FeedStore {
	return usecase.NewFeedStore(m)
}

// ProvideConnectivity creates the backend reachability tracker.
func ProvideConnectivity(m repository.Metrics) *usecase.Connectivity {
	return usecase.NewConnectivity(m)
}

// ProvideDashboard creates the selection controller.
func ProvideDashboard(cfg *config.Config, store *usecase.FeedStore, conn *usecase.Connectivity) *usecase.Dashboard {
	return usecase.NewDashboard(cfg, store, conn)
}

// ProvideScheduler creates the feed scheduler and closes the loop back to
// the dashboard so user intents can dispatch fetches.
func ProvideScheduler(
	backend repository.Backend,
	store *usecase.FeedStore,
	conn *usecase.Connectivity,
	dash *usecase.Dashboard,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Scheduler {
	sched := usecase.NewScheduler(backend, store, conn, dash, m, l, cfg)
	dash.AttachScheduler(sched)
	return sched
}

// ProvideCache creates the response cache: Redis-backed with an in-process
// L1 when Redis is configured, in-process only otherwise.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis cache connected", applogger.String("host", cfg.Cache.Redis.Host))
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideHub creates the websocket push hub.
func ProvideHub(l *applogger.Logger, store *usecase.FeedStore, dash *usecase.Dashboard) *ws.Hub {
	return ws.NewHub(l, store, dash)
}

// ProvideHandler creates the REST handler.
func ProvideHandler(
	l *applogger.Logger,
	collector *applogger.LogCollector,
	dash *usecase.Dashboard,
	store *usecase.FeedStore,
	cacheSvc cache.Service,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewDashboardHandler(l, collector, dash, store, cacheSvc, cfg)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *applogger.LogCollector,
	sched *usecase.Scheduler,
	hub *ws.Hub,
	cacheSvc cache.Service,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, collector, sched, hub, cacheSvc, handler)
}
