package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TradeMind/internal/domain/models"
	"TradeMind/internal/usecase"
	"TradeMind/pkg/cache"
	"TradeMind/pkg/config"
	xlogger "TradeMind/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubBackend struct{}

func (stubBackend) FetchPrediction(_ context.Context, symbol string) (*models.PredictionSnapshot, *models.FetchError) {
	return &models.PredictionSnapshot{
		Symbol:       symbol,
		CurrentPrice: 42000.5,
		Forecast: []models.ForecastPoint{
			{Date: "2024-01-01", Price: 42000.5},
			{Date: "2024-01-02", Price: 42500},
		},
	}, nil
}

func (stubBackend) FetchNews(_ context.Context, category models.NewsCategory) (*models.NewsSnapshot, *models.FetchError) {
	return &models.NewsSnapshot{Category: category, Items: []models.NewsItem{{Title: "headline"}}}, nil
}

func (stubBackend) FetchTrending(_ context.Context) ([]models.TrendingCoin, *models.FetchError) {
	return []models.TrendingCoin{{Symbol: "BTC"}}, nil
}

func (stubBackend) FetchMarketOverview(_ context.Context) (*models.MarketOverview, *models.FetchError) {
	return &models.MarketOverview{BTCDominance: 52.1}, nil
}

type testEnv struct {
	e       *echo.Echo
	store   *usecase.FeedStore
	dash    *usecase.Dashboard
	applied chan models.FeedID
}

func newTestEnv(t *testing.T, mutate func(cfg *config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Feeds.Tick = time.Second
	cfg.Feeds.NewsCadence = 5 * time.Minute
	cfg.Feeds.TrendingCadence = time.Minute
	cfg.Feeds.MarketOverviewCadence = time.Minute
	cfg.Feeds.DefaultSymbol = "BTC-USD"
	cfg.RateLimit.PredictCapacity = 10
	cfg.RateLimit.PredictRefill = 10
	if mutate != nil {
		mutate(cfg)
	}

	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	store := usecase.NewFeedStore(nil)
	conn := usecase.NewConnectivity(nil)
	dash := usecase.NewDashboard(cfg, store, conn)
	sched := usecase.NewScheduler(stubBackend{}, store, conn, dash, nil, log, cfg)
	dash.AttachScheduler(sched)

	applied := make(chan models.FeedID, 32)
	sched.SetOnApplied(func(feed models.FeedID) { applied <- feed })

	var cacheSvc cache.Service
	if cfg.Cache.DashboardTTL > 0 || cfg.Cache.ExportTTL > 0 {
		cacheSvc = cache.NewMemoryCache()
	}

	h := NewDashboardHandler(log, nil, dash, store, cacheSvc, cfg)
	e := echo.New()
	h.RegisterRoutes(e)

	return &testEnv{e: e, store: store, dash: dash, applied: applied}
}

func (env *testEnv) await(t *testing.T, want models.FeedID) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case feed := <-env.applied:
			if feed == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s to apply", want)
		}
	}
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (env *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var env2 envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.Unmarshal(rec.Body.Bytes(), &env2); err != nil {
			t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec, env2
}

func TestPredictEndpointDispatches(t *testing.T) {
	env := newTestEnv(t, nil)

	_, resp := env.do(t, http.MethodPost, "/api/predict", `{"symbol":"eth-usd"}`)
	if resp.Status != http.StatusAccepted {
		t.Fatalf("expected 202 envelope, got %d (%s)", resp.Status, resp.Message)
	}
	env.await(t, models.FeedPrediction)

	snap := env.store.Prediction()
	if snap == nil || snap.Symbol != "ETH-USD" {
		t.Fatalf("expected a prediction for ETH-USD, got %+v", snap)
	}
}

func TestPredictEndpointValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	_, resp := env.do(t, http.MethodPost, "/api/predict", `{}`)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("missing symbol must be rejected, got %d", resp.Status)
	}
}

func TestPredictEndpointRateLimit(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.RateLimit.PredictCapacity = 2
		cfg.RateLimit.PredictRefill = 0.001
	})

	for i := 0; i < 2; i++ {
		_, resp := env.do(t, http.MethodPost, "/api/predict", `{"symbol":"BTC-USD"}`)
		if resp.Status != http.StatusAccepted {
			t.Fatalf("request %d should pass the limiter, got %d", i+1, resp.Status)
		}
		env.await(t, models.FeedPrediction)
	}

	_, resp := env.do(t, http.MethodPost, "/api/predict", `{"symbol":"BTC-USD"}`)
	if resp.Status != http.StatusTooManyRequests {
		t.Fatalf("expected 429 envelope after the bucket drains, got %d", resp.Status)
	}
}

func TestNewsCategoryEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	_, resp := env.do(t, http.MethodPost, "/api/news/category", `{"category":"crypto"}`)
	if resp.Status != http.StatusOK {
		t.Fatalf("valid category rejected: %d", resp.Status)
	}
	env.await(t, models.FeedNews)

	if got := env.dash.Selection().NewsCategory; got != models.CategoryCrypto {
		t.Fatalf("expected selection crypto, got %q", got)
	}

	_, resp = env.do(t, http.MethodPost, "/api/news/category", `{"category":"sports"}`)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("unknown category must be rejected, got %d", resp.Status)
	}
}

func TestTabEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	_, resp := env.do(t, http.MethodPost, "/api/tab", `{"tab":"news"}`)
	if resp.Status != http.StatusOK {
		t.Fatalf("valid tab rejected: %d", resp.Status)
	}
	if got := env.dash.Selection().ActiveTab; got != models.TabNews {
		t.Fatalf("expected active tab news, got %q", got)
	}

	_, resp = env.do(t, http.MethodPost, "/api/tab", `{"tab":"settings"}`)
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("unknown tab must be rejected, got %d", resp.Status)
	}
}

func TestSymbolEndpointDoesNotFetch(t *testing.T) {
	env := newTestEnv(t, nil)

	_, resp := env.do(t, http.MethodPost, "/api/symbol", `{"symbol":"sol-usd"}`)
	if resp.Status != http.StatusOK {
		t.Fatalf("symbol update rejected: %d", resp.Status)
	}
	if got := env.dash.Selection().Symbol; got != "SOL-USD" {
		t.Fatalf("expected SOL-USD, got %q", got)
	}
	if env.store.Prediction() != nil {
		t.Fatalf("typing a symbol must not fetch")
	}
}

func TestDashboardEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	env.do(t, http.MethodPost, "/api/predict", `{"symbol":"BTC-USD"}`)
	env.await(t, models.FeedPrediction)

	_, resp := env.do(t, http.MethodGet, "/api/dashboard", "")
	if resp.Status != http.StatusOK {
		t.Fatalf("dashboard read failed: %d", resp.Status)
	}

	var payload DashboardPayload
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("decode dashboard payload: %v", err)
	}
	if !payload.Online {
		t.Fatalf("expected online after a successful prediction")
	}
	if payload.Selection.Symbol != "BTC-USD" {
		t.Fatalf("unexpected selection %+v", payload.Selection)
	}
	if len(payload.Feeds) != len(models.AllFeeds()) {
		t.Fatalf("expected %d feeds, got %d", len(models.AllFeeds()), len(payload.Feeds))
	}
}

func TestExportEndpoint(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.Cache.ExportTTL = time.Minute
	})

	// Nothing to export before a prediction lands.
	_, resp := env.do(t, http.MethodGet, "/api/export/ETH-USD", "")
	if resp.Status != http.StatusNotFound {
		t.Fatalf("export before any prediction must 404, got %d", resp.Status)
	}

	env.do(t, http.MethodPost, "/api/predict", `{"symbol":"ETH-USD"}`)
	env.await(t, models.FeedPrediction)

	rec, _ := env.do(t, http.MethodGet, "/api/export/eth-usd", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export failed: %d", rec.Code)
	}
	want := "Date,Price\n2024-01-01,42000.5\n2024-01-02,42500"
	if rec.Body.String() != want {
		t.Fatalf("unexpected CSV body:\n got: %q\nwant: %q", rec.Body.String(), want)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); cd != `attachment; filename="ETH-USD_prediction.csv"` {
		t.Fatalf("unexpected content disposition %q", cd)
	}

	// The cached render serves byte-identical output.
	rec, _ = env.do(t, http.MethodGet, "/api/export/ETH-USD", "")
	if rec.Body.String() != want {
		t.Fatalf("cached export differs: %q", rec.Body.String())
	}

	// A symbol other than the current snapshot's has nothing to export.
	_, resp = env.do(t, http.MethodGet, "/api/export/DOGE-USD", "")
	if resp.Status != http.StatusNotFound {
		t.Fatalf("mismatched symbol must 404, got %d", resp.Status)
	}
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	_, resp := env.do(t, http.MethodGet, "/api/status", "")
	if resp.Status != http.StatusOK {
		t.Fatalf("status read failed: %d", resp.Status)
	}

	var payload StatusPayload
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("decode status payload: %v", err)
	}
	if !payload.Online {
		t.Fatalf("expected online at startup")
	}
	if payload.UptimeSeconds < 0 {
		t.Fatalf("negative uptime %f", payload.UptimeSeconds)
	}
}
