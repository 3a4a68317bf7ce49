package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TradeMind/internal/domain/models"
	"TradeMind/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*BackendClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Backend.BaseURL = srv.URL
	cfg.Backend.Timeout = 2 * time.Second
	return NewBackendClient(cfg), srv
}

func TestFetchPredictionSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["symbol"] != "BTC-USD" {
			t.Errorf("unexpected symbol %q", body["symbol"])
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"symbol":        "BTC-USD",
			"current_price": 42000.5,
			"signal":        "BUY",
			"signal_color":  "green",
			"rsi":           35.2,
			"forecast_7_days": []map[string]interface{}{
				{"date": "2024-01-01", "price": 42000.5},
			},
		})
	}))

	snap, ferr := client.FetchPrediction(context.Background(), "BTC-USD")
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if snap.Symbol != "BTC-USD" || snap.CurrentPrice != 42000.5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if len(snap.Forecast) != 1 || snap.Forecast[0].Date != "2024-01-01" {
		t.Fatalf("unexpected forecast %+v", snap.Forecast)
	}
}

func TestFetchPredictionBackendError(t *testing.T) {
	// HTTP 200 carrying a domain error must classify as BackendReported.
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "symbol not found"})
	}))

	_, ferr := client.FetchPrediction(context.Background(), "ZZZZ-INVALID")
	if ferr == nil {
		t.Fatalf("expected error")
	}
	if ferr.Kind != models.ErrKindBackendReported {
		t.Fatalf("expected backend error, got %v", ferr.Kind)
	}
	if ferr.Message != "symbol not found" {
		t.Fatalf("unexpected message %q", ferr.Message)
	}
}

func TestFetchPredictionNetworkUnreachable(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, ferr := client.FetchPrediction(context.Background(), "BTC-USD")
	if ferr == nil {
		t.Fatalf("expected error")
	}
	if ferr.Kind != models.ErrKindNetworkUnreachable {
		t.Fatalf("expected network error, got %v", ferr.Kind)
	}
}

func TestFetchPredictionNon2xxIsBackendReported(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal failure", http.StatusInternalServerError)
	}))

	_, ferr := client.FetchPrediction(context.Background(), "BTC-USD")
	if ferr == nil {
		t.Fatalf("expected error")
	}
	if ferr.Kind != models.ErrKindBackendReported {
		t.Fatalf("a served 500 means the backend is reachable, got %v", ferr.Kind)
	}
}

func TestFetchNewsSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"news": []map[string]string{
				{"title": "BTC rallies", "source": "CoinDesk", "category": "crypto"},
			},
			"last_updated": "2024-01-01 10:00:00",
		})
	}))

	snap, ferr := client.FetchNews(context.Background(), models.CategoryCrypto)
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if snap.Category != models.CategoryCrypto {
		t.Fatalf("unexpected category %q", snap.Category)
	}
	if len(snap.Items) != 1 || snap.Items[0].Title != "BTC rallies" {
		t.Fatalf("unexpected items %+v", snap.Items)
	}
}

func TestFetchNewsEmptyIsNotError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "news": []interface{}{}})
	}))

	snap, ferr := client.FetchNews(context.Background(), models.CategoryGold)
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if !snap.Empty() {
		t.Fatalf("expected empty snapshot")
	}
	if snap.Items == nil {
		t.Fatalf("items must be an empty slice, not nil")
	}
}

func TestFetchNewsFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "feed unavailable"})
	}))

	_, ferr := client.FetchNews(context.Background(), models.CategoryAll)
	if ferr == nil || ferr.Kind != models.ErrKindBackendReported {
		t.Fatalf("expected backend error, got %v", ferr)
	}
}

func TestFetchTrending(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/trending" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"trending": []map[string]interface{}{
				{"symbol": "SOL", "name": "Solana", "market_cap_rank": 5},
			},
		})
	}))

	coins, ferr := client.FetchTrending(context.Background())
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if len(coins) != 1 || coins[0].Symbol != "SOL" || coins[0].MarketCapRank != 5 {
		t.Fatalf("unexpected coins %+v", coins)
	}
}

func TestFetchMarketOverview(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":               true,
			"total_market_cap":      3.2e12,
			"total_volume":          1.5e11,
			"market_cap_change_24h": -1.2,
			"btc_dominance":         52.3,
			"eth_dominance":         17.1,
		})
	}))

	mo, ferr := client.FetchMarketOverview(context.Background())
	if ferr != nil {
		t.Fatalf("unexpected error: %v", ferr)
	}
	if mo.TotalMarketCap != 3.2e12 || mo.BTCDominance != 52.3 {
		t.Fatalf("unexpected overview %+v", mo)
	}
	if mo.MarketCapChange24h != -1.2 {
		t.Fatalf("unexpected change %v", mo.MarketCapChange24h)
	}
}
