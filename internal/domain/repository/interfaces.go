package repository

import (
	"context"

	"TradeMind/internal/domain/models"
)

// Backend issues one logical call per invocation against the prediction
// service. No internal retry; every failure is normalized to *FetchError so
// the scheduler can store it verbatim. Implementations must be safe for
// concurrent use across feeds.
type Backend interface {
	FetchPrediction(ctx context.Context, symbol string) (*models.PredictionSnapshot, *models.FetchError)
	FetchNews(ctx context.Context, category models.NewsCategory) (*models.NewsSnapshot, *models.FetchError)
	FetchTrending(ctx context.Context) ([]models.TrendingCoin, *models.FetchError)
	FetchMarketOverview(ctx context.Context) (*models.MarketOverview, *models.FetchError)
}

// Metrics records feed activity for observability.
type Metrics interface {
	RecordFetch(feed, outcome string, seconds float64)
	RecordInFlight(feed string, inFlight bool)
	RecordSnapshotAge(feed string, seconds float64)
	RecordConnectivity(online bool)
}

// SelectionSource exposes the current user selection to the scheduler so
// periodic fetches are parameterized by what the user is looking at.
type SelectionSource interface {
	Selection() models.Selection
}
