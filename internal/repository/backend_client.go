package repository

import (
	"context"
	"strings"

	"TradeMind/internal/domain/models"
	"TradeMind/pkg/config"
	xhttp "TradeMind/pkg/http"
)

// BackendClient talks to the prediction service over HTTP/JSON. It performs
// exactly one request per call and converts every failure into a typed
// FetchError; state handling belongs to the caller.
type BackendClient struct {
	baseURL string
	client  *xhttp.Client
}

// NewBackendClient builds a client with timeout and base URL from config.
func NewBackendClient(cfg *config.Config) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Backend.Timeout)),
	}
}

type predictResponse struct {
	models.PredictionSnapshot
	Error string `json:"error"`
}

// FetchPrediction requests an analysis for a symbol. The backend answers
// HTTP 200 for domain errors (unknown symbol, not enough data) with an
// `error` field; those map to BackendReported, never to an outage.
func (b *BackendClient) FetchPrediction(ctx context.Context, symbol string) (*models.PredictionSnapshot, *models.FetchError) {
	var resp predictResponse
	if ferr := b.postJSON(ctx, "/predict", map[string]string{"symbol": symbol}, &resp); ferr != nil {
		return nil, ferr
	}
	if resp.Error != "" {
		return nil, models.BackendReported(resp.Error)
	}
	return &resp.PredictionSnapshot, nil
}

type newsResponse struct {
	Success     bool              `json:"success"`
	Error       string            `json:"error"`
	News        []models.NewsItem `json:"news"`
	LastUpdated string            `json:"last_updated"`
}

// FetchNews requests articles for a category. A successful response with
// zero items is a valid snapshot, not an error.
func (b *BackendClient) FetchNews(ctx context.Context, category models.NewsCategory) (*models.NewsSnapshot, *models.FetchError) {
	var resp newsResponse
	if ferr := b.postJSON(ctx, "/news", map[string]string{"category": string(category)}, &resp); ferr != nil {
		return nil, ferr
	}
	if !resp.Success {
		return nil, models.BackendReported(resp.Error)
	}

	items := resp.News
	if items == nil {
		items = []models.NewsItem{}
	}
	return &models.NewsSnapshot{
		Category:    category,
		Items:       items,
		LastUpdated: resp.LastUpdated,
	}, nil
}

type trendingResponse struct {
	Success  bool                  `json:"success"`
	Error    string                `json:"error"`
	Trending []models.TrendingCoin `json:"trending"`
}

// FetchTrending requests the current trending set.
func (b *BackendClient) FetchTrending(ctx context.Context) ([]models.TrendingCoin, *models.FetchError) {
	var resp trendingResponse
	if ferr := b.getJSON(ctx, "/trending", &resp); ferr != nil {
		return nil, ferr
	}
	if !resp.Success {
		return nil, models.BackendReported(resp.Error)
	}
	if resp.Trending == nil {
		resp.Trending = []models.TrendingCoin{}
	}
	return resp.Trending, nil
}

type marketOverviewResponse struct {
	models.MarketOverview
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// FetchMarketOverview requests the aggregate market record.
func (b *BackendClient) FetchMarketOverview(ctx context.Context) (*models.MarketOverview, *models.FetchError) {
	var resp marketOverviewResponse
	if ferr := b.getJSON(ctx, "/market-overview", &resp); ferr != nil {
		return nil, ferr
	}
	if !resp.Success {
		return nil, models.BackendReported(resp.Error)
	}
	return &resp.MarketOverview, nil
}

func (b *BackendClient) postJSON(ctx context.Context, path string, payload interface{}, dest interface{}) *models.FetchError {
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	return classify(err)
}

func (b *BackendClient) getJSON(ctx context.Context, path string, dest interface{}) *models.FetchError {
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    b.baseURL + path,
	}, dest)
	return classify(err)
}

// classify splits transport failures (nothing reached the backend) from
// responses the backend actually produced.
func classify(err error) *models.FetchError {
	if err == nil {
		return nil
	}
	if se, ok := xhttp.IsStatusError(err); ok {
		msg := strings.TrimSpace(string(se.Body))
		if msg == "" {
			msg = se.Error()
		}
		return models.BackendReported(msg)
	}
	return models.NetworkUnreachable(err)
}
