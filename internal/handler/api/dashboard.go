package api

import (
	"net/http"
	"strings"
	"time"

	"TradeMind/internal/domain/models"
	"TradeMind/internal/service/ratelimit"
	"TradeMind/internal/usecase"
	"TradeMind/pkg/cache"
	"TradeMind/pkg/config"
	xhttp "TradeMind/pkg/http"
	xlogger "TradeMind/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardHandler exposes the read model and the user intents over HTTP.
// Reads never block on the backend: every GET serves whatever the store
// holds right now, and POSTs only dispatch triggers.
type DashboardHandler struct {
	logger    *xlogger.Logger
	collector *xlogger.LogCollector
	dash      *usecase.Dashboard
	store     *usecase.FeedStore
	cache     cache.Service
	rl        *ratelimit.Limiter
	cfg       *config.Config
	started   time.Time
}

func NewDashboardHandler(
	logger *xlogger.Logger,
	collector *xlogger.LogCollector,
	dash *usecase.Dashboard,
	store *usecase.FeedStore,
	cacheSvc cache.Service,
	cfg *config.Config,
) *DashboardHandler {
	return &DashboardHandler{
		logger:    logger,
		collector: collector,
		dash:      dash,
		store:     store,
		cache:     cacheSvc,
		rl:        ratelimit.New(),
		cfg:       cfg,
		started:   time.Now(),
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/dashboard", h.Dashboard)
	g.GET("/news", h.News)
	g.GET("/trending", h.Trending)
	g.GET("/market-overview", h.MarketOverview)
	g.GET("/export/:symbol", h.Export)
	g.GET("/status", h.Status)
	g.POST("/predict", h.Predict)
	g.POST("/symbol", h.Symbol)
	g.POST("/news/category", h.NewsCategory)
	g.POST("/tab", h.Tab)
}

// FeedPayload is the wire form of one feed's state.
type FeedPayload struct {
	Feed        models.FeedID      `json:"feed"`
	Data        interface{}        `json:"data"`
	InFlight    bool               `json:"in_flight"`
	LastError   *models.FetchError `json:"last_error,omitempty"`
	LastUpdated time.Time          `json:"last_updated"`
}

// DashboardPayload is the full read model served on one GET.
type DashboardPayload struct {
	Selection models.Selection              `json:"selection"`
	Online    bool                          `json:"online"`
	Feeds     map[models.FeedID]FeedPayload `json:"feeds"`
	Chart     usecase.ChartSeries           `json:"chart"`
}

func feedPayload(view models.FeedView) FeedPayload {
	return FeedPayload{
		Feed:        view.Feed,
		Data:        view.Snapshot,
		InFlight:    view.InFlight,
		LastError:   view.LastError,
		LastUpdated: view.LastSuccessAt,
	}
}

func (h *DashboardHandler) buildDashboard() DashboardPayload {
	views := h.store.ReadAll()
	feeds := make(map[models.FeedID]FeedPayload, len(views))
	for id, view := range views {
		feeds[id] = feedPayload(view)
	}
	return DashboardPayload{
		Selection: h.dash.Selection(),
		Online:    h.dash.Online(),
		Feeds:     feeds,
		Chart:     usecase.BuildChartSeries(h.store.Prediction()),
	}
}

// Dashboard serves the complete read model. A short cache TTL absorbs
// polling bursts without making updates visibly late.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	key := cache.GenerateKey("dashboard", "full")

	if h.cache != nil && h.cfg.Cache.DashboardTTL > 0 {
		var cached DashboardPayload
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			return xhttp.SuccessResponse(c, cached)
		}
	}

	payload := h.buildDashboard()
	if h.cache != nil && h.cfg.Cache.DashboardTTL > 0 {
		if err := h.cache.Set(ctx, key, payload, h.cfg.Cache.DashboardTTL); err != nil {
			h.logger.Warn("dashboard cache set failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, payload)
}

func (h *DashboardHandler) News(c echo.Context) error {
	return xhttp.SuccessResponse(c, feedPayload(h.store.Read(models.FeedNews)))
}

func (h *DashboardHandler) Trending(c echo.Context) error {
	return xhttp.SuccessResponse(c, feedPayload(h.store.Read(models.FeedTrending)))
}

func (h *DashboardHandler) MarketOverview(c echo.Context) error {
	return xhttp.SuccessResponse(c, feedPayload(h.store.Read(models.FeedMarketOverview)))
}

// Predict dispatches an on-demand prediction fetch. The response reports
// whether the trigger dispatched or collapsed into an in-flight fetch; the
// result itself arrives through the read model.
func (h *DashboardHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.rl.Allow(c.RealIP()+":predict", h.cfg.RateLimit.PredictCapacity, h.cfg.RateLimit.PredictRefill) {
		h.logger.Warn("predict rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many prediction requests"))
	}

	dispatched := h.dash.RequestPrediction(req.Symbol)
	return xhttp.AcceptedResponse(c, map[string]interface{}{
		"symbol":     strings.ToUpper(strings.TrimSpace(req.Symbol)),
		"dispatched": dispatched,
		"feed":       feedPayload(h.store.Read(models.FeedPrediction)),
	})
}

// Symbol records the typed symbol without fetching.
func (h *DashboardHandler) Symbol(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.dash.SetSymbol(req.Symbol)
	return xhttp.SuccessResponse(c, h.dash.Selection())
}

func (h *DashboardHandler) NewsCategory(c echo.Context) error {
	req := &models.NewsCategoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.dash.SetNewsCategory(models.NewsCategory(req.Category)) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("unknown news category"))
	}
	return xhttp.SuccessResponse(c, h.dash.Selection())
}

func (h *DashboardHandler) Tab(c echo.Context) error {
	req := &models.TabRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.dash.SetActiveTab(models.Tab(req.Tab)) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("unknown tab"))
	}
	return xhttp.SuccessResponse(c, h.dash.Selection())
}

// Export downloads the current forecast as CSV. 404 until a prediction for
// the requested symbol has landed; the export never triggers a fetch.
func (h *DashboardHandler) Export(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("symbol required"))
	}

	view := h.store.Read(models.FeedPrediction)
	snap, ok := view.Snapshot.(*models.PredictionSnapshot)
	if !ok || snap == nil || !strings.EqualFold(snap.Symbol, symbol) {
		return xhttp.NotFoundResponse(c, "no prediction available for "+symbol)
	}

	ctx := c.Request().Context()
	// Keyed by the snapshot's success time so a re-fetch invalidates the
	// rendered document without waiting out the TTL.
	key := cache.GenerateKeyWithParams("export", symbol, view.LastSuccessAt.UnixNano())

	var payload string
	if h.cache != nil && h.cfg.Cache.ExportTTL > 0 {
		if err := h.cache.Get(ctx, key, &payload); err != nil {
			payload = ""
		}
	}
	if payload == "" {
		payload = usecase.ExportCSV(usecase.BuildExportPayload(snap))
		if h.cache != nil && h.cfg.Cache.ExportTTL > 0 {
			if err := h.cache.Set(ctx, key, payload, h.cfg.Cache.ExportTTL); err != nil {
				h.logger.Warn("export cache set failed", xlogger.Error(err))
			}
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+usecase.ExportFilename(symbol)+`"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(payload))
}

// FeedStatus is the health view of one feed: when it last succeeded, how
// stale it is, and whether something is wrong with it right now.
type FeedStatus struct {
	InFlight   bool               `json:"in_flight"`
	LastError  *models.FetchError `json:"last_error,omitempty"`
	AgeSeconds float64            `json:"age_seconds"`
}

// StatusPayload reports service health for the header badge and debugging.
type StatusPayload struct {
	Online        bool                         `json:"online"`
	UptimeSeconds float64                      `json:"uptime_seconds"`
	Selection     models.Selection             `json:"selection"`
	Feeds         map[models.FeedID]FeedStatus `json:"feeds"`
	RecentErrors  []xlogger.AggregatedLogEntry `json:"recent_errors"`
}

func (h *DashboardHandler) Status(c echo.Context) error {
	views := h.store.ReadAll()
	feeds := make(map[models.FeedID]FeedStatus, len(views))
	for id, view := range views {
		status := FeedStatus{InFlight: view.InFlight, LastError: view.LastError}
		if view.HasSucceeded() {
			status.AgeSeconds = time.Since(view.LastSuccessAt).Seconds()
		}
		feeds[id] = status
	}

	payload := StatusPayload{
		Online:        h.dash.Online(),
		UptimeSeconds: time.Since(h.started).Seconds(),
		Selection:     h.dash.Selection(),
		Feeds:         feeds,
	}
	if h.collector != nil {
		payload.RecentErrors = h.collector.Recent()
	}
	return xhttp.SuccessResponse(c, payload)
}
