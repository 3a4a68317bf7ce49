package usecase

import (
	"context"
	"sync"
	"time"

	"TradeMind/internal/domain/models"
	"TradeMind/internal/domain/repository"
	"TradeMind/pkg/config"
	applogger "TradeMind/pkg/logger"
)

// Scheduler drives all four feeds. Periodic feeds (news, trending, market
// overview) are re-evaluated on a fixed tick against wall-clock cadences;
// prediction is fetched only on demand. Every trigger, forced or periodic,
// passes through the store's BeginFetch gate, so a feed never has two
// fetches in flight and a trigger arriving mid-fetch is dropped rather than
// queued. The in-flight request always wins over later ones.
type Scheduler struct {
	backend repository.Backend
	store   *FeedStore
	conn    *Connectivity
	sel     repository.SelectionSource
	metrics repository.Metrics
	log     *applogger.Logger

	cadences map[models.FeedID]time.Duration
	tick     time.Duration
	now      func() time.Time

	onApplied func(models.FeedID)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewScheduler wires the scheduler from config cadences.
func NewScheduler(
	backend repository.Backend,
	store *FeedStore,
	conn *Connectivity,
	sel repository.SelectionSource,
	metrics repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *Scheduler {
	return &Scheduler{
		backend: backend,
		store:   store,
		conn:    conn,
		sel:     sel,
		metrics: metrics,
		log:     log,
		cadences: map[models.FeedID]time.Duration{
			models.FeedNews:           cfg.Feeds.NewsCadence,
			models.FeedTrending:       cfg.Feeds.TrendingCadence,
			models.FeedMarketOverview: cfg.Feeds.MarketOverviewCadence,
		},
		tick: cfg.Feeds.Tick,
		now:  time.Now,
	}
}

// SetOnApplied registers a hook invoked after a fetch result lands in the
// store (used to push updates to websocket subscribers).
func (s *Scheduler) SetOnApplied(fn func(models.FeedID)) {
	s.onApplied = fn
}

// Start launches the periodic tick loop. Safe to call once.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.ctx, s.cancel = context.WithCancel(ctx)
		s.wg.Add(1)
		go s.run()
	})
}

// Stop tears down the tick loop and waits for in-flight fetches to settle.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
	})
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.evaluate()
		}
	}
}

// evaluate dispatches every periodic feed whose cadence has elapsed. A feed
// still fetching when its cadence elapses is skipped this tick; the next
// tick after it settles picks the overdue fetch up exactly once, because
// due-ness is computed from lastFetchStartedAt rather than a counter.
func (s *Scheduler) evaluate() {
	now := s.now()
	for _, feed := range models.PeriodicFeeds() {
		view := s.store.Read(feed)
		if view.InFlight {
			continue
		}
		if !view.LastFetchStartedAt.IsZero() && now.Sub(view.LastFetchStartedAt) < s.cadences[feed] {
			continue
		}
		s.dispatch(feed, "")
	}
}

// Force triggers a refresh for a feed immediately, bypassing cadence but not
// overlap suppression. Returns false when the trigger was dropped because a
// fetch is already outstanding.
func (s *Scheduler) Force(feed models.FeedID) bool {
	return s.dispatch(feed, "")
}

// RequestPrediction is the sole trigger for a prediction fetch. Rapid
// repeated calls collapse into the one outstanding request.
func (s *Scheduler) RequestPrediction(symbol string) bool {
	return s.dispatch(models.FeedPrediction, symbol)
}

func (s *Scheduler) dispatch(feed models.FeedID, symbol string) bool {
	if !s.store.BeginFetch(feed, s.now()) {
		if s.log != nil {
			s.log.Debug("trigger dropped, fetch in flight", applogger.String("feed", string(feed)))
		}
		return false
	}

	s.wg.Add(1)
	go s.fetch(feed, symbol)
	return true
}

func (s *Scheduler) fetch(feed models.FeedID, symbol string) {
	defer s.wg.Done()

	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	sel := s.sel.Selection()
	if symbol == "" {
		symbol = sel.Symbol
	}

	start := s.now()
	var snapshot interface{}
	var ferr *models.FetchError

	switch feed {
	case models.FeedPrediction:
		var snap *models.PredictionSnapshot
		snap, ferr = s.backend.FetchPrediction(ctx, symbol)
		if ferr == nil {
			snapshot = snap
		}
	case models.FeedNews:
		var snap *models.NewsSnapshot
		snap, ferr = s.backend.FetchNews(ctx, sel.NewsCategory)
		if ferr == nil {
			snapshot = snap
		}
	case models.FeedTrending:
		var coins []models.TrendingCoin
		coins, ferr = s.backend.FetchTrending(ctx)
		if ferr == nil {
			snapshot = coins
		}
	case models.FeedMarketOverview:
		var mo *models.MarketOverview
		mo, ferr = s.backend.FetchMarketOverview(ctx)
		if ferr == nil {
			snapshot = mo
		}
	}

	done := s.now()
	s.store.ApplyResult(feed, snapshot, ferr, done)

	// Connectivity is derived from the prediction path only.
	if feed == models.FeedPrediction {
		s.conn.Observe(ferr)
	}

	outcome := "success"
	if ferr != nil {
		outcome = string(ferr.Kind)
	}
	if s.metrics != nil {
		s.metrics.RecordFetch(string(feed), outcome, done.Sub(start).Seconds())
	}

	if s.log != nil {
		if ferr != nil {
			s.log.Warn("feed fetch failed",
				applogger.String("feed", string(feed)),
				applogger.String("kind", string(ferr.Kind)),
				applogger.String("message", ferr.Message),
			)
		} else {
			s.log.Debug("feed fetch applied",
				applogger.String("feed", string(feed)),
				applogger.Duration("duration_ms", done.Sub(start)),
			)
		}
	}

	if s.onApplied != nil {
		s.onApplied(feed)
	}
}
