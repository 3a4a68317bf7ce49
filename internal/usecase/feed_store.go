package usecase

import (
	"sync"
	"time"

	"TradeMind/internal/domain/models"
	"TradeMind/internal/domain/repository"
)

// FeedStore owns the per-feed state records. All transitions go through it
// under one lock, so a reader never observes a half-applied update and the
// in-flight flag doubles as the overlap-suppression gate.
type FeedStore struct {
	mu      sync.RWMutex
	feeds   map[models.FeedID]*feedRecord
	metrics repository.Metrics
}

type feedRecord struct {
	snapshot           interface{}
	inFlight           bool
	lastError          *models.FetchError
	lastFetchStartedAt time.Time
	lastSuccessAt      time.Time
}

// NewFeedStore creates records for every feed with nil snapshots.
func NewFeedStore(metrics repository.Metrics) *FeedStore {
	feeds := make(map[models.FeedID]*feedRecord, len(models.AllFeeds()))
	for _, id := range models.AllFeeds() {
		feeds[id] = &feedRecord{}
	}
	return &FeedStore{feeds: feeds, metrics: metrics}
}

// BeginFetch atomically transitions a feed to in-flight. It returns false
// while a fetch is already outstanding; callers must drop the trigger, not
// queue it.
func (s *FeedStore) BeginFetch(id models.FeedID, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.feeds[id]
	if !ok || rec.inFlight {
		return false
	}
	rec.inFlight = true
	rec.lastFetchStartedAt = now

	if s.metrics != nil {
		s.metrics.RecordInFlight(string(id), true)
	}
	return true
}

// ApplyResult completes the in-flight fetch. On success the snapshot is
// replaced and the error cleared; on failure the previous snapshot is kept
// untouched so stale-but-available data survives a failed refresh.
func (s *FeedStore) ApplyResult(id models.FeedID, snapshot interface{}, ferr *models.FetchError, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.feeds[id]
	if !ok {
		return
	}
	rec.inFlight = false

	if ferr != nil {
		rec.lastError = ferr
	} else {
		rec.snapshot = snapshot
		rec.lastError = nil
		rec.lastSuccessAt = now
	}

	if s.metrics != nil {
		s.metrics.RecordInFlight(string(id), false)
		if !rec.lastSuccessAt.IsZero() {
			s.metrics.RecordSnapshotAge(string(id), now.Sub(rec.lastSuccessAt).Seconds())
		}
	}
}

// Read returns a consistent copy of one feed's state.
func (s *FeedStore) Read(id models.FeedID) models.FeedView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked(id)
}

// ReadAll returns a consistent copy of every feed's state, taken under a
// single lock acquisition.
func (s *FeedStore) ReadAll() map[models.FeedID]models.FeedView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make(map[models.FeedID]models.FeedView, len(s.feeds))
	for id := range s.feeds {
		views[id] = s.viewLocked(id)
	}
	return views
}

func (s *FeedStore) viewLocked(id models.FeedID) models.FeedView {
	rec, ok := s.feeds[id]
	if !ok {
		return models.FeedView{Feed: id}
	}
	return models.FeedView{
		Feed:               id,
		Snapshot:           rec.snapshot,
		InFlight:           rec.inFlight,
		LastError:          rec.lastError,
		LastFetchStartedAt: rec.lastFetchStartedAt,
		LastSuccessAt:      rec.lastSuccessAt,
	}
}

// Prediction returns the typed prediction snapshot, nil before first success.
func (s *FeedStore) Prediction() *models.PredictionSnapshot {
	if snap, ok := s.Read(models.FeedPrediction).Snapshot.(*models.PredictionSnapshot); ok {
		return snap
	}
	return nil
}

// News returns the typed news snapshot, nil before first success.
func (s *FeedStore) News() *models.NewsSnapshot {
	if snap, ok := s.Read(models.FeedNews).Snapshot.(*models.NewsSnapshot); ok {
		return snap
	}
	return nil
}

// Trending returns the typed trending set, nil before first success.
func (s *FeedStore) Trending() []models.TrendingCoin {
	if coins, ok := s.Read(models.FeedTrending).Snapshot.([]models.TrendingCoin); ok {
		return coins
	}
	return nil
}

// MarketOverview returns the typed aggregate record, nil before first success.
func (s *FeedStore) MarketOverview() *models.MarketOverview {
	if mo, ok := s.Read(models.FeedMarketOverview).Snapshot.(*models.MarketOverview); ok {
		return mo
	}
	return nil
}
