package models

import "time"

// FeedID identifies one independently scheduled backend data source.
type FeedID string

const (
	FeedPrediction     FeedID = "prediction"
	FeedNews           FeedID = "news"
	FeedTrending       FeedID = "trending"
	FeedMarketOverview FeedID = "market_overview"
)

// AllFeeds lists every feed in a stable order.
func AllFeeds() []FeedID {
	return []FeedID{FeedPrediction, FeedNews, FeedTrending, FeedMarketOverview}
}

// PeriodicFeeds lists the feeds driven by a cadence timer. Prediction is
// demand-driven only and deliberately absent.
func PeriodicFeeds() []FeedID {
	return []FeedID{FeedNews, FeedTrending, FeedMarketOverview}
}

// ErrorKind classifies fetch failures. The distinction drives connectivity:
// a reachable backend answering with a domain error must not read as an
// outage.
type ErrorKind string

const (
	ErrKindNetworkUnreachable ErrorKind = "network_unreachable"
	ErrKindBackendReported    ErrorKind = "backend_error"
)

// FetchError is the uniform failure result of a backend fetch.
type FetchError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *FetchError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// NetworkUnreachable wraps a transport-level failure (no response arrived).
func NetworkUnreachable(err error) *FetchError {
	msg := "backend offline"
	if err != nil {
		msg = err.Error()
	}
	return &FetchError{Kind: ErrKindNetworkUnreachable, Message: msg}
}

// BackendReported wraps a domain error the backend answered with.
func BackendReported(message string) *FetchError {
	if message == "" {
		message = "backend reported an error"
	}
	return &FetchError{Kind: ErrKindBackendReported, Message: message}
}

// NewsCategory is the user-selectable news filter.
type NewsCategory string

const (
	CategoryAll    NewsCategory = "all"
	CategoryCrypto NewsCategory = "crypto"
	CategoryStocks NewsCategory = "stocks"
	CategoryGold   NewsCategory = "gold"
)

func (c NewsCategory) Valid() bool {
	switch c {
	case CategoryAll, CategoryCrypto, CategoryStocks, CategoryGold:
		return true
	}
	return false
}

// Tab is the active dashboard view.
type Tab string

const (
	TabAnalysis Tab = "analysis"
	TabNews     Tab = "news"
)

func (t Tab) Valid() bool {
	return t == TabAnalysis || t == TabNews
}

// Selection holds the user-chosen parameters the scheduler reads when
// deciding which parameterized fetch to issue.
type Selection struct {
	Symbol       string       `json:"symbol"`
	NewsCategory NewsCategory `json:"news_category"`
	ActiveTab    Tab          `json:"active_tab"`
}

// FeedView is a point-in-time copy of one feed's state. Snapshot is nil
// until the first successful fetch and survives later failures.
type FeedView struct {
	Feed               FeedID      `json:"feed"`
	Snapshot           interface{} `json:"snapshot"`
	InFlight           bool        `json:"in_flight"`
	LastError          *FetchError `json:"last_error,omitempty"`
	LastFetchStartedAt time.Time   `json:"last_fetch_started_at"`
	LastSuccessAt      time.Time   `json:"last_success_at"`
}

// HasSucceeded reports whether the feed ever completed a fetch.
func (v FeedView) HasSucceeded() bool {
	return !v.LastSuccessAt.IsZero()
}
