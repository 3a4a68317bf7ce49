package usecase

import (
	"strings"
	"sync"

	"TradeMind/internal/domain/models"
	"TradeMind/pkg/config"
)

// Dashboard owns the user selection (symbol, news category, active tab) and
// translates user intents into scheduler triggers. It is the single writer of
// the selection; the scheduler reads it through the SelectionSource interface
// when parameterizing a fetch.
type Dashboard struct {
	mu    sync.RWMutex
	sel   models.Selection
	sched *Scheduler
	store *FeedStore
	conn  *Connectivity
}

func NewDashboard(cfg *config.Config, store *FeedStore, conn *Connectivity) *Dashboard {
	return &Dashboard{
		sel: models.Selection{
			Symbol:       strings.ToUpper(cfg.Feeds.DefaultSymbol),
			NewsCategory: models.CategoryAll,
			ActiveTab:    models.TabAnalysis,
		},
		store: store,
		conn:  conn,
	}
}

// AttachScheduler breaks the construction cycle: the scheduler needs the
// dashboard as its SelectionSource, and the dashboard needs the scheduler to
// dispatch triggers.
func (d *Dashboard) AttachScheduler(s *Scheduler) {
	d.sched = s
}

// Selection returns a copy of the current selection.
func (d *Dashboard) Selection() models.Selection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sel
}

// SetSymbol records the typed symbol without triggering a fetch. A fetch
// happens only on an explicit RequestPrediction, so typing in the symbol
// field never causes backend traffic.
func (d *Dashboard) SetSymbol(symbol string) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return
	}
	d.mu.Lock()
	d.sel.Symbol = symbol
	d.mu.Unlock()
}

// RequestPrediction commits the symbol and dispatches a prediction fetch.
// Returns false when the trigger was suppressed by an in-flight fetch; the
// earlier request keeps running and its result is the one that lands.
func (d *Dashboard) RequestPrediction(symbol string) bool {
	symbol = normalizeSymbol(symbol)
	d.mu.Lock()
	if symbol == "" {
		symbol = d.sel.Symbol
	} else {
		d.sel.Symbol = symbol
	}
	d.mu.Unlock()

	return d.sched.RequestPrediction(symbol)
}

// SetNewsCategory switches the news category and forces a news refresh. The
// store keeps serving the previous category's items until the new fetch
// lands, so readers never see the list flash empty during the switch.
func (d *Dashboard) SetNewsCategory(category models.NewsCategory) bool {
	if !category.Valid() {
		return false
	}

	d.mu.Lock()
	changed := d.sel.NewsCategory != category
	d.sel.NewsCategory = category
	d.mu.Unlock()

	if changed {
		d.sched.Force(models.FeedNews)
	}
	return true
}

// SetActiveTab records the visible tab. Entering the news tab kicks off an
// immediate fetch for any periodic feed that has never produced a snapshot,
// so a first visit is not stuck waiting for the next cadence boundary.
func (d *Dashboard) SetActiveTab(tab models.Tab) bool {
	if !tab.Valid() {
		return false
	}

	d.mu.Lock()
	d.sel.ActiveTab = tab
	d.mu.Unlock()

	if tab == models.TabNews {
		for _, feed := range models.PeriodicFeeds() {
			if !d.store.Read(feed).HasSucceeded() {
				d.sched.Force(feed)
			}
		}
	}
	return true
}

// Online reports backend reachability as last observed on the prediction path.
func (d *Dashboard) Online() bool {
	return d.conn.Online()
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
