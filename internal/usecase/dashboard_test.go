package usecase

import (
	"testing"

	"TradeMind/internal/domain/models"
)

func TestDashboardDefaults(t *testing.T) {
	r := newRig(t)

	sel := r.dash.Selection()
	if sel.Symbol != "BTC-USD" {
		t.Fatalf("expected default symbol BTC-USD, got %q", sel.Symbol)
	}
	if sel.NewsCategory != models.CategoryAll {
		t.Fatalf("expected default category all, got %q", sel.NewsCategory)
	}
	if sel.ActiveTab != models.TabAnalysis {
		t.Fatalf("expected default tab analysis, got %q", sel.ActiveTab)
	}
}

func TestSetSymbolDoesNotFetch(t *testing.T) {
	r := newRig(t)

	r.dash.SetSymbol("eth-usd")
	r.dash.SetSymbol("sol-usd")

	if got := r.dash.Selection().Symbol; got != "SOL-USD" {
		t.Fatalf("expected symbol normalized to SOL-USD, got %q", got)
	}
	if got := r.backend.callCount(models.FeedPrediction); got != 0 {
		t.Fatalf("typing a symbol must not trigger a fetch, got %d calls", got)
	}
}

func TestSetSymbolIgnoresBlank(t *testing.T) {
	r := newRig(t)

	r.dash.SetSymbol("   ")
	if got := r.dash.Selection().Symbol; got != "BTC-USD" {
		t.Fatalf("blank input must keep the current symbol, got %q", got)
	}
}

func TestRequestPredictionCommitsSymbol(t *testing.T) {
	r := newRig(t)

	if !r.dash.RequestPrediction("eth-usd") {
		t.Fatalf("expected the request to dispatch")
	}
	r.await(t, models.FeedPrediction)

	if got := r.dash.Selection().Symbol; got != "ETH-USD" {
		t.Fatalf("expected selection committed to ETH-USD, got %q", got)
	}
	snap := r.store.Prediction()
	if snap == nil || snap.Symbol != "ETH-USD" {
		t.Fatalf("expected prediction for ETH-USD, got %+v", snap)
	}
}

func TestRequestPredictionEmptyUsesSelection(t *testing.T) {
	r := newRig(t)

	r.dash.SetSymbol("ltc-usd")
	if !r.dash.RequestPrediction("") {
		t.Fatalf("expected the request to dispatch")
	}
	r.await(t, models.FeedPrediction)

	snap := r.store.Prediction()
	if snap == nil || snap.Symbol != "LTC-USD" {
		t.Fatalf("expected the committed selection to be fetched, got %+v", snap)
	}
}

func TestSetNewsCategoryRejectsUnknown(t *testing.T) {
	r := newRig(t)

	if r.dash.SetNewsCategory(models.NewsCategory("sports")) {
		t.Fatalf("unknown category must be rejected")
	}
	if got := r.dash.Selection().NewsCategory; got != models.CategoryAll {
		t.Fatalf("selection must be unchanged after a rejected category, got %q", got)
	}
}

func TestSetNewsCategoryForcesRefresh(t *testing.T) {
	r := newRig(t)

	if !r.dash.SetNewsCategory(models.CategoryCrypto) {
		t.Fatalf("valid category must be accepted")
	}
	r.await(t, models.FeedNews)

	snap := r.store.News()
	if snap == nil || snap.Category != models.CategoryCrypto {
		t.Fatalf("expected a crypto news snapshot, got %+v", snap)
	}

	// Re-selecting the current category is a no-op.
	r.dash.SetNewsCategory(models.CategoryCrypto)
	if got := r.backend.callCount(models.FeedNews); got != 1 {
		t.Fatalf("re-selecting the same category must not refetch, got %d calls", got)
	}
}

func TestCategorySwitchKeepsPreviousItems(t *testing.T) {
	r := newRig(t)

	r.sched.Force(models.FeedNews)
	r.await(t, models.FeedNews)

	// Hold the category-switch fetch open and confirm the prior category's
	// items are still served in the meantime.
	r.backend.gate(models.FeedNews)
	r.dash.SetNewsCategory(models.CategoryGold)

	snap := r.store.News()
	if snap == nil || len(snap.Items) == 0 {
		t.Fatalf("the previous snapshot must stay visible during the switch, got %+v", snap)
	}
	if snap.Category != models.CategoryAll {
		t.Fatalf("expected the pre-switch snapshot, got category %q", snap.Category)
	}

	r.backend.release(models.FeedNews)
	r.await(t, models.FeedNews)

	snap = r.store.News()
	if snap == nil || snap.Category != models.CategoryGold {
		t.Fatalf("expected the replacement snapshot after the fetch, got %+v", snap)
	}
}

func TestSetActiveTabTriggersInitialFetches(t *testing.T) {
	r := newRig(t)

	if !r.dash.SetActiveTab(models.TabNews) {
		t.Fatalf("valid tab must be accepted")
	}
	r.awaitN(t, len(models.PeriodicFeeds()))

	for _, feed := range models.PeriodicFeeds() {
		if got := r.backend.callCount(feed); got != 1 {
			t.Fatalf("feed %s: expected an initial fetch on first tab visit, got %d calls", feed, got)
		}
	}

	// A second visit finds snapshots in place and stays quiet.
	r.dash.SetActiveTab(models.TabAnalysis)
	r.dash.SetActiveTab(models.TabNews)
	for _, feed := range models.PeriodicFeeds() {
		if got := r.backend.callCount(feed); got != 1 {
			t.Fatalf("feed %s: repeat tab visits must not refetch, got %d calls", feed, got)
		}
	}
}

func TestSetActiveTabRejectsUnknown(t *testing.T) {
	r := newRig(t)
	if r.dash.SetActiveTab(models.Tab("settings")) {
		t.Fatalf("unknown tab must be rejected")
	}
}
