package models

// ForecastPoint is one predicted day in the 7-day forecast.
type ForecastPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Candle is one OHLC bar keyed by epoch milliseconds, in the shape the
// charting layer consumes directly.
type Candle struct {
	X int64      `json:"x"`
	Y [4]float64 `json:"y"` // open, high, low, close
}

// LinePoint is one moving-average sample keyed by epoch milliseconds.
type LinePoint struct {
	X int64   `json:"x"`
	Y float64 `json:"y"`
}

// ChartData carries the candle and moving-average series computed by the
// prediction backend. Treated as opaque and immutable once received.
type ChartData struct {
	Candles []Candle    `json:"candles"`
	SMA     []LinePoint `json:"sma"`
	EMA     []LinePoint `json:"ema"`
}

// PredictionSnapshot is the full analysis result for one symbol.
type PredictionSnapshot struct {
	Symbol       string          `json:"symbol"`
	CurrentPrice float64         `json:"current_price"`
	Signal       string          `json:"signal"`
	SignalColor  string          `json:"signal_color"`
	RSI          float64         `json:"rsi"`
	Volatility   float64         `json:"volatility"`
	Volume       float64         `json:"volume"`
	DayHigh      float64         `json:"day_high"`
	DayLow       float64         `json:"day_low"`
	Difference   float64         `json:"difference"`
	ChartData    ChartData       `json:"chart_data"`
	Forecast     []ForecastPoint `json:"forecast_7_days"`
}

// NewsItem is a single article. Backend ordering is preserved because the
// presentation layer uses it for display order.
type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Category    string `json:"category"`
	Published   string `json:"published"`
	Image       string `json:"image,omitempty"`
}

// NewsSnapshot is the result of one news fetch for a category.
type NewsSnapshot struct {
	Category    NewsCategory `json:"category"`
	Items       []NewsItem   `json:"items"`
	LastUpdated string       `json:"last_updated"`
}

// Empty reports the success-with-zero-items state, displayed distinctly
// from an error.
func (s *NewsSnapshot) Empty() bool {
	return s != nil && len(s.Items) == 0
}

// TrendingCoin is one entry of the trending set, replaced wholesale on each
// successful fetch.
type TrendingCoin struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Thumb         string  `json:"thumb"`
	MarketCapRank int     `json:"market_cap_rank"`
	PriceBTC      float64 `json:"price_btc"`
}

// MarketOverview is the single most-recent-wins aggregate record.
type MarketOverview struct {
	TotalMarketCap     float64 `json:"total_market_cap"`
	TotalVolume        float64 `json:"total_volume"`
	MarketCapChange24h float64 `json:"market_cap_change_24h"`
	BTCDominance       float64 `json:"btc_dominance"`
	ETHDominance       float64 `json:"eth_dominance"`
	ActiveCryptos      int     `json:"active_cryptocurrencies"`
}
