package usecase

import (
	"strings"

	"TradeMind/internal/domain/models"
	"TradeMind/pkg/util"
)

// ChartSeries is the chart-ready projection of a prediction snapshot: one
// candlestick series plus the two moving-average overlays, all in the order
// the backend produced them.
type ChartSeries struct {
	Candles []models.Candle    `json:"candles"`
	SMA     []models.LinePoint `json:"sma"`
	EMA     []models.LinePoint `json:"ema"`
}

// BuildChartSeries projects a snapshot's chart data into render-ready
// series. Missing overlays come back as empty slices, never nil, so the
// serialized form is always an array.
func BuildChartSeries(snap *models.PredictionSnapshot) ChartSeries {
	series := ChartSeries{
		Candles: []models.Candle{},
		SMA:     []models.LinePoint{},
		EMA:     []models.LinePoint{},
	}
	if snap == nil {
		return series
	}
	if snap.ChartData.Candles != nil {
		series.Candles = snap.ChartData.Candles
	}
	if snap.ChartData.SMA != nil {
		series.SMA = snap.ChartData.SMA
	}
	if snap.ChartData.EMA != nil {
		series.EMA = snap.ChartData.EMA
	}
	return series
}

// BuildExportPayload extracts the forecast rows to export, in backend order.
func BuildExportPayload(snap *models.PredictionSnapshot) []models.ForecastPoint {
	if snap == nil || snap.Forecast == nil {
		return []models.ForecastPoint{}
	}
	return snap.Forecast
}

// ExportCSV renders the forecast as a two-column CSV document. The header
// row is always present; data rows follow in forecast order. No trailing
// newline after the last row.
func ExportCSV(forecast []models.ForecastPoint) string {
	var b strings.Builder
	b.WriteString("Date,Price")
	for _, p := range forecast {
		b.WriteString("\n")
		b.WriteString(p.Date)
		b.WriteString(",")
		b.WriteString(util.FormatFloat(p.Price))
	}
	return b.String()
}

// ExportFilename names the download after the symbol the forecast belongs to.
func ExportFilename(symbol string) string {
	return strings.ToUpper(symbol) + "_prediction.csv"
}
