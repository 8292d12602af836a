// Package metrics computes statistics from parsed reports.
//
// Everything here is a pure function of its arguments.
package metrics

import (
	"time"

	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/shopspring/decimal"
)

// DerivedMetrics are the figures computed from a report rather than read from it.
type DerivedMetrics struct {
	// WinRate is profit trades / total trades * 100.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// ROI is total net profit / initial deposit * 100.
	ROI                   float64 `yaml:"roi" json:"roi"`
	AvgTradeDurationMs    float64 `yaml:"avg_trade_duration_ms" json:"avg_trade_duration_ms"`
	AvgTradeDurationHours float64 `yaml:"avg_trade_duration_hours" json:"avg_trade_duration_hours"`
}

// CalculateDerivedMetrics computes the derived metrics of a trade history report.
// A zero denominator yields 0.
func CalculateDerivedMetrics(report *types.TradeHistoryReport) DerivedMetrics {
	return Derive(&report.Metrics, report.Trades)
}

// CalculateReportMetrics computes the derived metrics of any report kind.
func CalculateReportMetrics(report types.Report) DerivedMetrics {
	return Derive(report.Summary(), types.ReportTrades(report))
}

// Derive computes the derived metrics from report metrics and the trades they describe.
func Derive(m *types.PerformanceMetrics, trades []types.Trade) DerivedMetrics {
	var derived DerivedMetrics

	if m.TotalTrades > 0 {
		derived.WinRate = float64(m.ProfitTrades) / float64(m.TotalTrades) * 100
	}

	if m.InitialDeposit > 0 {
		derived.ROI = m.TotalNetProfit / m.InitialDeposit * 100
	}

	if len(trades) > 0 {
		total := decimal.Zero
		for _, trade := range trades {
			total = total.Add(decimal.NewFromInt(trade.Duration().Milliseconds()))
		}

		avg := total.Div(decimal.NewFromInt(int64(len(trades))))
		derived.AvgTradeDurationMs = avg.InexactFloat64()
		derived.AvgTradeDurationHours = avg.Div(decimal.NewFromInt(time.Hour.Milliseconds())).InexactFloat64()
	}

	return derived
}
