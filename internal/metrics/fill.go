package metrics

import (
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/shopspring/decimal"
)

// FillMissing derives trade count and profit totals from the trades for every
// such metric the document did not print. Metrics that were read are kept as is.
// It returns the names of the fields it filled.
func FillMissing(m *types.PerformanceMetrics, trades []types.Trade, diagnostics *types.Diagnostics) []string {
	if len(trades) == 0 {
		return nil
	}

	totals := Totals(trades)

	fills := []struct {
		field string
		set   func()
	}{
		{field: "total_trades", set: func() { m.TotalTrades = totals.Trades }},
		{field: "total_net_profit", set: func() { m.TotalNetProfit = totals.NetProfit.InexactFloat64() }},
		{field: "gross_profit", set: func() { m.GrossProfit = totals.GrossProfit.InexactFloat64() }},
		{field: "gross_loss", set: func() { m.GrossLoss = totals.GrossLoss.InexactFloat64() }},
		{field: "profit_trades", set: func() {
			m.ProfitTrades = totals.Winners
			m.ProfitTradesPercent = percentOf(totals.Winners, totals.Trades)
		}},
		{field: "loss_trades", set: func() {
			m.LossTrades = totals.Losers
			m.LossTradesPercent = percentOf(totals.Losers, totals.Trades)
		}},
	}

	var filled []string

	for _, fill := range fills {
		if diagnostics.Defaulted("metrics." + fill.field) {
			fill.set()
			filled = append(filled, fill.field)
		}
	}

	return filled
}

// TradeTotals sums a set of trades. A trade wins when its net profit is positive
// and loses when it is negative.
type TradeTotals struct {
	Trades      int
	Winners     int
	Losers      int
	NetProfit   decimal.Decimal
	GrossProfit decimal.Decimal
	// GrossLoss is negative or zero, as printed by the terminal.
	GrossLoss decimal.Decimal
}

// Totals sums the net profit of the trades.
func Totals(trades []types.Trade) TradeTotals {
	totals := TradeTotals{
		Trades:      len(trades),
		NetProfit:   decimal.Zero,
		GrossProfit: decimal.Zero,
		GrossLoss:   decimal.Zero,
	}

	for _, trade := range trades {
		net := trade.NetProfitDecimal()
		totals.NetProfit = totals.NetProfit.Add(net)

		switch net.Sign() {
		case 1:
			totals.Winners++
			totals.GrossProfit = totals.GrossProfit.Add(net)
		case -1:
			totals.Losers++
			totals.GrossLoss = totals.GrossLoss.Add(net)
		}
	}

	return totals
}

func percentOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}

	return float64(part) / float64(whole) * 100
}
