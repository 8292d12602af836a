package metrics

import (
	"sort"
	"time"

	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/shopspring/decimal"
)

// CurvePoint is the account balance after a trade closed.
type CurvePoint struct {
	Time    time.Time `yaml:"time" json:"time"`
	Balance float64   `yaml:"balance" json:"balance"`
	// Equity equals Balance; only closed trades are known.
	Equity float64 `yaml:"equity" json:"equity"`
}

// Curve is the balance curve of a report and its drawdown statistics.
type Curve struct {
	Points             []CurvePoint `yaml:"points" json:"points"`
	FinalBalance       float64      `yaml:"final_balance" json:"final_balance"`
	Gain               float64      `yaml:"gain" json:"gain"`
	GainPercent        float64      `yaml:"gain_percent" json:"gain_percent"`
	MaxDrawdown        float64      `yaml:"max_drawdown" json:"max_drawdown"`
	MaxDrawdownPercent float64      `yaml:"max_drawdown_percent" json:"max_drawdown_percent"`
}

// EquityCurve replays the trades in close time order from the initial deposit.
// The first point is the deposit at the open time of the first trade to close.
// No trades yields an empty curve.
func EquityCurve(trades []types.Trade, initialDeposit float64) Curve {
	curve := Curve{Points: []CurvePoint{}}
	if len(trades) == 0 {
		return curve
	}

	sorted := byCloseTime(trades)
	deposit := decimal.NewFromFloat(initialDeposit)
	balance := deposit
	peak := deposit
	maxDrawdown := decimal.Zero

	curve.Points = append(curve.Points, CurvePoint{
		Time:    sorted[0].OpenTime,
		Balance: initialDeposit,
		Equity:  initialDeposit,
	})

	for _, trade := range sorted {
		balance = balance.Add(trade.NetProfitDecimal())
		value := balance.InexactFloat64()

		curve.Points = append(curve.Points, CurvePoint{Time: trade.CloseTime, Balance: value, Equity: value})

		if balance.GreaterThan(peak) {
			peak = balance
		}

		if drawdown := peak.Sub(balance); drawdown.GreaterThan(maxDrawdown) {
			maxDrawdown = drawdown
		}
	}

	gain := balance.Sub(deposit)
	curve.FinalBalance = balance.InexactFloat64()
	curve.Gain = gain.InexactFloat64()
	curve.MaxDrawdown = maxDrawdown.InexactFloat64()

	if deposit.IsPositive() {
		curve.GainPercent = gain.Div(deposit).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	if peak.IsPositive() {
		curve.MaxDrawdownPercent = maxDrawdown.Div(peak).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return curve
}

// byCloseTime returns a copy of trades sorted by close time. Ties keep report order.
func byCloseTime(trades []types.Trade) []types.Trade {
	sorted := make([]types.Trade, len(trades))
	copy(sorted, trades)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CloseTime.Before(sorted[j].CloseTime)
	})

	return sorted
}
