package metrics

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/shopspring/decimal"
)

const (
	// NoMagicNumber groups the trades opened without a magic number.
	NoMagicNumber = "No Magic Number"
	// NoStrategy groups the trades with no resolved strategy.
	NoStrategy = "No Strategy"
)

// GroupStats are the results of the trades sharing one key.
// Winners and losers are counted on gross profit; money sums are net of commission and swap.
type GroupStats struct {
	Key           string  `yaml:"key" json:"key"`
	TotalTrades   int     `yaml:"total_trades" json:"total_trades"`
	WinningTrades int     `yaml:"winning_trades" json:"winning_trades"`
	LosingTrades  int     `yaml:"losing_trades" json:"losing_trades"`
	TotalProfit   float64 `yaml:"total_profit" json:"total_profit"`
	// TotalLoss is positive.
	TotalLoss float64 `yaml:"total_loss" json:"total_loss"`
	NetProfit float64 `yaml:"net_profit" json:"net_profit"`
	WinRate   float64 `yaml:"win_rate" json:"win_rate"`
	// ProfitFactor is +Inf when there are no losses and the profit is positive.
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
	AvgWin       float64 `yaml:"avg_win" json:"avg_win"`
	AvgLoss      float64 `yaml:"avg_loss" json:"avg_loss"`
}

// MarshalJSON writes an infinite profit factor as null since JSON has no infinity.
func (s GroupStats) MarshalJSON() ([]byte, error) {
	type plain GroupStats

	out := struct {
		plain
		ProfitFactor *float64 `json:"profit_factor"`
	}{plain: plain(s)}

	if !math.IsInf(s.ProfitFactor, 0) {
		factor := s.ProfitFactor
		out.ProfitFactor = &factor
	}

	return json.Marshal(out)
}

// BreakdownByMagicNumber groups the trades by magic number.
func BreakdownByMagicNumber(trades []types.Trade) []GroupStats {
	return Breakdown(trades, func(trade types.Trade) string {
		if magic, err := trade.MagicNumber.Take(); err == nil {
			return strconv.FormatInt(magic, 10)
		}

		return NoMagicNumber
	})
}

// BreakdownByStrategy groups the trades by resolved strategy.
func BreakdownByStrategy(trades []types.Trade) []GroupStats {
	return Breakdown(trades, func(trade types.Trade) string {
		return trade.Strategy.TakeOr(NoStrategy)
	})
}

// Breakdown groups the trades by key and sorts the groups by net profit, highest first.
// Groups with equal net profit keep the order their first trade appears in.
func Breakdown(trades []types.Trade, key func(types.Trade) string) []GroupStats {
	type group struct {
		key                   string
		trades                int
		winners, losers       int
		profit, loss, netGain decimal.Decimal
	}

	var order []*group
	groups := map[string]*group{}

	for _, trade := range trades {
		k := key(trade)

		g, ok := groups[k]
		if !ok {
			g = &group{key: k, profit: decimal.Zero, loss: decimal.Zero, netGain: decimal.Zero}
			groups[k] = g
			order = append(order, g)
		}

		net := trade.NetProfitDecimal()
		g.trades++
		g.netGain = g.netGain.Add(net)

		switch {
		case trade.Profit > 0:
			g.winners++
			g.profit = g.profit.Add(net)
		case trade.Profit < 0:
			g.losers++
			g.loss = g.loss.Add(net)
		}
	}

	stats := make([]GroupStats, 0, len(order))

	for _, g := range order {
		profit := g.profit.InexactFloat64()
		loss := g.loss.Abs().InexactFloat64()

		s := GroupStats{
			Key:           g.key,
			TotalTrades:   g.trades,
			WinningTrades: g.winners,
			LosingTrades:  g.losers,
			TotalProfit:   profit,
			TotalLoss:     loss,
			NetProfit:     g.netGain.InexactFloat64(),
			WinRate:       percentOf(g.winners, g.trades),
		}

		switch {
		case loss > 0:
			s.ProfitFactor = profit / loss
		case profit > 0:
			s.ProfitFactor = math.Inf(1)
		}

		if g.winners > 0 {
			s.AvgWin = profit / float64(g.winners)
		}

		if g.losers > 0 {
			s.AvgLoss = loss / float64(g.losers)
		}

		stats = append(stats, s)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].NetProfit > stats[j].NetProfit
	})

	return stats
}
