package types

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type TradeTestSuite struct {
	suite.Suite
}

func TestTradeSuite(t *testing.T) {
	suite.Run(t, new(TradeTestSuite))
}

func newTestTrade() Trade {
	open := time.Date(2024, 12, 24, 5, 48, 0, 0, time.UTC)

	return Trade{
		OpenTime:   open,
		Position:   "1001",
		Symbol:     "EURUSD",
		Type:       TradeTypeBuy,
		Volume:     0.1,
		OpenPrice:  1.0410,
		CloseTime:  open.Add(90 * time.Minute),
		ClosePrice: 1.0450,
		Commission: -2,
		Swap:       -1,
		Profit:     100,
	}
}

func (suite *TradeTestSuite) TestNetProfit() {
	tests := []struct {
		name       string
		profit     float64
		commission float64
		swap       float64
		expected   float64
	}{
		{name: "winning trade with costs", profit: 100, commission: -2, swap: -1, expected: 97},
		{name: "losing trade", profit: -50.5, commission: -0.7, swap: 0, expected: -51.2},
		{name: "positive swap", profit: 0.1, commission: 0, swap: 0.2, expected: 0.3},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			trade := newTestTrade()
			trade.Profit = tt.profit
			trade.Commission = tt.commission
			trade.Swap = tt.swap
			suite.Equal(tt.expected, trade.NetProfit())
		})
	}
}

func (suite *TradeTestSuite) TestDuration() {
	trade := newTestTrade()
	suite.Equal(90*time.Minute, trade.Duration())
}

func (suite *TradeTestSuite) TestValidate() {
	tests := []struct {
		name      string
		mutate    func(t *Trade)
		expectErr bool
	}{
		{name: "valid trade", mutate: func(t *Trade) {}},
		{name: "close before open", mutate: func(t *Trade) { t.CloseTime = t.OpenTime.Add(-time.Second) }, expectErr: true},
		{name: "close equal to open", mutate: func(t *Trade) { t.CloseTime = t.OpenTime }},
		{name: "unknown type", mutate: func(t *Trade) { t.Type = "balance" }, expectErr: true},
		{name: "missing symbol", mutate: func(t *Trade) { t.Symbol = "" }, expectErr: true},
		{name: "negative volume", mutate: func(t *Trade) { t.Volume = -1 }, expectErr: true},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			trade := newTestTrade()
			tt.mutate(&trade)

			err := trade.Validate()
			if tt.expectErr {
				suite.Error(err)
				suite.True(errors.HasCode(err, errors.ErrCodeInvalidTrade))
			} else {
				suite.NoError(err)
			}
		})
	}
}

func (suite *TradeTestSuite) TestBacktestTradeValidate() {
	trade := BacktestTrade{
		Trade:     newTestTrade(),
		Ticket:    3,
		Order:     3,
		Direction: DealDirectionOut,
		Balance:   10097,
	}
	suite.NoError(trade.Validate())

	trade.Direction = "inout"
	suite.Error(trade.Validate())

	trade.Direction = DealDirectionOut
	trade.CloseTime = trade.OpenTime.Add(-time.Hour)
	suite.Error(trade.Validate())
}

func (suite *TradeTestSuite) TestTradePeriod() {
	first := newTestTrade()
	second := newTestTrade()
	second.OpenTime = first.OpenTime.Add(-24 * time.Hour)
	second.CloseTime = first.CloseTime.Add(48 * time.Hour)

	start, end := TradePeriod([]Trade{first, second})
	suite.True(start.IsSome())
	suite.True(end.IsSome())
	suite.Equal(second.OpenTime, start.Unwrap())
	suite.Equal(second.CloseTime, end.Unwrap())

	start, end = TradePeriod(nil)
	suite.True(start.IsNone())
	suite.True(end.IsNone())
}

func (suite *TradeTestSuite) TestOptionalFields() {
	trade := newTestTrade()
	suite.True(trade.Comment.IsNone())

	trade.Comment = optional.Some("[Scalper] entry")
	trade.MagicNumber = optional.Some(int64(12345))
	suite.Equal("[Scalper] entry", trade.Comment.Unwrap())
	suite.Equal(int64(12345), trade.MagicNumber.Unwrap())
}
