package backtest

import (
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/mocks"
	"github.com/stretchr/testify/suite"
)

type HTMLTestSuite struct {
	suite.Suite
	opts extract.Options
}

func TestHTMLSuite(t *testing.T) {
	suite.Run(t, new(HTMLTestSuite))
}

var uploadedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func (suite *HTMLTestSuite) SetupTest() {
	suite.opts = extract.Options{Now: func() time.Time { return uploadedAt }}
}

func (suite *HTMLTestSuite) parse(content []byte) (*types.BacktestReport, types.ParseResult) {
	result := ParseHTML(content, suite.opts)
	suite.Require().True(result.Success, result.Error)

	report, ok := result.Backtest()
	suite.Require().True(ok)

	return report, result
}

// roundTrip is a buy entry of volume 0.1 and its exit with the given profit.
func roundTrip(ticket int64, at time.Time, profit, balance float64) []mocks.Deal {
	return []mocks.Deal{
		{Time: at, Ticket: ticket, Symbol: "EURUSD", Type: "buy", Direction: "in", Volume: 0.1, Price: 1.1, Order: ticket, Balance: balance - profit},
		{Time: at.Add(time.Hour), Ticket: ticket + 1, Symbol: "EURUSD", Type: "sell", Direction: "out", Volume: 0.1, Price: 1.11, Order: ticket + 1, Profit: profit, Balance: balance},
	}
}

func (suite *HTMLTestSuite) TestIdentityMismatch() {
	result := ParseHTML([]byte("<html><head><title>123: A - Trade History Report</title></head><body></body></html>"), suite.opts)

	suite.False(result.Success)
	suite.Equal("This does not appear to be an MT5 Backtest Report. Please upload a Strategy Tester Report.", result.Error)
}

func (suite *HTMLTestSuite) TestParseGeneratedReport() {
	fixture := mocks.NewReportGenerator(21).GenerateBacktest(mocks.DefaultBacktestConfig())
	summary := fixture.Summary()

	report, result := suite.parse(fixture.HTML())

	suite.Empty(result.Diagnostics.SkippedRows)
	suite.Zero(result.Diagnostics.UnmatchedDeals)

	settings := report.Settings
	suite.Equal("RangeBreakout", settings.Expert)
	suite.Equal("EURUSD", settings.Symbol)
	suite.Equal("H1 (2025.01.01 - 2025.02.01)", settings.Period)
	suite.Equal("ICMarketsSC-Demo", settings.Broker)
	suite.Equal("5399", settings.Build)
	suite.Equal(map[string]types.InputValue{
		"Lots":        types.NumberInput(0.1),
		"UseTrailing": types.BoolInput(true),
		"Session":     types.StringInput("London"),
		"RiskPercent": types.NumberInput(1.5),
	}, settings.Inputs)

	suite.Require().Len(report.Trades, len(fixture.Trades))

	for i, expected := range fixture.Trades {
		actual := report.Trades[i]
		suite.Equal(expected.Ticket, actual.Ticket)
		suite.Equal(expected.Position, actual.Position)
		suite.Equal(expected.Order, actual.Order)
		suite.Equal(expected.Type, actual.Type)
		suite.Equal(expected.OpenTime, actual.OpenTime)
		suite.Equal(expected.CloseTime, actual.CloseTime)
		suite.InDelta(expected.Volume, actual.Volume, 1e-9)
		suite.InDelta(expected.Profit, actual.Profit, 1e-9)
		suite.InDelta(expected.Commission, actual.Commission, 1e-9)
		suite.InDelta(expected.Balance, actual.Balance, 1e-9)
		suite.Equal(expected.Comment, actual.Comment)
		suite.Equal(expected.Strategy, actual.Strategy)
	}

	m := report.Metrics
	suite.Equal(10000.0, m.InitialDeposit)
	suite.InDelta(summary.FinalBalance, m.Balance, 0.005)
	suite.Equal(m.Balance, m.Equity)
	suite.Equal(744, m.Bars)
	suite.Equal(2413570, m.Ticks)
	suite.Equal(1, m.Symbols)
	suite.InDelta(summary.NetProfit, m.TotalNetProfit, 0.005)
	suite.Equal(summary.Trades, m.TotalTrades)
	suite.Equal(len(fixture.Deals), m.TotalDeals)
	suite.Equal(summary.ProfitTrades, m.ProfitTrades)
	suite.InDelta(2450.12, m.MarginLevel, 1e-9)
	suite.InDelta(-0.41, m.ZScore, 1e-9)
	suite.InDelta(31.82, m.ZScorePercent, 1e-9)
	suite.InDelta(410.20, m.EquityDrawdownMaximal, 1e-9)
	suite.InDelta(4.05, m.EquityDrawdownRelativePercent, 1e-9)
	suite.Equal("4:10:00", m.MaxPositionHoldingTime)
}

func (suite *HTMLTestSuite) TestOneRoundTripMakesOneBuy() {
	start := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	deals := append([]mocks.Deal{mocks.BalanceDeal(start, 10000)}, roundTrip(2, start.Add(time.Hour), 100, 10100)...)

	report, _ := suite.parse(mocks.NewBacktestFixture(mocks.DefaultBacktestConfig(), deals).HTML())

	suite.Require().Len(report.Trades, 1)
	suite.Equal(types.TradeTypeBuy, report.Trades[0].Type)
	suite.Equal(10100.0, report.Metrics.Balance)
	suite.Equal(10100.0, report.Metrics.Equity)
}

func (suite *HTMLTestSuite) TestUnmatchedExitIsDropped() {
	start := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	exit := roundTrip(2, start, 50, 10050)[1]

	report, result := suite.parse(mocks.NewBacktestFixture(mocks.DefaultBacktestConfig(), []mocks.Deal{
		mocks.BalanceDeal(start, 10000), exit,
	}).HTML())

	suite.Empty(report.Trades)
	suite.Equal(1, result.Diagnostics.UnmatchedDeals)
}

func (suite *HTMLTestSuite) TestDepositDefaultsWithoutBalanceDeal() {
	start := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)

	report, result := suite.parse(mocks.NewBacktestFixture(mocks.DefaultBacktestConfig(), roundTrip(2, start, 25, 0)).HTML())

	suite.Equal(DefaultInitialDeposit, report.Metrics.InitialDeposit)
	suite.True(result.Diagnostics.Defaulted("metrics.initial_deposit"))
	suite.Len(report.Trades, 1)
}

func (suite *HTMLTestSuite) TestMissingResultsKeepsTesterDefaults() {
	config := mocks.DefaultBacktestConfig()
	config.OmitResults = true
	fixture := mocks.NewReportGenerator(4).GenerateBacktest(config)

	report, result := suite.parse(fixture.HTML())

	m := report.Metrics
	suite.Equal(1, m.Symbols)
	suite.Equal(types.DefaultHoldingTime, m.MinPositionHoldingTime)
	suite.Equal(types.DefaultHoldingTime, m.AvgPositionHoldingTime)
	suite.Equal(len(fixture.Trades), m.TotalTrades)
	suite.True(result.Diagnostics.Defaulted("metrics.bars"))
}

func (suite *HTMLTestSuite) TestReversalDealIsSkipped() {
	start := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	deals := []mocks.Deal{
		mocks.BalanceDeal(start, 10000),
		{Time: start, Ticket: 2, Symbol: "EURUSD", Type: "buy", Direction: "in/out", Volume: 0.2, Price: 1.1, Order: 2},
	}

	report, result := suite.parse(mocks.NewBacktestFixture(mocks.DefaultBacktestConfig(), deals).HTML())

	suite.Empty(report.Trades)
	suite.Require().Len(result.Diagnostics.SkippedRows, 1)
	suite.Equal("Deals", result.Diagnostics.SkippedRows[0].Section)
	suite.Equal(2, result.Diagnostics.SkippedRows[0].Row)
}

func (suite *HTMLTestSuite) TestShortDealRowIsSkipped() {
	start := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	deals := append([]mocks.Deal{mocks.BalanceDeal(start, 10000)}, roundTrip(2, start, 50, 10050)...)
	content := string(mocks.NewBacktestFixture(mocks.DefaultBacktestConfig(), deals).HTML())
	content = strings.Replace(content, "</table>", `<tr bgcolor="#F7F7F7"><td>2025.01.02 11:00</td><td>9</td></tr>`+"\n</table>", 1)

	report, result := suite.parse([]byte(content))

	suite.Len(report.Trades, 1)
	suite.Require().Len(result.Diagnostics.SkippedRows, 1)
	suite.Equal("Deals", result.Diagnostics.SkippedRows[0].Section)
	suite.Equal(4, result.Diagnostics.SkippedRows[0].Row)
}

func (suite *HTMLTestSuite) TestParseIsIdempotent() {
	content := mocks.NewReportGenerator(8).GenerateBacktest(mocks.DefaultBacktestConfig()).HTML()

	suite.Equal(ParseHTML(content, suite.opts), ParseHTML(content, suite.opts))
}

func (suite *HTMLTestSuite) TestParseBroker() {
	tests := []struct {
		text   string
		broker string
		build  string
		ok     bool
	}{
		{text: "ICMarketsSC-Demo (Build 5399)", broker: "ICMarketsSC-Demo", build: "5399", ok: true},
		{text: "  Pepperstone Live(Build 4000) ", broker: "Pepperstone Live", build: "4000", ok: true},
		{text: "ICMarketsSC-Demo", ok: false},
		{text: "(Build 5399) trailing", ok: false},
	}

	for _, tc := range tests {
		suite.Run(tc.text, func() {
			broker, build, ok := parseBroker(tc.text)
			suite.Equal(tc.ok, ok)
			suite.Equal(tc.broker, broker)
			suite.Equal(tc.build, build)
		})
	}
}
