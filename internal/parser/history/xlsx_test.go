package history

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/mocks"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

type XLSXTestSuite struct {
	suite.Suite
	opts extract.Options
}

func TestXLSXSuite(t *testing.T) {
	suite.Run(t, new(XLSXTestSuite))
}

func (suite *XLSXTestSuite) SetupTest() {
	suite.opts = extract.Options{Now: func() time.Time { return uploadedAt }}
}

func (suite *XLSXTestSuite) workbook(fixture mocks.HistoryFixture) []byte {
	content, err := fixture.XLSX()
	suite.Require().NoError(err)

	return content
}

func (suite *XLSXTestSuite) parse(content []byte) (*types.TradeHistoryReport, types.ParseResult) {
	result := ParseXLSX(content, suite.opts)
	suite.Require().True(result.Success, result.Error)

	report, ok := result.TradeHistory()
	suite.Require().True(ok)

	return report, result
}

func (suite *XLSXTestSuite) TestIdentityMismatch() {
	f := excelize.NewFile()
	defer f.Close()

	suite.Require().NoError(f.SetCellValue("Sheet1", "A1", "Strategy Tester Report"))
	suite.Require().NoError(f.SetCellValue("Sheet1", "A2", "ICMarkets (Build 5000)"))

	buf, err := f.WriteToBuffer()
	suite.Require().NoError(err)

	result := ParseXLSX(buf.Bytes(), suite.opts)
	suite.False(result.Success)
	suite.Equal("This does not appear to be an MT5 Trade History Report. Please upload a Trade History Report.", result.Error)
}

func (suite *XLSXTestSuite) TestNotAWorkbook() {
	result := ParseXLSX([]byte("<html><title>Trade History Report</title></html>"), suite.opts)

	suite.False(result.Success)
	suite.NotEmpty(result.Error)
	suite.Nil(result.Report)
}

func (suite *XLSXTestSuite) TestParseGeneratedReport() {
	fixture := mocks.NewReportGenerator(42).GenerateHistory(mocks.DefaultHistoryConfig())
	summary := fixture.Summary()

	report, result := suite.parse(suite.workbook(fixture))

	suite.Empty(result.Diagnostics.SkippedRows)
	suite.Equal("Jane Trader", report.AccountInfo.Name)
	suite.Equal("13342140", report.AccountInfo.AccountNumber)
	suite.Equal("FundedNext-Server 2", report.AccountInfo.Server)
	suite.Equal(fixture.Config.ReportDate, report.AccountInfo.ReportDate)

	suite.Require().Len(report.Trades, len(fixture.Trades))

	for i, expected := range fixture.Trades {
		actual := report.Trades[i]
		suite.Equal(expected.Position, actual.Position)
		suite.Equal(expected.Symbol, actual.Symbol)
		suite.Equal(expected.Type, actual.Type)
		suite.Equal(expected.OpenTime, actual.OpenTime)
		suite.Equal(expected.CloseTime, actual.CloseTime)
		suite.InDelta(expected.Volume, actual.Volume, 1e-9)
		suite.InDelta(expected.StopLoss, actual.StopLoss, 1e-9)
		suite.InDelta(expected.TakeProfit, actual.TakeProfit, 1e-9)
		suite.InDelta(expected.Profit, actual.Profit, 1e-9)
		suite.InDelta(expected.Swap, actual.Swap, 1e-9)
		suite.Equal(expected.MagicNumber, actual.MagicNumber)
		suite.Equal(expected.Strategy, actual.Strategy)
	}

	m := report.Metrics
	suite.Equal(10000.0, m.InitialDeposit)
	suite.InDelta(summary.FinalBalance, m.Balance, 0.005)
	suite.InDelta(summary.FinalBalance, m.Equity, 0.005)
	suite.InDelta(summary.NetProfit, m.TotalNetProfit, 0.005)
	suite.InDelta(summary.GrossLoss, m.GrossLoss, 0.005)
	suite.InDelta(summary.ProfitFactor, m.ProfitFactor, 0.005)
	suite.Equal(summary.Trades, m.TotalTrades)
	suite.Equal(summary.Short, m.ShortTrades)
	suite.Equal(summary.LongWon, m.LongTradesWon)
	suite.Equal(summary.ProfitTrades, m.ProfitTrades)
	suite.Equal(summary.LossTrades, m.LossTrades)
	suite.InDelta(summary.LargestLoss, m.LargestLossTrade, 0.005)
	suite.InDelta(summary.DrawdownMaximalPercent, m.BalanceDrawdownRelativePercent, 0.005)
	suite.Equal(summary.MaxLosses, m.MaxConsecutiveLosses)
	suite.InDelta(summary.MaximalProfit, m.MaximalConsecutiveProfit, 0.005)
	suite.Equal(summary.AverageWins, m.AverageConsecutiveWins)
	suite.Equal(2.1, m.SharpeRatio)
}

func (suite *XLSXTestSuite) TestSerialTimeCells() {
	config := mocks.DefaultHistoryConfig()
	config.SerialTimes = true
	fixture := mocks.NewReportGenerator(21).GenerateHistory(config)

	report, result := suite.parse(suite.workbook(fixture))

	suite.Empty(result.Diagnostics.SkippedRows)
	suite.Equal(config.ReportDate, report.AccountInfo.ReportDate)
	suite.Require().Len(report.Trades, len(fixture.Trades))

	for i, expected := range fixture.Trades {
		suite.Equal(expected.OpenTime, report.Trades[i].OpenTime)
		suite.Equal(expected.CloseTime, report.Trades[i].CloseTime)
	}

	suite.Equal(10000.0, report.Metrics.InitialDeposit)
}

func (suite *XLSXTestSuite) TestFormatsAgree() {
	fixture := mocks.NewReportGenerator(5).GenerateHistory(mocks.DefaultHistoryConfig())

	fromXLSX, _ := suite.parse(suite.workbook(fixture))

	result := ParseHTML(fixture.HTML(), suite.opts)
	suite.Require().True(result.Success)
	fromHTML, _ := result.TradeHistory()

	suite.Equal(fromHTML.AccountInfo.AccountNumber, fromXLSX.AccountInfo.AccountNumber)
	suite.Equal(len(fromHTML.Trades), len(fromXLSX.Trades))
	suite.Equal(fromHTML.Metrics.TotalTrades, fromXLSX.Metrics.TotalTrades)
	suite.InDelta(fromHTML.Metrics.TotalNetProfit, fromXLSX.Metrics.TotalNetProfit, 0.005)
	suite.Equal(fromHTML.ReportPeriodStart, fromXLSX.ReportPeriodStart)
	suite.Equal(fromHTML.ReportPeriodEnd, fromXLSX.ReportPeriodEnd)
}

func (suite *XLSXTestSuite) TestOrderStrategyTakesPriority() {
	trade := winningBuy()
	trade.Comment = optional.Some("[Scalper] manual")
	trade.Strategy = optional.Some("Breakout")
	trade.MagicNumber = optional.Some[int64](777)

	fixture := mocks.NewHistoryFixture(mocks.DefaultHistoryConfig(), []types.Trade{trade})

	report, _ := suite.parse(suite.workbook(fixture))

	suite.Require().Len(report.Trades, 1)
	suite.Equal(optional.Some("Breakout"), report.Trades[0].Strategy)
	suite.Equal(optional.Some("[Scalper] manual"), report.Trades[0].Comment)
	suite.Equal(optional.Some[int64](777), report.Trades[0].MagicNumber)
}

func (suite *XLSXTestSuite) TestStrategyFallsBackToComment() {
	trade := winningBuy()
	trade.Comment = optional.Some("[Scalper] manual")
	trade.Strategy = optional.None[string]()

	fixture := mocks.NewHistoryFixture(mocks.DefaultHistoryConfig(), []types.Trade{trade})

	report, _ := suite.parse(suite.workbook(fixture))

	suite.Require().Len(report.Trades, 1)
	suite.Equal(optional.Some("Scalper"), report.Trades[0].Strategy)
}

func (suite *XLSXTestSuite) TestWinningBuyEndToEnd() {
	fixture := mocks.NewHistoryFixture(mocks.DefaultHistoryConfig(), []types.Trade{winningBuy()})

	report, _ := suite.parse(suite.workbook(fixture))

	suite.Require().Len(report.Trades, 1)
	suite.Equal(97.0, report.Metrics.TotalNetProfit)
	suite.Equal(1, report.Metrics.ProfitTrades)
	suite.Equal(10097.0, report.Metrics.Balance)
}

func (suite *XLSXTestSuite) TestNonTradingRowsAreSkipped() {
	deposit := winningBuy()
	deposit.Position = "5000002"
	deposit.Type = types.TradeType("balance")

	fixture := mocks.NewHistoryFixture(mocks.DefaultHistoryConfig(), []types.Trade{winningBuy(), deposit})

	report, result := suite.parse(suite.workbook(fixture))

	suite.Len(report.Trades, 1)
	suite.Require().Len(result.Diagnostics.SkippedRows, 1)
	suite.Equal("type", result.Diagnostics.SkippedRows[0].Field)
	suite.Equal("Positions", result.Diagnostics.SkippedRows[0].Section)
}

func (suite *XLSXTestSuite) TestMissingResults() {
	config := mocks.DefaultHistoryConfig()
	config.OmitResults = true
	fixture := mocks.NewReportGenerator(9).GenerateHistory(config)

	report, result := suite.parse(suite.workbook(fixture))

	suite.Equal(len(fixture.Trades), report.Metrics.TotalTrades)
	suite.Contains(result.Diagnostics.MissingSections, "Results")
	suite.Zero(report.Metrics.ProfitFactor)
	suite.True(result.Diagnostics.Defaulted("metrics.profit_factor"))
	suite.True(result.Diagnostics.Defaulted("metrics.sharpe_ratio"))
	suite.True(result.Diagnostics.Defaulted("metrics.total_net_profit"))
	suite.InDelta(fixture.Summary().NetProfit, report.Metrics.TotalNetProfit, 0.005)
}

func (suite *XLSXTestSuite) TestDepositDefaultsWithoutDeals() {
	f := excelize.NewFile()
	defer f.Close()

	suite.Require().NoError(f.SetCellValue("Sheet1", "A1", "Trade History Report"))
	suite.Require().NoError(f.SetCellValue("Sheet1", "A2", "Name:"))
	suite.Require().NoError(f.SetCellValue("Sheet1", "D2", "Solo"))

	buf, err := f.WriteToBuffer()
	suite.Require().NoError(err)

	report, result := suite.parse(buf.Bytes())

	suite.Equal("Solo", report.AccountInfo.Name)
	suite.Equal(DefaultInitialDeposit, report.Metrics.InitialDeposit)
	suite.True(result.Diagnostics.Defaulted("metrics.initial_deposit"))
	suite.Contains(result.Diagnostics.MissingSections, "Positions")
	suite.Contains(result.Diagnostics.MissingSections, "Deals")
	suite.Empty(report.Trades)
}

func (suite *XLSXTestSuite) TestParseIsIdempotent() {
	content := suite.workbook(mocks.NewReportGenerator(13).GenerateHistory(mocks.DefaultHistoryConfig()))

	suite.Equal(ParseXLSX(content, suite.opts), ParseXLSX(content, suite.opts))
}
