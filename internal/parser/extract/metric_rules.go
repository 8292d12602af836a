package extract

import (
	"github.com/rxtech-lab/argo-report/internal/types"
)

type (
	performanceRule = Rule[types.PerformanceMetrics]
	backtestRule    = Rule[types.BacktestMetrics]
)

// DepositRule reads the initial deposit of a trade history report.
var DepositRule = performanceRule{
	Field: "initial_deposit", Label: "Deposit:", Shape: ShapeNumber,
	Set: func(m *types.PerformanceMetrics, v Value) { m.InitialDeposit = v.Amount },
}

// MarginLevelRule reads the margin level percentage.
var MarginLevelRule = performanceRule{
	Field: "margin_level", Label: "Margin Level:", Shape: ShapePercent,
	Set: func(m *types.PerformanceMetrics, v Value) { m.MarginLevel = v.Percent },
}

// SnapshotRules read the balance and margin snapshot printed above the results.
var SnapshotRules = []performanceRule{
	{
		Field: "balance", Label: "Balance:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.Balance = v.Amount },
	},
	{
		Field: "equity", Label: "Equity:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.Equity = v.Amount },
	},
	{
		Field: "credit_facility", Label: "Credit Facility:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.CreditFacility = v.Amount },
	},
	{
		Field: "floating_pl", Label: "Floating P/L:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.FloatingPL = v.Amount },
	},
	{
		Field: "free_margin", Label: "Free Margin:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.FreeMargin = v.Amount },
	},
	{
		Field: "margin", Label: "Margin:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.Margin = v.Amount },
	},
	MarginLevelRule,
}

// ResultRules read the "Results" block shared by history and tester reports.
var ResultRules = []performanceRule{
	{
		Field: "total_net_profit", Label: "Total Net Profit:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.TotalNetProfit = v.Amount },
	},
	{
		Field: "gross_profit", Label: "Gross Profit:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.GrossProfit = v.Amount },
	},
	{
		Field: "gross_loss", Label: "Gross Loss:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.GrossLoss = v.Amount },
	},
	{
		Field: "profit_factor", Label: "Profit Factor:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.ProfitFactor = v.Amount },
	},
	{
		Field: "expected_payoff", Label: "Expected Payoff:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.ExpectedPayoff = v.Amount },
	},
	{
		Field: "recovery_factor", Label: "Recovery Factor:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.RecoveryFactor = v.Amount },
	},
	{
		Field: "sharpe_ratio", Label: "Sharpe Ratio:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.SharpeRatio = v.Amount },
	},
	{
		Field: "balance_drawdown_absolute", Label: "Balance Drawdown Absolute:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.BalanceDrawdownAbsolute = v.Amount },
	},
	{
		Field: "balance_drawdown_maximal", Label: "Balance Drawdown Maximal:", Shape: ShapeValuePercent,
		Set: func(m *types.PerformanceMetrics, v Value) {
			m.BalanceDrawdownMaximal = v.Amount
			m.BalanceDrawdownMaximalPercent = v.Percent
		},
	},
	{
		Field: "balance_drawdown_relative", Label: "Balance Drawdown Relative:", Shape: ShapePercentValue,
		Set: func(m *types.PerformanceMetrics, v Value) {
			m.BalanceDrawdownRelative = v.Amount
			m.BalanceDrawdownRelativePercent = v.Percent
		},
	},
	{
		Field: "total_trades", Label: "Total Trades:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.TotalTrades = int(v.Amount) },
	},
	{
		Field: "short_trades", Label: "Short Trades", Shape: ShapeCountPercent,
		Set: func(m *types.PerformanceMetrics, v Value) {
			m.ShortTrades = v.Count
			m.ShortTradesWonPercent = v.Percent
			m.ShortTradesWon = WonCount(v.Count, v.Percent)
		},
	},
	{
		Field: "long_trades", Label: "Long Trades", Shape: ShapeCountPercent,
		Set: func(m *types.PerformanceMetrics, v Value) {
			m.LongTrades = v.Count
			m.LongTradesWonPercent = v.Percent
			m.LongTradesWon = WonCount(v.Count, v.Percent)
		},
	},
	{
		Field: "profit_trades", Label: "Profit Trades", Shape: ShapeCountPercent,
		Set: func(m *types.PerformanceMetrics, v Value) {
			m.ProfitTrades = v.Count
			m.ProfitTradesPercent = v.Percent
		},
	},
	{
		Field: "loss_trades", Label: "Loss Trades", Shape: ShapeCountPercent,
		Set: func(m *types.PerformanceMetrics, v Value) {
			m.LossTrades = v.Count
			m.LossTradesPercent = v.Percent
		},
	},
	{
		Field: "largest_profit_trade", Label: "Largest profit trade:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.LargestProfitTrade = v.Amount },
	},
	{
		Field: "largest_loss_trade", Label: "Largest loss trade:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.LargestLossTrade = v.Amount },
	},
	{
		Field: "average_profit_trade", Label: "Average profit trade:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.AverageProfitTrade = v.Amount },
	},
	{
		Field: "average_loss_trade", Label: "Average loss trade:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.AverageLossTrade = v.Amount },
	},
	{
		Field: "max_consecutive_wins", Label: "Maximum consecutive wins", Shape: ShapeCountMoney,
		Set: func(m *types.PerformanceMetrics, v Value) {
			m.MaxConsecutiveWins = v.Count
			m.MaxConsecutiveWinsMoney = v.Amount
		},
	},
	{
		Field: "max_consecutive_losses", Label: "Maximum consecutive losses", Shape: ShapeCountMoney,
		Set: func(m *types.PerformanceMetrics, v Value) {
			m.MaxConsecutiveLosses = v.Count
			m.MaxConsecutiveLossesMoney = v.Amount
		},
	},
	{
		Field: "maximal_consecutive_profit", Label: "Maximal consecutive profit", Shape: ShapeMoneyCount,
		Set: func(m *types.PerformanceMetrics, v Value) {
			m.MaximalConsecutiveProfit = v.Amount
			m.MaximalConsecutiveProfitCount = v.Count
		},
	},
	{
		Field: "maximal_consecutive_loss", Label: "Maximal consecutive loss", Shape: ShapeMoneyCount,
		Set: func(m *types.PerformanceMetrics, v Value) {
			m.MaximalConsecutiveLoss = v.Amount
			m.MaximalConsecutiveLossCount = v.Count
		},
	},
	{
		Field: "average_consecutive_wins", Label: "Average consecutive wins:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.AverageConsecutiveWins = int(v.Amount) },
	},
	{
		Field: "average_consecutive_losses", Label: "Average consecutive losses:", Shape: ShapeNumber,
		Set: func(m *types.PerformanceMetrics, v Value) { m.AverageConsecutiveLosses = int(v.Amount) },
	},
}

// HistoryRules is every metric of a trade history report.
func HistoryRules() []performanceRule {
	rules := make([]performanceRule, 0, 1+len(SnapshotRules)+len(ResultRules))
	rules = append(rules, DepositRule)
	rules = append(rules, SnapshotRules...)

	return append(rules, ResultRules...)
}

// TesterRules are the simulation statistics only printed by the strategy tester.
var TesterRules = []backtestRule{
	{
		Field: "bars", Label: "Bars:", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.Bars = int(v.Amount) },
	},
	{
		Field: "ticks", Label: "Ticks:", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.Ticks = int(v.Amount) },
	},
	{
		Field: "symbols", Label: "Symbols:", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.Symbols = int(v.Amount) },
	},
	{
		Field: "equity_drawdown_absolute", Label: "Equity Drawdown Absolute:", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.EquityDrawdownAbsolute = v.Amount },
	},
	{
		Field: "equity_drawdown_maximal", Label: "Equity Drawdown Maximal:", Shape: ShapeValuePercent,
		Set: func(m *types.BacktestMetrics, v Value) {
			m.EquityDrawdownMaximal = v.Amount
			m.EquityDrawdownMaximalPercent = v.Percent
		},
	},
	{
		Field: "equity_drawdown_relative", Label: "Equity Drawdown Relative:", Shape: ShapePercentValue,
		Set: func(m *types.BacktestMetrics, v Value) {
			m.EquityDrawdownRelative = v.Amount
			m.EquityDrawdownRelativePercent = v.Percent
		},
	},
	{
		Field: "z_score", Label: "Z-Score:", Shape: ShapeValuePercent,
		Set: func(m *types.BacktestMetrics, v Value) {
			m.ZScore = v.Amount
			m.ZScorePercent = v.Percent
		},
	},
	{
		Field: "ahpr", Label: "AHPR:", Shape: ShapeValuePercent,
		Set: func(m *types.BacktestMetrics, v Value) {
			m.AHPR = v.Amount
			m.AHPRPercent = v.Percent
		},
	},
	{
		Field: "ghpr", Label: "GHPR:", Shape: ShapeValuePercent,
		Set: func(m *types.BacktestMetrics, v Value) {
			m.GHPR = v.Amount
			m.GHPRPercent = v.Percent
		},
	},
	{
		Field: "lr_correlation", Label: "LR Correlation:", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.LRCorrelation = v.Amount },
	},
	{
		Field: "lr_standard_error", Label: "LR Standard Error:", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.LRStandardError = v.Amount },
	},
	{
		Field: "correlation_profits_mfe", Label: "Correlation (Profits,MFE):", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.CorrelationProfitsMFE = v.Amount },
	},
	{
		Field: "correlation_profits_mae", Label: "Correlation (Profits,MAE):", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.CorrelationProfitsMAE = v.Amount },
	},
	{
		Field: "correlation_mfe_mae", Label: "Correlation (MFE,MAE):", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.CorrelationMFEMAE = v.Amount },
	},
	{
		Field: "min_position_holding_time", Label: "Minimal position holding time:", Shape: ShapeText,
		Set: func(m *types.BacktestMetrics, v Value) { m.MinPositionHoldingTime = v.Text },
	},
	{
		Field: "max_position_holding_time", Label: "Maximal position holding time:", Shape: ShapeText,
		Set: func(m *types.BacktestMetrics, v Value) { m.MaxPositionHoldingTime = v.Text },
	},
	{
		Field: "avg_position_holding_time", Label: "Average position holding time:", Shape: ShapeText,
		Set: func(m *types.BacktestMetrics, v Value) { m.AvgPositionHoldingTime = v.Text },
	},
	{
		Field: "total_deals", Label: "Total Deals:", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.TotalDeals = int(v.Amount) },
	},
	{
		Field: "on_tester_result", Label: "OnTester result:", Shape: ShapeNumber,
		Set: func(m *types.BacktestMetrics, v Value) { m.OnTesterResult = v.Amount },
	},
}

// BacktestRules is every metric of a strategy tester report. The balance and
// equity snapshot is not read from the document; it comes from the deal stream.
func BacktestRules() []backtestRule {
	embedded := func(m *types.BacktestMetrics) *types.PerformanceMetrics { return &m.PerformanceMetrics }

	rules := Lift(append([]performanceRule{MarginLevelRule}, ResultRules...), embedded)

	return append(rules, TesterRules...)
}
