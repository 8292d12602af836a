package types

// PerformanceMetrics are the account level statistics printed at the bottom of an MT5 report.
//
// Every percentage field is paired with a count or amount parsed from the same cell.
// When that cell cannot be parsed both values stay zero.
type PerformanceMetrics struct {
	// Balance snapshot
	InitialDeposit float64 `yaml:"initial_deposit" json:"initial_deposit"`
	Balance        float64 `yaml:"balance" json:"balance"`
	Equity         float64 `yaml:"equity" json:"equity"`
	Margin         float64 `yaml:"margin" json:"margin"`
	FreeMargin     float64 `yaml:"free_margin" json:"free_margin"`
	MarginLevel    float64 `yaml:"margin_level" json:"margin_level"`
	FloatingPL     float64 `yaml:"floating_pl" json:"floating_pl"`
	CreditFacility float64 `yaml:"credit_facility" json:"credit_facility"`

	// Profit
	TotalNetProfit float64 `yaml:"total_net_profit" json:"total_net_profit"`
	GrossProfit    float64 `yaml:"gross_profit" json:"gross_profit"`
	GrossLoss      float64 `yaml:"gross_loss" json:"gross_loss"`
	ProfitFactor   float64 `yaml:"profit_factor" json:"profit_factor"`
	ExpectedPayoff float64 `yaml:"expected_payoff" json:"expected_payoff"`

	// Risk
	RecoveryFactor                 float64 `yaml:"recovery_factor" json:"recovery_factor"`
	SharpeRatio                    float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	BalanceDrawdownAbsolute        float64 `yaml:"balance_drawdown_absolute" json:"balance_drawdown_absolute"`
	BalanceDrawdownMaximal         float64 `yaml:"balance_drawdown_maximal" json:"balance_drawdown_maximal"`
	BalanceDrawdownMaximalPercent  float64 `yaml:"balance_drawdown_maximal_percent" json:"balance_drawdown_maximal_percent"`
	BalanceDrawdownRelative        float64 `yaml:"balance_drawdown_relative" json:"balance_drawdown_relative"`
	BalanceDrawdownRelativePercent float64 `yaml:"balance_drawdown_relative_percent" json:"balance_drawdown_relative_percent"`

	// Trade counts
	TotalTrades           int     `yaml:"total_trades" json:"total_trades"`
	ShortTrades           int     `yaml:"short_trades" json:"short_trades"`
	ShortTradesWon        int     `yaml:"short_trades_won" json:"short_trades_won"`
	ShortTradesWonPercent float64 `yaml:"short_trades_won_percent" json:"short_trades_won_percent"`
	LongTrades            int     `yaml:"long_trades" json:"long_trades"`
	LongTradesWon         int     `yaml:"long_trades_won" json:"long_trades_won"`
	LongTradesWonPercent  float64 `yaml:"long_trades_won_percent" json:"long_trades_won_percent"`
	ProfitTrades          int     `yaml:"profit_trades" json:"profit_trades"`
	ProfitTradesPercent   float64 `yaml:"profit_trades_percent" json:"profit_trades_percent"`
	LossTrades            int     `yaml:"loss_trades" json:"loss_trades"`
	LossTradesPercent     float64 `yaml:"loss_trades_percent" json:"loss_trades_percent"`

	// Extremes and averages
	LargestProfitTrade float64 `yaml:"largest_profit_trade" json:"largest_profit_trade"`
	LargestLossTrade   float64 `yaml:"largest_loss_trade" json:"largest_loss_trade"`
	AverageProfitTrade float64 `yaml:"average_profit_trade" json:"average_profit_trade"`
	AverageLossTrade   float64 `yaml:"average_loss_trade" json:"average_loss_trade"`

	// Streaks
	MaxConsecutiveWins            int     `yaml:"max_consecutive_wins" json:"max_consecutive_wins"`
	MaxConsecutiveWinsMoney       float64 `yaml:"max_consecutive_wins_money" json:"max_consecutive_wins_money"`
	MaxConsecutiveLosses          int     `yaml:"max_consecutive_losses" json:"max_consecutive_losses"`
	MaxConsecutiveLossesMoney     float64 `yaml:"max_consecutive_losses_money" json:"max_consecutive_losses_money"`
	MaximalConsecutiveProfit      float64 `yaml:"maximal_consecutive_profit" json:"maximal_consecutive_profit"`
	MaximalConsecutiveProfitCount int     `yaml:"maximal_consecutive_profit_count" json:"maximal_consecutive_profit_count"`
	MaximalConsecutiveLoss        float64 `yaml:"maximal_consecutive_loss" json:"maximal_consecutive_loss"`
	MaximalConsecutiveLossCount   int     `yaml:"maximal_consecutive_loss_count" json:"maximal_consecutive_loss_count"`
	AverageConsecutiveWins        int     `yaml:"average_consecutive_wins" json:"average_consecutive_wins"`
	AverageConsecutiveLosses      int     `yaml:"average_consecutive_losses" json:"average_consecutive_losses"`
}

// BacktestMetrics extends PerformanceMetrics with the simulation statistics of the strategy tester.
type BacktestMetrics struct {
	PerformanceMetrics `yaml:",inline"`

	Bars    int `yaml:"bars" json:"bars"`
	Ticks   int `yaml:"ticks" json:"ticks"`
	Symbols int `yaml:"symbols" json:"symbols"`

	EquityDrawdownAbsolute        float64 `yaml:"equity_drawdown_absolute" json:"equity_drawdown_absolute"`
	EquityDrawdownMaximal         float64 `yaml:"equity_drawdown_maximal" json:"equity_drawdown_maximal"`
	EquityDrawdownMaximalPercent  float64 `yaml:"equity_drawdown_maximal_percent" json:"equity_drawdown_maximal_percent"`
	EquityDrawdownRelative        float64 `yaml:"equity_drawdown_relative" json:"equity_drawdown_relative"`
	EquityDrawdownRelativePercent float64 `yaml:"equity_drawdown_relative_percent" json:"equity_drawdown_relative_percent"`

	ZScore          float64 `yaml:"z_score" json:"z_score"`
	ZScorePercent   float64 `yaml:"z_score_percent" json:"z_score_percent"`
	AHPR            float64 `yaml:"ahpr" json:"ahpr"`
	AHPRPercent     float64 `yaml:"ahpr_percent" json:"ahpr_percent"`
	GHPR            float64 `yaml:"ghpr" json:"ghpr"`
	GHPRPercent     float64 `yaml:"ghpr_percent" json:"ghpr_percent"`
	LRCorrelation   float64 `yaml:"lr_correlation" json:"lr_correlation"`
	LRStandardError float64 `yaml:"lr_standard_error" json:"lr_standard_error"`

	CorrelationProfitsMFE float64 `yaml:"correlation_profits_mfe" json:"correlation_profits_mfe"`
	CorrelationProfitsMAE float64 `yaml:"correlation_profits_mae" json:"correlation_profits_mae"`
	CorrelationMFEMAE     float64 `yaml:"correlation_mfe_mae" json:"correlation_mfe_mae"`

	// Holding times are kept as printed by the terminal, e.g. "1:02:03".
	MinPositionHoldingTime string `yaml:"min_position_holding_time" json:"min_position_holding_time"`
	MaxPositionHoldingTime string `yaml:"max_position_holding_time" json:"max_position_holding_time"`
	AvgPositionHoldingTime string `yaml:"avg_position_holding_time" json:"avg_position_holding_time"`

	TotalDeals     int     `yaml:"total_deals" json:"total_deals"`
	OnTesterResult float64 `yaml:"on_tester_result" json:"on_tester_result"`
}

// DefaultHoldingTime is used when the report does not print a holding time.
const DefaultHoldingTime = "0:00:00"

// NewBacktestMetrics returns metrics with the non-zero defaults of a tester report.
func NewBacktestMetrics() BacktestMetrics {
	return BacktestMetrics{
		Symbols:                1,
		MinPositionHoldingTime: DefaultHoldingTime,
		MaxPositionHoldingTime: DefaultHoldingTime,
		AvgPositionHoldingTime: DefaultHoldingTime,
	}
}
