// Package layout holds the fixed positions of MT5 report exports.
//
// HTML reports are read by label, but spreadsheet exports print most metrics
// at fixed offsets from a section anchor. Those offsets are grouped into
// generations so a future terminal build that moves a row only needs a new
// table, selected by the build number printed in the report.
package layout

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
)

// Columns of a trade history positions row, in both HTML and spreadsheet exports.
const (
	PositionOpenTime = iota
	PositionID
	PositionSymbol
	PositionType
	PositionVolume
	PositionOpenPrice
	PositionStopLoss
	PositionTakeProfit
	PositionCloseTime
	PositionClosePrice
	PositionCommission
	PositionSwap
	PositionProfit
	// PositionColumns is the minimum number of cells of a positions row.
	PositionColumns
)

// Columns of a strategy tester deals row.
const (
	DealTime = iota
	DealTicket
	DealSymbol
	DealType
	DealDirection
	DealVolume
	DealPrice
	DealOrder
	DealCommission
	DealSwap
	DealProfit
	DealBalance
	DealComment
)

// DealColumns is the minimum number of cells of a deals row. The comment is optional.
const DealColumns = DealBalance + 1

// Trade history spreadsheet positions.
const (
	// AccountRows is the number of leading rows searched for account labels.
	AccountRows = 20
	// AccountValueCol is where the account values are printed; AccountFallbackCol is used when it is empty.
	AccountValueCol    = 3
	AccountFallbackCol = 1
	// DepositSearchRows is how far below the "Deals" header the first balance deal is searched for.
	DepositSearchRows = 10
	// OrderMinCells is the minimum number of cells of an orders row.
	OrderMinCells = 5
)

// SnapshotColumns are the label and value columns of the balance snapshot block.
var SnapshotColumns = []extract.LabelColumn{
	{Label: 0, Value: 3},
	{Label: 6, Value: 9},
}

// DataRowSelector matches the data rows of the positions and deals tables. Header
// rows use a third colour and are never matched.
const DataRowSelector = `tr[bgcolor="#FFFFFF"], tr[bgcolor="#F7F7F7"]`

// Strategy tester positions.
const (
	// HTMLSettingsLabelSpan and HTMLSettingsValueSpan are the colspans of a settings row.
	HTMLSettingsLabelSpan = "3"
	HTMLSettingsValueSpan = "10"
	// HTMLSettingsMinCells is the minimum number of cells of a settings row: a label and its value.
	HTMLSettingsMinCells = 2

	// SheetBrokerRow holds "Broker (Build N)" in its first cell.
	SheetBrokerRow = 1
	// SheetSettingsValueCol is the value column of the settings block.
	SheetSettingsValueCol = 3
	// SheetExpertRow, SheetSymbolRow and SheetPeriodRow are used when the labels are not found.
	SheetExpertRow = 3
	SheetSymbolRow = 4
	SheetPeriodRow = 5
	// SheetInputsFirstRow and SheetInputsLastRow bound the inputs block when no "Inputs:" label is found.
	SheetInputsFirstRow = 6
	SheetInputsLastRow  = 44
)

// Generation is the set of metric offsets shared by a range of terminal builds.
type Generation struct {
	Name string
	// Builds is a semver constraint over the terminal build number.
	Builds string
	// HistoryResults are offsets from the "Results" cell of a trade history workbook.
	HistoryResults map[string]extract.Cell
	// TesterBars are offsets from the row holding "Bars:" in a tester workbook.
	// Columns are absolute.
	TesterBars map[string]extract.Cell
}

var build5 = Generation{
	Name:   "build5",
	Builds: ">= 0",
	HistoryResults: map[string]extract.Cell{
		"total_net_profit":           {Row: 1, Col: 3},
		"gross_profit":               {Row: 1, Col: 7},
		"gross_loss":                 {Row: 1, Col: 11},
		"profit_factor":              {Row: 2, Col: 3},
		"expected_payoff":            {Row: 2, Col: 7},
		"recovery_factor":            {Row: 3, Col: 3},
		"sharpe_ratio":               {Row: 3, Col: 7},
		"balance_drawdown_absolute":  {Row: 5, Col: 3},
		"balance_drawdown_maximal":   {Row: 5, Col: 7},
		"balance_drawdown_relative":  {Row: 5, Col: 11},
		"total_trades":               {Row: 6, Col: 3},
		"short_trades":               {Row: 6, Col: 7},
		"long_trades":                {Row: 6, Col: 11},
		"profit_trades":              {Row: 7, Col: 7},
		"loss_trades":                {Row: 7, Col: 11},
		"largest_profit_trade":       {Row: 8, Col: 7},
		"largest_loss_trade":         {Row: 8, Col: 11},
		"average_profit_trade":       {Row: 9, Col: 7},
		"average_loss_trade":         {Row: 9, Col: 11},
		"max_consecutive_wins":       {Row: 10, Col: 7},
		"max_consecutive_losses":     {Row: 10, Col: 11},
		"maximal_consecutive_profit": {Row: 11, Col: 7},
		"maximal_consecutive_loss":   {Row: 11, Col: 11},
		"average_consecutive_wins":   {Row: 12, Col: 7},
		"average_consecutive_losses": {Row: 12, Col: 11},
	},
	TesterBars: map[string]extract.Cell{
		"bars":                       {Row: 0, Col: 3},
		"ticks":                      {Row: 0, Col: 7},
		"symbols":                    {Row: 0, Col: 11},
		"total_net_profit":           {Row: 1, Col: 3},
		"balance_drawdown_absolute":  {Row: 1, Col: 7},
		"equity_drawdown_absolute":   {Row: 1, Col: 11},
		"gross_profit":               {Row: 2, Col: 3},
		"balance_drawdown_maximal":   {Row: 2, Col: 7},
		"equity_drawdown_maximal":    {Row: 2, Col: 11},
		"gross_loss":                 {Row: 3, Col: 3},
		"balance_drawdown_relative":  {Row: 3, Col: 7},
		"equity_drawdown_relative":   {Row: 3, Col: 11},
		"profit_factor":              {Row: 5, Col: 3},
		"expected_payoff":            {Row: 5, Col: 7},
		"margin_level":               {Row: 5, Col: 11},
		"recovery_factor":            {Row: 6, Col: 3},
		"sharpe_ratio":               {Row: 6, Col: 7},
		"z_score":                    {Row: 6, Col: 11},
		"ahpr":                       {Row: 7, Col: 3},
		"lr_correlation":             {Row: 7, Col: 7},
		"on_tester_result":           {Row: 7, Col: 11},
		"ghpr":                       {Row: 8, Col: 3},
		"lr_standard_error":          {Row: 8, Col: 7},
		"correlation_profits_mfe":    {Row: 10, Col: 3},
		"correlation_profits_mae":    {Row: 10, Col: 7},
		"correlation_mfe_mae":        {Row: 10, Col: 11},
		"min_position_holding_time":  {Row: 11, Col: 3},
		"max_position_holding_time":  {Row: 11, Col: 7},
		"avg_position_holding_time":  {Row: 11, Col: 11},
		"total_trades":               {Row: 13, Col: 3},
		"short_trades":               {Row: 13, Col: 7},
		"long_trades":                {Row: 13, Col: 11},
		"total_deals":                {Row: 14, Col: 3},
		"profit_trades":              {Row: 14, Col: 7},
		"loss_trades":                {Row: 14, Col: 11},
		"largest_profit_trade":       {Row: 15, Col: 7},
		"largest_loss_trade":         {Row: 15, Col: 11},
		"average_profit_trade":       {Row: 16, Col: 7},
		"average_loss_trade":         {Row: 16, Col: 11},
		"max_consecutive_wins":       {Row: 17, Col: 7},
		"max_consecutive_losses":     {Row: 17, Col: 11},
		"maximal_consecutive_profit": {Row: 18, Col: 7},
		"maximal_consecutive_loss":   {Row: 18, Col: 11},
		"average_consecutive_wins":   {Row: 19, Col: 7},
		"average_consecutive_losses": {Row: 19, Col: 11},
	},
}

// generations is ordered newest first.
var generations = []Generation{build5}

// Latest returns the newest generation.
func Latest() Generation {
	return generations[0]
}

// Generations returns every known generation, newest first.
func Generations() []Generation {
	out := make([]Generation, len(generations))
	copy(out, generations)

	return out
}

// Select returns the newest generation whose constraint accepts build.
// An empty or unreadable build, or one no generation accepts, selects the latest.
func Select(build string) Generation {
	build = strings.TrimSpace(build)
	if build == "" {
		return Latest()
	}

	version, err := semver.NewVersion(build)
	if err != nil {
		return Latest()
	}

	for _, generation := range generations {
		constraint, err := semver.NewConstraint(generation.Builds)
		if err != nil {
			continue
		}

		if constraint.Check(version) {
			return generation
		}
	}

	return Latest()
}
