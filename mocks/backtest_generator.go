package mocks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/internal/types"
)

// BacktestConfig configures a strategy tester fixture.
type BacktestConfig struct {
	Expert string
	Symbol string
	Period string
	Broker string
	Build  int
	// Inputs are printed in order as "Key=Value".
	Inputs         []string
	InitialDeposit float64
	StartTime      time.Time
	// Count is the number of round trips to generate.
	Count int
	Bars  int
	Ticks int
	// OmitResults leaves the Results block out of the export.
	OmitResults bool
}

// DefaultBacktestConfig returns a small EURUSD test run.
func DefaultBacktestConfig() BacktestConfig {
	return BacktestConfig{
		Expert:         "RangeBreakout",
		Symbol:         "EURUSD",
		Period:         "H1 (2025.01.01 - 2025.02.01)",
		Broker:         "ICMarketsSC-Demo",
		Build:          5399,
		Inputs:         []string{"Lots=0.1", "UseTrailing=true", "Session=London", "RiskPercent=1.5"},
		InitialDeposit: 10000,
		StartTime:      time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
		Count:          10,
		Bars:           744,
		Ticks:          2413570,
	}
}

// Deal is one row of the tester's Deals table.
type Deal struct {
	Time       time.Time
	Ticket     int64
	Symbol     string
	Type       string
	Direction  string
	Volume     float64
	Price      float64
	Order      int64
	Commission float64
	Swap       float64
	Profit     float64
	Balance    float64
	Comment    string
}

// BalanceDeal is the deposit operation that opens every test.
func BalanceDeal(t time.Time, amount float64) Deal {
	return Deal{Time: t, Ticket: 1, Type: "balance", Profit: amount, Balance: amount}
}

// BacktestFixture is a strategy tester report before rendering.
type BacktestFixture struct {
	Config BacktestConfig
	Deals  []Deal
	// Trades are the round trips the deals describe, when generated.
	Trades []types.BacktestTrade
}

// NewBacktestFixture wraps hand written deals.
func NewBacktestFixture(config BacktestConfig, deals []Deal) BacktestFixture {
	return BacktestFixture{Config: config, Deals: deals}
}

// GenerateBacktest creates sequential round trips: each entry deal is followed by
// its exit before the next entry.
func (g *ReportGenerator) GenerateBacktest(config BacktestConfig) BacktestFixture {
	start := config.StartTime.Add(-time.Hour)
	deals := []Deal{BalanceDeal(start, config.InitialDeposit)}
	trades := make([]types.BacktestTrade, 0, config.Count)
	balance := config.InitialDeposit

	for i := 0; i < config.Count; i++ {
		open := config.StartTime.Add(time.Duration(i) * 6 * time.Hour)
		closeAt := open.Add(time.Duration(15+g.rng.Intn(240)) * time.Minute)
		volume := []float64{0.1, 0.2, 0.3}[g.rng.Intn(3)]
		openPrice := round(1.03+g.rng.Float64()*0.05, 5)
		closePrice := round(openPrice+(g.rng.Float64()-0.45)*0.01, 5)
		profit := round(-120+g.rng.Float64()*300, 2)
		commission := round(-3.5*volume, 2)

		entryType, exitType, side := "buy", "sell", types.TradeTypeBuy
		if g.rng.Intn(2) == 1 {
			entryType, exitType, side = "sell", "buy", types.TradeTypeSell
		}

		entryTicket := int64(2 + 2*i)
		exitTicket := entryTicket + 1
		balance = round(balance+profit+commission, 2)

		entry := Deal{
			Time: open, Ticket: entryTicket, Symbol: config.Symbol, Type: entryType, Direction: "in",
			Volume: volume, Price: openPrice, Order: entryTicket, Balance: balance - profit - commission,
			Comment: "[" + config.Expert + "]",
		}
		exit := Deal{
			Time: closeAt, Ticket: exitTicket, Symbol: config.Symbol, Type: exitType, Direction: "out",
			Volume: volume, Price: closePrice, Order: exitTicket, Commission: commission,
			Profit: profit, Balance: balance,
		}

		if profit > 0 {
			exit.Comment = "tp " + fixed(closePrice, 5)
		} else {
			exit.Comment = "sl " + fixed(closePrice, 5)
		}

		deals = append(deals, entry, exit)
		trades = append(trades, types.BacktestTrade{
			Trade: types.Trade{
				OpenTime:   open,
				Position:   strconv.FormatInt(entryTicket, 10),
				Symbol:     config.Symbol,
				Type:       side,
				Volume:     volume,
				OpenPrice:  openPrice,
				CloseTime:  closeAt,
				ClosePrice: closePrice,
				Commission: commission,
				Profit:     profit,
				Comment:    optional.Some(exit.Comment),
				Strategy:   optional.Some(config.Expert),
			},
			Ticket:    entryTicket,
			Order:     exitTicket,
			Direction: types.DealDirectionOut,
			Balance:   balance,
		})
	}

	return BacktestFixture{Config: config, Deals: deals, Trades: trades}
}

// Summary returns the statistics printed in the report, computed from the exit deals.
func (f BacktestFixture) Summary() Summary {
	var closed []types.Trade

	for _, deal := range f.Deals {
		if deal.Direction != "out" {
			continue
		}

		side := types.TradeTypeBuy
		if deal.Type == "buy" {
			side = types.TradeTypeSell
		}

		closed = append(closed, types.Trade{
			Type: side, CloseTime: deal.Time,
			Commission: deal.Commission, Swap: deal.Swap, Profit: deal.Profit,
		})
	}

	return Summarize(closed, f.Config.InitialDeposit)
}

func (f BacktestFixture) brokerLine() string {
	return fmt.Sprintf("%s (Build %d)", f.Config.Broker, f.Config.Build)
}

// testerRows are the label/value pairs of the Results block. Each row lists its
// cells by the column the label is printed in; values follow in column+3.
func (f BacktestFixture) testerRows() [][]struct {
	col   int
	label string
	value string
} {
	s := f.Summary()

	type cell = struct {
		col   int
		label string
		value string
	}

	return [][]cell{
		{{0, "Bars:", strconv.Itoa(f.Config.Bars)}, {4, "Ticks:", strconv.Itoa(f.Config.Ticks)}, {8, "Symbols:", "1"}},
		{{0, "Total Net Profit:", grouped(s.NetProfit, 2)}, {4, "Balance Drawdown Absolute:", "0.00"}, {8, "Equity Drawdown Absolute:", "12.50"}},
		{{0, "Gross Profit:", grouped(s.GrossProfit, 2)},
			{4, "Balance Drawdown Maximal:", valuePercent(s.DrawdownMaximal, s.DrawdownMaximalPercent)},
			{8, "Equity Drawdown Maximal:", "410.20 (4.05%)"}},
		{{0, "Gross Loss:", grouped(s.GrossLoss, 2)},
			{4, "Balance Drawdown Relative:", percentValue(s.DrawdownMaximalPercent, s.DrawdownMaximal)},
			{8, "Equity Drawdown Relative:", "4.05% (410.20)"}},
		{},
		{{0, "Profit Factor:", fixed(s.ProfitFactor, 2)}, {4, "Expected Payoff:", fixed(s.ExpectedPayoff, 2)}, {8, "Margin Level:", "2 450.12%"}},
		{{0, "Recovery Factor:", "1.20"}, {4, "Sharpe Ratio:", "3.40"}, {8, "Z-Score:", "-0.41 (31.82%)"}},
		{{0, "AHPR:", "1.0011 (0.11%)"}, {4, "LR Correlation:", "0.87"}, {8, "OnTester result:", "0"}},
		{{0, "GHPR:", "1.0010 (0.10%)"}, {4, "LR Standard Error:", "120.33"}},
		{},
		{{0, "Correlation (Profits,MFE):", "0.64"}, {4, "Correlation (Profits,MAE):", "0.31"}, {8, "Correlation (MFE,MAE):", "-0.05"}},
		{{0, "Minimal position holding time:", "0:15:00"}, {4, "Maximal position holding time:", "4:10:00"}, {8, "Average position holding time:", "2:01:30"}},
		{},
		{{0, "Total Trades:", strconv.Itoa(s.Trades)},
			{4, "Short Trades (won %):", countPercent(s.Short, s.ShortWon)},
			{8, "Long Trades (won %):", countPercent(s.Long, s.LongWon)}},
		{{0, "Total Deals:", strconv.Itoa(len(f.Deals))},
			{4, "Profit Trades (% of total):", countPercent(s.Trades, s.ProfitTrades)},
			{8, "Loss Trades (% of total):", countPercent(s.Trades, s.LossTrades)}},
		{{4, "Largest profit trade:", grouped(s.LargestProfit, 2)}, {8, "Largest loss trade:", grouped(s.LargestLoss, 2)}},
		{{4, "Average profit trade:", grouped(s.AverageProfit, 2)}, {8, "Average loss trade:", grouped(s.AverageLoss, 2)}},
		{{4, "Maximum consecutive wins ($):", countMoney(s.MaxWins, s.MaxWinsMoney)},
			{8, "Maximum consecutive losses ($):", countMoney(s.MaxLosses, s.MaxLossesMoney)}},
		{{4, "Maximal consecutive profit (count):", moneyCount(s.MaximalProfit, s.MaximalProfitCount)},
			{8, "Maximal consecutive loss (count):", moneyCount(s.MaximalLoss, s.MaximalLossCount)}},
		{{4, "Average consecutive wins:", strconv.Itoa(s.AverageWins)}, {8, "Average consecutive losses:", strconv.Itoa(s.AverageLosses)}},
	}
}

func (d Deal) cells() []string {
	volume, price := "", ""
	if d.Type != "balance" {
		volume, price = fixed(d.Volume, 2), fixed(d.Price, 5)
	}

	order := ""
	if d.Order != 0 {
		order = strconv.FormatInt(d.Order, 10)
	}

	return []string{
		d.Time.Format(terminalTime), strconv.FormatInt(d.Ticket, 10), d.Symbol, d.Type, d.Direction,
		volume, price, order,
		grouped(d.Commission, 2), grouped(d.Swap, 2), grouped(d.Profit, 2), grouped(d.Balance, 2), d.Comment,
	}
}

// settingsRow renders a three column label and a ten column bold value.
func settingsRow(label, value string) string {
	return fmt.Sprintf("<tr align=\"left\"><td nowrap colspan=\"3\" align=\"right\">%s</td><td nowrap colspan=\"10\"><b>%s</b></td></tr>\n",
		esc(label), esc(value))
}

// HTML renders the fixture the way the tester's "Save as Report" HTML does.
func (f BacktestFixture) HTML() []byte {
	c := f.Config

	var b strings.Builder

	fmt.Fprintf(&b, "<html>\n<head><title>Strategy Tester Report</title></head>\n<body>\n<table>\n")
	b.WriteString(sectionHeader(13, "Strategy Tester Report"))
	fmt.Fprintf(&b, "<tr><td colspan=\"13\" align=\"center\">%s</td></tr>\n", esc(f.brokerLine()))

	b.WriteString(sectionHeader(13, "Settings"))
	b.WriteString(settingsRow("Expert:", c.Expert))
	b.WriteString(settingsRow("Symbol:", c.Symbol))
	b.WriteString(settingsRow("Period:", c.Period))

	for i, input := range c.Inputs {
		label := ""
		if i == 0 {
			label = "Inputs:"
		}

		b.WriteString(settingsRow(label, input))
	}

	b.WriteString(settingsRow("Company:", c.Broker))
	b.WriteString(settingsRow("Currency:", "USD"))
	b.WriteString(settingsRow("Initial Deposit:", grouped(c.InitialDeposit, 2)))
	b.WriteString(settingsRow("Leverage:", "1:100"))

	if !c.OmitResults {
		b.WriteString(sectionHeader(13, "Results"))
		b.WriteString(settingsRow("History Quality:", "100%"))

		for _, row := range f.testerRows() {
			var pairs []string
			for _, cell := range row {
				pairs = append(pairs, cell.label, cell.value)
			}

			b.WriteString(labelRow(pairs...))
		}
	}

	b.WriteString(sectionHeader(13, "Orders"))
	b.WriteString(sectionHeader(13, "Deals"))
	b.WriteString(headerRow("Time", "Deal", "Symbol", "Type", "Direction", "Volume", "Price", "Order",
		"Commission", "Swap", "Profit", "Balance", "Comment"))

	for i, deal := range f.Deals {
		b.WriteString(dataRow(i, deal.cells()...))
	}

	b.WriteString("</table>\n</body>\n</html>\n")

	return []byte(b.String())
}

// XLSX renders the fixture the way the tester's "Save as Report" Open XML does.
func (f BacktestFixture) XLSX() ([]byte, error) {
	c := f.Config
	w := newSheetWriter()
	defer w.close()

	w.row(map[int]any{0: "Strategy Tester Report"})
	w.row(map[int]any{0: f.brokerLine()})
	w.row(map[int]any{0: "Settings"})
	w.row(map[int]any{0: "Expert:", 3: c.Expert})
	w.row(map[int]any{0: "Symbol:", 3: c.Symbol})
	w.row(map[int]any{0: "Period:", 3: c.Period})

	for i, input := range c.Inputs {
		cells := map[int]any{3: input}
		if i == 0 {
			cells[0] = "Inputs:"
		}

		w.row(cells)
	}

	w.row(map[int]any{0: "Company:", 3: c.Broker})
	w.row(map[int]any{0: "Currency:", 3: "USD"})
	w.row(map[int]any{0: "Initial Deposit:", 3: c.InitialDeposit})
	w.row(map[int]any{0: "Leverage:", 3: "1:100"})
	w.blank()

	if !c.OmitResults {
		w.row(map[int]any{0: "Results"})
		w.row(map[int]any{0: "History Quality:", 3: "100%"})

		for _, row := range f.testerRows() {
			cells := map[int]any{}
			for _, cell := range row {
				cells[cell.col] = cell.label
				cells[cell.col+3] = cell.value
			}

			if len(cells) == 0 {
				w.blank()
				continue
			}

			w.row(cells)
		}

		w.blank()
	}

	w.row(map[int]any{0: "Deals"})
	w.strings("Time", "Deal", "Symbol", "Type", "Direction", "Volume", "Price", "Order",
		"Commission", "Swap", "Profit", "Balance", "Comment")

	for _, deal := range f.Deals {
		cells := map[int]any{}
		for col, text := range deal.cells() {
			if text != "" {
				cells[col] = text
			}
		}

		w.row(cells)
	}

	return w.bytes()
}
