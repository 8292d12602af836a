package mocks

import (
	"fmt"
	"html"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportGenerator produces synthetic MT5 exports for tests.
// The same fixture renders to HTML and xlsx with identical content.
type ReportGenerator struct {
	rng *rand.Rand
}

// NewReportGenerator creates a generator. Use a fixed seed for reproducible fixtures.
func NewReportGenerator(seed int64) *ReportGenerator {
	return &ReportGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// HistoryConfig configures a trade history fixture.
type HistoryConfig struct {
	Name          string
	AccountNumber string
	Currency      string
	Server        string
	AccountType   string
	HedgingMode   string
	Company       string
	ReportDate    time.Time
	// InitialDeposit is printed as the first balance deal and as "Deposit:".
	InitialDeposit float64
	Symbols        []string
	StartTime      time.Time
	// Count is the number of positions to generate.
	Count int
	// Strategies are cycled through the position comments as "[Name]". Empty means no comments.
	Strategies []string
	// MagicNumbers are cycled through the positions. Empty means no magic number column.
	MagicNumbers []int64
	// OmitResults leaves the summary block out of the export.
	OmitResults bool
	// SerialTimes writes the XLSX time cells as date-formatted serial numbers
	// instead of terminal text.
	SerialTimes bool
}

// DefaultHistoryConfig returns a small hedging account.
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		Name:           "Jane Trader",
		AccountNumber:  "13342140",
		Currency:       "USD",
		Server:         "FundedNext-Server 2",
		AccountType:    "real",
		HedgingMode:    "Hedge",
		Company:        "FundedNext Ltd",
		ReportDate:     time.Date(2025, 3, 1, 9, 15, 0, 0, time.UTC),
		InitialDeposit: 10000,
		Symbols:        []string{"EURUSD", "XAUUSD"},
		StartTime:      time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
		Count:          12,
		Strategies:     []string{"Breakout", "MeanRevert"},
		MagicNumbers:   []int64{1001, 2002},
	}
}

// HistoryFixture is a trade history report before rendering.
type HistoryFixture struct {
	Config HistoryConfig
	Trades []types.Trade
}

// NewHistoryFixture wraps hand written trades.
func NewHistoryFixture(config HistoryConfig, trades []types.Trade) HistoryFixture {
	return HistoryFixture{Config: config, Trades: trades}
}

// GenerateHistory creates positions that open four hours apart and close within three hours.
func (g *ReportGenerator) GenerateHistory(config HistoryConfig) HistoryFixture {
	trades := make([]types.Trade, 0, config.Count)

	for i := 0; i < config.Count; i++ {
		open := config.StartTime.Add(time.Duration(i) * 4 * time.Hour)
		volume := []float64{0.1, 0.2, 0.5}[g.rng.Intn(3)]
		tradeType := types.TradeTypeBuy
		if g.rng.Intn(2) == 1 {
			tradeType = types.TradeTypeSell
		}

		openPrice := round(1.05+g.rng.Float64()*0.1, 5)

		trade := types.Trade{
			OpenTime:   open,
			Position:   strconv.Itoa(5000000 + i),
			Symbol:     config.Symbols[i%len(config.Symbols)],
			Type:       tradeType,
			Volume:     volume,
			OpenPrice:  openPrice,
			StopLoss:   round(openPrice-0.005, 5),
			TakeProfit: round(openPrice+0.01, 5),
			CloseTime:  open.Add(time.Duration(30+g.rng.Intn(150)) * time.Minute),
			ClosePrice: round(openPrice+(g.rng.Float64()-0.4)*0.01, 5),
			Commission: round(-7*volume, 2),
			Swap:       []float64{0, 0, -0.5}[g.rng.Intn(3)],
			Profit:     round(-150+g.rng.Float64()*400, 2),
		}

		if len(config.Strategies) > 0 {
			strategy := config.Strategies[i%len(config.Strategies)]
			trade.Comment = optional.Some("[" + strategy + "]")
			trade.Strategy = optional.Some(strategy)
		}

		if len(config.MagicNumbers) > 0 {
			trade.MagicNumber = optional.Some(config.MagicNumbers[i%len(config.MagicNumbers)])
		}

		trades = append(trades, trade)
	}

	return HistoryFixture{Config: config, Trades: trades}
}

// Summary are the statistics a terminal prints for a set of trades.
type Summary struct {
	Deposit        float64
	FinalBalance   float64
	NetProfit      float64
	GrossProfit    float64
	GrossLoss      float64
	ProfitFactor   float64
	ExpectedPayoff float64

	Trades       int
	Short        int
	ShortWon     int
	Long         int
	LongWon      int
	ProfitTrades int
	LossTrades   int

	LargestProfit float64
	LargestLoss   float64
	AverageProfit float64
	AverageLoss   float64

	MaxWins            int
	MaxWinsMoney       float64
	MaxLosses          int
	MaxLossesMoney     float64
	MaximalProfit      float64
	MaximalProfitCount int
	MaximalLoss        float64
	MaximalLossCount   int
	AverageWins        int
	AverageLosses      int

	DrawdownMaximal        float64
	DrawdownMaximalPercent float64
}

type streak struct {
	count int
	money decimal.Decimal
}

// Summarize computes the printed statistics. A trade wins when its net profit is positive.
func Summarize(trades []types.Trade, deposit float64) Summary {
	s := Summary{Deposit: deposit, Trades: len(trades)}

	sorted := make([]types.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CloseTime.Before(sorted[j].CloseTime) })

	balance := decimal.NewFromFloat(deposit)
	peak := balance
	gross, loss := decimal.Zero, decimal.Zero

	var wins, losses []streak

	for i, trade := range sorted {
		net := trade.NetProfitDecimal()
		value := net.InexactFloat64()
		balance = balance.Add(net)

		if balance.GreaterThan(peak) {
			peak = balance
		}

		if dd := peak.Sub(balance).InexactFloat64(); dd > s.DrawdownMaximal {
			s.DrawdownMaximal = dd
			s.DrawdownMaximalPercent = round(dd/peak.InexactFloat64()*100, 2)
		}

		won := net.IsPositive()

		switch trade.Type {
		case types.TradeTypeSell:
			s.Short++
			if won {
				s.ShortWon++
			}
		default:
			s.Long++
			if won {
				s.LongWon++
			}
		}

		switch {
		case won:
			s.ProfitTrades++
			gross = gross.Add(net)
			s.LargestProfit = math.Max(s.LargestProfit, value)
			wins = extendStreak(wins, net, i > 0 && sorted[i-1].NetProfitDecimal().IsPositive())
		case net.IsNegative():
			s.LossTrades++
			loss = loss.Add(net)
			s.LargestLoss = math.Min(s.LargestLoss, value)
			losses = extendStreak(losses, net, i > 0 && sorted[i-1].NetProfitDecimal().IsNegative())
		}
	}

	s.FinalBalance = balance.InexactFloat64()
	s.GrossProfit = gross.InexactFloat64()
	s.GrossLoss = loss.InexactFloat64()
	s.NetProfit = gross.Add(loss).InexactFloat64()

	if !loss.IsZero() {
		s.ProfitFactor = round(gross.Div(loss.Abs()).InexactFloat64(), 2)
	}

	if s.Trades > 0 {
		s.ExpectedPayoff = round(s.NetProfit/float64(s.Trades), 2)
	}

	if s.ProfitTrades > 0 {
		s.AverageProfit = round(s.GrossProfit/float64(s.ProfitTrades), 2)
	}

	if s.LossTrades > 0 {
		s.AverageLoss = round(s.GrossLoss/float64(s.LossTrades), 2)
	}

	s.MaxWins, s.MaxWinsMoney, s.MaximalProfitCount, s.MaximalProfit, s.AverageWins = streakStats(wins, 1)
	s.MaxLosses, s.MaxLossesMoney, s.MaximalLossCount, s.MaximalLoss, s.AverageLosses = streakStats(losses, -1)

	return s
}

func extendStreak(streaks []streak, net decimal.Decimal, continues bool) []streak {
	if !continues || len(streaks) == 0 {
		return append(streaks, streak{count: 1, money: net})
	}

	last := &streaks[len(streaks)-1]
	last.count++
	last.money = last.money.Add(net)

	return streaks
}

// streakStats returns the longest streak, the streak with the largest money in the
// direction of sign, and the rounded average streak length.
func streakStats(streaks []streak, sign int) (longest int, longestMoney float64, biggestCount int, biggestMoney float64, average int) {
	if len(streaks) == 0 {
		return 0, 0, 0, 0, 0
	}

	total := 0

	for i, s := range streaks {
		total += s.count

		if s.count > longest {
			longest, longestMoney = s.count, s.money.InexactFloat64()
		}

		money := s.money.InexactFloat64()
		if i == 0 || float64(sign)*money > float64(sign)*biggestMoney {
			biggestCount, biggestMoney = s.count, money
		}
	}

	return longest, longestMoney, biggestCount, biggestMoney, int(math.Round(float64(total) / float64(len(streaks))))
}

// Summary returns the statistics printed in the report.
func (f HistoryFixture) Summary() Summary {
	return Summarize(f.Trades, f.Config.InitialDeposit)
}

// HTML renders the fixture the way the terminal's "Report > HTML" export does:
// one table with a 14 column header per section and label/bold-value summary rows.
func (f HistoryFixture) HTML() []byte {
	c := f.Config
	s := f.Summary()

	var b strings.Builder

	fmt.Fprintf(&b, "<html>\n<head><title>%s: %s - Trade History Report</title></head>\n<body>\n<table>\n",
		esc(c.AccountNumber), esc(c.Name))
	b.WriteString(sectionHeader(14, "Trade History Report"))

	for _, pair := range [][2]string{
		{"Name:", c.Name},
		{"Account:", fmt.Sprintf("%s (%s, %s, %s, %s)", c.AccountNumber, c.Currency, c.Server, c.AccountType, c.HedgingMode)},
		{"Company:", c.Company},
		{"Date:", c.ReportDate.Format(terminalTime)},
	} {
		fmt.Fprintf(&b, "<tr><th colspan=\"4\" align=\"right\">%s</th><th colspan=\"10\" align=\"left\"><b>%s</b></th></tr>\n",
			esc(pair[0]), esc(pair[1]))
	}

	b.WriteString(sectionHeader(14, "Positions"))
	b.WriteString(headerRow("Time", "Position", "Symbol", "Type", "Volume", "Price", "S / L", "T / P",
		"Time", "Price", "Commission", "Swap", "Profit", "Comment"))

	for i, t := range f.Trades {
		b.WriteString(dataRow(i,
			t.OpenTime.Format(terminalTime), t.Position, t.Symbol, string(t.Type),
			fixed(t.Volume, 2), fixed(t.OpenPrice, 5), fixed(t.StopLoss, 5), fixed(t.TakeProfit, 5),
			t.CloseTime.Format(terminalTime), fixed(t.ClosePrice, 5),
			grouped(t.Commission, 2), grouped(t.Swap, 2), grouped(t.Profit, 2), t.Comment.TakeOr(""),
		))
	}

	b.WriteString(sectionHeader(14, "Orders"))
	b.WriteString(sectionHeader(14, "Deals"))
	b.WriteString(headerRow("Time", "Deal", "Symbol", "Type", "Direction", "Volume", "Price", "Order",
		"Commission", "Swap", "Profit", "Balance", "Comment"))
	b.WriteString(dataRow(0, f.dealsStart().Format(terminalTime), "1", "", "balance", "", "", "", "",
		"0.00", "0.00", grouped(c.InitialDeposit, 2), grouped(c.InitialDeposit, 2), "Initial deposit"))

	balance := c.InitialDeposit
	for i, t := range f.Trades {
		balance += t.NetProfit()
		b.WriteString(dataRow(i+1, t.CloseTime.Format(terminalTime), strconv.Itoa(100+i), t.Symbol, string(t.Type), "out",
			fixed(t.Volume, 2), fixed(t.ClosePrice, 5), strconv.Itoa(200+i),
			grouped(t.Commission, 2), grouped(t.Swap, 2), grouped(t.Profit, 2), grouped(balance, 2), ""))
	}

	b.WriteString(labelRow(
		"Deposit:", grouped(c.InitialDeposit, 2),
	))
	b.WriteString(labelRow(
		"Balance:", grouped(s.FinalBalance, 2),
		"Free Margin:", grouped(s.FinalBalance, 2),
	))
	b.WriteString(labelRow(
		"Credit Facility:", "0.00",
		"Margin:", "0.00",
	))
	b.WriteString(labelRow(
		"Floating P/L:", "0.00",
		"Margin Level:", "0.00%",
	))
	b.WriteString(labelRow(
		"Equity:", grouped(s.FinalBalance, 2),
	))

	if !c.OmitResults {
		b.WriteString(sectionHeader(14, "Results"))

		for _, row := range resultRows(s) {
			b.WriteString(labelRow(row...))
		}
	}

	b.WriteString("</table>\n</body>\n</html>\n")

	return []byte(b.String())
}

// XLSX renders the fixture the way the terminal's "Report > Open XML" export does:
// labels in column A, values in column D, the Results block at fixed offsets.
func (f HistoryFixture) XLSX() ([]byte, error) {
	c := f.Config
	s := f.Summary()
	w := newSheetWriter()
	defer w.close()

	w.row(map[int]any{0: "Trade History Report"})
	w.row(map[int]any{0: "Name:", 3: c.Name})
	w.row(map[int]any{0: "Account:", 3: fmt.Sprintf("%s (%s, %s, %s, %s)", c.AccountNumber, c.Currency, c.Server, c.AccountType, c.HedgingMode)})
	w.row(map[int]any{0: "Company:", 3: c.Company})
	w.row(map[int]any{0: "Date:", 3: f.sheetTime(c.ReportDate)})

	w.row(map[int]any{0: "Positions"})
	w.strings("Time", "Position", "Symbol", "Type", "Volume", "Price", "S / L", "T / P",
		"Time", "Price", "Commission", "Swap", "Profit", "Comment", "Magic Number")

	for _, t := range f.Trades {
		cells := map[int]any{
			0: f.sheetTime(t.OpenTime), 1: t.Position, 2: t.Symbol, 3: string(t.Type),
			4: t.Volume, 5: t.OpenPrice, 6: t.StopLoss, 7: t.TakeProfit,
			8: f.sheetTime(t.CloseTime), 9: t.ClosePrice,
			10: t.Commission, 11: t.Swap, 12: t.Profit,
		}

		if comment, err := t.Comment.Take(); err == nil {
			cells[13] = comment
		}

		if magic, err := t.MagicNumber.Take(); err == nil {
			cells[14] = magic
		}

		w.row(cells)
	}

	w.row(map[int]any{0: "Orders"})
	w.strings("Open Time", "Order", "Symbol", "Type", "Volume", "Price", "S / L", "T / P", "Time", "State", "Comment")

	for _, t := range f.Trades {
		cells := map[int]any{
			0: f.sheetTime(t.OpenTime), 1: t.Position, 2: t.Symbol, 3: string(t.Type),
			4: fmt.Sprintf("%s / %s", fixed(t.Volume, 2), fixed(t.Volume, 2)), 5: t.OpenPrice,
			8: f.sheetTime(t.OpenTime), 9: "filled",
		}

		if strategy, err := t.Strategy.Take(); err == nil {
			cells[10] = "[" + strategy + "] entry"
		}

		w.row(cells)
	}

	w.row(map[int]any{0: "Deals"})
	w.strings("Time", "Deal", "Symbol", "Type", "Direction", "Volume", "Price", "Order",
		"Commission", "Swap", "Profit", "Balance", "Comment")
	w.row(map[int]any{0: f.sheetTime(f.dealsStart()), 1: 1, 3: "balance", 8: 0, 9: 0,
		10: c.InitialDeposit, 11: c.InitialDeposit, 12: "Initial deposit"})
	w.blank()

	w.row(map[int]any{0: "Balance:", 3: s.FinalBalance, 6: "Free Margin:", 9: s.FinalBalance})
	w.row(map[int]any{0: "Credit Facility:", 3: 0, 6: "Margin:", 9: 0})
	w.row(map[int]any{0: "Floating P/L:", 3: 0, 6: "Margin Level:", 9: "0.00%"})
	w.row(map[int]any{0: "Equity:", 3: s.FinalBalance})
	w.blank()

	if !c.OmitResults {
		w.row(map[int]any{0: "Results"})
		w.row(map[int]any{0: "Total Net Profit:", 3: s.NetProfit, 4: "Gross Profit:", 7: s.GrossProfit, 8: "Gross Loss:", 11: s.GrossLoss})
		w.row(map[int]any{0: "Profit Factor:", 3: s.ProfitFactor, 4: "Expected Payoff:", 7: s.ExpectedPayoff})
		w.row(map[int]any{0: "Recovery Factor:", 3: 1.5, 4: "Sharpe Ratio:", 7: 2.1})
		w.blank()
		w.row(map[int]any{0: "Balance Drawdown Absolute:", 3: 0,
			4: "Balance Drawdown Maximal:", 7: valuePercent(s.DrawdownMaximal, s.DrawdownMaximalPercent),
			8: "Balance Drawdown Relative:", 11: percentValue(s.DrawdownMaximalPercent, s.DrawdownMaximal)})
		w.row(map[int]any{0: "Total Trades:", 3: s.Trades,
			4: "Short Trades (won %):", 7: countPercent(s.Short, s.ShortWon),
			8: "Long Trades (won %):", 11: countPercent(s.Long, s.LongWon)})
		w.row(map[int]any{4: "Profit Trades (% of total):", 7: countPercent(s.Trades, s.ProfitTrades),
			8: "Loss Trades (% of total):", 11: countPercent(s.Trades, s.LossTrades)})
		w.row(map[int]any{0: "", 4: "Largest profit trade:", 7: s.LargestProfit, 8: "Largest loss trade:", 11: s.LargestLoss})
		w.row(map[int]any{0: "", 4: "Average profit trade:", 7: s.AverageProfit, 8: "Average loss trade:", 11: s.AverageLoss})
		w.row(map[int]any{0: "", 4: "Maximum consecutive wins ($):", 7: countMoney(s.MaxWins, s.MaxWinsMoney),
			8: "Maximum consecutive losses ($):", 11: countMoney(s.MaxLosses, s.MaxLossesMoney)})
		w.row(map[int]any{0: "", 4: "Maximal consecutive profit (count):", 7: moneyCount(s.MaximalProfit, s.MaximalProfitCount),
			8: "Maximal consecutive loss (count):", 11: moneyCount(s.MaximalLoss, s.MaximalLossCount)})
		w.row(map[int]any{0: "", 4: "Average consecutive wins:", 7: s.AverageWins, 8: "Average consecutive losses:", 11: s.AverageLosses})
	}

	return w.bytes()
}

// sheetTime is the value of an XLSX time cell.
func (f HistoryFixture) sheetTime(t time.Time) any {
	if f.Config.SerialTimes {
		return t
	}

	return t.Format(terminalTime)
}

func (f HistoryFixture) dealsStart() time.Time {
	if len(f.Trades) == 0 {
		return f.Config.StartTime
	}

	return f.Trades[0].OpenTime.Add(-time.Hour)
}

// resultRows are the label/value pairs of the HTML Results block, one slice per row.
func resultRows(s Summary) [][]string {
	return [][]string{
		{"Total Net Profit:", grouped(s.NetProfit, 2), "Gross Profit:", grouped(s.GrossProfit, 2), "Gross Loss:", grouped(s.GrossLoss, 2)},
		{"Profit Factor:", fixed(s.ProfitFactor, 2), "Expected Payoff:", fixed(s.ExpectedPayoff, 2)},
		{"Recovery Factor:", "1.50", "Sharpe Ratio:", "2.10"},
		{"Balance Drawdown Absolute:", "0.00",
			"Balance Drawdown Maximal:", valuePercent(s.DrawdownMaximal, s.DrawdownMaximalPercent),
			"Balance Drawdown Relative:", percentValue(s.DrawdownMaximalPercent, s.DrawdownMaximal)},
		{"Total Trades:", strconv.Itoa(s.Trades),
			"Short Trades (won %):", countPercent(s.Short, s.ShortWon),
			"Long Trades (won %):", countPercent(s.Long, s.LongWon)},
		{"Profit Trades (% of total):", countPercent(s.Trades, s.ProfitTrades),
			"Loss Trades (% of total):", countPercent(s.Trades, s.LossTrades)},
		{"Largest profit trade:", grouped(s.LargestProfit, 2), "Largest loss trade:", grouped(s.LargestLoss, 2)},
		{"Average profit trade:", grouped(s.AverageProfit, 2), "Average loss trade:", grouped(s.AverageLoss, 2)},
		{"Maximum consecutive wins ($):", countMoney(s.MaxWins, s.MaxWinsMoney),
			"Maximum consecutive losses ($):", countMoney(s.MaxLosses, s.MaxLossesMoney)},
		{"Maximal consecutive profit (count):", moneyCount(s.MaximalProfit, s.MaximalProfitCount),
			"Maximal consecutive loss (count):", moneyCount(s.MaximalLoss, s.MaximalLossCount)},
		{"Average consecutive wins:", strconv.Itoa(s.AverageWins), "Average consecutive losses:", strconv.Itoa(s.AverageLosses)},
	}
}

const terminalTime = "2006.01.02 15:04:05"

func esc(s string) string {
	return html.EscapeString(s)
}

func sectionHeader(span int, title string) string {
	return fmt.Sprintf("<tr align=\"center\"><th colspan=\"%d\" style=\"height: 25px\"><div style=\"font: 10pt Tahoma\"><b>%s</b></div></th></tr>\n",
		span, esc(title))
}

func headerRow(cells ...string) string {
	var b strings.Builder

	b.WriteString("<tr align=\"center\" bgcolor=\"#E5F0FC\">")
	for _, cell := range cells {
		fmt.Fprintf(&b, "<td nowrap><b>%s</b></td>", esc(cell))
	}
	b.WriteString("</tr>\n")

	return b.String()
}

// dataRow alternates the two row colours the terminal uses.
func dataRow(i int, cells ...string) string {
	var b strings.Builder

	color := "#FFFFFF"
	if i%2 == 1 {
		color = "#F7F7F7"
	}

	fmt.Fprintf(&b, "<tr bgcolor=\"%s\" align=\"right\">", color)
	for _, cell := range cells {
		fmt.Fprintf(&b, "<td>%s</td>", esc(cell))
	}
	b.WriteString("</tr>\n")

	return b.String()
}

// labelRow renders label/value pairs, each label spanning three columns and each
// value in bold in the next cell.
func labelRow(pairs ...string) string {
	var b strings.Builder

	b.WriteString("<tr align=\"right\">")
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(&b, "<td nowrap colspan=\"3\">%s</td><td nowrap><b>%s</b></td>", esc(pairs[i]), esc(pairs[i+1]))
	}
	b.WriteString("</tr>\n")

	return b.String()
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))

	return math.Round(v*p) / p
}

func fixed(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

// grouped formats v with space separated thousands, "12 345.67".
func grouped(v float64, places int) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', places, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder

	if v < 0 && s != strconv.FormatFloat(0, 'f', places, 64) {
		b.WriteByte('-')
	}

	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(' ')
		}

		b.WriteRune(r)
	}

	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	return b.String()
}

func valuePercent(value, percent float64) string {
	return fmt.Sprintf("%s (%s%%)", grouped(value, 2), fixed(percent, 2))
}

func percentValue(percent, value float64) string {
	return fmt.Sprintf("%s%% (%s)", fixed(percent, 2), grouped(value, 2))
}

// countPercent prints "count (part/count %)".
func countPercent(count, part int) string {
	percent := 0.0
	if count > 0 {
		percent = float64(part) / float64(count) * 100
	}

	if count == 0 || part == 0 {
		return fmt.Sprintf("%d (0.00%%)", count)
	}

	return fmt.Sprintf("%d (%s%%)", count, fixed(percent, 2))
}

func countMoney(count int, money float64) string {
	return fmt.Sprintf("%d (%s)", count, grouped(money, 2))
}

func moneyCount(money float64, count int) string {
	return fmt.Sprintf("%s (%d)", grouped(money, 2), count)
}

// sheetWriter appends rows to the first worksheet of a new workbook.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	next  int
	err   error
}

func newSheetWriter() *sheetWriter {
	f := excelize.NewFile()

	return &sheetWriter{file: f, sheet: f.GetSheetName(0), next: 1}
}

// row writes the cells of the next row, keyed by 0-based column.
func (w *sheetWriter) row(cells map[int]any) {
	for col, value := range cells {
		if w.err != nil {
			return
		}

		name, err := excelize.CoordinatesToCellName(col+1, w.next)
		if err != nil {
			w.err = err
			return
		}

		w.err = w.file.SetCellValue(w.sheet, name, value)
	}

	w.next++
}

func (w *sheetWriter) strings(cells ...string) {
	row := make(map[int]any, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}

	w.row(row)
}

func (w *sheetWriter) blank() {
	w.next++
}

func (w *sheetWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}

	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (w *sheetWriter) close() {
	_ = w.file.Close()
}
