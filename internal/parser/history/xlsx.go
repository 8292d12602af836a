package history

import (
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/parser/layout"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
)

// ParseXLSX parses the xlsx export of a trade history report.
func ParseXLSX(content []byte, opts extract.Options) (result types.ParseResult) {
	session := extract.NewSession(opts, "trade-history-xlsx")
	defer session.Recover(&result)

	grid, err := extract.OpenGrid(content)
	if err != nil {
		return session.Fail(err)
	}

	if _, ok := grid.FindContaining(Marker); !ok {
		return session.Fail(errNotHistory)
	}

	account := parseSheetAccount(grid, session)
	strategies := parseOrderStrategies(grid, session)
	trades := parseSheetPositions(grid, strategies, session)
	m := parseSheetMetrics(grid, trades, session)

	return finish(session, account, trades, m)
}

// parseSheetAccount reads the account labels of the leading rows. Values sit in
// the value column, or in the fallback column for narrow layouts.
func parseSheetAccount(grid extract.Grid, session *extract.Session) types.AccountInfo {
	builder := extract.NewAccountBuilder(session.Diagnostics, extract.ParseSheetTime)

	for r := 0; r < layout.AccountRows && r < len(grid); r++ {
		label := grid.At(r, 0)
		if label == "" {
			continue
		}

		value := grid.At(r, layout.AccountValueCol)
		if value == "" {
			value = grid.At(r, layout.AccountFallbackCol)
		}

		builder.Add(label, value)
	}

	return builder.Build()
}

// section returns the header row and the end row (exclusive) of a section whose
// title is printed in column 0. The header row is -1 when the section is absent.
func section(grid extract.Grid, title string, endTitles ...string) (header, end int) {
	start := grid.FindRow(0, title, 0)
	if start < 0 {
		return -1, -1
	}

	end = grid.FindRowAny(0, start+2, endTitles...)
	if end < 0 {
		end = len(grid)
	}

	return start + 1, end
}

// columnIndex maps lower-cased header cells to their column.
type columnIndex map[string]int

func (c columnIndex) get(name string, fallback int) int {
	if col, ok := c[name]; ok {
		return col
	}

	return fallback
}

// parseOrderStrategies maps order numbers to the strategy named in their comment.
func parseOrderStrategies(grid extract.Grid, session *extract.Session) map[string]string {
	strategies := map[string]string{}

	header, end := section(grid, sectionOrders, sectionDeals, sectionSummary)
	if header < 0 {
		session.MissingSection(sectionOrders)

		return strategies
	}

	columns := columnIndex{}
	for col, cell := range grid.Row(header) {
		switch strings.ToLower(cell) {
		case "order":
			columns["order"] = col
		case "comment":
			columns["comment"] = col
		}
	}

	orderCol, commentCol := columns.get("order", -1), columns.get("comment", -1)
	if orderCol < 0 || commentCol < 0 {
		return strategies
	}

	for r := header + 1; r < end; r++ {
		if len(grid.Row(r)) < layout.OrderMinCells {
			continue
		}

		order, comment := grid.At(r, orderCol), grid.At(r, commentCol)
		if order == "" || comment == "" {
			continue
		}

		if strategy, err := extract.ExtractStrategy(comment).Take(); err == nil {
			strategies[order] = strategy
		}
	}

	return strategies
}

// positionColumns locates the position fields by header text. Columns whose
// header is missing keep the standard position order.
func positionColumns(headers []string) map[string]int {
	columns := map[string]int{
		"open_time":   layout.PositionOpenTime,
		"position":    layout.PositionID,
		"symbol":      layout.PositionSymbol,
		"type":        layout.PositionType,
		"volume":      layout.PositionVolume,
		"open_price":  layout.PositionOpenPrice,
		"stop_loss":   layout.PositionStopLoss,
		"take_profit": layout.PositionTakeProfit,
		"close_time":  layout.PositionCloseTime,
		"close_price": layout.PositionClosePrice,
		"commission":  layout.PositionCommission,
		"swap":        layout.PositionSwap,
		"profit":      layout.PositionProfit,
		"comment":     layout.PositionColumns,
		"magic":       -1,
	}

	times, prices := 0, 0

	for col, raw := range headers {
		header := strings.ToLower(strings.TrimSpace(raw))

		switch {
		case strings.Contains(header, "time"):
			times++
			if times == 1 {
				columns["open_time"] = col
			} else if times == 2 {
				columns["close_time"] = col
			}
		case strings.Contains(header, "s / l") || strings.Contains(header, "stop"):
			columns["stop_loss"] = col
		case strings.Contains(header, "t / p") || strings.Contains(header, "take"):
			columns["take_profit"] = col
		case strings.Contains(header, "price"):
			prices++
			if prices == 1 {
				columns["open_price"] = col
			} else if prices == 2 {
				columns["close_price"] = col
			}
		case strings.Contains(header, "position") || strings.Contains(header, "ticket"):
			columns["position"] = col
		case strings.Contains(header, "symbol"):
			columns["symbol"] = col
		case strings.Contains(header, "type"):
			columns["type"] = col
		case strings.Contains(header, "volume"):
			columns["volume"] = col
		case strings.Contains(header, "commission"):
			columns["commission"] = col
		case strings.Contains(header, "swap"):
			columns["swap"] = col
		case strings.Contains(header, "profit"):
			columns["profit"] = col
		case strings.Contains(header, "comment"):
			columns["comment"] = col
		case strings.Contains(header, "magic"):
			columns["magic"] = col
		}
	}

	return columns
}

// parseSheetPositions reads the Positions section. The strategy of a position is
// taken from the orders map first, then from its own comment.
func parseSheetPositions(grid extract.Grid, strategies map[string]string, session *extract.Session) []types.Trade {
	trades := []types.Trade{}

	header, end := section(grid, sectionPositions, sectionOrders, sectionDeals)
	if header < 0 {
		session.MissingSection(sectionPositions)

		return trades
	}

	columns := positionColumns(grid.Row(header))

	for r := header + 1; r < end; r++ {
		if len(grid.Row(r)) < layout.OrderMinCells {
			continue
		}

		// Rows are reported by their 1-based sheet row.
		row := r + 1
		text := func(field string) string { return grid.At(r, columns[field]) }

		symbol, kind := text("symbol"), tradeType(text("type"))
		if symbol == "" || (kind != types.TradeTypeBuy && kind != types.TradeTypeSell) {
			session.SkipRow(errors.NewRowError(sectionPositions, row, "type", "not a buy or sell position"))

			continue
		}

		openTime, ok := extract.ParseSheetTime(text("open_time"))
		if !ok {
			session.SkipRow(errors.NewRowErrorf(sectionPositions, row, "open_time", "unreadable time %q", text("open_time")))

			continue
		}

		closeTime, ok := extract.ParseSheetTime(text("close_time"))
		if !ok {
			session.SkipRow(errors.NewRowErrorf(sectionPositions, row, "close_time", "unreadable time %q", text("close_time")))

			continue
		}

		trade := types.Trade{
			OpenTime:   openTime,
			Position:   text("position"),
			Symbol:     symbol,
			Type:       kind,
			Volume:     extract.NumberOr(text("volume"), 0),
			OpenPrice:  extract.NumberOr(text("open_price"), 0),
			StopLoss:   extract.NumberOr(text("stop_loss"), 0),
			TakeProfit: extract.NumberOr(text("take_profit"), 0),
			CloseTime:  closeTime,
			ClosePrice: extract.NumberOr(text("close_price"), 0),
			Commission: extract.NumberOr(text("commission"), 0),
			Swap:       extract.NumberOr(text("swap"), 0),
			Profit:     extract.NumberOr(text("profit"), 0),
		}

		comment := text("comment")
		if comment != "" {
			trade.Comment = optional.Some(comment)
		}

		if magic, ok := extract.ParseInt(text("magic")); ok {
			trade.MagicNumber = optional.Some(magic)
		}

		if strategy, found := strategies[trade.Position]; found && trade.Position != "" {
			trade.Strategy = optional.Some(strategy)
		} else {
			trade.Strategy = extract.ExtractStrategy(comment)
		}

		if session.Check(sectionPositions, row, &trade) {
			trades = append(trades, trade)
		}
	}

	return trades
}

// parseSheetMetrics reads the balance snapshot by label and the Results block by offset.
func parseSheetMetrics(grid extract.Grid, trades []types.Trade, session *extract.Session) types.PerformanceMetrics {
	var m types.PerformanceMetrics

	m.InitialDeposit = sheetDeposit(grid, session)

	extract.Apply(extract.SnapshotRules, extract.LabelColumnSource{Grid: grid, Columns: layout.SnapshotColumns}, &m, session.Diagnostics, session.Logger)

	if session.Diagnostics.Defaulted("metrics.equity") {
		m.Equity = m.Balance
	}

	source := extract.OffsetSource{Grid: grid}

	// Without a Results block every result metric is recorded as defaulted and
	// the trade totals are derived from the positions afterwards.
	if results := grid.FindRow(0, sectionResults, 0); results < 0 {
		session.MissingSection(sectionResults)
		m.TotalTrades = len(trades)
	} else {
		source.Anchor = extract.Cell{Row: results}
		source.Offsets = layout.Latest().HistoryResults
	}

	extract.Apply(extract.ResultRules, source, &m, session.Diagnostics, session.Logger)

	return m
}

// sheetDeposit reads the first balance operation below the Deals header.
func sheetDeposit(grid extract.Grid, session *extract.Session) float64 {
	deals := grid.FindRow(0, sectionDeals, 0)
	if deals < 0 {
		session.MissingSection(sectionDeals)
		session.Default("metrics.initial_deposit", "no Deals section")

		return DefaultInitialDeposit
	}

	for r := deals + 1; r < deals+layout.DepositSearchRows && r < len(grid); r++ {
		if !strings.EqualFold(grid.At(r, layout.DealType), "balance") {
			continue
		}

		if deposit, ok := extract.ParseNumber(grid.At(r, layout.DealBalance)); ok && deposit != 0 {
			return deposit
		}

		break
	}

	session.Default("metrics.initial_deposit", "no balance deal")

	return DefaultInitialDeposit
}
