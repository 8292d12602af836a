package history

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/parser/layout"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
)

const positionsHeaderSelector = `th[colspan="14"]`

// ParseHTML parses the HTML export of a trade history report.
func ParseHTML(content []byte, opts extract.Options) (result types.ParseResult) {
	session := extract.NewSession(opts, "trade-history-html")
	defer session.Recover(&result)

	doc, err := extract.LoadDocument(content)
	if err != nil {
		return session.Fail(err)
	}

	if !strings.Contains(extract.Title(doc), Marker) && !strings.Contains(doc.Find("body").Text(), Marker) {
		return session.Fail(errNotHistory)
	}

	account := parseHTMLAccount(doc, session)
	trades := parseHTMLPositions(doc, session)

	var m types.PerformanceMetrics
	extract.Apply(extract.HistoryRules(), extract.BoldValueSource{Rows: extract.Rows(doc)}, &m, session.Diagnostics, session.Logger)

	return finish(session, account, trades, m)
}

// parseHTMLAccount reads the header rows, each a pair of th cells: label then value.
func parseHTMLAccount(doc *goquery.Document, session *extract.Session) types.AccountInfo {
	builder := extract.NewAccountBuilder(session.Diagnostics, extract.ParseTerminalTime)

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("th")
		if cells.Length() < 2 {
			return
		}

		builder.Add(extract.Text(cells.Eq(0)), extract.Text(cells.Eq(1)))
	})

	return builder.Build()
}

// positionsTable returns the table whose 14 column header reads "Positions".
func positionsTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection

	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if t.Find(positionsHeaderSelector).FilterFunction(isPositionsHeader).Length() > 0 {
			table = t
			return false
		}

		return true
	})

	return table
}

func isPositionsHeader(_ int, th *goquery.Selection) bool {
	return strings.Contains(th.Text(), sectionPositions)
}

// parseHTMLPositions reads the data rows of the Positions section. A report that
// prints every section in one table is read up to the next section header.
func parseHTMLPositions(doc *goquery.Document, session *extract.Session) []types.Trade {
	table := positionsTable(doc)
	if table == nil {
		session.MissingSection(sectionPositions)

		return []types.Trade{}
	}

	var trades []types.Trade

	inPositions := false
	row := 0

	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if header := tr.Find(positionsHeaderSelector); header.Length() > 0 {
			inPositions = header.FilterFunction(isPositionsHeader).Length() > 0

			return
		}

		if !inPositions || !tr.Is(layout.DataRowSelector) {
			return
		}

		row++

		cells := tr.ChildrenFiltered("td")
		if cells.Length() < layout.PositionColumns {
			session.SkipRow(errors.NewRowErrorf(sectionPositions, row, "", "expected %d cells, found %d", layout.PositionColumns, cells.Length()))

			return
		}

		text := func(col int) string { return extract.Text(cells.Eq(col)) }

		trade, ok := parsePositionRow(session, row, text)
		if !ok {
			return
		}

		if comment := text(layout.PositionColumns); comment != "" {
			trade.Comment = optional.Some(comment)
			trade.Strategy = extract.ExtractStrategy(comment)
		}

		if session.Check(sectionPositions, row, &trade) {
			trades = append(trades, trade)
		}
	})

	if trades == nil {
		trades = []types.Trade{}
	}

	return trades
}

// parsePositionRow reads the positional columns of a positions row.
func parsePositionRow(session *extract.Session, row int, text func(col int) string) (types.Trade, bool) {
	openTime, ok := extract.ParseTerminalTime(text(layout.PositionOpenTime))
	if !ok {
		session.SkipRow(errors.NewRowErrorf(sectionPositions, row, "open_time", "unreadable time %q", text(layout.PositionOpenTime)))

		return types.Trade{}, false
	}

	closeTime, ok := extract.ParseTerminalTime(text(layout.PositionCloseTime))
	if !ok {
		session.SkipRow(errors.NewRowErrorf(sectionPositions, row, "close_time", "unreadable time %q", text(layout.PositionCloseTime)))

		return types.Trade{}, false
	}

	return types.Trade{
		OpenTime:   openTime,
		Position:   text(layout.PositionID),
		Symbol:     text(layout.PositionSymbol),
		Type:       tradeType(text(layout.PositionType)),
		Volume:     extract.NumberOr(text(layout.PositionVolume), 0),
		OpenPrice:  extract.NumberOr(text(layout.PositionOpenPrice), 0),
		StopLoss:   extract.NumberOr(text(layout.PositionStopLoss), 0),
		TakeProfit: extract.NumberOr(text(layout.PositionTakeProfit), 0),
		CloseTime:  closeTime,
		ClosePrice: extract.NumberOr(text(layout.PositionClosePrice), 0),
		Commission: extract.NumberOr(text(layout.PositionCommission), 0),
		Swap:       extract.NumberOr(text(layout.PositionSwap), 0),
		Profit:     extract.NumberOr(text(layout.PositionProfit), 0),
	}, true
}
