package backtest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/parser/layout"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
)

// ParseHTML parses the HTML export of a strategy tester report.
func ParseHTML(content []byte, opts extract.Options) (result types.ParseResult) {
	session := extract.NewSession(opts, "backtest-html")
	defer session.Recover(&result)

	doc, err := extract.LoadDocument(content)
	if err != nil {
		return session.Fail(err)
	}

	if !strings.Contains(extract.Title(doc), Marker) {
		return session.Fail(errNotBacktest)
	}

	settings := parseHTMLSettings(doc, session)
	feed := parseHTMLDeals(doc, session)

	m := types.NewBacktestMetrics()
	source := extract.NewAdjacentValueSource(extract.Rows(doc))
	extract.Apply(extract.BacktestRules(), source, &m, session.Diagnostics, session.Logger)

	return finish(session, settings, feed, m)
}

// parseHTMLSettings reads the broker line, a single cell "Broker (Build N)", and the
// settings rows, each a three column label followed by its value.
func parseHTMLSettings(doc *goquery.Document, session *extract.Session) types.BacktestSettings {
	builder := newSettingsBuilder()

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")

		if cells.Length() == 1 {
			builder.setBroker(extract.Text(cells))

			return
		}

		if cells.Length() < layout.HTMLSettingsMinCells {
			return
		}

		label := cells.FilterFunction(func(_ int, td *goquery.Selection) bool {
			span, _ := td.Attr("colspan")
			return span == layout.HTMLSettingsLabelSpan
		}).First()
		if label.Length() == 0 {
			return
		}

		value := cells.FilterFunction(func(_ int, td *goquery.Selection) bool {
			span, _ := td.Attr("colspan")
			return span == layout.HTMLSettingsValueSpan || td.Find("b").Length() > 0
		}).First()

		builder.add(extract.Text(label), extract.Text(value))
	})

	return builder.build(session)
}

func isDealsHeader(_ int, th *goquery.Selection) bool {
	return extract.Text(th) == sectionDeals
}

// parseHTMLDeals feeds the data rows of the Deals section to the matcher. Without a
// Deals header every data row of the document is read.
func parseHTMLDeals(doc *goquery.Document, session *extract.Session) *dealFeed {
	feed := newDealFeed(session)

	hasHeader := doc.Find("th").FilterFunction(isDealsHeader).Length() > 0
	if !hasHeader {
		session.MissingSection(sectionDeals)
	}

	inDeals := !hasHeader
	row := 0

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if headers := tr.ChildrenFiltered("th"); headers.Length() > 0 {
			if hasHeader {
				inDeals = headers.FilterFunction(isDealsHeader).Length() > 0
			}

			return
		}

		if !inDeals || !tr.Is(layout.DataRowSelector) {
			return
		}

		row++

		cells := tr.ChildrenFiltered("td")
		if cells.Length() < layout.DealColumns {
			session.SkipRow(errors.NewRowErrorf(sectionDeals, row, "", "expected %d cells, found %d", layout.DealColumns, cells.Length()))

			return
		}

		deal, rowErr := readDeal(row, func(col int) string { return extract.Text(cells.Eq(col)) }, extract.ParseTerminalTime)
		if rowErr != nil {
			session.SkipRow(rowErr)

			return
		}

		if !deal.IsBalance() && deal.Symbol == "" {
			return
		}

		feed.add(deal)
	})

	return feed
}
