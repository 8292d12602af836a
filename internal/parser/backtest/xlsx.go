package backtest

import (
	"strings"

	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/parser/layout"
	"github.com/rxtech-lab/argo-report/internal/types"
	"go.uber.org/zap"
)

// ParseXLSX parses the xlsx export of a strategy tester report.
func ParseXLSX(content []byte, opts extract.Options) (result types.ParseResult) {
	session := extract.NewSession(opts, "backtest-xlsx")
	defer session.Recover(&result)

	grid, err := extract.OpenGrid(content)
	if err != nil {
		return session.Fail(err)
	}

	if _, ok := grid.FindContaining(Marker); !ok {
		return session.Fail(errNotBacktest)
	}

	settings := parseSheetSettings(grid, session)
	feed := parseSheetDeals(grid, session)
	m := parseSheetMetrics(grid, settings.Build, session)

	return finish(session, settings, feed, m)
}

// parseSheetSettings reads the settings labels in column 0 with their values in the
// settings value column. Labels that are missing fall back to the fixed rows.
func parseSheetSettings(grid extract.Grid, session *extract.Session) types.BacktestSettings {
	builder := newSettingsBuilder()

	if !builder.setBroker(grid.At(layout.SheetBrokerRow, 0)) {
		for r := 0; r < layout.SheetInputsFirstRow && r < len(grid); r++ {
			if builder.setBroker(grid.At(r, 0)) {
				break
			}
		}
	}

	for _, field := range []struct {
		label string
		row   int
	}{
		{label: labelExpert, row: layout.SheetExpertRow},
		{label: labelSymbol, row: layout.SheetSymbolRow},
		{label: labelPeriod, row: layout.SheetPeriodRow},
	} {
		row := grid.FindRow(0, field.label, 0)
		if row < 0 {
			row = field.row
		}

		if value := grid.At(row, layout.SheetSettingsValueCol); value != "" {
			builder.add(field.label, value)
		}
	}

	parseSheetInputs(grid, builder)

	return builder.build(session)
}

// parseSheetInputs reads the "Inputs:" row and its continuation rows, whose label
// cell is empty.
func parseSheetInputs(grid extract.Grid, builder *settingsBuilder) {
	start := grid.FindRow(0, labelInputs, 0)
	if start < 0 {
		for r := layout.SheetInputsFirstRow; r <= layout.SheetInputsLastRow && r < len(grid); r++ {
			builder.addInput(grid.At(r, layout.SheetSettingsValueCol))
		}

		return
	}

	for r := start; r < len(grid); r++ {
		if r > start && grid.At(r, 0) != "" {
			return
		}

		value := grid.At(r, layout.SheetSettingsValueCol)
		if value == "" || !builder.addInput(value) {
			return
		}
	}
}

// parseSheetDeals feeds the rows below the Deals header to the matcher. The table
// ends at the first short row or the first trade deal without a symbol.
func parseSheetDeals(grid extract.Grid, session *extract.Session) *dealFeed {
	feed := newDealFeed(session)

	title := -1
	for r := range grid {
		if strings.EqualFold(grid.At(r, 0), sectionDeals) {
			title = r
			break
		}
	}

	if title < 0 {
		session.MissingSection(sectionDeals)

		return feed
	}

	// Skip the title and the column header.
	for r := title + 2; r < len(grid); r++ {
		if len(grid.Row(r)) < layout.DealColumns {
			break
		}

		deal, rowErr := readDeal(r+1, func(col int) string { return grid.At(r, col) }, extract.ParseSheetTime)

		if !deal.IsBalance() && deal.Symbol == "" {
			break
		}

		if rowErr != nil {
			session.SkipRow(rowErr)

			continue
		}

		feed.add(deal)
	}

	return feed
}

// parseSheetMetrics reads the Results block at fixed offsets from the "Bars:" row,
// using the offsets of the terminal build that produced the report.
func parseSheetMetrics(grid extract.Grid, build string, session *extract.Session) types.BacktestMetrics {
	m := types.NewBacktestMetrics()

	source := extract.OffsetSource{Grid: grid}

	if bars, ok := grid.FindContaining(labelBars); ok {
		generation := layout.Select(build)
		session.Logger.Debug("Metric layout selected", zap.String("generation", generation.Name), zap.String("build", build))

		source.Anchor = extract.Cell{Row: bars.Row}
		source.Offsets = generation.TesterBars
	} else {
		// Without offsets every metric is recorded as defaulted.
		session.MissingSection(sectionResults)
	}

	extract.Apply(extract.BacktestRules(), source, &m, session.Diagnostics, session.Logger)

	return m
}
