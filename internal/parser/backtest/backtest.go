// Package backtest parses MT5 strategy tester reports in HTML and xlsx form.
//
// The tester prints deals rather than positions. Trades are rebuilt by pairing
// every exit deal with a pending entry deal, see DealMatcher.
package backtest

import (
	"regexp"
	"strings"

	"github.com/rxtech-lab/argo-report/internal/metrics"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"go.uber.org/zap"
)

const (
	// Marker is printed in the title of every strategy tester report.
	Marker = "Strategy Tester Report"

	// DefaultInitialDeposit is used when the deals carry no balance operation.
	DefaultInitialDeposit = 10000.0

	sectionSettings = "Settings"
	sectionDeals    = "Deals"
	sectionResults  = "Results"
)

// Settings labels.
const (
	labelExpert = "Expert:"
	labelSymbol = "Symbol:"
	labelPeriod = "Period:"
	labelInputs = "Inputs:"
	labelBars   = "Bars:"
)

var errNotBacktest = errors.New(errors.ErrCodeIdentityMismatch,
	"This does not appear to be an MT5 Backtest Report. Please upload a Strategy Tester Report.")

var brokerPattern = regexp.MustCompile(`^(.+?)\s*\(Build\s+(\d+)\)$`)

// parseBroker splits "ICMarketsSC-Demo (Build 5399)".
func parseBroker(text string) (broker, build string, ok bool) {
	match := brokerPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return "", "", false
	}

	return strings.TrimSpace(match[1]), match[2], true
}

// settingsBuilder accumulates the label/value pairs of the Settings block.
type settingsBuilder struct {
	settings types.BacktestSettings
	seen     map[string]bool
}

func newSettingsBuilder() *settingsBuilder {
	return &settingsBuilder{
		settings: types.BacktestSettings{Inputs: map[string]types.InputValue{}},
		seen:     map[string]bool{},
	}
}

func (b *settingsBuilder) setBroker(text string) bool {
	broker, build, ok := parseBroker(text)
	if !ok {
		return false
	}

	b.settings.Broker = broker
	b.settings.Build = build
	b.seen["broker"] = true

	return true
}

// add feeds one settings row. An empty label continues the Inputs list.
func (b *settingsBuilder) add(label, value string) {
	switch strings.TrimSpace(label) {
	case labelExpert:
		b.set("expert", &b.settings.Expert, value)
	case labelSymbol:
		b.set("symbol", &b.settings.Symbol, value)
	case labelPeriod:
		b.set("period", &b.settings.Period, value)
	case labelInputs, "":
		b.addInput(value)
	}
}

func (b *settingsBuilder) set(field string, target *string, value string) {
	if b.seen[field] {
		return
	}

	*target = strings.TrimSpace(value)
	b.seen[field] = true
}

// addInput reads "Key=Value". Lines without a key or a value are not inputs.
func (b *settingsBuilder) addInput(line string) bool {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)

	if !found || key == "" || value == "" {
		return false
	}

	b.settings.Inputs[key] = types.ParseInputValue(value)

	return true
}

// build returns the settings and records every field that was not found.
func (b *settingsBuilder) build(session *extract.Session) types.BacktestSettings {
	for _, field := range []string{"expert", "symbol", "period", "broker"} {
		if !b.seen[field] {
			session.Default("settings."+field, "not found")
		}
	}

	return b.settings
}

// dealFeed runs the deals of one report through a DealMatcher and keeps the valid trades.
type dealFeed struct {
	session *extract.Session
	matcher *DealMatcher
	trades  []types.BacktestTrade
}

func newDealFeed(session *extract.Session) *dealFeed {
	return &dealFeed{
		session: session,
		matcher: NewDealMatcher(DefaultInitialDeposit),
		trades:  []types.BacktestTrade{},
	}
}

func (f *dealFeed) add(deal Deal) {
	trade, outcome := f.matcher.Feed(deal)

	switch outcome {
	case Closed:
		if f.session.Check(sectionDeals, deal.Row, &trade) {
			f.trades = append(f.trades, trade)
		}
	case Unmatched:
		f.session.Diagnostics.UnmatchedDeal()
		f.session.Logger.Debug("Exit deal without a pending entry",
			zap.Int("row", deal.Row),
			zap.Int64("ticket", deal.Ticket),
			zap.Float64("volume", deal.Volume),
		)
	case Ignored:
		f.session.SkipRow(errors.NewRowErrorf(sectionDeals, deal.Row, "direction",
			"unsupported %s deal with direction %q", deal.Type, deal.Direction))
	}
}

// finish sets the balance fields from the deals, backfills the metrics the
// document did not print and builds the result.
func finish(session *extract.Session, settings types.BacktestSettings, feed *dealFeed, m types.BacktestMetrics) types.ParseResult {
	matcher := feed.matcher

	if !matcher.Seeded() {
		session.Default("metrics.initial_deposit", "no balance deal")
	}

	m.InitialDeposit = matcher.InitialDeposit()
	m.Balance = matcher.FinalBalance()
	m.Equity = matcher.FinalBalance()

	if pending := matcher.Pending(); pending > 0 {
		session.Logger.Debug("Entries left open at the end of the test", zap.Int("pending", pending))
	}

	trades := types.BaseTrades(feed.trades)
	if filled := metrics.FillMissing(&m.PerformanceMetrics, trades, session.Diagnostics); len(filled) > 0 {
		session.Logger.Debug("Metrics derived from trades", zap.Strings("fields", filled))
	}

	report := types.NewBacktestReport(settings, feed.trades, m, session.Now())

	return session.Succeed(report)
}
