// Package history parses MT5 trade history reports, the account statement a
// terminal exports from its History tab, in HTML and xlsx form.
package history

import (
	"strings"

	"github.com/rxtech-lab/argo-report/internal/metrics"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"go.uber.org/zap"
)

const (
	// Marker is printed in the title of every trade history report.
	Marker = "Trade History Report"

	// DefaultInitialDeposit is used by workbooks whose deals carry no balance operation.
	DefaultInitialDeposit = 10000.0

	sectionPositions = "Positions"
	sectionOrders    = "Orders"
	sectionDeals     = "Deals"
	sectionResults   = "Results"
	sectionSummary   = "Summary"
)

var errNotHistory = errors.New(errors.ErrCodeIdentityMismatch,
	"This does not appear to be an MT5 Trade History Report. Please upload a Trade History Report.")

// finish backfills the metrics the document did not print and builds the result.
func finish(session *extract.Session, account types.AccountInfo, trades []types.Trade, m types.PerformanceMetrics) types.ParseResult {
	if filled := metrics.FillMissing(&m, trades, session.Diagnostics); len(filled) > 0 {
		session.Logger.Debug("Metrics derived from trades", zap.Strings("fields", filled))
	}

	report := types.NewTradeHistoryReport(account, trades, m, session.Now())

	return session.Succeed(report)
}

// tradeType reads a position direction. Anything but buy or sell is returned as is
// and rejected by trade validation.
func tradeType(raw string) types.TradeType {
	return types.TradeType(strings.ToLower(strings.TrimSpace(raw)))
}
