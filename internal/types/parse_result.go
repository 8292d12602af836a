package types

import (
	"github.com/rxtech-lab/argo-report/pkg/errors"
)

// ParseResult is the outcome of parsing one document.
// Either Success is true and Report is set, or Error carries a short message for the user.
type ParseResult struct {
	Success     bool         `json:"success"`
	Report      Report       `json:"report,omitempty"`
	Error       string       `json:"error,omitempty"`
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`

	err error
}

// NewParseSuccess wraps a fully built report.
func NewParseSuccess(report Report, diagnostics *Diagnostics) ParseResult {
	return ParseResult{
		Success:     true,
		Report:      report,
		Diagnostics: diagnostics,
	}
}

// NewParseFailure wraps the error that stopped a parse. No report is returned.
func NewParseFailure(err error, diagnostics *Diagnostics) ParseResult {
	return ParseResult{
		Success:     false,
		Error:       errors.UserMessage(err),
		Diagnostics: diagnostics,
		err:         err,
	}
}

// Err returns the coded error of a failed parse, or nil.
func (r ParseResult) Err() error {
	if r.Success {
		return nil
	}

	if r.err == nil {
		return errors.New(errors.ErrCodeReportParseFailed, r.Error)
	}

	return r.err
}

// TradeHistory returns the report as a trade history report when it is one.
func (r ParseResult) TradeHistory() (*TradeHistoryReport, bool) {
	report, ok := r.Report.(*TradeHistoryReport)

	return report, ok
}

// Backtest returns the report as a backtest report when it is one.
func (r ParseResult) Backtest() (*BacktestReport, bool) {
	report, ok := r.Report.(*BacktestReport)

	return report, ok
}
