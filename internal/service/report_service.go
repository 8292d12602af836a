// Package service ties parsing and persistence together for the command line.
package service

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/internal/logger"
	"github.com/rxtech-lab/argo-report/internal/metrics"
	"github.com/rxtech-lab/argo-report/internal/parser"
	"github.com/rxtech-lab/argo-report/internal/store"
	"github.com/rxtech-lab/argo-report/internal/types"
	"go.uber.org/zap"
)

// IngestResult is the outcome of one uploaded file.
type IngestResult struct {
	Result types.ParseResult
	Saved  store.SavedReport
}

// Summary is the headline view of a report.
type Summary struct {
	Name              string                     `yaml:"name" json:"name"`
	Kind              types.ReportType           `yaml:"type" json:"type"`
	Trades            int                        `yaml:"trades" json:"trades"`
	InitialDeposit    float64                    `yaml:"initial_deposit" json:"initial_deposit"`
	TotalNetProfit    float64                    `yaml:"total_net_profit" json:"total_net_profit"`
	ProfitFactor      float64                    `yaml:"profit_factor" json:"profit_factor"`
	Derived           metrics.DerivedMetrics     `yaml:"derived" json:"derived"`
	ReportPeriodStart optional.Option[time.Time] `yaml:"report_period_start" json:"report_period_start,omitempty"`
	ReportPeriodEnd   optional.Option[time.Time] `yaml:"report_period_end" json:"report_period_end,omitempty"`
}

// Analysis holds the charts computed from the trades of a report.
type Analysis struct {
	Curve         metrics.Curve        `yaml:"curve" json:"curve"`
	Returns       metrics.Returns      `yaml:"returns" json:"returns"`
	ByStrategy    []metrics.GroupStats `yaml:"by_strategy" json:"by_strategy"`
	ByMagicNumber []metrics.GroupStats `yaml:"by_magic_number" json:"by_magic_number"`
}

// ReportService parses uploads and keeps the successful ones.
type ReportService struct {
	parser parser.Parser
	store  store.ReportStore
	logger *logger.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(p parser.Parser, s store.ReportStore, log *logger.Logger) *ReportService {
	return &ReportService{
		parser: p,
		store:  s,
		logger: log,
	}
}

// Parse parses an upload without saving it.
func (s *ReportService) Parse(filename string, content []byte, kind types.ReportType) types.ParseResult {
	result := s.parser.Parse(filename, content, kind)
	s.logResult(filename, kind, result)

	return result
}

// Ingest parses an upload and saves the report for userID, making it the active report.
// A failed parse is returned as the coded error of the result and nothing is saved.
func (s *ReportService) Ingest(ctx context.Context, filename string, content []byte, kind types.ReportType, userID string) (IngestResult, error) {
	result := s.Parse(filename, content, kind)
	if !result.Success {
		return IngestResult{Result: result}, result.Err()
	}

	saved, err := s.store.Save(ctx, userID, result.Report)
	if err != nil {
		s.logger.Error("Failed to save parsed report", zap.String("file", filename), zap.Error(err))

		return IngestResult{Result: result}, err
	}

	return IngestResult{Result: result, Saved: saved}, nil
}

func (s *ReportService) logResult(filename string, kind types.ReportType, result types.ParseResult) {
	if !result.Success {
		s.logger.Warn("Report rejected",
			zap.String("file", filename),
			zap.String("kind", string(kind)),
			zap.String("reason", result.Error),
		)

		return
	}

	fields := []zap.Field{
		zap.String("file", filename),
		zap.String("kind", string(kind)),
		zap.Int("trades", result.Report.TradeCount()),
	}

	if d := result.Diagnostics; d != nil {
		fields = append(fields,
			zap.Int("defaults", d.DefaultCount()),
			zap.Int("skipped_rows", len(d.SkippedRows)),
			zap.Int("unmatched_deals", d.UnmatchedDeals),
		)
	}

	s.logger.Info("Report parsed", fields...)
}

// Summarize returns the headline numbers of report.
func Summarize(report types.Report) Summary {
	m := report.Summary()
	meta := report.Meta()

	return Summary{
		Name:              report.DisplayName(),
		Kind:              report.Kind(),
		Trades:            report.TradeCount(),
		InitialDeposit:    m.InitialDeposit,
		TotalNetProfit:    m.TotalNetProfit,
		ProfitFactor:      m.ProfitFactor,
		Derived:           metrics.CalculateReportMetrics(report),
		ReportPeriodStart: meta.ReportPeriodStart,
		ReportPeriodEnd:   meta.ReportPeriodEnd,
	}
}

// Analyze computes the balance curve, returns and breakdowns of report.
func Analyze(report types.Report) Analysis {
	trades := types.ReportTrades(report)
	deposit := report.Summary().InitialDeposit

	return Analysis{
		Curve:         metrics.EquityCurve(trades, deposit),
		Returns:       metrics.MonthlyReturns(trades, deposit),
		ByStrategy:    metrics.BreakdownByStrategy(trades),
		ByMagicNumber: metrics.BreakdownByMagicNumber(trades),
	}
}
