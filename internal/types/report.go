package types

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"gopkg.in/yaml.v3"
)

type ReportType string

const (
	ReportTypeTradeHistory ReportType = "trade-history"
	ReportTypeBacktest     ReportType = "backtest"
)

// displayDateLayout is the date printed in report display names.
const displayDateLayout = "2006-01-02"

// Report is either a *TradeHistoryReport or a *BacktestReport.
type Report interface {
	// Kind returns the discriminant written to the "type" field.
	Kind() ReportType
	// Meta returns the identity and period fields shared by every report.
	Meta() *ReportMeta
	// TradeCount returns the number of completed trades.
	TradeCount() int
	// DisplayName returns the name used when the report is listed.
	DisplayName() string
	// Summary returns the headline numbers of the report.
	Summary() *PerformanceMetrics
}

// ReportMeta holds the fields set outside of the report contents.
// ID and UserID are only set once the report has been persisted.
type ReportMeta struct {
	ID                string                     `yaml:"id" json:"id,omitempty"`
	UserID            string                     `yaml:"user_id" json:"user_id,omitempty"`
	UploadedAt        time.Time                  `yaml:"uploaded_at" json:"uploaded_at"`
	ReportPeriodStart optional.Option[time.Time] `yaml:"report_period_start" json:"report_period_start,omitempty"`
	ReportPeriodEnd   optional.Option[time.Time] `yaml:"report_period_end" json:"report_period_end,omitempty"`
}

// TradeHistoryReport is a parsed account trade history export.
type TradeHistoryReport struct {
	ReportMeta  `yaml:",inline"`
	Type        ReportType         `yaml:"type" json:"type"`
	AccountInfo AccountInfo        `yaml:"account_info" json:"account_info"`
	Trades      []Trade            `yaml:"trades" json:"trades"`
	Metrics     PerformanceMetrics `yaml:"metrics" json:"metrics"`
}

// NewTradeHistoryReport builds a report and derives the period bounds from the trades.
func NewTradeHistoryReport(account AccountInfo, trades []Trade, metrics PerformanceMetrics, uploadedAt time.Time) *TradeHistoryReport {
	if trades == nil {
		trades = []Trade{}
	}

	start, end := TradePeriod(trades)

	return &TradeHistoryReport{
		ReportMeta: ReportMeta{
			UploadedAt:        uploadedAt,
			ReportPeriodStart: start,
			ReportPeriodEnd:   end,
		},
		Type:        ReportTypeTradeHistory,
		AccountInfo: account,
		Trades:      trades,
		Metrics:     metrics,
	}
}

func (r *TradeHistoryReport) Kind() ReportType { return ReportTypeTradeHistory }

func (r *TradeHistoryReport) Meta() *ReportMeta { return &r.ReportMeta }

func (r *TradeHistoryReport) TradeCount() int { return len(r.Trades) }

func (r *TradeHistoryReport) Summary() *PerformanceMetrics { return &r.Metrics }

func (r *TradeHistoryReport) DisplayName() string {
	return fmt.Sprintf("%s - %s", r.AccountInfo.Name, r.UploadedAt.Format(displayDateLayout))
}

// BacktestReport is a parsed strategy tester export.
type BacktestReport struct {
	ReportMeta `yaml:",inline"`
	Type       ReportType       `yaml:"type" json:"type"`
	Settings   BacktestSettings `yaml:"settings" json:"settings"`
	Trades     []BacktestTrade  `yaml:"trades" json:"trades"`
	Metrics    BacktestMetrics  `yaml:"metrics" json:"metrics"`
}

// NewBacktestReport builds a report and derives the period bounds from the trades.
func NewBacktestReport(settings BacktestSettings, trades []BacktestTrade, metrics BacktestMetrics, uploadedAt time.Time) *BacktestReport {
	if trades == nil {
		trades = []BacktestTrade{}
	}

	if settings.Inputs == nil {
		settings.Inputs = map[string]InputValue{}
	}

	start, end := TradePeriod(BaseTrades(trades))

	return &BacktestReport{
		ReportMeta: ReportMeta{
			UploadedAt:        uploadedAt,
			ReportPeriodStart: start,
			ReportPeriodEnd:   end,
		},
		Type:     ReportTypeBacktest,
		Settings: settings,
		Trades:   trades,
		Metrics:  metrics,
	}
}

func (r *BacktestReport) Kind() ReportType { return ReportTypeBacktest }

func (r *BacktestReport) Meta() *ReportMeta { return &r.ReportMeta }

func (r *BacktestReport) TradeCount() int { return len(r.Trades) }

func (r *BacktestReport) Summary() *PerformanceMetrics { return &r.Metrics.PerformanceMetrics }

func (r *BacktestReport) DisplayName() string {
	return fmt.Sprintf("%s (%s) - %s", r.Settings.Expert, r.Settings.Symbol, r.UploadedAt.Format(displayDateLayout))
}

// BaseTrades returns the embedded Trade of every backtest trade.
func BaseTrades(trades []BacktestTrade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, trade := range trades {
		out = append(out, trade.Trade)
	}

	return out
}

// ReportTrades returns the completed trades of any report.
func ReportTrades(report Report) []Trade {
	switch r := report.(type) {
	case *TradeHistoryReport:
		return r.Trades
	case *BacktestReport:
		return BaseTrades(r.Trades)
	default:
		return nil
	}
}

// MarshalReport encodes a report as JSON. The "type" field selects the concrete type on decode.
func MarshalReport(report Report) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerializationFailed, "failed to marshal report", err)
	}

	return data, nil
}

// UnmarshalReport decodes a report written by MarshalReport.
func UnmarshalReport(data []byte) (Report, error) {
	var envelope struct {
		Type ReportType `json:"type"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerializationFailed, "failed to read report type", err)
	}

	var report Report

	switch envelope.Type {
	case ReportTypeTradeHistory:
		report = &TradeHistoryReport{}
	case ReportTypeBacktest:
		report = &BacktestReport{}
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownReportType, "unknown report type %q", envelope.Type)
	}

	if err := json.Unmarshal(data, report); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSerializationFailed, err, "failed to unmarshal %s report", envelope.Type)
	}

	return report, nil
}

// MarshalReportYAML encodes a report as YAML using the same field names as the JSON encoding.
func MarshalReportYAML(report Report) ([]byte, error) {
	data, err := MarshalReport(report)
	if err != nil {
		return nil, err
	}

	// Optional fields only know how to encode themselves as JSON, so the YAML is
	// produced from the JSON document.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerializationFailed, "failed to convert report to YAML", err)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerializationFailed, "failed to marshal report to YAML", err)
	}

	return out, nil
}

// WriteReportYAML writes a report to path as YAML.
func WriteReportYAML(path string, report Report) error {
	data, err := MarshalReportYAML(report)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to file: %w", err)
	}

	return nil
}
