package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-report/internal/metrics"
	"github.com/rxtech-lab/argo-report/internal/service"
	"github.com/rxtech-lab/argo-report/internal/store"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	outputSummary = "summary"
	outputYAML    = "yaml"
	outputJSON    = "json"
)

// Style definitions.
var (
	// TitleStyle for report names.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// LabelStyle for metric labels.
	LabelStyle = lipgloss.NewStyle().Faint(true).Width(18)

	// ErrorStyle for rejected files.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	// BoxStyle frames a summary.
	BoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

const dateTimeLayout = "2006-01-02 15:04"

func checkOutput(output string) error {
	switch output {
	case outputSummary, outputYAML, outputJSON:
		return nil
	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown output format %q, expected summary, yaml or json", output)
	}
}

func writeReport(w io.Writer, output string, report types.Report, diagnostics *types.Diagnostics, savedID string) error {
	switch output {
	case outputYAML:
		data, err := types.MarshalReportYAML(report)
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err
	case outputJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(errors.ErrCodeSerializationFailed, "failed to marshal report", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	default:
		_, err := fmt.Fprintln(w, renderSummary(service.Summarize(report), diagnostics, savedID))

		return err
	}
}

func writeAnalysis(w io.Writer, output string, analysis service.Analysis) error {
	switch output {
	case outputJSON:
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return errors.Wrap(errors.ErrCodeSerializationFailed, "failed to marshal analysis", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	case outputYAML:
		data, err := yaml.Marshal(analysis)
		if err != nil {
			return errors.Wrap(errors.ErrCodeSerializationFailed, "failed to marshal analysis", err)
		}

		_, err = w.Write(data)

		return err
	default:
		_, err := fmt.Fprintln(w, renderAnalysis(analysis))

		return err
	}
}

func renderSummary(summary service.Summary, diagnostics *types.Diagnostics, savedID string) string {
	lines := []string{
		TitleStyle.Render(summary.Name),
		row("Type", string(summary.Kind)),
		row("Trades", fmt.Sprintf("%d", summary.Trades)),
		row("Initial deposit", fmt.Sprintf("%.2f", summary.InitialDeposit)),
		row("Net profit", fmt.Sprintf("%.2f", summary.TotalNetProfit)),
		row("Profit factor", fmt.Sprintf("%.2f", summary.ProfitFactor)),
		row("Win rate", fmt.Sprintf("%.2f%%", summary.Derived.WinRate)),
		row("ROI", fmt.Sprintf("%.2f%%", summary.Derived.ROI)),
		row("Avg duration", fmt.Sprintf("%.2f h", summary.Derived.AvgTradeDurationHours)),
	}

	start, startErr := summary.ReportPeriodStart.Take()
	end, endErr := summary.ReportPeriodEnd.Take()

	if startErr == nil && endErr == nil {
		lines = append(lines, row("Period", start.Format(dateTimeLayout)+" - "+end.Format(dateTimeLayout)))
	}

	if diagnostics != nil {
		lines = append(lines, row("Defaults", fmt.Sprintf("%d", diagnostics.DefaultCount())))

		if n := len(diagnostics.SkippedRows); n > 0 {
			lines = append(lines, row("Skipped rows", fmt.Sprintf("%d", n)))
		}

		if diagnostics.UnmatchedDeals > 0 {
			lines = append(lines, row("Unmatched deals", fmt.Sprintf("%d", diagnostics.UnmatchedDeals)))
		}
	}

	if savedID != "" {
		lines = append(lines, row("Saved as", savedID))
	}

	return BoxStyle.Render(strings.Join(lines, "\n"))
}

func renderAnalysis(analysis service.Analysis) string {
	lines := []string{
		TitleStyle.Render("Balance curve"),
		row("Final balance", fmt.Sprintf("%.2f", analysis.Curve.FinalBalance)),
		row("Gain", fmt.Sprintf("%.2f (%.2f%%)", analysis.Curve.Gain, analysis.Curve.GainPercent)),
		row("Max drawdown", fmt.Sprintf("%.2f (%.2f%%)", analysis.Curve.MaxDrawdown, analysis.Curve.MaxDrawdownPercent)),
		"",
		TitleStyle.Render("Monthly returns"),
	}

	for _, month := range analysis.Returns.Months {
		label := fmt.Sprintf("%d-%02d", month.Year, int(month.Month))
		lines = append(lines, row(label, fmt.Sprintf("%.2f (%.2f%%)", month.Profit, month.ReturnPercent)))
	}

	lines = append(lines, "", TitleStyle.Render("Strategies"))
	lines = append(lines, renderGroups(analysis.ByStrategy)...)

	lines = append(lines, "", TitleStyle.Render("Magic numbers"))
	lines = append(lines, renderGroups(analysis.ByMagicNumber)...)

	return BoxStyle.Render(strings.Join(lines, "\n"))
}

func renderGroups(groups []metrics.GroupStats) []string {
	lines := make([]string, 0, len(groups))
	for _, group := range groups {
		lines = append(lines, row(group.Key, fmt.Sprintf("%d trades, net %.2f, win rate %.1f%%, PF %s",
			group.TotalTrades, group.NetProfit, group.WinRate, formatFactor(group.ProfitFactor))))
	}

	return lines
}

func renderList(reports []store.SavedReport, activeID string) string {
	if len(reports) == 0 {
		return "No saved reports"
	}

	lines := make([]string, 0, len(reports)+1)
	lines = append(lines, TitleStyle.Render("Saved reports"))

	for _, saved := range reports {
		marker := " "
		if saved.ID == activeID {
			marker = "*"
		}

		lines = append(lines, fmt.Sprintf("%s %s  %-13s  %s  %s",
			marker, saved.ID, saved.Kind, saved.SavedAt.Local().Format(time.DateTime), saved.Name))
	}

	return strings.Join(lines, "\n")
}

func renderFailure(file, message string) string {
	return ErrorStyle.Render("✗ "+file) + ": " + message
}

func row(label, value string) string {
	return LabelStyle.Render(label) + value
}

func formatFactor(factor float64) string {
	if math.IsInf(factor, 1) {
		return "∞"
	}

	return fmt.Sprintf("%.2f", factor)
}
