// Package parser picks the report parser for an uploaded file.
//
// Every report kind is an upload slot that accepts a list of file formats. The
// file extension is checked against the slot before any content is read, then
// the HTML or xlsx parser of the slot's kind runs end to end.
package parser

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rxtech-lab/argo-report/internal/parser/backtest"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/parser/history"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"go.uber.org/zap"
)

// Format is a file extension without the leading dot.
type Format string

const (
	FormatHTML Format = "html"
	FormatHTM  Format = "htm"
	FormatXLSX Format = "xlsx"
)

// AllFormats lists every format a parser exists for.
var AllFormats = []Format{FormatHTML, FormatHTM, FormatXLSX}

// FormatOf returns the lower-cased extension of filename.
func FormatOf(filename string) Format {
	return Format(strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")))
}

func (f Format) isHTML() bool {
	return f == FormatHTML || f == FormatHTM
}

// Slot is an upload target: the report kind it produces and the formats it accepts.
type Slot struct {
	Kind    types.ReportType
	Accepts []Format
}

// DefaultSlots accept every format in both slots.
func DefaultSlots() []Slot {
	return []Slot{
		{Kind: types.ReportTypeTradeHistory, Accepts: slices.Clone(AllFormats)},
		{Kind: types.ReportTypeBacktest, Accepts: slices.Clone(AllFormats)},
	}
}

// Parser turns an uploaded file into a report.
type Parser interface {
	Parse(filename string, content []byte, kind types.ReportType) types.ParseResult
}

// ParseFunc is the signature shared by the format parsers.
type ParseFunc func(content []byte, opts extract.Options) types.ParseResult

// Dispatcher routes a file to the parser of its slot and format.
// It holds no mutable state and may be shared between goroutines.
type Dispatcher struct {
	slots   map[types.ReportType][]Format
	parsers map[types.ReportType]map[bool]ParseFunc
	opts    extract.Options
}

// NewDispatcher creates a dispatcher for the given slots.
func NewDispatcher(slots []Slot, opts extract.Options) *Dispatcher {
	opts = opts.WithDefaults()

	accepted := make(map[types.ReportType][]Format, len(slots))
	for _, slot := range slots {
		accepted[slot.Kind] = slices.Clone(slot.Accepts)
	}

	return &Dispatcher{
		slots: accepted,
		// Keyed by kind, then by whether the format is HTML.
		parsers: map[types.ReportType]map[bool]ParseFunc{
			types.ReportTypeTradeHistory: {true: history.ParseHTML, false: history.ParseXLSX},
			types.ReportTypeBacktest:     {true: backtest.ParseHTML, false: backtest.ParseXLSX},
		},
		opts: opts,
	}
}

// Parse validates the extension against the slot of kind, then parses content.
// It never panics; every failure is returned as an unsuccessful result.
func (d *Dispatcher) Parse(filename string, content []byte, kind types.ReportType) types.ParseResult {
	log := d.opts.Logger.With(zap.String("file", filename), zap.String("kind", string(kind)))

	accepts, ok := d.slots[kind]
	if !ok {
		err := errors.Newf(errors.ErrCodeUnknownReportType, "Unknown report type %q", kind)
		log.Warn("Upload rejected", zap.Error(err))

		return types.NewParseFailure(err, types.NewDiagnostics())
	}

	format := FormatOf(filename)
	if !slices.Contains(accepts, format) {
		err := errors.New(errors.ErrCodeFormatMismatch, ExpectedFormatsMessage(accepts))
		log.Warn("Upload rejected", zap.Error(err))

		return types.NewParseFailure(err, types.NewDiagnostics())
	}

	log.Debug("Parsing report", zap.String("format", string(format)), zap.Int("bytes", len(content)))

	return d.parsers[kind][format.isHTML()](content, d.opts)
}

// ExpectedFormatsMessage tells the user which files a slot accepts,
// e.g. "Please upload an HTML file (.html or .htm)".
func ExpectedFormatsMessage(accepts []Format) string {
	var html, sheet []string

	for _, format := range AllFormats {
		if !slices.Contains(accepts, format) {
			continue
		}

		if format.isHTML() {
			html = append(html, "."+string(format))
		} else {
			sheet = append(sheet, "."+string(format))
		}
	}

	var kinds []string

	if len(html) > 0 {
		kinds = append(kinds, fmt.Sprintf("an HTML file (%s)", strings.Join(html, " or ")))
	}

	if len(sheet) > 0 {
		kinds = append(kinds, fmt.Sprintf("an Excel file (%s)", strings.Join(sheet, " or ")))
	}

	if len(kinds) == 0 {
		return "This upload slot does not accept any file format"
	}

	return "Please upload " + strings.Join(kinds, " or ")
}
