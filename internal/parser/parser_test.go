package parser

import (
	"testing"

	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/mocks"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ParserTestSuite struct {
	suite.Suite
	generator *mocks.ReportGenerator
}

func TestParserSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}

func (suite *ParserTestSuite) SetupTest() {
	suite.generator = mocks.NewReportGenerator(99)
}

func (suite *ParserTestSuite) TestFormatOf() {
	tests := []struct {
		filename string
		expected Format
	}{
		{filename: "ReportHistory-13342140.html", expected: FormatHTML},
		{filename: "report.HTM", expected: FormatHTM},
		{filename: "/tmp/ReportTester.xlsx", expected: FormatXLSX},
		{filename: "archive.tar.gz", expected: Format("gz")},
		{filename: "no-extension", expected: Format("")},
	}

	for _, tc := range tests {
		suite.Run(tc.filename, func() {
			suite.Equal(tc.expected, FormatOf(tc.filename))
		})
	}
}

func (suite *ParserTestSuite) TestExpectedFormatsMessage() {
	tests := []struct {
		name     string
		accepts  []Format
		expected string
	}{
		{name: "html only", accepts: []Format{FormatHTML, FormatHTM}, expected: "Please upload an HTML file (.html or .htm)"},
		{name: "xlsx only", accepts: []Format{FormatXLSX}, expected: "Please upload an Excel file (.xlsx)"},
		{name: "everything", accepts: AllFormats, expected: "Please upload an HTML file (.html or .htm) or an Excel file (.xlsx)"},
		{name: "order does not matter", accepts: []Format{FormatXLSX, FormatHTM}, expected: "Please upload an HTML file (.htm) or an Excel file (.xlsx)"},
		{name: "nothing", accepts: nil, expected: "This upload slot does not accept any file format"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, ExpectedFormatsMessage(tc.accepts))
		})
	}
}

func (suite *ParserTestSuite) TestXLSXInHTMLOnlySlotIsRejected() {
	dispatcher := NewDispatcher([]Slot{
		{Kind: types.ReportTypeTradeHistory, Accepts: []Format{FormatHTML, FormatHTM}},
	}, extract.Options{})

	content, err := suite.generator.GenerateHistory(mocks.DefaultHistoryConfig()).XLSX()
	suite.Require().NoError(err)

	result := dispatcher.Parse("ReportHistory.xlsx", content, types.ReportTypeTradeHistory)

	suite.False(result.Success)
	suite.Nil(result.Report)
	suite.Equal("Please upload an HTML file (.html or .htm)", result.Error)
	suite.True(errors.HasCode(result.Err(), errors.ErrCodeFormatMismatch))
}

func (suite *ParserTestSuite) TestUnknownKind() {
	dispatcher := NewDispatcher(DefaultSlots(), extract.Options{})

	result := dispatcher.Parse("report.html", []byte("<html></html>"), types.ReportType("statement"))

	suite.False(result.Success)
	suite.True(errors.HasCode(result.Err(), errors.ErrCodeUnknownReportType))
}

func (suite *ParserTestSuite) TestDispatchesByKindAndFormat() {
	history := suite.generator.GenerateHistory(mocks.DefaultHistoryConfig())
	historyXLSX, err := history.XLSX()
	suite.Require().NoError(err)

	tester := suite.generator.GenerateBacktest(mocks.DefaultBacktestConfig())
	testerXLSX, err := tester.XLSX()
	suite.Require().NoError(err)

	tests := []struct {
		name     string
		filename string
		content  []byte
		kind     types.ReportType
		trades   int
	}{
		{name: "history html", filename: "history.html", content: history.HTML(), kind: types.ReportTypeTradeHistory, trades: len(history.Trades)},
		{name: "history htm", filename: "HISTORY.HTM", content: history.HTML(), kind: types.ReportTypeTradeHistory, trades: len(history.Trades)},
		{name: "history xlsx", filename: "history.xlsx", content: historyXLSX, kind: types.ReportTypeTradeHistory, trades: len(history.Trades)},
		{name: "backtest html", filename: "tester.html", content: tester.HTML(), kind: types.ReportTypeBacktest, trades: len(tester.Trades)},
		{name: "backtest xlsx", filename: "tester.xlsx", content: testerXLSX, kind: types.ReportTypeBacktest, trades: len(tester.Trades)},
	}

	dispatcher := NewDispatcher(DefaultSlots(), extract.Options{})

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			result := dispatcher.Parse(tc.filename, tc.content, tc.kind)
			suite.Require().True(result.Success, result.Error)
			suite.Equal(tc.kind, result.Report.Kind())
			suite.Equal(tc.trades, result.Report.TradeCount())
		})
	}
}

func (suite *ParserTestSuite) TestWrongKindFailsIdentityCheck() {
	dispatcher := NewDispatcher(DefaultSlots(), extract.Options{})
	history := suite.generator.GenerateHistory(mocks.DefaultHistoryConfig())

	result := dispatcher.Parse("history.html", history.HTML(), types.ReportTypeBacktest)

	suite.False(result.Success)
	suite.True(errors.HasCode(result.Err(), errors.ErrCodeIdentityMismatch))
}
