package extract

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-report/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Grid is the first worksheet of a workbook as rows of trimmed cell text.
// Rows may have different lengths; missing cells read as "".
type Grid [][]string

// Cell is a row/column position, used both as an absolute cell and as an offset from an anchor.
type Cell struct {
	Row int
	Col int
}

// OpenGrid reads the first worksheet of an xlsx workbook.
func OpenGrid(content []byte) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeWorkbookUnreadable, "failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.ErrCodeSheetMissing, "workbook has no worksheets")
	}

	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeWorkbookUnreadable, err, "failed to read worksheet %s", sheet)
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeWorkbookUnreadable, err, "failed to read worksheet %s", sheet)
	}

	grid := make(Grid, len(rows))
	for i, row := range rows {
		grid[i] = make([]string, len(row))
		for j, cell := range row {
			grid[i][j] = strings.TrimSpace(cell)

			if t, ok := dateCell(f, sheet, i, j, grid[i][j], Grid(raw).At(i, j)); ok {
				grid[i][j] = t.Format(sheetTimeLayout)
			}
		}
	}

	return grid, nil
}

// sheetTimeLayout is what date-styled cells are rewritten to. ParseSheetTime reads it.
const sheetTimeLayout = "2006-01-02 15:04:05"

// dateCell reads a numeric cell carrying a date number format as its serial day count.
// The display text of such a cell depends on the format ("11/14/25 23:49") and
// loses the year and the seconds, so the raw serial is used instead.
func dateCell(f *excelize.File, sheet string, row, col int, text, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == text {
		return time.Time{}, false
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial <= 0 || serial >= 100000 {
		return time.Time{}, false
	}

	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return time.Time{}, false
	}

	styleID, err := f.GetCellStyle(sheet, name)
	if err != nil {
		return time.Time{}, false
	}

	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return time.Time{}, false
	}

	if !isDateFormat(style) {
		return time.Time{}, false
	}

	return ExcelSerialTime(serial), true
}

var formatLiteralPattern = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]`)

// isDateFormat reports whether a cell style formats numbers as dates or times.
// Built-in ids 14-22 and 45-47 are the date and time formats.
func isDateFormat(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		code := strings.ToLower(formatLiteralPattern.ReplaceAllString(*style.CustomNumFmt, ""))

		return strings.ContainsAny(code, "ydhs")
	}

	return (style.NumFmt >= 14 && style.NumFmt <= 22) || (style.NumFmt >= 45 && style.NumFmt <= 47)
}

// At returns the text at row r, column c, or "" outside the grid.
func (g Grid) At(r, c int) string {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return ""
	}

	return g[r][c]
}

// Row returns row r, or nil outside the grid.
func (g Grid) Row(r int) []string {
	if r < 0 || r >= len(g) {
		return nil
	}

	return g[r]
}

// FindRow returns the first row at or after from whose column col equals text exactly, or -1.
func (g Grid) FindRow(col int, text string, from int) int {
	for r := max(from, 0); r < len(g); r++ {
		if g.At(r, col) == text {
			return r
		}
	}

	return -1
}

// FindRowAny returns the first row at or after from whose column col equals one of texts, or -1.
func (g Grid) FindRowAny(col int, from int, texts ...string) int {
	for r := max(from, 0); r < len(g); r++ {
		cell := g.At(r, col)
		for _, text := range texts {
			if cell == text {
				return r
			}
		}
	}

	return -1
}

// FindContaining returns the first cell, in row-major order, whose text contains text.
func (g Grid) FindContaining(text string) (Cell, bool) {
	for r, row := range g {
		for c, cell := range row {
			if strings.Contains(cell, text) {
				return Cell{Row: r, Col: c}, true
			}
		}
	}

	return Cell{}, false
}

// OffsetSource reads metrics at fixed offsets from an anchor cell.
type OffsetSource struct {
	Grid    Grid
	Anchor  Cell
	Offsets map[string]Cell
}

func (s OffsetSource) Lookup(field, _ string) (string, bool) {
	offset, ok := s.Offsets[field]
	if !ok {
		return "", false
	}

	text := s.Grid.At(s.Anchor.Row+offset.Row, s.Anchor.Col+offset.Col)

	return text, text != ""
}

// LabelColumn is a column that holds labels and the column that holds their values.
type LabelColumn struct {
	Label int
	Value int
}

// LabelColumnSource reads metrics whose label sits in a known column, with the value
// a fixed number of columns to the right. Labels match exactly.
type LabelColumnSource struct {
	Grid    Grid
	Columns []LabelColumn
}

func (s LabelColumnSource) Lookup(_, label string) (string, bool) {
	for r := range s.Grid {
		for _, column := range s.Columns {
			if s.Grid.At(r, column.Label) == label {
				text := s.Grid.At(r, column.Value)

				return text, text != ""
			}
		}
	}

	return "", false
}
