package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rxtech-lab/argo-report/pkg/errors"
)

// LoadDocument parses an HTML document.
func LoadDocument(content []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDocumentUnreadable, "failed to read HTML document", err)
	}

	return doc, nil
}

// Text returns the trimmed text content of a selection.
func Text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// Title returns the document title.
func Title(doc *goquery.Document) string {
	return Text(doc.Find("title").First())
}

// Rows returns the td cells of every tr of the document, in document order.
func Rows(doc *goquery.Document) [][]*goquery.Selection {
	var rows [][]*goquery.Selection

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []*goquery.Selection

		tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, td)
		})

		rows = append(rows, cells)
	})

	return rows
}

// BoldValueSource finds a label cell and reads the first bold value in the next
// one or two cells of the same row. Used by trade history reports.
type BoldValueSource struct {
	Rows [][]*goquery.Selection
}

func (s BoldValueSource) Lookup(_, label string) (string, bool) {
	for _, cells := range s.Rows {
		for i, cell := range cells {
			if !strings.HasPrefix(Text(cell), label) {
				continue
			}

			for j := i + 1; j < len(cells) && j <= i+2; j++ {
				if bold := Text(cells[j].Find("b").First()); bold != "" {
					return bold, true
				}
			}
		}
	}

	return "", false
}

// LabelPair is a label cell and the cell printed right after it.
type LabelPair struct {
	Label string
	Value string
}

// AdjacentValueSource holds the label/value pairs of a tester report, where a
// label cell spans two or three columns and the value is the next cell.
type AdjacentValueSource struct {
	Pairs []LabelPair
}

// NewAdjacentValueSource collects the pairs of every row.
func NewAdjacentValueSource(rows [][]*goquery.Selection) AdjacentValueSource {
	var pairs []LabelPair

	for _, cells := range rows {
		for i := 0; i < len(cells); i++ {
			colspan, _ := cells[i].Attr("colspan")
			if (colspan != "3" && colspan != "2") || i+1 >= len(cells) {
				continue
			}

			pairs = append(pairs, LabelPair{Label: Text(cells[i]), Value: Text(cells[i+1])})
			i++
		}
	}

	return AdjacentValueSource{Pairs: pairs}
}

func (s AdjacentValueSource) Lookup(_, label string) (string, bool) {
	for _, pair := range s.Pairs {
		if strings.HasPrefix(pair.Label, label) && pair.Value != "" {
			return pair.Value, true
		}
	}

	return "", false
}
