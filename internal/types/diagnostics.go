package types

import (
	"github.com/rxtech-lab/argo-report/pkg/errors"
)

// DefaultPoint records a field that fell back to its default because the document did not carry it.
type DefaultPoint struct {
	Field  string `yaml:"field" json:"field"`
	Reason string `yaml:"reason" json:"reason"`
}

// Diagnostics collects the non-fatal events of a single parse.
// A Diagnostics value belongs to one parse call and is not safe for concurrent use.
type Diagnostics struct {
	Defaults    []DefaultPoint     `yaml:"defaults" json:"defaults"`
	SkippedRows []*errors.RowError `yaml:"skipped_rows" json:"skipped_rows"`
	// UnmatchedDeals counts closing deals that had no pending opening deal of equal volume.
	UnmatchedDeals int `yaml:"unmatched_deals" json:"unmatched_deals"`
	// MissingSections lists sections or tables the parser looked for and did not find.
	MissingSections []string `yaml:"missing_sections" json:"missing_sections"`
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		Defaults:        []DefaultPoint{},
		SkippedRows:     []*errors.RowError{},
		MissingSections: []string{},
	}
}

// Default records that field was defaulted.
func (d *Diagnostics) Default(field, reason string) {
	d.Defaults = append(d.Defaults, DefaultPoint{Field: field, Reason: reason})
}

// SkipRow records a row that was dropped.
func (d *Diagnostics) SkipRow(err *errors.RowError) {
	d.SkippedRows = append(d.SkippedRows, err)
}

// MissingSection records a section that was not found.
func (d *Diagnostics) MissingSection(name string) {
	d.MissingSections = append(d.MissingSections, name)
}

// UnmatchedDeal records a closing deal that was dropped.
func (d *Diagnostics) UnmatchedDeal() {
	d.UnmatchedDeals++
}

// DefaultCount returns how many fields were defaulted.
func (d *Diagnostics) DefaultCount() int {
	return len(d.Defaults)
}

// Defaulted reports whether field was defaulted.
func (d *Diagnostics) Defaulted(field string) bool {
	for _, point := range d.Defaults {
		if point.Field == field {
			return true
		}
	}

	return false
}
