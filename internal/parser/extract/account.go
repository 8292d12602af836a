package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-report/internal/types"
)

var accountLinePattern = regexp.MustCompile(`^(\d+)\s*\(([^,]+),\s*([^,]+),\s*([^,]+),\s*([^)]+)\)`)

// Header labels of the account block.
const (
	LabelName    = "Name:"
	LabelAccount = "Account:"
	LabelCompany = "Company:"
	LabelDate    = "Date:"
)

var accountHeaders = []struct {
	label string
	field string
}{
	{label: LabelName, field: "account.name"},
	{label: LabelAccount, field: "account.account_number"},
	{label: LabelCompany, field: "account.company"},
	{label: LabelDate, field: "account.report_date"},
}

// TimeParser reads a timestamp in one of the report formats.
type TimeParser func(string) (time.Time, bool)

// AccountBuilder accumulates the label/value pairs of an account header.
// Fields never seen keep the defaults of types.NewAccountInfo.
type AccountBuilder struct {
	info        types.AccountInfo
	seen        map[string]bool
	parseTime   TimeParser
	diagnostics *types.Diagnostics
}

func NewAccountBuilder(diagnostics *types.Diagnostics, parseTime TimeParser) *AccountBuilder {
	return &AccountBuilder{
		info:        types.NewAccountInfo(),
		seen:        map[string]bool{},
		parseTime:   parseTime,
		diagnostics: diagnostics,
	}
}

// Add feeds one header pair. Labels are matched by substring; later pairs with the
// same label overwrite earlier ones.
func (b *AccountBuilder) Add(label, value string) {
	label = strings.TrimSpace(label)
	value = strings.TrimSpace(value)

	switch {
	case strings.Contains(label, LabelName):
		b.info.Name = strings.TrimSuffix(value, "*")
		b.seen[LabelName] = true
	case strings.Contains(label, LabelAccount):
		b.addAccountLine(value)
		b.seen[LabelAccount] = true
	case strings.Contains(label, LabelCompany):
		b.info.Company = value
		b.seen[LabelCompany] = true
	case strings.Contains(label, LabelDate):
		if t, ok := b.parseTime(value); ok {
			b.info.ReportDate = t
			b.seen[LabelDate] = true
		}
	}
}

func (b *AccountBuilder) addAccountLine(value string) {
	match := accountLinePattern.FindStringSubmatch(value)
	if match == nil {
		if fields := strings.Fields(value); len(fields) > 0 {
			b.info.AccountNumber = fields[0]
		}

		reason := "account line did not match NUMBER (CURRENCY, SERVER, TYPE, HEDGING)"
		b.diagnostics.Default("account.currency", reason)
		b.diagnostics.Default("account.account_type", reason)
		b.diagnostics.Default("account.hedging_mode", reason)

		return
	}

	b.info.AccountNumber = match[1]
	b.info.Currency = strings.TrimSpace(match[2])
	b.info.Server = strings.TrimSpace(match[3])
	b.info.AccountType = types.AccountType(strings.TrimSpace(match[4]))
	b.info.HedgingMode = types.HedgingMode(strings.TrimSpace(match[5]))
}

// Build returns the account info and records every header label that was never seen.
func (b *AccountBuilder) Build() types.AccountInfo {
	for _, header := range accountHeaders {
		if !b.seen[header.label] {
			b.diagnostics.Default(header.field, "header label "+header.label+" not found")
		}
	}

	return b.info
}
