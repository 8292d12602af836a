package metrics

import (
	"time"

	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/shopspring/decimal"
)

// MonthlyReturn is the net profit of the trades closed in one calendar month.
type MonthlyReturn struct {
	Year  int        `yaml:"year" json:"year"`
	Month time.Month `yaml:"month" json:"month"`
	// StartingBalance is the balance before the first trade of the month closed.
	StartingBalance float64 `yaml:"starting_balance" json:"starting_balance"`
	Profit          float64 `yaml:"profit" json:"profit"`
	ReturnPercent   float64 `yaml:"return_percent" json:"return_percent"`
}

// YearlyReturn sums the months of one year.
type YearlyReturn struct {
	Year            int     `yaml:"year" json:"year"`
	StartingBalance float64 `yaml:"starting_balance" json:"starting_balance"`
	Profit          float64 `yaml:"profit" json:"profit"`
	ReturnPercent   float64 `yaml:"return_percent" json:"return_percent"`
}

// Returns are the monthly and yearly returns of a report, oldest first.
type Returns struct {
	Months []MonthlyReturn `yaml:"months" json:"months"`
	Years  []YearlyReturn  `yaml:"years" json:"years"`
}

type monthAccumulator struct {
	year     int
	month    time.Month
	starting decimal.Decimal
	profit   decimal.Decimal
}

// MonthlyReturns groups the trades by close month, carrying a running balance
// from the initial deposit. Months without closed trades are omitted.
func MonthlyReturns(trades []types.Trade, initialDeposit float64) Returns {
	returns := Returns{Months: []MonthlyReturn{}, Years: []YearlyReturn{}}

	balance := decimal.NewFromFloat(initialDeposit)

	var months []*monthAccumulator

	for _, trade := range byCloseTime(trades) {
		year, month, _ := trade.CloseTime.Date()

		if len(months) == 0 || months[len(months)-1].year != year || months[len(months)-1].month != month {
			months = append(months, &monthAccumulator{year: year, month: month, starting: balance, profit: decimal.Zero})
		}

		current := months[len(months)-1]
		net := trade.NetProfitDecimal()
		current.profit = current.profit.Add(net)
		balance = balance.Add(net)
	}

	var years []*monthAccumulator

	for _, m := range months {
		returns.Months = append(returns.Months, MonthlyReturn{
			Year:            m.year,
			Month:           m.month,
			StartingBalance: m.starting.InexactFloat64(),
			Profit:          m.profit.InexactFloat64(),
			ReturnPercent:   returnPercent(m.profit, m.starting),
		})

		if len(years) == 0 || years[len(years)-1].year != m.year {
			years = append(years, &monthAccumulator{year: m.year, starting: m.starting, profit: decimal.Zero})
		}

		years[len(years)-1].profit = years[len(years)-1].profit.Add(m.profit)
	}

	for _, y := range years {
		returns.Years = append(returns.Years, YearlyReturn{
			Year:            y.year,
			StartingBalance: y.starting.InexactFloat64(),
			Profit:          y.profit.InexactFloat64(),
			ReturnPercent:   returnPercent(y.profit, y.starting),
		})
	}

	return returns
}

func returnPercent(profit, starting decimal.Decimal) float64 {
	if starting.IsZero() {
		return 0
	}

	return profit.Div(starting).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
