package backtest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/rxtech-lab/argo-report/internal/parser/layout"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
)

// Deal is one row of the tester's Deals table.
type Deal struct {
	// Row is the 1-based row of the deal within the table, used in diagnostics.
	Row        int
	Time       time.Time
	Ticket     int64
	Symbol     string
	Type       string
	Direction  string
	Volume     float64
	Price      float64
	Order      int64
	Commission float64
	Swap       float64
	Profit     float64
	Balance    float64
	Comment    string
}

const dealTypeBalance = "balance"

// IsBalance reports whether the deal is a balance operation rather than a trade.
func (d Deal) IsBalance() bool {
	return d.Type == dealTypeBalance
}

// readDeal reads the positional columns of a deals row.
func readDeal(row int, text func(col int) string, parseTime extract.TimeParser) (Deal, *errors.RowError) {
	deal := Deal{
		Row:        row,
		Symbol:     text(layout.DealSymbol),
		Type:       strings.ToLower(text(layout.DealType)),
		Direction:  strings.ToLower(text(layout.DealDirection)),
		Volume:     extract.NumberOr(text(layout.DealVolume), 0),
		Price:      extract.NumberOr(text(layout.DealPrice), 0),
		Commission: extract.NumberOr(text(layout.DealCommission), 0),
		Swap:       extract.NumberOr(text(layout.DealSwap), 0),
		Profit:     extract.NumberOr(text(layout.DealProfit), 0),
		Balance:    extract.NumberOr(text(layout.DealBalance), 0),
		Comment:    text(layout.DealComment),
	}

	deal.Ticket, _ = extract.ParseInt(text(layout.DealTicket))
	deal.Order, _ = extract.ParseInt(text(layout.DealOrder))

	t, ok := parseTime(text(layout.DealTime))
	if !ok {
		return deal, errors.NewRowErrorf(sectionDeals, row, "time", "unreadable time %q", text(layout.DealTime))
	}

	deal.Time = t

	return deal, nil
}

// Outcome is what feeding a deal to the matcher did.
type Outcome int

const (
	// Ignored deals are neither balance operations nor buy/sell entries and exits.
	Ignored Outcome = iota
	// Balance deals adjust the running balance and may seed the initial deposit.
	Balance
	// Opened deals were added to a pending pool.
	Opened
	// Closed deals completed a trade.
	Closed
	// Unmatched deals closed a volume with no pending entry. They are dropped.
	Unmatched
)

func (o Outcome) String() string {
	switch o {
	case Balance:
		return "balance"
	case Opened:
		return "opened"
	case Closed:
		return "closed"
	case Unmatched:
		return "unmatched"
	default:
		return "ignored"
	}
}

// DealMatcher rebuilds round-trip trades from tester deals. Buy entries wait in the
// long pool and sell entries in the short pool; an exit takes the first pending
// entry of the opposite side with the same volume. A matcher is used by one parse only.
type DealMatcher struct {
	longs  []Deal
	shorts []Deal

	deposit      float64
	seeded       bool
	finalBalance float64
	closed       int
	unmatched    int
}

// NewDealMatcher returns a matcher whose deposit is defaultDeposit until a balance deal seeds it.
func NewDealMatcher(defaultDeposit float64) *DealMatcher {
	return &DealMatcher{
		deposit:      defaultDeposit,
		finalBalance: defaultDeposit,
	}
}

// Feed processes the next deal in table order. The trade is only set for Closed.
func (m *DealMatcher) Feed(deal Deal) (types.BacktestTrade, Outcome) {
	if deal.IsBalance() {
		m.feedBalance(deal)

		return types.BacktestTrade{}, Balance
	}

	switch {
	case deal.Type == string(types.TradeTypeBuy) && deal.Direction == string(types.DealDirectionIn):
		m.longs = append(m.longs, deal)
	case deal.Type == string(types.TradeTypeSell) && deal.Direction == string(types.DealDirectionIn):
		m.shorts = append(m.shorts, deal)
	case deal.Type == string(types.TradeTypeSell) && deal.Direction == string(types.DealDirectionOut):
		return m.close(&m.longs, deal, types.TradeTypeBuy)
	case deal.Type == string(types.TradeTypeBuy) && deal.Direction == string(types.DealDirectionOut):
		return m.close(&m.shorts, deal, types.TradeTypeSell)
	default:
		return types.BacktestTrade{}, Ignored
	}

	m.track(deal)

	return types.BacktestTrade{}, Opened
}

func (m *DealMatcher) feedBalance(deal Deal) {
	amount := deal.Balance
	if amount == 0 {
		amount = deal.Profit
	}

	if m.closed == 0 && !m.seeded && amount > 0 {
		m.deposit = amount
		m.seeded = true
	}

	m.track(deal)
}

// track follows the running balance printed on every deal.
func (m *DealMatcher) track(deal Deal) {
	if deal.Balance != 0 {
		m.finalBalance = deal.Balance
	}
}

func (m *DealMatcher) close(pool *[]Deal, exit Deal, side types.TradeType) (types.BacktestTrade, Outcome) {
	m.track(exit)

	entry, ok := take(pool, exit.Volume)
	if !ok {
		m.unmatched++

		return types.BacktestTrade{}, Unmatched
	}

	m.closed++

	comment := exit.Comment
	if comment == "" {
		comment = entry.Comment
	}

	trade := types.BacktestTrade{
		Trade: types.Trade{
			OpenTime:   entry.Time,
			Position:   strconv.FormatInt(entry.Ticket, 10),
			Symbol:     entry.Symbol,
			Type:       side,
			Volume:     exit.Volume,
			OpenPrice:  entry.Price,
			CloseTime:  exit.Time,
			ClosePrice: exit.Price,
			Commission: exit.Commission,
			Swap:       exit.Swap,
			Profit:     exit.Profit,
			// Exit comments are tester notes such as "sl 1.0850"; the strategy is named on entry.
			Strategy: extract.ExtractStrategy(entry.Comment),
		},
		Ticket:    entry.Ticket,
		Order:     exit.Order,
		Direction: types.DealDirectionOut,
		Balance:   exit.Balance,
	}

	if comment != "" {
		trade.Comment = optional.Some(comment)
	}

	return trade, Closed
}

// take removes and returns the first deal of pool with the given volume.
func take(pool *[]Deal, volume float64) (Deal, bool) {
	for i, deal := range *pool {
		if sameVolume(deal.Volume, volume) {
			*pool = append((*pool)[:i], (*pool)[i+1:]...)

			return deal, true
		}
	}

	return Deal{}, false
}

func sameVolume(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// InitialDeposit is the first positive balance operation seen before any trade
// closed, or the default deposit.
func (m *DealMatcher) InitialDeposit() float64 {
	return m.deposit
}

// Seeded reports whether a balance deal set the initial deposit.
func (m *DealMatcher) Seeded() bool {
	return m.seeded
}

// FinalBalance is the running balance of the last deal that printed one.
func (m *DealMatcher) FinalBalance() float64 {
	return m.finalBalance
}

// Pending returns the number of entries still waiting for an exit.
func (m *DealMatcher) Pending() int {
	return len(m.longs) + len(m.shorts)
}

// Unmatched returns the number of exits that found no entry.
func (m *DealMatcher) Unmatched() int {
	return m.unmatched
}
