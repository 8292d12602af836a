package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"github.com/shopspring/decimal"
)

type TradeType string

type DealDirection string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

const (
	DealDirectionIn  DealDirection = "in"
	DealDirectionOut DealDirection = "out"
)

// Trade is one completed round-trip position.
// A trade is never modified after it has been appended to a report.
type Trade struct {
	OpenTime   time.Time `yaml:"open_time" json:"open_time" validate:"required"`
	Position   string    `yaml:"position" json:"position"`
	Symbol     string    `yaml:"symbol" json:"symbol" validate:"required"`
	Type       TradeType `yaml:"type" json:"type" validate:"required,oneof=buy sell"`
	Volume     float64   `yaml:"volume" json:"volume" validate:"gte=0"`
	OpenPrice  float64   `yaml:"open_price" json:"open_price"`
	StopLoss   float64   `yaml:"stop_loss" json:"stop_loss"`
	TakeProfit float64   `yaml:"take_profit" json:"take_profit"`
	CloseTime  time.Time `yaml:"close_time" json:"close_time" validate:"required,gtefield=OpenTime"`
	ClosePrice float64   `yaml:"close_price" json:"close_price"`
	Commission float64   `yaml:"commission" json:"commission"`
	Swap       float64   `yaml:"swap" json:"swap"`
	// Profit is the gross profit reported by the terminal, before commission and swap.
	Profit float64 `yaml:"profit" json:"profit"`
	// Comment is the free text comment of the position. None if the export has no comment column.
	Comment optional.Option[string] `yaml:"comment" json:"comment,omitempty"`
	// MagicNumber identifies the expert advisor that opened the position.
	MagicNumber optional.Option[int64] `yaml:"magic_number" json:"magic_number,omitempty"`
	// Strategy is the strategy name resolved from the orders section or the comment.
	Strategy optional.Option[string] `yaml:"strategy" json:"strategy,omitempty"`
}

// NetProfit returns profit + commission + swap.
func (t Trade) NetProfit() float64 {
	return t.NetProfitDecimal().InexactFloat64()
}

// NetProfitDecimal is NetProfit without float rounding, used when summing many trades.
func (t Trade) NetProfitDecimal() decimal.Decimal {
	return decimal.NewFromFloat(t.Profit).
		Add(decimal.NewFromFloat(t.Commission)).
		Add(decimal.NewFromFloat(t.Swap))
}

// Duration is the time the position was held.
func (t Trade) Duration() time.Duration {
	return t.CloseTime.Sub(t.OpenTime)
}

// Validate validates the Trade struct.
func (t *Trade) Validate() error {
	return t.ValidateWith(validator.New())
}

// ValidateWith validates the trade with a caller owned validator so a parse
// can reuse one validator for every row.
func (t *Trade) ValidateWith(validate *validator.Validate) error {
	if err := validate.Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTrade, "invalid trade", err)
	}

	return nil
}

// BacktestTrade is a trade rebuilt from an opening and a closing deal of the strategy tester.
type BacktestTrade struct {
	Trade `yaml:",inline"`
	// Ticket is the deal ticket of the opening deal.
	Ticket int64 `yaml:"ticket" json:"ticket"`
	// Order is the order number of the closing deal.
	Order int64 `yaml:"order" json:"order"`
	// Direction is the direction of the closing deal, always "out" for completed trades.
	Direction DealDirection `yaml:"direction" json:"direction" validate:"required,oneof=in out"`
	// Balance is the running account balance after the closing deal.
	Balance float64 `yaml:"balance" json:"balance"`
}

// Validate validates the BacktestTrade struct.
func (t *BacktestTrade) Validate() error {
	return t.ValidateWith(validator.New())
}

// ValidateWith validates the trade with a caller owned validator.
func (t *BacktestTrade) ValidateWith(validate *validator.Validate) error {
	if err := validate.Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTrade, "invalid backtest trade", err)
	}

	return nil
}

// TradePeriod returns the earliest open time and the latest close time of the trades.
// Both are None when there are no trades.
func TradePeriod(trades []Trade) (optional.Option[time.Time], optional.Option[time.Time]) {
	if len(trades) == 0 {
		return optional.None[time.Time](), optional.None[time.Time]()
	}

	start := trades[0].OpenTime
	end := trades[0].CloseTime

	for _, trade := range trades[1:] {
		if trade.OpenTime.Before(start) {
			start = trade.OpenTime
		}

		if trade.CloseTime.After(end) {
			end = trade.CloseTime
		}
	}

	return optional.Some(start), optional.Some(end)
}
