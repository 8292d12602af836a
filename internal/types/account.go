package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type AccountType string

type HedgingMode string

const (
	AccountTypeReal AccountType = "real"
	AccountTypeDemo AccountType = "demo"
)

const (
	HedgingModeHedge   HedgingMode = "Hedge"
	HedgingModeNetting HedgingMode = "Netting"
)

// DefaultCurrency is used when the account line does not name a currency.
const DefaultCurrency = "USD"

// AccountInfo is the header block of a trade history report.
type AccountInfo struct {
	Name          string      `yaml:"name" json:"name"`
	AccountNumber string      `yaml:"account_number" json:"account_number"`
	Company       string      `yaml:"company" json:"company"`
	Currency      string      `yaml:"currency" json:"currency"`
	Server        string      `yaml:"server" json:"server"`
	AccountType   AccountType `yaml:"account_type" json:"account_type"`
	HedgingMode   HedgingMode `yaml:"hedging_mode" json:"hedging_mode"`
	ReportDate    time.Time   `yaml:"report_date" json:"report_date"`
}

// NewAccountInfo returns an AccountInfo carrying the defaults used when the header is incomplete.
func NewAccountInfo() AccountInfo {
	return AccountInfo{
		Currency:    DefaultCurrency,
		AccountType: AccountTypeReal,
		HedgingMode: HedgingModeHedge,
	}
}

// BacktestSettings is the header block of a strategy tester report.
type BacktestSettings struct {
	Expert string `yaml:"expert" json:"expert"`
	Symbol string `yaml:"symbol" json:"symbol"`
	Period string `yaml:"period" json:"period"`
	Broker string `yaml:"broker" json:"broker"`
	Build  string `yaml:"build" json:"build"`
	// Inputs are the expert advisor input parameters, keyed by parameter name.
	Inputs map[string]InputValue `yaml:"inputs" json:"inputs"`
}

type InputKind string

const (
	InputKindBool   InputKind = "bool"
	InputKindNumber InputKind = "number"
	InputKindString InputKind = "string"
)

// InputValue is one expert input parameter. Exactly one of Bool, Number or Str
// is meaningful, selected by Kind.
type InputValue struct {
	Kind   InputKind
	Bool   bool
	Number float64
	Str    string
}

func BoolInput(v bool) InputValue {
	return InputValue{Kind: InputKindBool, Bool: v}
}

func NumberInput(v float64) InputValue {
	return InputValue{Kind: InputKindNumber, Number: v}
}

func StringInput(v string) InputValue {
	return InputValue{Kind: InputKindString, Str: v}
}

// ParseInputValue infers the kind of a raw input value: the literals true and false
// become booleans, anything strconv can read as a float becomes a number, the rest stays a string.
func ParseInputValue(raw string) InputValue {
	raw = strings.TrimSpace(raw)

	switch raw {
	case "true":
		return BoolInput(true)
	case "false":
		return BoolInput(false)
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return NumberInput(n)
	}

	return StringInput(raw)
}

// String renders the value the way the tester prints it.
func (v InputValue) String() string {
	switch v.Kind {
	case InputKindBool:
		return strconv.FormatBool(v.Bool)
	case InputKindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return v.Str
	}
}

// MarshalJSON encodes the value as a bare JSON bool, number or string.
func (v InputValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case InputKindBool:
		return json.Marshal(v.Bool)
	case InputKindNumber:
		return json.Marshal(v.Number)
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON restores the kind from the JSON token type.
func (v *InputValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch value := raw.(type) {
	case bool:
		*v = BoolInput(value)
	case float64:
		*v = NumberInput(value)
	case string:
		*v = StringInput(value)
	default:
		return fmt.Errorf("unsupported input value %s", string(data))
	}

	return nil
}

// MarshalYAML encodes the value as a bare scalar.
func (v InputValue) MarshalYAML() (any, error) {
	switch v.Kind {
	case InputKindBool:
		return v.Bool, nil
	case InputKindNumber:
		return v.Number, nil
	default:
		return v.Str, nil
	}
}
