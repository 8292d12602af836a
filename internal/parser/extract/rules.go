package extract

import (
	"fmt"
	"math"
	"strings"

	"github.com/rxtech-lab/argo-report/internal/logger"
	"github.com/rxtech-lab/argo-report/internal/types"
	"go.uber.org/zap"
)

// Shape is the printed form of a metric value.
type Shape int

const (
	// ShapeNumber is a plain number, "1 234.56".
	ShapeNumber Shape = iota
	// ShapePercent is a percentage, "12.34%".
	ShapePercent
	// ShapeValuePercent is "1 234.56 (12.34%)".
	ShapeValuePercent
	// ShapePercentValue is "12.34% (1 234.56)".
	ShapePercentValue
	// ShapeCountPercent is "45 (62.22%)".
	ShapeCountPercent
	// ShapeCountMoney is "3 (773.29)".
	ShapeCountMoney
	// ShapeMoneyCount is "1 487.73 (2)".
	ShapeMoneyCount
	// ShapeText is kept verbatim, e.g. a holding time "1:02:03".
	ShapeText
)

func (s Shape) String() string {
	switch s {
	case ShapeNumber:
		return "number"
	case ShapePercent:
		return "percent"
	case ShapeValuePercent:
		return "value (percent%)"
	case ShapePercentValue:
		return "percent% (value)"
	case ShapeCountPercent:
		return "count (percent%)"
	case ShapeCountMoney:
		return "count (money)"
	case ShapeMoneyCount:
		return "money (count)"
	case ShapeText:
		return "text"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Value is a parsed metric cell.
//
//   - Amount holds the number, the money value or the count.
//   - Percent holds the percentage of a composite.
//   - Count holds the count of a money/count composite.
type Value struct {
	Amount  float64
	Percent float64
	Count   int
	Text    string
}

// ParseShape parses raw in the given shape. For composites the percentage is
// forced to zero when its companion amount is zero.
func ParseShape(shape Shape, raw string) (Value, bool) {
	switch shape {
	case ShapeNumber:
		n, ok := ParseNumber(raw)

		return Value{Amount: n}, ok
	case ShapePercent:
		p, ok := ParsePercent(raw)

		return Value{Percent: p, Amount: p}, ok
	case ShapeValuePercent:
		v, p, ok := ParseValuePercent(raw)

		return companion(Value{Amount: v, Percent: p}), ok
	case ShapePercentValue:
		v, p, ok := ParsePercentValue(raw)

		return companion(Value{Amount: v, Percent: p}), ok
	case ShapeCountPercent:
		c, p, ok := ParseCountPercent(raw)

		return companion(Value{Amount: float64(c), Count: c, Percent: p}), ok
	case ShapeCountMoney:
		c, m, ok := ParseCountMoney(raw)

		return Value{Amount: m, Count: c}, ok
	case ShapeMoneyCount:
		m, c, ok := ParseMoneyCount(raw)

		return Value{Amount: m, Count: c}, ok
	case ShapeText:
		text := strings.TrimSpace(raw)

		return Value{Text: text}, text != ""
	default:
		return Value{}, false
	}
}

func companion(v Value) Value {
	if v.Amount == 0 {
		v.Percent = 0
	}

	return v
}

// Rule maps one printed metric onto a field of M.
type Rule[M any] struct {
	// Field is the stable name of the metric, used for layout offsets and diagnostics.
	Field string
	// Label is the text printed next to the value in HTML reports.
	Label string
	Shape Shape
	Set   func(m *M, v Value)
}

// Source finds the raw text of a metric by field name or label.
type Source interface {
	Lookup(field, label string) (string, bool)
}

// Apply runs every rule against src. A rule whose value is missing or cannot be
// parsed leaves the field at its zero value and is recorded as a default.
// It returns the number of rules that were applied.
func Apply[M any](rules []Rule[M], src Source, target *M, diagnostics *types.Diagnostics, log *logger.Logger) int {
	applied := 0

	for _, rule := range rules {
		raw, found := src.Lookup(rule.Field, rule.Label)
		if !found {
			diagnostics.Default("metrics."+rule.Field, "not found")
			log.Debug("Metric defaulted", zap.String("field", rule.Field), zap.String("reason", "not found"))

			continue
		}

		value, ok := ParseShape(rule.Shape, raw)
		if !ok {
			reason := fmt.Sprintf("cannot read %q as %s", raw, rule.Shape)
			diagnostics.Default("metrics."+rule.Field, reason)
			log.Debug("Metric defaulted", zap.String("field", rule.Field), zap.String("reason", reason))

			continue
		}

		rule.Set(target, value)
		applied++
	}

	return applied
}

// Lift adapts rules written for an embedded metrics struct to the outer struct.
func Lift[Inner, Outer any](rules []Rule[Inner], inner func(*Outer) *Inner) []Rule[Outer] {
	lifted := make([]Rule[Outer], 0, len(rules))

	for _, rule := range rules {
		set := rule.Set
		lifted = append(lifted, Rule[Outer]{
			Field: rule.Field,
			Label: rule.Label,
			Shape: rule.Shape,
			Set: func(m *Outer, v Value) {
				set(inner(m), v)
			},
		})
	}

	return lifted
}

// WonCount is the number of winning trades implied by a count and its won percentage.
func WonCount(count int, percent float64) int {
	return int(math.Round(float64(count) * percent / 100))
}
