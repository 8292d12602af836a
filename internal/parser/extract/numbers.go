package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var leadingNumberPattern = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// Compact removes every whitespace rune and thousands comma. MT5 prints
// "1 234.56" with regular or non-breaking spaces between digit groups.
func Compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ',' {
			return -1
		}

		return r
	}, s)
}

// ParseNumber reads the leading number of s after compacting it.
// Trailing text such as a unit or a percent sign is ignored.
func ParseNumber(s string) (float64, bool) {
	match := leadingNumberPattern.FindString(Compact(s))
	if match == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}

	return n, true
}

// NumberOr returns the leading number of s, or fallback when there is none.
func NumberOr(s string, fallback float64) float64 {
	if n, ok := ParseNumber(s); ok {
		return n
	}

	return fallback
}

// ParseInt reads the leading integer of s. A fractional part is truncated.
func ParseInt(s string) (int64, bool) {
	n, ok := ParseNumber(s)
	if !ok {
		return 0, false
	}

	return int64(n), true
}

var (
	percentPattern      = regexp.MustCompile(`(-?[\d.]+)%`)
	valuePercentPattern = regexp.MustCompile(`^(-?[\d.]+)\((-?[\d.]+)%\)`)
	percentValuePattern = regexp.MustCompile(`^(-?[\d.]+)%\((-?[\d.]+)\)`)
	countPercentPattern = regexp.MustCompile(`^(\d+)\(([\d.]+)%\)`)
	countMoneyPattern   = regexp.MustCompile(`^(\d+)\((-?[\d.]+)\)`)
	moneyCountPattern   = regexp.MustCompile(`^(-?[\d.]+)\((\d+)\)`)
)

// ParsePercent reads "12.34%" anywhere in s. A bare number is accepted as a percentage too.
func ParsePercent(s string) (float64, bool) {
	compact := Compact(s)
	if match := percentPattern.FindStringSubmatch(compact); match != nil {
		n, err := strconv.ParseFloat(match[1], 64)

		return n, err == nil
	}

	return ParseNumber(compact)
}

// ParseValuePercent reads "1 234.56 (12.34%)".
func ParseValuePercent(s string) (value, percent float64, ok bool) {
	return parseComposite(valuePercentPattern, s)
}

// ParsePercentValue reads "12.34% (1 234.56)" and returns the value first.
func ParsePercentValue(s string) (value, percent float64, ok bool) {
	percent, value, ok = parseComposite(percentValuePattern, s)

	return value, percent, ok
}

// ParseCountPercent reads "45 (62.22%)".
func ParseCountPercent(s string) (count int, percent float64, ok bool) {
	c, p, ok := parseComposite(countPercentPattern, s)

	return int(c), p, ok
}

// ParseCountMoney reads "3 (773.29)".
func ParseCountMoney(s string) (count int, money float64, ok bool) {
	c, m, ok := parseComposite(countMoneyPattern, s)

	return int(c), m, ok
}

// ParseMoneyCount reads "1 487.73 (2)".
func ParseMoneyCount(s string) (money float64, count int, ok bool) {
	m, c, ok := parseComposite(moneyCountPattern, s)

	return m, int(c), ok
}

func parseComposite(pattern *regexp.Regexp, s string) (float64, float64, bool) {
	match := pattern.FindStringSubmatch(Compact(s))
	if match == nil {
		return 0, 0, false
	}

	first, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, 0, false
	}

	second, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return 0, 0, false
	}

	return first, second, true
}
