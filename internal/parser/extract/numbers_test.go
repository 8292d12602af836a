package extract

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type NumbersTestSuite struct {
	suite.Suite
}

func TestNumbersSuite(t *testing.T) {
	suite.Run(t, new(NumbersTestSuite))
}

func (suite *NumbersTestSuite) TestParseNumber() {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{input: "1 234.56", expected: 1234.56, ok: true},
		{input: "1 000", expected: 1000, ok: true},
		{input: "1,234.5", expected: 1234.5, ok: true},
		{input: "-45.10 USD", expected: -45.1, ok: true},
		{input: "+3", expected: 3, ok: true},
		{input: ".5", expected: 0.5, ok: true},
		{input: "", ok: false},
		{input: "n/a", ok: false},
	}

	for _, tc := range tests {
		suite.Run(tc.input, func() {
			n, ok := ParseNumber(tc.input)
			suite.Equal(tc.ok, ok)
			suite.InDelta(tc.expected, n, 1e-9)
		})
	}
}

func (suite *NumbersTestSuite) TestNumberOrAndParseInt() {
	suite.Equal(7.5, NumberOr("7.5", 1))
	suite.Equal(1.0, NumberOr("-", 1))

	n, ok := ParseInt("12.9")
	suite.True(ok)
	suite.Equal(int64(12), n)

	_, ok = ParseInt("none")
	suite.False(ok)
}

func (suite *NumbersTestSuite) TestParsePercent() {
	p, ok := ParsePercent("12.34%")
	suite.True(ok)
	suite.InDelta(12.34, p, 1e-9)

	p, ok = ParsePercent("45.5")
	suite.True(ok)
	suite.InDelta(45.5, p, 1e-9)

	p, ok = ParsePercent("410.20 (3.5%)")
	suite.True(ok)
	suite.InDelta(3.5, p, 1e-9)
}

func (suite *NumbersTestSuite) TestComposites() {
	v, p, ok := ParseValuePercent("1 234.56 (12.34%)")
	suite.True(ok)
	suite.InDelta(1234.56, v, 1e-9)
	suite.InDelta(12.34, p, 1e-9)

	v, p, ok = ParsePercentValue("4.05% (410.20)")
	suite.True(ok)
	suite.InDelta(410.20, v, 1e-9)
	suite.InDelta(4.05, p, 1e-9)

	c, p, ok := ParseCountPercent("45 (62.22%)")
	suite.True(ok)
	suite.Equal(45, c)
	suite.InDelta(62.22, p, 1e-9)

	c, m, ok := ParseCountMoney("3 (773.29)")
	suite.True(ok)
	suite.Equal(3, c)
	suite.InDelta(773.29, m, 1e-9)

	m, c, ok = ParseMoneyCount("-1 487.73 (2)")
	suite.True(ok)
	suite.InDelta(-1487.73, m, 1e-9)
	suite.Equal(2, c)

	_, _, ok = ParseValuePercent("n/a")
	suite.False(ok)
}

func (suite *NumbersTestSuite) TestParseShapeZeroCompanion() {
	tests := []struct {
		name  string
		shape Shape
		raw   string
	}{
		{name: "value percent", shape: ShapeValuePercent, raw: "0.00 (12.50%)"},
		{name: "percent value", shape: ShapePercentValue, raw: "12.50% (0.00)"},
		{name: "count percent", shape: ShapeCountPercent, raw: "0 (100.00%)"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			v, ok := ParseShape(tc.shape, tc.raw)
			suite.True(ok)
			suite.Zero(v.Amount)
			suite.Zero(v.Percent)
		})
	}
}

func (suite *NumbersTestSuite) TestParseShape() {
	v, ok := ParseShape(ShapeCountPercent, "45 (62.22%)")
	suite.True(ok)
	suite.Equal(45, v.Count)
	suite.InDelta(62.22, v.Percent, 1e-9)

	v, ok = ParseShape(ShapeText, " 1:02:03 ")
	suite.True(ok)
	suite.Equal("1:02:03", v.Text)

	_, ok = ParseShape(ShapeText, "  ")
	suite.False(ok)

	suite.Equal("count (percent%)", ShapeCountPercent.String())
	suite.Equal("shape(99)", Shape(99).String())
}
