package layout

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-report/internal/parser/extract"
	"github.com/stretchr/testify/suite"
)

type LayoutTestSuite struct {
	suite.Suite
}

func TestLayoutSuite(t *testing.T) {
	suite.Run(t, new(LayoutTestSuite))
}

func (suite *LayoutTestSuite) TestSelect() {
	tests := []struct {
		name  string
		build string
	}{
		{name: "current build", build: "5399"},
		{name: "old build", build: "1000"},
		{name: "empty build", build: ""},
		{name: "unreadable build", build: "not-a-build"},
		{name: "padded build", build: " 4620 "},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(Latest().Name, Select(tt.build).Name)
		})
	}
}

func (suite *LayoutTestSuite) TestConstraintsParse() {
	for _, generation := range Generations() {
		_, err := semver.NewConstraint(generation.Builds)
		suite.NoError(err, generation.Name)
	}
}

func (suite *LayoutTestSuite) TestHistoryResultsCoverResultRules() {
	for _, generation := range Generations() {
		suite.Run(generation.Name, func() {
			fields := map[string]bool{}
			for _, rule := range extract.ResultRules {
				fields[rule.Field] = true
				suite.Contains(generation.HistoryResults, rule.Field)
			}

			for field, offset := range generation.HistoryResults {
				suite.True(fields[field], "unknown field %s", field)
				suite.Positive(offset.Row, field)
			}
		})
	}
}

func (suite *LayoutTestSuite) TestTesterBarsCoverBacktestRules() {
	for _, generation := range Generations() {
		suite.Run(generation.Name, func() {
			fields := map[string]bool{}
			for _, rule := range extract.BacktestRules() {
				fields[rule.Field] = true
				suite.Contains(generation.TesterBars, rule.Field)
			}

			for field := range generation.TesterBars {
				suite.True(fields[field], "unknown field %s", field)
			}
		})
	}
}

func (suite *LayoutTestSuite) TestOffsetsDoNotOverlap() {
	for _, generation := range Generations() {
		for name, offsets := range map[string]map[string]extract.Cell{
			"history": generation.HistoryResults,
			"tester":  generation.TesterBars,
		} {
			seen := map[extract.Cell]string{}
			for field, cell := range offsets {
				other, dup := seen[cell]
				suite.False(dup, "%s: %s and %s share %v", name, field, other, cell)
				seen[cell] = field
			}
		}
	}
}

func (suite *LayoutTestSuite) TestGenerationsIsACopy() {
	list := Generations()
	list[0].Name = "changed"

	suite.NotEqual("changed", Latest().Name)
}
