package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-report/internal/logger"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBStoreTestSuite struct {
	suite.Suite
	store *DuckDBStore
	ctx   context.Context
	clock time.Time
}

func TestDuckDBStoreSuite(t *testing.T) {
	suite.Run(t, new(DuckDBStoreTestSuite))
}

func (suite *DuckDBStoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	store, err := NewDuckDBStore(MemoryPath, logger.NewNopLogger(), WithClock(suite.tick))
	suite.Require().NoError(err)
	suite.store = store
}

func (suite *DuckDBStoreTestSuite) TearDownTest() {
	suite.Require().NoError(suite.store.Close())
}

// tick advances the clock by a minute on every save.
func (suite *DuckDBStoreTestSuite) tick() time.Time {
	suite.clock = suite.clock.Add(time.Minute)

	return suite.clock
}

func historyReport(name string) *types.TradeHistoryReport {
	account := types.NewAccountInfo()
	account.Name = name
	account.AccountNumber = "13342140"
	account.ReportDate = time.Date(2025, 2, 28, 18, 0, 0, 0, time.UTC)

	trades := []types.Trade{
		{
			OpenTime:   time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC),
			Position:   "5000000",
			Symbol:     "EURUSD",
			Type:       types.TradeTypeBuy,
			Volume:     0.1,
			OpenPrice:  1.1,
			CloseTime:  time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC),
			ClosePrice: 1.11,
			Commission: -2,
			Swap:       -1,
			Profit:     100,
			Strategy:   optional.Some("Breakout"),
		},
	}

	metrics := types.PerformanceMetrics{InitialDeposit: 10000, TotalNetProfit: 97, TotalTrades: 1, ProfitTrades: 1}

	return types.NewTradeHistoryReport(account, trades, metrics, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
}

func backtestReport() *types.BacktestReport {
	settings := types.BacktestSettings{
		Expert: "RangeBreakout",
		Symbol: "EURUSD",
		Period: "H1",
		Inputs: map[string]types.InputValue{
			"Lots":        types.NumberInput(0.1),
			"UseTrailing": types.BoolInput(true),
		},
	}

	return types.NewBacktestReport(settings, nil, types.NewBacktestMetrics(), time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
}

func (suite *DuckDBStoreTestSuite) TestSaveAndGet() {
	saved, err := suite.store.Save(suite.ctx, "user-1", historyReport("Jane Trader"))
	suite.Require().NoError(err)

	suite.NotEmpty(saved.ID)
	suite.Equal("user-1", saved.UserID)
	suite.Equal("Jane Trader - 2025-03-01", saved.Name)
	suite.Equal(types.ReportTypeTradeHistory, saved.Kind)

	loaded, err := suite.store.Get(suite.ctx, "user-1", saved.ID)
	suite.Require().NoError(err)

	suite.Equal(saved.ID, loaded.ID)
	suite.Equal(saved.SavedAt, loaded.SavedAt)
	suite.Equal(saved.Name, loaded.Name)

	report, ok := loaded.Report.(*types.TradeHistoryReport)
	suite.Require().True(ok)
	suite.Equal(saved.ID, report.ID)
	suite.Equal("user-1", report.UserID)
	suite.Equal("13342140", report.AccountInfo.AccountNumber)
	suite.True(report.AccountInfo.ReportDate.Equal(time.Date(2025, 2, 28, 18, 0, 0, 0, time.UTC)))
	suite.Require().Len(report.Trades, 1)
	suite.Equal(97.0, report.Trades[0].NetProfit())
	suite.True(report.Trades[0].CloseTime.Equal(time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)))
	suite.Equal(optional.Some("Breakout"), report.Trades[0].Strategy)
	suite.True(report.ReportPeriodStart.IsSome())
}

func (suite *DuckDBStoreTestSuite) TestBacktestRoundTrip() {
	saved, err := suite.store.Save(suite.ctx, "user-1", backtestReport())
	suite.Require().NoError(err)
	suite.Equal("RangeBreakout (EURUSD) - 2025-03-01", saved.Name)

	loaded, err := suite.store.Get(suite.ctx, "user-1", saved.ID)
	suite.Require().NoError(err)

	report, ok := loaded.Report.(*types.BacktestReport)
	suite.Require().True(ok)
	suite.Equal(types.BoolInput(true), report.Settings.Inputs["UseTrailing"])
	suite.Equal(types.NumberInput(0.1), report.Settings.Inputs["Lots"])
	suite.Equal(1, report.Metrics.Symbols)
	suite.Empty(report.Trades)
}

func (suite *DuckDBStoreTestSuite) TestSaveRequiresUser() {
	_, err := suite.store.Save(suite.ctx, "", historyReport("Jane Trader"))

	suite.True(errors.HasCode(err, errors.ErrCodeReportOwnershipMissing))
}

func (suite *DuckDBStoreTestSuite) TestFailedSaveLeavesReportUnowned() {
	_, err := suite.store.db.ExecContext(suite.ctx, "DROP TABLE reports")
	suite.Require().NoError(err)

	report := historyReport("Jane Trader")
	_, err = suite.store.Save(suite.ctx, "user-1", report)

	suite.True(errors.HasCode(err, errors.ErrCodeQueryFailed))
	suite.Empty(report.Meta().ID)
	suite.Empty(report.Meta().UserID)
}

func (suite *DuckDBStoreTestSuite) TestListIsScopedAndOrdered() {
	first, err := suite.store.Save(suite.ctx, "user-1", historyReport("First"))
	suite.Require().NoError(err)
	_, err = suite.store.Save(suite.ctx, "user-2", historyReport("Other"))
	suite.Require().NoError(err)
	second, err := suite.store.Save(suite.ctx, "user-1", backtestReport())
	suite.Require().NoError(err)

	reports, err := suite.store.List(suite.ctx, "user-1")
	suite.Require().NoError(err)

	suite.Require().Len(reports, 2)
	suite.Equal(first.ID, reports[0].ID)
	suite.Equal(second.ID, reports[1].ID)

	empty, err := suite.store.List(suite.ctx, "nobody")
	suite.Require().NoError(err)
	suite.Empty(empty)
}

func (suite *DuckDBStoreTestSuite) TestGetOtherUsersReport() {
	saved, err := suite.store.Save(suite.ctx, "user-1", historyReport("Jane Trader"))
	suite.Require().NoError(err)

	_, err = suite.store.Get(suite.ctx, "user-2", saved.ID)

	suite.True(errors.HasCode(err, errors.ErrCodeReportNotFound))
}

func (suite *DuckDBStoreTestSuite) TestSaveMakesReportActive() {
	_, err := suite.store.Save(suite.ctx, "user-1", historyReport("First"))
	suite.Require().NoError(err)
	second, err := suite.store.Save(suite.ctx, "user-1", historyReport("Second"))
	suite.Require().NoError(err)

	active, err := suite.store.GetActive(suite.ctx, "user-1")
	suite.Require().NoError(err)
	suite.Equal(second.ID, active.ID)
}

func (suite *DuckDBStoreTestSuite) TestSetActive() {
	first, err := suite.store.Save(suite.ctx, "user-1", historyReport("First"))
	suite.Require().NoError(err)
	_, err = suite.store.Save(suite.ctx, "user-1", historyReport("Second"))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.store.SetActive(suite.ctx, "user-1", first.ID))

	active, err := suite.store.GetActive(suite.ctx, "user-1")
	suite.Require().NoError(err)
	suite.Equal(first.ID, active.ID)

	err = suite.store.SetActive(suite.ctx, "user-2", first.ID)
	suite.True(errors.HasCode(err, errors.ErrCodeReportNotFound))
}

func (suite *DuckDBStoreTestSuite) TestDeleteActiveClearsSelection() {
	saved, err := suite.store.Save(suite.ctx, "user-1", historyReport("Jane Trader"))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.store.Delete(suite.ctx, "user-1", saved.ID))

	_, err = suite.store.Get(suite.ctx, "user-1", saved.ID)
	suite.True(errors.HasCode(err, errors.ErrCodeReportNotFound))

	_, err = suite.store.GetActive(suite.ctx, "user-1")
	suite.True(errors.HasCode(err, errors.ErrCodeNoActiveReport))
}

func (suite *DuckDBStoreTestSuite) TestDeleteInactiveKeepsSelection() {
	first, err := suite.store.Save(suite.ctx, "user-1", historyReport("First"))
	suite.Require().NoError(err)
	second, err := suite.store.Save(suite.ctx, "user-1", historyReport("Second"))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.store.Delete(suite.ctx, "user-1", first.ID))

	active, err := suite.store.GetActive(suite.ctx, "user-1")
	suite.Require().NoError(err)
	suite.Equal(second.ID, active.ID)
}

func (suite *DuckDBStoreTestSuite) TestDeleteUnknownReport() {
	err := suite.store.Delete(suite.ctx, "user-1", "missing")

	suite.True(errors.HasCode(err, errors.ErrCodeReportNotFound))
}

func (suite *DuckDBStoreTestSuite) TestIncompatibleSchemaIsNotLoaded() {
	good, err := suite.store.Save(suite.ctx, "user-1", historyReport("Current"))
	suite.Require().NoError(err)

	_, err = suite.store.db.Exec(
		`INSERT INTO reports (id, user_id, name, type, schema_version, saved_at, payload) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"old-report", "user-1", "Old", "trade-history", "0.1.0", suite.clock, `{"type":"trade-history"}`,
	)
	suite.Require().NoError(err)

	reports, err := suite.store.List(suite.ctx, "user-1")
	suite.Require().NoError(err)
	suite.Require().Len(reports, 1)
	suite.Equal(good.ID, reports[0].ID)

	_, err = suite.store.Get(suite.ctx, "user-1", "old-report")
	suite.True(errors.HasCode(err, errors.ErrCodeSchemaVersionMismatch))
}

func (suite *DuckDBStoreTestSuite) TestExportParquet() {
	_, err := suite.store.Save(suite.ctx, "user-1", historyReport("First"))
	suite.Require().NoError(err)
	_, err = suite.store.Save(suite.ctx, "user-2", backtestReport())
	suite.Require().NoError(err)

	path := filepath.Join(suite.T().TempDir(), "export", "reports.parquet")
	suite.Require().NoError(suite.store.Export(path))

	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	defer db.Close()

	var count int
	suite.Require().NoError(db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM read_parquet('%s')`, path)).Scan(&count))
	suite.Equal(2, count)
}

func (suite *DuckDBStoreTestSuite) TestReportsSurviveReopen() {
	path := filepath.Join(suite.T().TempDir(), "reports.duckdb")

	store, err := NewDuckDBStore(path, logger.NewNopLogger())
	suite.Require().NoError(err)

	saved, err := store.Save(suite.ctx, "user-1", historyReport("Jane Trader"))
	suite.Require().NoError(err)
	suite.Require().NoError(store.Close())

	reopened, err := NewDuckDBStore(path, logger.NewNopLogger())
	suite.Require().NoError(err)
	defer reopened.Close()

	active, err := reopened.GetActive(suite.ctx, "user-1")
	suite.Require().NoError(err)
	suite.Equal(saved.ID, active.ID)
	suite.Equal(1, active.Report.TradeCount())
}
