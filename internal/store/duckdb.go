package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-report/internal/logger"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/internal/version"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"go.uber.org/zap"
)

// MemoryPath opens a store that lives only as long as the process.
const MemoryPath = ":memory:"

var reportColumns = []string{"id", "user_id", "name", "type", "schema_version", "saved_at", "payload"}

// DuckDBStore implements ReportStore on top of a DuckDB database.
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	now    func() time.Time
	mu     sync.RWMutex
}

// Option configures a DuckDBStore.
type Option func(*DuckDBStore)

// WithClock replaces the clock used to stamp saved reports.
func WithClock(now func() time.Time) Option {
	return func(s *DuckDBStore) {
		s.now = now
	}
}

// NewDuckDBStore opens the database at path, creating it and its tables when missing.
// Use MemoryPath for a throwaway store.
func NewDuckDBStore(path string, log *logger.Logger, opts ...Option) (*DuckDBStore, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorageUnavailable, "failed to create store directory", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		log.Error("Failed to open database", zap.String("path", path), zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeStorageUnavailable, "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		log.Error("Failed to connect to database", zap.String("path", path), zap.Error(err))
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeStorageUnavailable, "failed to connect to database", err)
	}

	s := &DuckDBStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

func (s *DuckDBStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS report_seq START 1;
		CREATE TABLE IF NOT EXISTS reports (
			seq BIGINT DEFAULT nextval('report_seq'),
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			schema_version TEXT NOT NULL,
			saved_at TIMESTAMP NOT NULL,
			payload TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS active_reports (
			user_id TEXT NOT NULL,
			report_id TEXT NOT NULL
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorageUnavailable, "failed to create tables", err)
	}

	return nil
}

func (s *DuckDBStore) Save(ctx context.Context, userID string, report types.Report) (SavedReport, error) {
	if userID == "" {
		return SavedReport{}, errors.New(errors.ErrCodeReportOwnershipMissing, "a report can only be saved for a user")
	}

	if report == nil {
		return SavedReport{}, errors.New(errors.ErrCodeInvalidParameter, "report is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The payload carries the ownership, so it is set before marshalling and
	// restored when nothing was stored.
	meta := report.Meta()
	previousID, previousUser := meta.ID, meta.UserID
	meta.ID = uuid.New().String()
	meta.UserID = userID

	restore := func() {
		meta.ID, meta.UserID = previousID, previousUser
	}

	payload, err := types.MarshalReport(report)
	if err != nil {
		restore()

		return SavedReport{}, err
	}

	saved := SavedReport{
		ID:            meta.ID,
		UserID:        userID,
		Name:          report.DisplayName(),
		Kind:          report.Kind(),
		SchemaVersion: version.SchemaVersion,
		// DuckDB timestamps carry microseconds.
		SavedAt: s.now().UTC().Truncate(time.Microsecond),
		Report:  report,
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := s.sq.
			Insert("reports").
			Columns(reportColumns...).
			Values(saved.ID, saved.UserID, saved.Name, string(saved.Kind), saved.SchemaVersion, saved.SavedAt, string(payload)).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}

		return s.activate(ctx, tx, userID, saved.ID)
	})
	if err != nil {
		restore()
		s.logger.Error("Failed to save report", zap.String("user", userID), zap.Error(err))

		return SavedReport{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to save report", err)
	}

	s.logger.Info("Report saved",
		zap.String("id", saved.ID),
		zap.String("user", userID),
		zap.String("name", saved.Name),
		zap.Int("trades", report.TradeCount()),
	)

	return saved, nil
}

func (s *DuckDBStore) List(ctx context.Context, userID string) ([]SavedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.sq.
		Select(reportColumns...).
		From("reports").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("seq ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query reports", err)
	}
	defer rows.Close()

	reports := []SavedReport{}

	for rows.Next() {
		saved, err := s.scan(rows)
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeQueryFailed) {
				return nil, err
			}

			// One unreadable report does not hide the others.
			s.logger.Warn("Skipping stored report", zap.String("user", userID), zap.Error(err))

			continue
		}

		reports = append(reports, saved)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating reports", err)
	}

	return reports, nil
}

func (s *DuckDBStore) Get(ctx context.Context, userID, id string) (SavedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.get(ctx, userID, id)
}

func (s *DuckDBStore) get(ctx context.Context, userID, id string) (SavedReport, error) {
	row := s.sq.
		Select(reportColumns...).
		From("reports").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		RunWith(s.db).
		QueryRowContext(ctx)

	saved, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedReport{}, errors.Newf(errors.ErrCodeReportNotFound, "report %s not found", id)
	}

	return saved, err
}

func (s *DuckDBStore) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := s.sq.
			Delete("reports").
			Where(squirrel.Eq{"id": id, "user_id": userID}).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete report: %w", err)
		}

		deleted, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count deleted reports: %w", err)
		}

		_, err = s.sq.
			Delete("active_reports").
			Where(squirrel.Eq{"user_id": userID, "report_id": id}).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear active report: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Failed to delete report", zap.String("id", id), zap.Error(err))

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to delete report", err)
	}

	if deleted == 0 {
		return errors.Newf(errors.ErrCodeReportNotFound, "report %s not found", id)
	}

	s.logger.Info("Report deleted", zap.String("id", id), zap.String("user", userID))

	return nil
}

func (s *DuckDBStore) SetActive(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int

	err := s.sq.
		Select("COUNT(*)").
		From("reports").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&count)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to look up report", err)
	}

	if count == 0 {
		return errors.Newf(errors.ErrCodeReportNotFound, "report %s not found", id)
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		return s.activate(ctx, tx, userID, id)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to set active report", err)
	}

	return nil
}

func (s *DuckDBStore) GetActive(ctx context.Context, userID string) (SavedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string

	err := s.sq.
		Select("report_id").
		From("active_reports").
		Where(squirrel.Eq{"user_id": userID}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedReport{}, errors.Newf(errors.ErrCodeNoActiveReport, "user %s has no active report", userID)
	}

	if err != nil {
		return SavedReport{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query active report", err)
	}

	return s.get(ctx, userID, id)
}

// Export writes every stored report to a Parquet file at path.
func (s *DuckDBStore) Export(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to create export directory", err)
	}

	query := fmt.Sprintf(
		`COPY (SELECT %s FROM reports ORDER BY seq) TO '%s' (FORMAT PARQUET)`,
		strings.Join(reportColumns, ", "),
		strings.ReplaceAll(path, "'", "''"),
	)

	if _, err := s.db.Exec(query); err != nil {
		s.logger.Error("Failed to export reports", zap.String("path", path), zap.Error(err))

		return errors.Wrap(errors.ErrCodeExportFailed, "failed to export reports to Parquet", err)
	}

	s.logger.Info("Successfully exported reports to Parquet file", zap.String("path", path))

	return nil
}

func (s *DuckDBStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// activate replaces the active report of userID. Must run inside a transaction.
func (s *DuckDBStore) activate(ctx context.Context, tx *sql.Tx, userID, id string) error {
	_, err := s.sq.
		Delete("active_reports").
		Where(squirrel.Eq{"user_id": userID}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear active report: %w", err)
	}

	_, err = s.sq.
		Insert("active_reports").
		Columns("user_id", "report_id").
		Values(userID, id).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert active report: %w", err)
	}

	return nil
}

func (s *DuckDBStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// scan reads one reports row. sql.ErrNoRows is returned unwrapped.
func (s *DuckDBStore) scan(row squirrel.RowScanner) (SavedReport, error) {
	var (
		saved   SavedReport
		kind    string
		payload string
	)

	err := row.Scan(&saved.ID, &saved.UserID, &saved.Name, &kind, &saved.SchemaVersion, &saved.SavedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedReport{}, err
	}

	if err != nil {
		return SavedReport{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan report", err)
	}

	saved.Kind = types.ReportType(kind)
	saved.SavedAt = saved.SavedAt.UTC()

	if err := version.CheckStoredSchema(saved.SchemaVersion); err != nil {
		return SavedReport{}, errors.Wrapf(errors.ErrCodeSchemaVersionMismatch, err, "report %s cannot be read", saved.ID)
	}

	report, err := types.UnmarshalReport([]byte(payload))
	if err != nil {
		return SavedReport{}, err
	}

	saved.Report = report

	return saved, nil
}
