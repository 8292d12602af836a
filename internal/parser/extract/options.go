package extract

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-report/internal/logger"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/pkg/errors"
	"go.uber.org/zap"
)

// Options are shared by every report parser.
type Options struct {
	// Logger receives debug entries for defaults and skipped rows. Defaults to a no-op logger.
	Logger *logger.Logger
	// Now stamps UploadedAt. Defaults to time.Now.
	Now func() time.Time
}

// WithDefaults fills the unset options.
func (o Options) WithDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.NewNopLogger()
	}

	if o.Now == nil {
		o.Now = time.Now
	}

	return o
}

// Session is the state of one parse call: its diagnostics, logger and row validator.
type Session struct {
	Diagnostics *types.Diagnostics
	Logger      *logger.Logger
	Validate    *validator.Validate
	Now         func() time.Time
}

// NewSession starts a parse.
func NewSession(opts Options, report string) *Session {
	opts = opts.WithDefaults()

	return &Session{
		Diagnostics: types.NewDiagnostics(),
		Logger:      &logger.Logger{Logger: opts.Logger.With(zap.String("report", report))},
		Validate:    validator.New(),
		Now:         opts.Now,
	}
}

// SkipRow records and logs a dropped row.
func (s *Session) SkipRow(err *errors.RowError) {
	s.Diagnostics.SkipRow(err)
	s.Logger.Debug("Row skipped",
		zap.String("section", err.Section),
		zap.Int("row", err.Row),
		zap.String("field", err.Field),
		zap.String("reason", err.Message),
	)
}

// Validatable is a parsed row that can be checked with the session validator.
type Validatable interface {
	ValidateWith(validate *validator.Validate) error
}

// Check validates a parsed row. An invalid row is recorded as skipped and false is returned.
func (s *Session) Check(section string, row int, v Validatable) bool {
	err := v.ValidateWith(s.Validate)
	if err == nil {
		return true
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		s.SkipRow(errors.NewRowErrorf(section, row, fe.Field(), "failed %s validation", fe.Tag()))

		return false
	}

	s.SkipRow(errors.NewRowError(section, row, "", errors.UserMessage(err)))

	return false
}

// MissingSection records and logs a section that was not found.
func (s *Session) MissingSection(name string) {
	s.Diagnostics.MissingSection(name)
	s.Logger.Debug("Section not found", zap.String("section", name))
}

// Default records and logs a defaulted field.
func (s *Session) Default(field, reason string) {
	s.Diagnostics.Default(field, reason)
	s.Logger.Debug("Field defaulted", zap.String("field", field), zap.String("reason", reason))
}

// Succeed finishes the parse with a report.
func (s *Session) Succeed(report types.Report) types.ParseResult {
	s.Logger.Info("Report parsed",
		zap.Int("trades", report.TradeCount()),
		zap.Int("defaults", s.Diagnostics.DefaultCount()),
		zap.Int("skipped_rows", len(s.Diagnostics.SkippedRows)),
	)

	return types.NewParseSuccess(report, s.Diagnostics)
}

// Fail finishes the parse with an error.
func (s *Session) Fail(err error) types.ParseResult {
	s.Logger.Warn("Report rejected", zap.Error(err))

	return types.NewParseFailure(err, s.Diagnostics)
}

// Recover turns a panic raised while parsing into a failed result.
// It must be deferred directly by the parse function.
func (s *Session) Recover(result *types.ParseResult) {
	if r := recover(); r != nil {
		err := errors.Wrap(errors.ErrCodeReportParseFailed, "unexpected error parsing report", fmt.Errorf("%v", r))
		s.Logger.Error("Parser panicked", zap.Any("panic", r))
		*result = types.NewParseFailure(err, s.Diagnostics)
	}
}
