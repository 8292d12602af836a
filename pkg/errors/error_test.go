package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeFormatMismatch, "please upload an %s file", ".html")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("please upload an .html file", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeReportNotFound, "report not found", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeReportNotFound, err.Code)
	suite.Equal("report not found", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeReportNotFound, cause, "report %s not found", "abc")
	suite.NotNil(err)
	suite.Equal(ErrCodeReportNotFound, err.Code)
	suite.Equal("report abc not found", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeReportNotFound, "report not found", cause)
	suite.Equal("[200] report not found: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeReportNotFound, "report not found", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal(ErrCodeInvalidParameter, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeWorkbookUnreadable, "workbook unreadable")
	err := Wrap(ErrCodeReportParseFailed, "failed to parse report", cause)
	// GetCode should return the outermost error's code
	suite.Equal(ErrCodeReportParseFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromPlainError() {
	err := errors.New("standard error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeIdentityMismatch, "not a trade history report")
	suite.True(HasCode(err, ErrCodeIdentityMismatch))
	suite.False(HasCode(err, ErrCodeFormatMismatch))
}

func (suite *ErrorTestSuite) TestIsError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeReportNotFound, "report not found", cause)
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestAsError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	var reportErr *Error
	suite.True(As(err, &reportErr))
	suite.Equal(ErrCodeInvalidParameter, reportErr.Code)
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(102), ErrCodeFormatMismatch)
	suite.Equal(ErrorCode(103), ErrCodeIdentityMismatch)
	suite.Equal(ErrorCode(200), ErrCodeReportNotFound)
	suite.Equal(ErrorCode(300), ErrCodeReportParseFailed)
}

func (suite *ErrorTestSuite) TestUserMessage() {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "coded error drops the code prefix",
			err:      New(ErrCodeFormatMismatch, "Please upload an HTML file (.html or .htm)"),
			expected: "Please upload an HTML file (.html or .htm)",
		},
		{
			name:     "wrapped error drops the cause",
			err:      Wrap(ErrCodeReportParseFailed, "failed to parse report", errors.New("eof")),
			expected: "failed to parse report",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: "boom",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.expected, UserMessage(tt.err))
		})
	}
}

func (suite *ErrorTestSuite) TestRowError() {
	err := NewRowError("Positions", 12, "close_time", "unparseable date")
	suite.Equal("Positions", err.Section)
	suite.Equal(12, err.Row)
	suite.Equal("close_time", err.Field)
	suite.Equal("Positions row 12 (close_time): unparseable date", err.Error())
}

func (suite *ErrorTestSuite) TestRowErrorWithoutField() {
	err := NewRowErrorf("Deals", 3, "", "unmatched %s deal", "out")
	suite.Equal("unmatched out deal", err.Message)
	suite.Equal("Deals row 3: unmatched out deal", err.Error())
}

func (suite *ErrorTestSuite) TestIsRowError() {
	suite.True(IsRowError(NewRowError("Deals", 1, "", "x")))
	suite.False(IsRowError(errors.New("standard error")))
	suite.False(IsRowError(New(ErrCodeInvalidParameter, "invalid parameter")))
	suite.False(IsRowError(nil))
}
