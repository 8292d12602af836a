package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeFormatMismatch       ErrorCode = 102
	ErrCodeIdentityMismatch     ErrorCode = 103
	ErrCodeMissingParameter     ErrorCode = 104
	ErrCodeInvalidVersion       ErrorCode = 105
	ErrCodeInvalidTrade         ErrorCode = 106
	ErrCodeUnknownReportType    ErrorCode = 107

	// Data/Resource errors (200-299)
	ErrCodeReportNotFound         ErrorCode = 200
	ErrCodeStorageUnavailable     ErrorCode = 201
	ErrCodeQueryFailed            ErrorCode = 202
	ErrCodeSerializationFailed    ErrorCode = 203
	ErrCodeSchemaVersionMismatch  ErrorCode = 204
	ErrCodeExportFailed           ErrorCode = 205
	ErrCodeNoActiveReport         ErrorCode = 206
	ErrCodeReportOwnershipMissing ErrorCode = 207

	// Parse errors (300-399)
	ErrCodeReportParseFailed  ErrorCode = 300
	ErrCodeDocumentUnreadable ErrorCode = 301
	ErrCodeWorkbookUnreadable ErrorCode = 302
	ErrCodeSheetMissing       ErrorCode = 303
	ErrCodeSectionMissing     ErrorCode = 304
	ErrCodeUnsupportedLayout  ErrorCode = 305
)
