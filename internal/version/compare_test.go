package version

import (
	"testing"

	"github.com/rxtech-lab/argo-report/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSchemaCompatibility(t *testing.T) {
	tests := []struct {
		name           string
		currentVersion string
		storedVersion  string
		expectError    bool
		errorCode      errors.ErrorCode
		errorContains  string
	}{
		{
			name:           "exact match",
			currentVersion: "1.2.0",
			storedVersion:  "1.2.0",
		},
		{
			name:           "current patch higher",
			currentVersion: "1.2.1",
			storedVersion:  "1.2.0",
		},
		{
			name:           "stored patch higher",
			currentVersion: "1.2.0",
			storedVersion:  "1.2.5",
		},
		{
			name:           "current minor higher",
			currentVersion: "1.3.0",
			storedVersion:  "1.2.0",
			expectError:    true,
			errorCode:      errors.ErrCodeSchemaVersionMismatch,
			errorContains:  "minor version mismatch",
		},
		{
			name:           "current minor lower",
			currentVersion: "1.1.0",
			storedVersion:  "1.2.0",
			expectError:    true,
			errorCode:      errors.ErrCodeSchemaVersionMismatch,
			errorContains:  "minor version mismatch",
		},
		{
			name:           "major version differs",
			currentVersion: "2.0.0",
			storedVersion:  "1.2.0",
			expectError:    true,
			errorCode:      errors.ErrCodeSchemaVersionMismatch,
			errorContains:  "major version mismatch",
		},
		{
			name:           "current is main",
			currentVersion: "main",
			storedVersion:  "1.3.0",
		},
		{
			name:           "stored is main",
			currentVersion: "1.2.0",
			storedVersion:  "main",
		},
		{
			name:           "v prefix",
			currentVersion: "v1.2.0",
			storedVersion:  "1.2.3",
		},
		{
			name:           "prerelease version",
			currentVersion: "1.2.0-alpha",
			storedVersion:  "1.2.0",
		},
		{
			name:           "invalid current version",
			currentVersion: "not-a-version",
			storedVersion:  "1.2.0",
			expectError:    true,
			errorCode:      errors.ErrCodeInvalidVersion,
			errorContains:  "invalid current schema version",
		},
		{
			name:           "empty stored version",
			currentVersion: "1.2.0",
			storedVersion:  "",
			expectError:    true,
			errorCode:      errors.ErrCodeInvalidVersion,
			errorContains:  "invalid stored schema version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSchemaCompatibility(tt.currentVersion, tt.storedVersion)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.errorCode))
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCheckStoredSchema(t *testing.T) {
	require.NoError(t, CheckStoredSchema(SchemaVersion))
	require.Error(t, CheckStoredSchema("0.1.0"))
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
}
