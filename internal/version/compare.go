package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-report/pkg/errors"
)

// CheckSchemaCompatibility checks whether a report stored with storedVersion can be
// read by a build that writes currentVersion.
//
// Compatibility Rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 reads 1.2.5)
//
// Examples:
//   - Current 1.2.0, Stored 1.2.0 -> OK
//   - Current 1.2.1, Stored 1.2.0 -> OK
//   - Current 1.3.0, Stored 1.2.0 -> ERROR (minor differs)
//   - Current 2.0.0, Stored 1.2.0 -> ERROR (major differs)
func CheckSchemaCompatibility(currentVersion, storedVersion string) error {
	currentVersion = strings.TrimPrefix(currentVersion, "v")
	storedVersion = strings.TrimPrefix(storedVersion, "v")

	if currentVersion == "main" || storedVersion == "main" {
		return nil
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid current schema version '%s'", currentVersion)
	}

	stored, err := semver.NewVersion(storedVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid stored schema version '%s'", storedVersion)
	}

	if current.Major() != stored.Major() {
		return errors.Newf(errors.ErrCodeSchemaVersionMismatch,
			"major version mismatch: schema is %d.x.x but report was stored as %d.x.x",
			current.Major(), stored.Major())
	}

	if current.Minor() != stored.Minor() {
		return errors.Newf(errors.ErrCodeSchemaVersionMismatch,
			"minor version mismatch: schema is %d.%d.x but report was stored as %d.%d.x",
			current.Major(), current.Minor(), stored.Major(), stored.Minor())
	}

	return nil
}

// CheckStoredSchema checks storedVersion against SchemaVersion.
func CheckStoredSchema(storedVersion string) error {
	return CheckSchemaCompatibility(SchemaVersion, storedVersion)
}
