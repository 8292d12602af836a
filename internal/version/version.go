package version

// Version is the current version of the mt5report tool.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-report/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

// SchemaVersion is the version of the stored report payload. Bump the minor
// version whenever a field is added to a report and the major version whenever
// a field changes meaning.
const SchemaVersion = "1.0.0"

// GetVersion returns the current version of the tool.
func GetVersion() string {
	return Version
}
