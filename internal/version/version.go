/*
Package version reports the bapanel build.

Values are set via ldflags:

	go build -ldflags "-X github.com/bapanel/bapanel/internal/version.Version=v0.3.0 \
	  -X github.com/bapanel/bapanel/internal/version.Commit=abc1234 \
	  -X github.com/bapanel/bapanel/internal/version.Date=2026-01-31"

Unset values leave a "dev" build.
*/
package version

import "runtime"

var (
	// Version is the release tag (e.g., v0.3.0)
	Version = "dev"
	// Commit is the short git commit hash
	Commit = "none"
	// Date is the build date in UTC (YYYY-MM-DD)
	Date = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
	Platform  string
}

// Get returns the build information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String formats the build for --version.
func (i Info) String() string {
	if i.Version == "dev" {
		return i.Version + " (development build)"
	}
	return i.Version + " (commit: " + i.Commit + ", built: " + i.Date + ")"
}
