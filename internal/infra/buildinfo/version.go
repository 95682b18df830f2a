// Package buildinfo exposes the version stamp of a viewgate binary.
//
// Version, Commit, and BuildTime are overridden at release time:
//
//	go build -ldflags "\
//	  -X github.com/edvros/viewgate-go/internal/infra/buildinfo.Version=v1.2.0 \
//	  -X github.com/edvros/viewgate-go/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// Unstamped builds report "dev".
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"

	// Commit is the short git hash the binary was built from.
	Commit = "unknown"

	// BuildTime is when the binary was built, RFC 3339.
	BuildTime = "unknown"
)

// Info is the version stamp in one JSON-friendly value, served by the
// health endpoint and printed by --version.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the stamp of the running binary. GoVersion comes from
// the runtime rather than ldflags, so it is always accurate.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String renders the stamp for --version output.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s)", Version, Commit, BuildTime, runtime.Version())
}
