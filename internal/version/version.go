// Package version reports the urlmap build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time with:
//
//	go build -ldflags="-X github.com/imfreedom/urlmap/internal/version.Version=v1.2.3 \
//	                   -X github.com/imfreedom/urlmap/internal/version.Commit=abc123"
//
// Unset values are filled from the module and VCS build info.
var (
	// Version is the release version, or dev-YYYYMMDD for untagged builds
	Version = ""
	// Commit is the short git revision, suffixed with -dirty for modified trees
	Commit = ""
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		v, c := fromBuildInfo(info)
		if Version == "" {
			Version = v
		}
		if Commit == "" {
			Commit = c
		}
	}

	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo derives a version and commit from build info.
// 'go install ...@vX.Y.Z' builds carry the module version; local builds
// only have VCS settings.
func fromBuildInfo(info *debug.BuildInfo) (version, commit string) {
	if v := info.Main.Version; v != "" && v != "(devel)" {
		version = v
	}

	var revision, modified, vcsTime string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	if revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		commit = revision
		if modified == "true" {
			commit += "-dirty"
		}
	}

	if version == "" && vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			version = "dev-" + t.UTC().Format("20060102")
		}
	}

	return version, commit
}

// Full returns the version, commit and Go toolchain on one line
func Full() string {
	return fmt.Sprintf("%s (commit: %s, %s)", Version, Commit, runtime.Version())
}

// UserAgent identifies urlmap in outgoing HTTP requests
func UserAgent() string {
	return "urlmap/" + Version
}
