package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestPopulatedAtInit(t *testing.T) {
	if Version == "" {
		t.Error("Version should be populated at init")
	}
	if Commit == "" {
		t.Error("Commit should be populated at init")
	}

	full := Full()
	if !strings.HasPrefix(full, Version+" ") {
		t.Errorf("Full() = %q, should start with %q", full, Version)
	}
	if !strings.Contains(full, "commit: "+Commit) {
		t.Errorf("Full() = %q, should contain commit %q", full, Commit)
	}
	if UserAgent() != "urlmap/"+Version {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name        string
		info        debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name: "tagged module",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "v1.4.0"},
			},
			wantVersion: "v1.4.0",
		},
		{
			name: "local clean build",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.time", Value: "2024-03-05T10:00:00Z"},
					{Key: "vcs.modified", Value: "false"},
				},
			},
			wantVersion: "dev-20240305",
			wantCommit:  "0123456",
		},
		{
			name: "local dirty build",
			info: debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			wantCommit: "abc-dirty",
		},
		{
			name: "no vcs",
			info: debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := fromBuildInfo(&tt.info)
			if v != tt.wantVersion || c != tt.wantCommit {
				t.Errorf("fromBuildInfo() = (%q, %q), want (%q, %q)", v, c, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}
