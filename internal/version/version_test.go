package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func restore(t *testing.T) {
	t.Helper()
	v, b, g := Version, BuildTime, GitCommit
	t.Cleanup(func() {
		Version, BuildTime, GitCommit = v, b, g
	})
}

func TestFull(t *testing.T) {
	restore(t)

	BuildTime, GitCommit = "unknown", "unknown"
	assert.Equal(t, Version, Full())

	BuildTime = "2026-10-01"
	GitCommit = "4f1c2d9"

	full := Full()
	assert.Contains(t, full, "2026-10-01")
	assert.Contains(t, full, "4f1c2d9")
	assert.Contains(t, full, Version)
}

func TestFromBuildInfo(t *testing.T) {
	restore(t)
	Version, BuildTime, GitCommit = "dev", "unknown", "unknown"

	fromBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Path: "github.com/cruse1977/netbox-acls", Version: "v0.2.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-15T08:00:00Z"},
		},
	})

	assert.Equal(t, "v0.2.0", Version)
	assert.Equal(t, "abc123", GitCommit)
	assert.Equal(t, "2026-10-15T08:00:00Z", BuildTime)
}

func TestFromBuildInfoKeepsLdflagsValues(t *testing.T) {
	restore(t)
	Version, BuildTime, GitCommit = "1.4.0", "2026-01-01", "deadbeef"

	fromBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})

	assert.Equal(t, "1.4.0", Version)
	assert.Equal(t, "deadbeef", GitCommit)
	assert.Equal(t, "2026-01-01", BuildTime)
}
