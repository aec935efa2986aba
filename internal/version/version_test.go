package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, commit, dirty string) {
	t.Helper()
	origVersion, origCommit, origDirty := Version, GitCommit, GitDirty
	t.Cleanup(func() {
		Version, GitCommit, GitDirty = origVersion, origCommit, origDirty
	})
	Version, GitCommit, GitDirty = v, commit, dirty
}

func TestGetVersion_WithLdflags(t *testing.T) {
	withVersion(t, "v1.2.3", "unknown", "")
	assert.Equal(t, "v1.2.3", GetVersion())
}

func TestGetVersion_WithDirtyFlag(t *testing.T) {
	withVersion(t, "v1.2.3", "abc1234", "dirty")
	assert.Equal(t, "v1.2.3-dirty", GetVersion())
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "version only",
			info: Info{Version: "dev", Commit: "unknown"},
			want: "dev",
		},
		{
			name: "commit is shortened",
			info: Info{Version: "v0.1.0", Commit: "abc1234567890", GoVersion: "go1.25.5"},
			want: "v0.1.0 (commit: abc1234, go1.25.5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestGet(t *testing.T) {
	withVersion(t, "v9.9.9", "deadbeef", "")
	info := Get()
	assert.Equal(t, "v9.9.9", info.Version)
	assert.Equal(t, "deadbeef", info.Commit)
}
