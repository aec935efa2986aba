package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// Version information, set at build time via ldflags
	Version   = "dev"     // Version string (e.g., "v0.3.0")
	GitCommit = "unknown" // Git commit hash
	BuildTime = "unknown" // Build timestamp
	GitDirty  = ""        // "dirty" if working directory has uncommitted changes
)

// Info describes the running binary
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
}

// GetVersion returns the version string for the application.
// ldflags win over module build info; a dirty tree is suffixed.
func GetVersion() string {
	v := Version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if GitDirty == "dirty" && !strings.HasSuffix(v, "-dirty") {
		v += "-dirty"
	}
	return v
}

// Get collects version information for display by the CLI and the language server
func Get() Info {
	info := Info{
		Version:   GetVersion(),
		Commit:    GitCommit,
		BuildTime: BuildTime,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.Commit == "unknown" {
			for _, setting := range bi.Settings {
				if setting.Key == "vcs.revision" {
					info.Commit = setting.Value
				}
			}
		}
	}
	return info
}

// String returns a one-line description such as "v0.1.0 (commit: abc1234, go1.25.5)"
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	details := []string{}
	if commit != "" && commit != "unknown" {
		details = append(details, "commit: "+commit)
	}
	if i.GoVersion != "" {
		details = append(details, i.GoVersion)
	}
	if len(details) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(details, ", "))
}
