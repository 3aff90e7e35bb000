// Package version exposes release metadata for balkit.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/blang/semver/v4"
)

// Release metadata for the current version.
const (
	Constraint   = "^1.5.2"
	ReleaseDate  = "2025-01-27"
	Codename     = "Breeze Integration Fix"
	PackagistURL = "https://packagist.org/packages/get-tony/bal-kit"

	releaseURLPrefix = "https://github.com/get-tony/bal-kit/releases/tag/v"
)

// MinimumCompatible is the oldest version whose published files balkit
// still understands.
var MinimumCompatible = semver.MustParse("1.0.0")

// Info contains version and build information.
type Info struct {
	Version     string    `json:"version"`
	Constraint  string    `json:"constraint"`
	ReleaseDate string    `json:"release_date"`
	Codename    string    `json:"codename"`
	Full        string    `json:"full"`
	ReleaseURL  string    `json:"release_url"`
	Packagist   string    `json:"packagist_url"`
	GitCommit   string    `json:"git_commit"`
	BuildTime   time.Time `json:"build_time"`
	GoVersion   string    `json:"go_version"`
	Platform    string    `json:"platform"`
}

// These variables are set at build time using -ldflags.
var (
	// Version is the semantic version of the application
	Version = "1.5.2"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"

	// BuildTime is the time when the binary was built (RFC3339 format)
	BuildTime = "unknown"
)

// Current returns the application version.
func Current() string {
	return strings.TrimPrefix(Version, "v")
}

// Full returns the version followed by its codename.
func Full() string {
	return Current() + " - " + Codename
}

// ReleaseURL returns the release page of the current version.
func ReleaseURL() string {
	return releaseURLPrefix + Current()
}

// IsCompatible reports whether v is at least MinimumCompatible. Versions that
// do not parse are not compatible.
func IsCompatible(v string) bool {
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return false
	}
	return parsed.GTE(MinimumCompatible)
}

// GetInfo returns the full set of version and build information.
func GetInfo() *Info {
	return &Info{
		Version:     Current(),
		Constraint:  Constraint,
		ReleaseDate: ReleaseDate,
		Codename:    Codename,
		Full:        Full(),
		ReleaseURL:  ReleaseURL(),
		Packagist:   PackagistURL,
		GitCommit:   GetGitCommit(),
		BuildTime:   parseISOTime(BuildTime),
		GoVersion:   runtime.Version(),
		Platform:    fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// GetGitCommit returns the git commit hash
func GetGitCommit() string {
	if GitCommit != "" && GitCommit != "unknown" {
		return GitCommit
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
}

// GetShortVersion returns a short version string suitable for display
func GetShortVersion() string {
	v := Current()
	commit := GetGitCommit()

	if commit != "unknown" && len(commit) >= 7 {
		return fmt.Sprintf("%s (%s)", v, commit[:7])
	}

	return v
}

// GetDetailedVersion returns a detailed version string with all build info
func GetDetailedVersion() string {
	info := GetInfo()

	var parts []string
	parts = append(parts, fmt.Sprintf("Version: %s", info.Full))
	parts = append(parts, fmt.Sprintf("Released: %s", info.ReleaseDate))

	if info.GitCommit != "unknown" {
		parts = append(parts, fmt.Sprintf("Commit: %s", info.GitCommit))
	}

	if !info.BuildTime.IsZero() {
		parts = append(parts, fmt.Sprintf("Built: %s", info.BuildTime.Format(time.RFC3339)))
	}

	parts = append(parts, fmt.Sprintf("Go: %s", info.GoVersion))
	parts = append(parts, fmt.Sprintf("Platform: %s", info.Platform))
	parts = append(parts, fmt.Sprintf("Release: %s", info.ReleaseURL))

	return strings.Join(parts, "\n")
}

// IsDirty returns true if the working directory was dirty when built
func IsDirty() bool {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.modified" {
				return setting.Value == "true"
			}
		}
	}
	return false
}

// parseISOTime parses an ISO 8601 time string, returns zero time on error
func parseISOTime(timeStr string) time.Time {
	if timeStr == "" || timeStr == "unknown" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t
		}
	}

	return time.Time{}
}
