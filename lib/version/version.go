// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// These variables are set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/tasktracker/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// BuildInfo is the resolved version information, shaped for
// `tasktracker version --json`.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

var (
	currentOnce sync.Once
	current     BuildInfo
)

// Current returns the build information, preferring ldflags values and
// falling back to the toolchain's embedded vcs settings.
func Current() BuildInfo {
	currentOnce.Do(func() {
		current = resolve(GitCommit, GitDirty, BuildTime, readVCS())
	})
	return current
}

// vcsSettings is the subset of debug.BuildInfo settings used here.
type vcsSettings struct {
	revision string
	modified string
	time     string
}

func readVCS() vcsSettings {
	var settings vcsSettings
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return settings
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			settings.revision = setting.Value
		case "vcs.modified":
			settings.modified = setting.Value
		case "vcs.time":
			settings.time = setting.Value
		}
	}
	return settings
}

func resolve(commit, dirty, buildTime string, vcs vcsSettings) BuildInfo {
	if commit == "unknown" && vcs.revision != "" {
		commit = vcs.revision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if vcs.modified != "" {
			dirty = vcs.modified
		}
	}
	if buildTime == "unknown" && vcs.time != "" {
		buildTime = vcs.time
	}
	return BuildInfo{
		Version:   Version,
		Commit:    commit,
		Dirty:     dirty == "true",
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info returns a formatted version string suitable for version output.
func Info() string {
	return Current().info()
}

func (info BuildInfo) info() string {
	dirty := ""
	if info.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", info.Version, info.Commit, dirty, info.BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	info := Current()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s", info.info(), info.GoVersion, info.Platform)
}

// Short returns just the version number.
func Short() string {
	return Version
}
