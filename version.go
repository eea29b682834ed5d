package audiolink

import "runtime/debug"

// Version is the release of the audiolink library and CLI.
const Version = "0.1.0"

// Stamped by release builds:
//
//	go build -ldflags="-X github.com/simonhull/audiolink.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/audiolink.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	gitCommit = ""
	buildTime = ""
)

// GetVersion returns Version.
func GetVersion() string {
	return Version
}

// VersionInfo describes the running build, as shown by "audiolink version -v".
type VersionInfo struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
}

// GetVersionInfo reports the build's commit and time. Values stamped with
// -ldflags win; otherwise the VCS data the go command embeds is used, and
// anything still missing reads "unknown".
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: "unknown",
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildTime == "":
				info.BuildTime = s.Value
			}
		}
	}

	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	if info.BuildTime == "" {
		info.BuildTime = "unknown"
	}
	return info
}
