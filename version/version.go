package version

import "runtime/debug"

// Set at build time with e.g.
// go build -ldflags "-X github.com/vsariola/pianoroll/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short vcs revision of the build, with "-dirty" appended when
// the tree had local modifications.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value[:min(7, len(setting.Value))]
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision != "" && modified {
		return revision + "-dirty"
	}
	return revision
}()

var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if Hash != "" {
		return Hash
	}
	return "devel"
}()
