// Package version holds tabclean build metadata.
//
// The variables are stamped at link time:
//
//	go build -ldflags "-X github.com/jmylchreest/tabclean/internal/version.Version=1.2.0 \
//	  -X github.com/jmylchreest/tabclean/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build-time variables set via ldflags
var (
	// Version is the semantic version (e.g., "1.2.0")
	Version = "dev"

	// Commit is the git commit SHA
	Commit = "unknown"

	// Dirty is "true" when the working tree had uncommitted changes
	Dirty = "false"

	// BuildDate is the UTC build timestamp in RFC3339 format
	BuildDate = "unknown"
)

// Info is the structured form printed by "tabclean version --format".
type Info struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Dirty     bool   `json:"dirty" yaml:"dirty"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func dirty() bool {
	return Dirty == "true"
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Name:      "tabclean",
		Version:   Version,
		Commit:    Commit,
		Dirty:     dirty(),
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns the version, suffixed with "-dirty" for modified trees.
func String() string {
	if dirty() {
		return Version + "-dirty"
	}
	return Version
}

// Full returns a multi-line description of the build.
func Full() string {
	info := Get()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", info.Name, String())
	fmt.Fprintf(&sb, "  Commit:     %s\n", info.Commit)
	if info.Dirty {
		sb.WriteString("  Dirty:      yes\n")
	}
	fmt.Fprintf(&sb, "  Built:      %s\n", info.BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(&sb, "  OS/Arch:    %s", info.Platform)
	return sb.String()
}
