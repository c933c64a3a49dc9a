// Package version carries build metadata injected with -ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/vaultblog/internal/version.Version=v0.3.0"
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("vaultblog %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
