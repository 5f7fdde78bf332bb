package app

import "fmt"

// Build identification, injected with -ldflags:
//
//	-X github.com/mchales/huistack-backend/internal/app.Version=v0.3.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion renders the build identity for startup logs and the
// health endpoint.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime)
}
