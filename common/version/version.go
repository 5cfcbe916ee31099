package version

import "fmt"

// VERSION is the major.minor.patch release of jobsync, injected at link time.
var VERSION string

// GITCOMMIT is the short git hash jobsync was built from, injected at link time.
var GITCOMMIT string

// VersionToString returns the injected build version, or "dev" for a binary
// built without the release ldflags.
func VersionToString() string {
	if VERSION == "" && GITCOMMIT == "" {
		return "dev"
	}
	return fmt.Sprintf("%s (%s)", VERSION, GITCOMMIT)
}
