// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/blogbuilder/internal/version.Version=v0.4.0"
package version

var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders version, commit and build time on one line.
func String() string {
	return Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}

// Generator is the value written to feed <generator> elements and page meta tags.
func Generator() string {
	return "blogbuilder " + Version
}
