// Package version holds the build version, set at link time:
//
//	go build -ldflags "-X github.com/ndewijer/papertrade/internal/version.Version=v1.2.3"
package version

// Version is the application version.
var Version = "dev"
