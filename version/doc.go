// Package version provides build version information embedding.
//
// Version and build metadata are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/meetingscribe/version.Version=1.0.0"
package version
