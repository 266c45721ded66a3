// Package version reports build information for seqkit binaries.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/seqkit/version.Version=1.0.0" ./cmd/seqq
//
// Unset values fall back to the VCS settings the Go toolchain stamps into
// the binary.
package version
