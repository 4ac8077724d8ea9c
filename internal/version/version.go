// Package version carries the build version, overridden with
// -ldflags "-X github.com/bnema/pcg-autocatch/internal/version.Version=...".
package version

var Version = "dev"
