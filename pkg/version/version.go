package version

// Version is the current application version.
// Overridden at build time via -ldflags "-X questmap/pkg/version.Version=...".
var Version = "0.3.0-dev"
