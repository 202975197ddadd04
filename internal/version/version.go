package version

// Version is overridden at build time with
// -ldflags "-X docsign-client/internal/version.Version=1.2.3"
var Version = "dev"

// Commit is the VCS revision the binary was built from
var Commit = "unknown"
