package version

// Version is the decomment release. Overridden at build time with
// -ldflags "-X github.com/strongdm/decomment/internal/version.Version=...".
var Version = "0.3.0"
