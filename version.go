package rentdesk

// Version is the release of the module, overridden at build time with
// -ldflags "-X github.com/aretw0/rentdesk.Version=...".
var Version = "0.1.0-dev"
