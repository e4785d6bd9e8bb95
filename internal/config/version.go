package config

// Version is the netgraph binary version.
// Set at build time via: -ldflags "-X github.com/persistorai/netgraph/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
