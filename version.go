package tropelink

// Version is overridden at build time with -ldflags "-X github.com/aretw0/tropelink.Version=...".
var Version = "dev"
