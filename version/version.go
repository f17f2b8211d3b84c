package version

// Version is the release tag, set at build time with
// -ldflags "-X github.com/jake-scott/came-domo/version.Version=..."
var Version = "dev"
