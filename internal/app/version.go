package app

import "fmt"

// Release builds stamp these with -ldflags "-X"; plain go build leaves
// Version at "dev".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion is printed by ingest -version and logged when a run starts.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}

// UserAgent is sent to AnkiConnect with every deck request.
func UserAgent() string {
	return "lumen/" + Version
}
