package config

// Build information, set through SetBuildFlags from ldflags in cli/main.go
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// SetBuildFlags records the values passed to the linker
func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}
