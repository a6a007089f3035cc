package version

// Set at build time via -ldflags="-X ...".
var (
	version   = "v1.0.0"
	gitCommit = ""
)

// Get returns the human-readable version string reported by --version.
func Get() string {
	if gitCommit != "" {
		return version + "+" + gitCommit
	}
	return version
}
