package release

// InstalledState classifies the result of probing the installed application.
type InstalledState int

const (
	// StateMissing means the binary is absent or failed to run.
	StateMissing InstalledState = iota
	// StateUnparseable means the binary ran but printed no recognizable version line.
	StateUnparseable
	// StateInstalled means a version was read.
	StateInstalled
)

// InstalledVersion is the outcome of asking the local binary for its version.
type InstalledVersion struct {
	// Version is set only when State is StateInstalled.
	Version string
	State   InstalledState
}

// Known reports whether a version was read.
func (v InstalledVersion) Known() bool {
	return v.State == StateInstalled && v.Version != ""
}

// Matches reports whether the installed version equals latest.
// Versions are compared as plain strings; there is no ordering.
func (v InstalledVersion) Matches(latest string) bool {
	return v.Known() && v.Version == latest
}

// String returns the version or a description of why there is none.
func (v InstalledVersion) String() string {
	switch v.State {
	case StateInstalled:
		return v.Version
	case StateUnparseable:
		return "unknown, the version output was not recognized"
	default:
		return "None, or older than 1.7.0"
	}
}

// Artifact is a downloaded package file owned by the current run.
type Artifact struct {
	Path     string
	Version  string
	Platform *Platform
}
