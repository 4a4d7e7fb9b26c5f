package updater

// State is a step of the update state machine.
type State int

const (
	// StateDetectingPlatform probes for a package manager.
	StateDetectingPlatform State = iota
	// StateResolvingVersions reads the installed and latest versions.
	StateResolvingVersions
	// StateComparing compares the two versions.
	StateComparing
	// StateUpToDate is terminal: nothing to install.
	StateUpToDate
	// StateConfirmingInstall asks for permission.
	StateConfirmingInstall
	// StateDownloading fetches the package.
	StateDownloading
	// StateInstalling runs the package manager.
	StateInstalling
	// StateDone is terminal: the package was installed.
	StateDone
	// StateFailed is terminal: the run stopped on an error.
	StateFailed
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateDetectingPlatform:
		return "detecting-platform"
	case StateResolvingVersions:
		return "resolving-versions"
	case StateComparing:
		return "comparing"
	case StateUpToDate:
		return "up-to-date"
	case StateConfirmingInstall:
		return "confirming-install"
	case StateDownloading:
		return "downloading"
	case StateInstalling:
		return "installing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateUpToDate || s == StateDone || s == StateFailed
}
