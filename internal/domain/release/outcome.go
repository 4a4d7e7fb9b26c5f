package release

import "errors"

var (
	// ErrUnsupportedPlatform is returned when no known package manager is found.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrNetwork wraps any transport failure against the release feed, shortener or download host.
	ErrNetwork = errors.New("network error")
	// ErrNoReleaseFound is returned when the feed has no release on the selected channel.
	ErrNoReleaseFound = errors.New("no release found")
	// ErrAbortedByUser is returned when the user declines the upgrade.
	ErrAbortedByUser = errors.New("installation aborted by user")
	// ErrNonInteractiveWithoutForce is returned when confirmation is needed but no terminal is attached.
	ErrNonInteractiveWithoutForce = errors.New("not running in an interactive terminal, rerun with --force-yes")
	// ErrInstallFailed is returned when the package manager cannot be started or exits with non-zero status.
	ErrInstallFailed = errors.New("installation failed")
	// ErrUnexpected wraps anything not anticipated.
	ErrUnexpected = errors.New("unexpected error")
)

// Outcome is the terminal state of one run.
type Outcome int

const (
	// OutcomeUpToDate means the installed version equals the latest one.
	OutcomeUpToDate Outcome = iota
	// OutcomeInstalled means the latest package was installed.
	OutcomeInstalled
	// OutcomeAbortedByUser means the user declined or could not be asked.
	OutcomeAbortedByUser
	// OutcomeUnsupportedPlatform means no package manager was detected.
	OutcomeUnsupportedPlatform
	// OutcomeInstallFailed means the package manager failed.
	OutcomeInstallFailed
	// OutcomeNetworkError means a remote call failed or returned nothing usable.
	OutcomeNetworkError
	// OutcomeFailed is the catch-all for unexpected errors.
	OutcomeFailed
)

// ExitCode returns the process exit code for the outcome.
func (o Outcome) ExitCode() int {
	if o.Succeeded() {
		return 0
	}

	return 1
}

// Succeeded reports whether the outcome is a successful one.
func (o Outcome) Succeeded() bool {
	return o == OutcomeUpToDate || o == OutcomeInstalled
}

// String returns a short name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeInstalled:
		return "installed"
	case OutcomeAbortedByUser:
		return "aborted"
	case OutcomeUnsupportedPlatform:
		return "unsupported-platform"
	case OutcomeInstallFailed:
		return "install-failed"
	case OutcomeNetworkError:
		return "network-error"
	default:
		return "failed"
	}
}

// OutcomeOf classifies err. A nil error has no failure outcome and is reported as OutcomeFailed,
// callers decide success themselves.
func OutcomeOf(err error) Outcome {
	switch {
	case errors.Is(err, ErrUnsupportedPlatform):
		return OutcomeUnsupportedPlatform
	case errors.Is(err, ErrAbortedByUser), errors.Is(err, ErrNonInteractiveWithoutForce):
		return OutcomeAbortedByUser
	case errors.Is(err, ErrInstallFailed):
		return OutcomeInstallFailed
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrNoReleaseFound):
		return OutcomeNetworkError
	default:
		return OutcomeFailed
	}
}
