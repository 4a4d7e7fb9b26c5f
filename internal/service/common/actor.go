//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"
)

// Actor describes who runs the updater.
type Actor struct {
	Hostname string
	Username string
	// IsRoot is true when the effective user is the superuser.
	IsRoot bool
}

// DetectActor gathers host and user information for logging and privilege decisions.
func DetectActor() (*Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &Actor{
		Hostname: hostname,
		Username: currentUser.Username,
		IsRoot:   os.Geteuid() == 0,
	}, nil
}
