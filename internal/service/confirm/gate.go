// Package confirm decides whether an upgrade may proceed without asking,
// must ask the user, or cannot ask at all.
package confirm

import (
	"fmt"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
)

// Prompter asks a yes/no question.
type Prompter interface {
	Confirm(question string, defaultYes bool) (bool, error)
}

// Gate guards the download and install steps.
type Gate struct {
	prompter Prompter
}

// NewGate creates a Gate asking through prompter.
func NewGate(prompter Prompter) *Gate {
	return &Gate{prompter: prompter}
}

// ShouldProceed returns true when forceYes is set, fails with
// release.ErrNonInteractiveWithoutForce when no terminal is attached, and
// otherwise asks the user with "no" as the default answer.
// A prompt that cannot be read counts as "no".
func (g *Gate) ShouldProceed(forceYes, interactive bool, current, latest string) (bool, error) {
	if forceYes {
		return true, nil
	}

	if !interactive {
		return false, fmt.Errorf("upgrade %s to %s: %w", describe(current), latest, release.ErrNonInteractiveWithoutForce)
	}

	if g.prompter == nil {
		return false, nil
	}

	answer, err := g.prompter.Confirm(fmt.Sprintf("Upgrade to v%s?", latest), false)
	if err != nil {
		return false, nil //nolint:nilerr // An unreadable answer is a refusal.
	}

	return answer, nil
}

func describe(current string) string {
	if current == "" {
		return "missing installation"
	}

	return current
}
