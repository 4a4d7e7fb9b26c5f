package confirm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
)

// fakePrompter answers with a fixed value and counts questions.
type fakePrompter struct {
	answer    bool
	err       error
	questions []string
	defaults  []bool
}

func (f *fakePrompter) Confirm(question string, defaultYes bool) (bool, error) {
	f.questions = append(f.questions, question)
	f.defaults = append(f.defaults, defaultYes)

	return f.answer, f.err
}

// TestShouldProceed_ForceYesNeverPrompts holds regardless of terminal mode.
func TestShouldProceed_ForceYesNeverPrompts(t *testing.T) {
	t.Parallel()

	for _, interactive := range []bool{true, false} {
		p := &fakePrompter{}

		ok, err := NewGate(p).ShouldProceed(true, interactive, "1.60.0", "1.61.0")
		require.NoError(t, err)
		require.True(t, ok)
		require.Empty(t, p.questions)
	}
}

// TestShouldProceed_NonInteractive fails without asking.
func TestShouldProceed_NonInteractive(t *testing.T) {
	t.Parallel()

	p := &fakePrompter{answer: true}

	ok, err := NewGate(p).ShouldProceed(false, false, "", "1.61.0")
	require.False(t, ok)
	require.ErrorIs(t, err, release.ErrNonInteractiveWithoutForce)
	require.Empty(t, p.questions)
}

// TestShouldProceed_Prompts asks once with "no" as the default and returns the answer.
func TestShouldProceed_Prompts(t *testing.T) {
	t.Parallel()

	yes := &fakePrompter{answer: true}

	ok, err := NewGate(yes).ShouldProceed(false, true, "1.60.0", "1.61.0")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"Upgrade to v1.61.0?"}, yes.questions)
	require.Equal(t, []bool{false}, yes.defaults)

	no := &fakePrompter{}

	ok, err = NewGate(no).ShouldProceed(false, true, "1.60.0", "1.61.0")
	require.NoError(t, err)
	require.False(t, ok)
}

// TestShouldProceed_PromptFailureDeclines treats unreadable input as a refusal.
func TestShouldProceed_PromptFailureDeclines(t *testing.T) {
	t.Parallel()

	p := &fakePrompter{answer: true, err: errors.New("stdin closed")}

	ok, err := NewGate(p).ShouldProceed(false, true, "1.60.0", "1.61.0")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = NewGate(nil).ShouldProceed(false, true, "1.60.0", "1.61.0")
	require.NoError(t, err)
	require.False(t, ok)
}
