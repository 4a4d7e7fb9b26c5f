package release

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/atom-check-updates/internal/domain/release"
)

// scriptedRunner returns fixed output for every command and remembers the last call.
type scriptedRunner struct {
	stdout, stderr string
	err            error
	name           string
	args           []string
}

func (s *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name = name
	s.args = args

	return []byte(s.stdout), []byte(s.stderr), s.err
}

// TestParseVersionOutput covers stable, beta and unrecognized output.
func TestParseVersionOutput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		output string
		want   domain.InstalledVersion
	}{
		{
			name:   "stable",
			output: "Atom    : 1.60.0\nElectron: 9.4.4\nChrome  : 83.0.4103.122\nNode    : 12.14.1\n",
			want:   domain.InstalledVersion{Version: "1.60.0", State: domain.StateInstalled},
		},
		{
			name:   "beta",
			output: "Atom    : 1.7.0-beta3\nElectron: 0.36.8\n",
			want:   domain.InstalledVersion{Version: "1.7.0-beta3", State: domain.StateInstalled},
		},
		{
			name:   "old format",
			output: "1.6.2\n",
			want:   domain.InstalledVersion{State: domain.StateUnparseable},
		},
		{
			name:   "garbled version",
			output: "Atom    : one.two\n",
			want:   domain.InstalledVersion{State: domain.StateUnparseable},
		},
		{
			name:   "empty",
			output: "",
			want:   domain.InstalledVersion{State: domain.StateUnparseable},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ParseVersionOutput(tc.output))
		})
	}
}

// TestCurrentVersion checks the probe command and the failure states.
func TestCurrentVersion(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{stdout: "Atom    : 1.60.0\n"}
	r := NewResolver(runner, nil, Endpoints{})

	got := r.CurrentVersion(context.Background(), "atom-beta")
	require.Equal(t, "1.60.0", got.Version)
	require.Equal(t, "atom-beta", runner.name)
	require.Equal(t, []string{"--version"}, runner.args)

	runner.err = errors.New("exec: not found")
	require.Equal(t, domain.StateMissing, r.CurrentVersion(context.Background(), "atom").State)

	runner.err = nil
	runner.stderr = "GPU process crashed"
	require.Equal(t, domain.StateMissing, r.CurrentVersion(context.Background(), "atom").State)

	runner.stderr = ""
	runner.stdout = "something else"
	require.Equal(t, domain.StateUnparseable, r.CurrentVersion(context.Background(), "atom").State)
}
