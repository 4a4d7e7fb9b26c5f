package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
	"github.com/oshokin/atom-check-updates/internal/logger"
)

// Installer runs the package manager of a platform.
type Installer struct {
	// privilege is prepended to the install command, e.g. "sudo". Empty runs it directly.
	privilege string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	processes ProcessLister
}

// Option configures an Installer.
type Option func(*Installer)

// WithStreams replaces the inherited terminal streams.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(i *Installer) {
		i.stdin = stdin
		i.stdout = stdout
		i.stderr = stderr
	}
}

// WithProcessLister replaces the process table source.
func WithProcessLister(lister ProcessLister) Option {
	return func(i *Installer) {
		i.processes = lister
	}
}

var (
	// errEmptyInstallCommand is returned for a platform without an install command.
	errEmptyInstallCommand = errors.New("platform has no install command")
	// errInstallInterrupted is returned when the install command is killed before it exits.
	errInstallInterrupted = errors.New("install interrupted")
)

// NewInstaller creates an Installer that elevates through privilege.
// Pass an empty privilege when already running as root.
func NewInstaller(privilege string, opts ...Option) *Installer {
	i := &Installer{
		privilege: strings.TrimSpace(privilege),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		processes: SystemProcesses,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Command returns the argv that installs path on platform.
func (i *Installer) Command(path string, platform *release.Platform) []string {
	argv := make([]string, 0, len(platform.InstallCommand)+2)
	if i.privilege != "" {
		argv = append(argv, i.privilege)
	}

	argv = append(argv, platform.InstallCommand...)

	return append(argv, path)
}

// Install runs the install command and returns its exit status.
// A failure to start the process or a kill by signal is an error wrapping release.ErrInstallFailed.
func (i *Installer) Install(ctx context.Context, path string, platform *release.Platform) (int, error) {
	if platform == nil || len(platform.InstallCommand) == 0 {
		return -1, fmt.Errorf("%w: %w", release.ErrInstallFailed, errEmptyInstallCommand)
	}

	argv := i.Command(path, platform)
	logger.InfoKV(ctx, "Running install command", "command", strings.Join(argv, " "))

	//nolint:gosec // The command comes from the fixed platform table and the artifact path we created.
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = i.stdin
	cmd.Stdout = i.stdout
	cmd.Stderr = i.stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() >= 0 {
			logger.WarnKV(ctx, "Install command failed", "status", exitErr.ExitCode())
			return exitErr.ExitCode(), nil
		}

		// A negative code means the process ran and was killed by a signal.
		return -1, fmt.Errorf("%w: %s: %w: %w", release.ErrInstallFailed, argv[0], errInstallInterrupted, err)
	}

	return -1, fmt.Errorf("%w: start %s: %w", release.ErrInstallFailed, argv[0], err)
}
