package updater

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/atom-check-updates/internal/config"
	"github.com/oshokin/atom-check-updates/internal/domain/release"
	"github.com/oshokin/atom-check-updates/internal/logger"
	"github.com/oshokin/atom-check-updates/internal/repository/artifact"
	"github.com/oshokin/atom-check-updates/internal/service/common"
	"github.com/oshokin/atom-check-updates/internal/service/confirm"
	"github.com/oshokin/atom-check-updates/internal/service/download"
	"github.com/oshokin/atom-check-updates/internal/service/install"
	"github.com/oshokin/atom-check-updates/internal/service/platform"
	releasesvc "github.com/oshokin/atom-check-updates/internal/service/release"
	"github.com/oshokin/atom-check-updates/internal/version"
)

var (
	errSettingsNotInitialised = errors.New("settings are not initialized")
	errMissingDependency      = errors.New("missing updater dependency")
	errUnfinishedRun          = errors.New("run ended outside a terminal state")
)

// Options are inputs accepted by the updater entry point.
type Options struct {
	// Config holds endpoints, timeouts and the runtime channel and force flags.
	Config *config.Config
	// Interactive is true when a user can answer prompts and watch progress.
	Interactive bool
	// Reporter renders status lines. Nil discards them.
	Reporter Reporter
	// Prompter asks for confirmation when Interactive is set.
	Prompter confirm.Prompter
}

// runner holds the state of a single update run.
// It is intentionally unexported, call Run(ctx, Options) from callers.
type runner struct {
	deps        Dependencies
	cfg         *config.Config
	interactive bool
	state       State
}

// Run executes one update run and returns its outcome.
// The error is nil only for release.OutcomeUpToDate and release.OutcomeInstalled.
func Run(ctx context.Context, opts *Options) (release.Outcome, error) {
	ctx = logger.WithName(ctx, "updater")

	if opts == nil || opts.Config == nil {
		return release.OutcomeFailed, fmt.Errorf("%w: %w", release.ErrUnexpected, errSettingsNotInitialised)
	}

	deps, err := NewDependencies(ctx, opts)
	if err != nil {
		return release.OutcomeFailed, fmt.Errorf("%w: %w", release.ErrUnexpected, err)
	}

	return Execute(ctx, deps, opts.Config, opts.Interactive)
}

// NewDependencies wires the production collaborators for opts.
func NewDependencies(ctx context.Context, opts *Options) (Dependencies, error) {
	cfg := opts.Config

	privilege := cfg.PrivilegeCommand

	actor, err := common.DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Unable to detect the current user", "error", err)
	} else {
		logger.DebugKV(ctx, "Running as", "user", actor.Username, "host", actor.Hostname, "root", actor.IsRoot)

		if actor.IsRoot {
			privilege = ""
		}
	}

	probes := common.ExecRunner{Timeout: cfg.ProbeTimeout}
	apiClient := common.NewClient(
		common.WithUserAgent(version.UserAgent()),
		common.WithCallTimeout(cfg.HTTPTimeout),
	)
	downloadClient := common.NewClient(common.WithUserAgent(version.UserAgent()))
	store := artifact.NewFileRepository(cfg.ArtifactDir)

	resolver := releasesvc.NewResolver(probes, apiClient, releasesvc.Endpoints{
		ReleasesURL:  cfg.ReleasesURL,
		ReleaseURL:   cfg.ReleaseURL,
		ShortenerURL: cfg.ShortenerURL,
	})

	reporter := opts.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}

	return Dependencies{
		Detector:   platform.NewDetector(probes),
		Versions:   resolver,
		Changelog:  resolver,
		Gate:       confirm.NewGate(opts.Prompter),
		Downloader: download.NewDownloader(downloadClient, store, cfg.DownloadURL, cfg.DownloadTimeout),
		Installer:  install.NewInstaller(privilege),
		Store:      store,
		Reporter:   reporter,
	}, nil
}

// Execute runs the state machine with the given collaborators.
func Execute(ctx context.Context, deps Dependencies, cfg *config.Config, interactive bool) (release.Outcome, error) {
	if cfg == nil {
		return release.OutcomeFailed, fmt.Errorf("%w: %w", release.ErrUnexpected, errSettingsNotInitialised)
	}

	if err := deps.validate(); err != nil {
		return release.OutcomeFailed, fmt.Errorf("%w: %w", release.ErrUnexpected, err)
	}

	u := &runner{
		deps:        deps,
		cfg:         cfg,
		interactive: interactive,
		state:       StateDetectingPlatform,
	}

	ctx = logger.WithKV(ctx, "channel", cfg.Channel.String())

	outcome, err := u.finish(u.Run(ctx))
	if err != nil {
		logger.DebugKV(ctx, "Updater run failed", "outcome", outcome.String(), "error", err)
		return outcome, err
	}

	logger.InfoKV(ctx, "Updater completed", "outcome", outcome.String())

	return outcome, nil
}

// Run walks the states:
// 1) Detect the package manager family.
// 2) Resolve installed and latest versions and the release notes link.
// 3) Compare them; equal versions end the run.
// 4) Confirm the upgrade.
// 5) Download the package.
// 6) Install it and remove the artifact.
func (u *runner) Run(ctx context.Context) (release.Outcome, error) {
	u.deps.Reporter.Banner(version.Short())

	detected, err := u.detectPlatform(ctx)
	if err != nil {
		return u.fail(ctx, err)
	}

	current, latest, err := u.resolveVersions(ctx)
	if err != nil {
		return u.fail(ctx, err)
	}

	u.transition(ctx, StateComparing)

	if current.Matches(latest) {
		u.transition(ctx, StateUpToDate)
		u.deps.Reporter.Result(release.OutcomeUpToDate, "You're already on the latest version!")

		return release.OutcomeUpToDate, nil
	}

	u.deps.Reporter.Warning("An update is available!")

	if err = u.confirmInstall(ctx, current, latest); err != nil {
		return u.fail(ctx, err)
	}

	downloaded, err := u.downloadPackage(ctx, latest, detected)
	if err != nil {
		return u.fail(ctx, err)
	}

	if err = u.installPackage(ctx, downloaded); err != nil {
		return u.fail(ctx, err)
	}

	u.transition(ctx, StateDone)
	u.deps.Reporter.Result(release.OutcomeInstalled, "Installation completed successfully!")

	return release.OutcomeInstalled, nil
}

// detectPlatform picks the package manager family.
func (u *runner) detectPlatform(ctx context.Context) (*release.Platform, error) {
	u.transition(ctx, StateDetectingPlatform)
	u.deps.Reporter.Info("Retrieving information about your distro...")

	detected, err := u.deps.Detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	line := fmt.Sprintf("Detected as running on a %s-based distro.", detected.Name)
	if d := detected.Distro; d != nil {
		line = fmt.Sprintf("Detected as running on a %s-based distro (%s).", detected.Name,
			strings.TrimSpace(d.ID+" "+d.Version))
	}

	u.deps.Reporter.Headline("Platform:", line)

	return detected, nil
}

// resolveVersions reads the installed version, which never fails, then the latest one and its release notes.
func (u *runner) resolveVersions(ctx context.Context) (release.InstalledVersion, string, error) {
	u.transition(ctx, StateResolvingVersions)

	channel := u.cfg.Channel.String()

	u.deps.Reporter.Info(fmt.Sprintf("Checking for installed %s version...", channel))

	current := u.deps.Versions.CurrentVersion(ctx, u.cfg.Binary())
	if current.State == release.StateUnparseable {
		logger.WarnKV(ctx, "Installed version output was not recognized", "binary", u.cfg.Binary())
	}

	u.deps.Reporter.Headline("Current version:", current.String())
	u.deps.Reporter.Info(fmt.Sprintf("Checking for latest %s release...", channel))

	latest, err := u.deps.Versions.LatestVersion(ctx, u.cfg.Channel)
	if err != nil {
		return current, "", fmt.Errorf("resolve latest version: %w", err)
	}

	changelog, err := u.deps.Changelog.Changelog(ctx, latest)
	if err != nil {
		return current, "", fmt.Errorf("resolve changelog of %s: %w", latest, err)
	}

	u.deps.Reporter.Headline("Latest version:", fmt.Sprintf("%s (changelog: %s)", latest, changelog))

	logger.InfoKV(ctx, "Resolved versions", "current", current.String(), "latest", latest)

	return current, latest, nil
}

// confirmInstall asks the gate and turns a refusal into release.ErrAbortedByUser.
func (u *runner) confirmInstall(ctx context.Context, current release.InstalledVersion, latest string) error {
	u.transition(ctx, StateConfirmingInstall)

	proceed, err := u.deps.Gate.ShouldProceed(u.cfg.ForceYes, u.interactive, current.Version, latest)
	if err != nil {
		return err
	}

	if !proceed {
		return fmt.Errorf("upgrade to %s declined: %w", latest, release.ErrAbortedByUser)
	}

	return nil
}

// downloadPackage fetches the package, showing progress only to an interactive user.
func (u *runner) downloadPackage(
	ctx context.Context,
	latest string,
	detected *release.Platform,
) (*release.Artifact, error) {
	u.transition(ctx, StateDownloading)
	u.deps.Reporter.Headline("Downloading:")

	var progress download.ProgressFunc
	if u.interactive {
		progress = u.deps.Reporter.Progress
	}

	downloaded, err := u.deps.Downloader.Download(ctx, latest, detected, progress)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", latest, err)
	}

	return downloaded, nil
}

// installPackage runs the package manager and removes the artifact on success.
// A non-zero exit status keeps the artifact for diagnostics.
func (u *runner) installPackage(ctx context.Context, downloaded *release.Artifact) error {
	u.transition(ctx, StateInstalling)
	u.deps.Reporter.Headline("Installing:", downloaded.Path)

	if pids := u.deps.Installer.RunningInstances(ctx, u.cfg.Binary()); len(pids) > 0 {
		u.deps.Reporter.Warning(fmt.Sprintf(
			"%s is running (%d processes), restart it after the update.", u.cfg.Binary(), len(pids)))
	}

	status, err := u.deps.Installer.Install(ctx, downloaded.Path, downloaded.Platform)
	if err != nil {
		return err
	}

	if status != 0 {
		return fmt.Errorf("package manager exited with status %d, package kept at %s: %w",
			status, downloaded.Path, release.ErrInstallFailed)
	}

	if err = u.deps.Store.Remove(ctx, downloaded); err != nil {
		logger.WarnKV(ctx, "Unable to remove installed package", "path", downloaded.Path, "error", err)
	}

	return nil
}

// finish rejects a result produced before the state machine reached a terminal state.
func (u *runner) finish(outcome release.Outcome, err error) (release.Outcome, error) {
	if u.state.Terminal() {
		return outcome, err
	}

	return release.OutcomeFailed, fmt.Errorf("%w: %s: %w",
		release.ErrUnexpected, u.state, errors.Join(errUnfinishedRun, err))
}

// fail moves to StateFailed and reports the outcome derived from err.
func (u *runner) fail(ctx context.Context, err error) (release.Outcome, error) {
	u.transition(ctx, StateFailed)

	outcome := release.OutcomeOf(err)
	u.deps.Reporter.Result(outcome, failureMessage(outcome, err, u.cfg.Channel))

	return outcome, err
}

func (u *runner) transition(ctx context.Context, next State) {
	if u.state == next {
		return
	}

	logger.DebugKV(ctx, "State transition", "from", u.state.String(), "to", next.String())
	u.state = next
}

func failureMessage(outcome release.Outcome, err error, channel release.Channel) string {
	switch {
	case errors.Is(err, release.ErrNonInteractiveWithoutForce):
		return "Not running in an interactive terminal, rerun with --force-yes to upgrade."
	case errors.Is(err, release.ErrNoReleaseFound):
		return fmt.Sprintf("No %s release found.", channel)
	}

	switch outcome {
	case release.OutcomeUnsupportedPlatform:
		return "You don't seem to be running a supported distro."
	case release.OutcomeAbortedByUser:
		return "Installation aborted!"
	case release.OutcomeNetworkError:
		return fmt.Sprintf("Unable to reach the release service: %v", err)
	case release.OutcomeInstallFailed:
		return fmt.Sprintf("Installation failed: %v", err)
	default:
		return fmt.Sprintf("An unknown error occurred: %v", err)
	}
}

func (d Dependencies) validate() error {
	missing := make([]string, 0)

	if d.Detector == nil {
		missing = append(missing, "detector")
	}

	if d.Versions == nil {
		missing = append(missing, "versions")
	}

	if d.Changelog == nil {
		missing = append(missing, "changelog")
	}

	if d.Gate == nil {
		missing = append(missing, "gate")
	}

	if d.Downloader == nil {
		missing = append(missing, "downloader")
	}

	if d.Installer == nil {
		missing = append(missing, "installer")
	}

	if d.Store == nil {
		missing = append(missing, "store")
	}

	if d.Reporter == nil {
		missing = append(missing, "reporter")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(missing, ", "), errMissingDependency)
	}

	return nil
}
