package updater

import (
	"context"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
	"github.com/oshokin/atom-check-updates/internal/service/download"
)

// Reporter renders the user-facing status of a run.
type Reporter interface {
	// Banner opens the run.
	Banner(version string)
	// Info announces the step being performed.
	Info(message string)
	// Headline prints a titled block.
	Headline(title string, lines ...string)
	// Warning highlights a noteworthy but non-fatal condition.
	Warning(message string)
	// Result closes the run with its outcome.
	Result(outcome release.Outcome, message string)
	// Progress renders download progress.
	Progress(event download.ProgressEvent)
}

// PlatformDetector finds the package manager family.
type PlatformDetector interface {
	Detect(ctx context.Context) (*release.Platform, error)
}

// VersionResolver resolves the installed and the latest version.
type VersionResolver interface {
	CurrentVersion(ctx context.Context, binary string) release.InstalledVersion
	LatestVersion(ctx context.Context, channel release.Channel) (string, error)
}

// ChangelogResolver links to release notes.
type ChangelogResolver interface {
	Changelog(ctx context.Context, version string) (string, error)
}

// ConfirmationGate decides whether to proceed with the upgrade.
type ConfirmationGate interface {
	ShouldProceed(forceYes, interactive bool, current, latest string) (bool, error)
}

// PackageDownloader fetches the package of a release.
type PackageDownloader interface {
	Download(
		ctx context.Context,
		version string,
		platform *release.Platform,
		progress download.ProgressFunc,
	) (*release.Artifact, error)
}

// PackageInstaller installs a downloaded package.
type PackageInstaller interface {
	Install(ctx context.Context, path string, platform *release.Platform) (int, error)
	RunningInstances(ctx context.Context, binary string) []int
}

// ArtifactStore disposes of installed artifacts.
type ArtifactStore interface {
	Remove(ctx context.Context, artifact *release.Artifact) error
}

// Dependencies are the collaborators of one run.
type Dependencies struct {
	Detector   PlatformDetector
	Versions   VersionResolver
	Changelog  ChangelogResolver
	Gate       ConfirmationGate
	Downloader PackageDownloader
	Installer  PackageInstaller
	Store      ArtifactStore
	Reporter   Reporter
}

// NopReporter discards all output.
type NopReporter struct{}

// Banner implements Reporter.
func (NopReporter) Banner(string) {}

// Info implements Reporter.
func (NopReporter) Info(string) {}

// Headline implements Reporter.
func (NopReporter) Headline(string, ...string) {}

// Warning implements Reporter.
func (NopReporter) Warning(string) {}

// Result implements Reporter.
func (NopReporter) Result(release.Outcome, string) {}

// Progress implements Reporter.
func (NopReporter) Progress(download.ProgressEvent) {}
