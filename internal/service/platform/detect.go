package platform

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
	"github.com/oshokin/atom-check-updates/internal/logger"
	"github.com/oshokin/atom-check-updates/internal/service/common"
)

// DistroFunc returns the host distribution id, family and version.
type DistroFunc func(ctx context.Context) (platform, family, version string, err error)

// Detector picks the package manager family of the host.
type Detector struct {
	runner    common.Runner
	platforms []release.Platform
	distro    DistroFunc
}

// Option configures a Detector.
type Option func(*Detector)

// WithPlatforms replaces the probed families.
func WithPlatforms(platforms []release.Platform) Option {
	return func(d *Detector) {
		d.platforms = platforms
	}
}

// WithDistroFunc replaces the distro lookup. A nil function disables it.
func WithDistroFunc(fn DistroFunc) Option {
	return func(d *Detector) {
		d.distro = fn
	}
}

// NewDetector creates a Detector probing the known families through runner.
func NewDetector(runner common.Runner, opts ...Option) *Detector {
	d := &Detector{
		runner:    runner,
		platforms: release.Platforms(),
		distro:    host.PlatformInformationWithContext,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Detect returns the first family whose probe succeeds, or release.ErrUnsupportedPlatform.
// A failing probe only means the family is absent.
func (d *Detector) Detect(ctx context.Context) (*release.Platform, error) {
	for i := range d.platforms {
		candidate := &d.platforms[i]

		if !d.probe(ctx, candidate) {
			continue
		}

		detected := candidate.Clone()
		detected.Distro = d.lookupDistro(ctx)

		logger.InfoKV(ctx, "Detected package manager family", "family", detected.Name)

		return detected, nil
	}

	return nil, fmt.Errorf("%s/%s: %w", runtime.GOOS, runtime.GOARCH, release.ErrUnsupportedPlatform)
}

func (d *Detector) probe(ctx context.Context, p *release.Platform) bool {
	if len(p.ProbeCommand) == 0 {
		return false
	}

	_, _, err := d.runner.Run(ctx, p.ProbeCommand[0], p.ProbeCommand[1:]...)
	if err != nil {
		logger.DebugKV(ctx, "Package manager probe failed",
			"family", p.Name, "command", strings.Join(p.ProbeCommand, " "), "error", err)

		return false
	}

	return true
}

// lookupDistro returns diagnostics about the host distribution, nil when unavailable.
func (d *Detector) lookupDistro(ctx context.Context) *release.Distro {
	if d.distro == nil || runtime.GOOS != "linux" {
		return nil
	}

	id, family, version, err := d.distro(ctx)
	if err != nil {
		logger.DebugKV(ctx, "Distribution lookup failed", "error", err)
		return nil
	}

	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil
	}

	return &release.Distro{
		ID:      id,
		Family:  strings.ToLower(strings.TrimSpace(family)),
		Version: strings.TrimSpace(version),
	}
}
