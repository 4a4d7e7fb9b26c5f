package release

import (
	"context"
	"regexp"

	domain "github.com/oshokin/atom-check-updates/internal/domain/release"
	"github.com/oshokin/atom-check-updates/internal/logger"
)

// versionPattern matches the "Atom    : 1.60.0" line of `atom --version`.
var versionPattern = regexp.MustCompile(`(?m)^Atom\s*:\s*(\d+\.\d+\.\d+(?:-\w+\d+)?)\s*$`)

// CurrentVersion asks binary for its version. It never fails: a missing or
// failing binary yields StateMissing, output without a version line StateUnparseable.
func (r *Resolver) CurrentVersion(ctx context.Context, binary string) domain.InstalledVersion {
	stdout, stderr, err := r.runner.Run(ctx, binary, "--version")
	if err != nil {
		logger.DebugKV(ctx, "Version probe failed", "binary", binary, "error", err)
		return domain.InstalledVersion{State: domain.StateMissing}
	}

	if len(stderr) > 0 {
		logger.DebugKV(ctx, "Version probe wrote to stderr", "binary", binary, "stderr", string(stderr))
		return domain.InstalledVersion{State: domain.StateMissing}
	}

	return ParseVersionOutput(string(stdout))
}

// ParseVersionOutput extracts the application version from `--version` output.
func ParseVersionOutput(output string) domain.InstalledVersion {
	match := versionPattern.FindStringSubmatch(output)
	if len(match) < 2 || match[1] == "" {
		return domain.InstalledVersion{State: domain.StateUnparseable}
	}

	return domain.InstalledVersion{
		Version: match[1],
		State:   domain.StateInstalled,
	}
}
