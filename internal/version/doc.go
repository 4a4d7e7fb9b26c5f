// Package version exposes build metadata for atom-check-updates.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags. Short and Full render them for CLI output, UserAgent for the
// HTTP requests the updater sends.
package version
