// Package common holds helpers shared by several services.
//
// It provides a small HTTP client wrapper that stamps the User-Agent header,
// applies per-call timeouts and classifies transport failures as network
// errors, and a helper that detects the current system actor.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
