// Package release holds the domain model of an update run: release channels,
// supported package-manager families, the installed-version probe result,
// downloaded artifacts, run outcomes and the error kinds that produce them.
package release
