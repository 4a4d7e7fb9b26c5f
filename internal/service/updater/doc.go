// Package updater checks for a newer application release and installs it.
//
// It detects the package manager family, compares the installed version with
// the latest release on the selected channel, asks for confirmation, downloads
// the platform package to the artifact directory and hands it to the package
// manager. Every run ends in exactly one release.Outcome.
package updater
