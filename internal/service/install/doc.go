// Package install hands a downloaded package to the host package manager.
//
// The install command runs in the foreground with the terminal streams
// inherited, so a password prompt from the privilege command reaches the
// user. The package also reports running instances of the application,
// which keep the old version loaded until restarted.
package install
