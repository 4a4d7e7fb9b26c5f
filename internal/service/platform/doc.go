// Package platform detects which native package manager family is available.
//
// Families are probed in a fixed priority order by asking each package manager
// which package owns its own binary; the first probe that succeeds wins.
package platform
