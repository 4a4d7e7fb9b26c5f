// Package config defines the updater settings and provides helpers to load,
// validate and save them in YAML format.
//
// Every field has a default, so running without a settings file is the
// normal case; a file only overrides endpoints, binaries or timeouts.
package config
