// Package artifact manages the dedicated directory that holds downloaded
// packages. It creates the directory on demand, names artifacts
// "{version}-{file}" and removes them after a successful install.
package artifact
