// Package download fetches platform packages into the artifact directory,
// streaming the body to disk and reporting progress through a callback.
package download
