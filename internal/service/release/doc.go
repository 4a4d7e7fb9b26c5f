// Package release resolves the versions an update run compares and the
// release notes link shown to the user.
//
// The installed version comes from running the application binary, the
// latest one from the release feed, and the release notes link from a link
// shortener.
package release
