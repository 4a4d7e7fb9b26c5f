package release

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	domain "github.com/oshokin/atom-check-updates/internal/domain/release"
	"github.com/oshokin/atom-check-updates/internal/logger"
	"github.com/oshokin/atom-check-updates/internal/service/common"
)

// Feed is one record of the releases listing.
type Feed struct {
	Name       string `json:"name"`
	TagName    string `json:"tag_name"`
	Prerelease bool   `json:"prerelease"`
}

// Endpoints locate the remote services the resolver talks to.
type Endpoints struct {
	// ReleasesURL lists releases, newest first.
	ReleasesURL string
	// ReleaseURL is the base of release notes pages.
	ReleaseURL string
	// ShortenerURL shortens release notes links. Empty disables shortening.
	ShortenerURL string
}

// Resolver finds installed and latest versions and release notes links.
type Resolver struct {
	runner    common.Runner
	client    *common.Client
	endpoints Endpoints
}

// errMissingLocation is returned when the shortener answers without a Location header.
var errMissingLocation = errors.New("shortener response has no location header")

// NewResolver creates a Resolver.
func NewResolver(runner common.Runner, client *common.Client, endpoints Endpoints) *Resolver {
	return &Resolver{
		runner:    runner,
		client:    client,
		endpoints: endpoints,
	}
}

// LatestVersion returns the name of the first release on channel.
// Transport failures wrap domain.ErrNetwork; an empty channel is domain.ErrNoReleaseFound.
func (r *Resolver) LatestVersion(ctx context.Context, channel domain.Channel) (string, error) {
	var feed []Feed
	if err := r.client.GetJSON(ctx, r.endpoints.ReleasesURL, &feed); err != nil {
		return "", fmt.Errorf("fetch releases: %w", err)
	}

	version, ok := SelectRelease(feed, channel)
	if !ok {
		return "", fmt.Errorf("%s channel, %d releases listed: %w", channel, len(feed), domain.ErrNoReleaseFound)
	}

	logger.DebugKV(ctx, "Resolved latest version", "channel", channel.String(), "version", version)

	return version, nil
}

// SelectRelease returns the version of the first record whose prerelease flag matches channel.
func SelectRelease(feed []Feed, channel domain.Channel) (string, bool) {
	for _, record := range feed {
		if record.Prerelease != channel.Prerelease() {
			continue
		}

		if version := normalizeVersion(record.Name, record.TagName); version != "" {
			return version, true
		}
	}

	return "", false
}

// ReleaseNotesURL returns the canonical release notes page of version.
func (r *Resolver) ReleaseNotesURL(version string) string {
	return strings.TrimRight(r.endpoints.ReleaseURL, "/") + "/v" + version
}

// Changelog returns a short link to the release notes of version.
// Without a configured shortener the canonical URL is returned as is.
func (r *Resolver) Changelog(ctx context.Context, version string) (string, error) {
	notes := r.ReleaseNotesURL(version)
	if r.endpoints.ShortenerURL == "" {
		return notes, nil
	}

	header, err := r.client.PostForm(ctx, r.endpoints.ShortenerURL, url.Values{"url": {notes}})
	if err != nil {
		return "", fmt.Errorf("shorten release notes link: %w", err)
	}

	location := strings.TrimSpace(header.Get("Location"))
	if location == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrNetwork, errMissingLocation)
	}

	return location, nil
}

// normalizeVersion prefers the release name and falls back to the tag, dropping a leading "v".
func normalizeVersion(name, tag string) string {
	version := strings.TrimSpace(name)
	if version == "" {
		version = strings.TrimSpace(tag)
	}

	return strings.TrimPrefix(version, "v")
}
