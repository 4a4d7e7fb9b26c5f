package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/atom-check-updates/internal/config"
	"github.com/oshokin/atom-check-updates/internal/console"
	"github.com/oshokin/atom-check-updates/internal/domain/release"
	"github.com/oshokin/atom-check-updates/internal/repository/artifact"
	"github.com/oshokin/atom-check-updates/internal/service/common"
	"github.com/oshokin/atom-check-updates/internal/service/confirm"
	"github.com/oshokin/atom-check-updates/internal/service/download"
	"github.com/oshokin/atom-check-updates/internal/service/install"
	"github.com/oshokin/atom-check-updates/internal/service/platform"
	releasesvc "github.com/oshokin/atom-check-updates/internal/service/release"
	"github.com/oshokin/atom-check-updates/internal/service/updater"
)

const packageBody = "not really a debian package"

// hostRunner pretends dpkg exists and answers the version probe with installed.
type hostRunner struct {
	installed string
}

func (h hostRunner) Run(_ context.Context, name string, _ ...string) ([]byte, []byte, error) {
	switch {
	case name == "/usr/bin/dpkg":
		return []byte("dpkg: /usr/bin/dpkg\n"), nil, nil
	case h.installed != "" && (name == "atom" || name == "atom-beta"):
		return []byte("Atom    : " + h.installed + "\nElectron: 0.36.8\n"), nil, nil
	default:
		return nil, nil, errors.New("exec: not found")
	}
}

// releaseHost serves the releases feed, the shortener and the package downloads.
type releaseHost struct {
	*httptest.Server

	mu         sync.Mutex
	downloads  []string
	userAgents []string
}

func startReleaseHost(t *testing.T) *releaseHost {
	t.Helper()

	host := &releaseHost{}
	feed := []releasesvc.Feed{
		{Name: "1.9.0-beta1", Prerelease: true},
		{Name: "1.8.0"},
		{Name: "1.7.4"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /releases", func(w http.ResponseWriter, r *http.Request) {
		host.record(r, "")
		_ = json.NewEncoder(w).Encode(feed)
	})
	mux.HandleFunc("POST /shorten", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		version := strings.TrimPrefix(filepath.Base(r.PostForm.Get("url")), "v")
		w.Header().Set("Location", "https://git.io/v"+version)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /download/{tag}/{file}", func(w http.ResponseWriter, r *http.Request) {
		host.record(r, r.PathValue("tag")+"/"+r.PathValue("file"))
		_, _ = w.Write([]byte(packageBody))
	})

	host.Server = httptest.NewServer(mux)
	t.Cleanup(host.Close)

	return host
}

func (h *releaseHost) record(r *http.Request, download string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.userAgents = append(h.userAgents, r.UserAgent())

	if download != "" {
		h.downloads = append(h.downloads, download)
	}
}

// Downloads returns the requested package paths.
func (h *releaseHost) Downloads() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.downloads...)
}

// UserAgents returns the User-Agent of every recorded request.
func (h *releaseHost) UserAgents() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.userAgents...)
}

type harness struct {
	host   *releaseHost
	cfg    *config.Config
	out    bytes.Buffer
	script string
}

func newHarness(t *testing.T, installScript string) *harness {
	t.Helper()

	host := startReleaseHost(t)

	cfg := config.Default()
	cfg.ReleasesURL = host.URL + "/releases"
	cfg.DownloadURL = host.URL + "/download"
	cfg.ShortenerURL = host.URL + "/shorten"
	cfg.ArtifactDir = filepath.Join(t.TempDir(), "artifacts")
	require.NoError(t, config.Validate(cfg))

	return &harness{host: host, cfg: cfg, script: installScript}
}

func (h *harness) run(t *testing.T, installed string, interactive bool, answers string) (release.Outcome, error) {
	t.Helper()

	runner := hostRunner{installed: installed}
	client := common.NewClient(common.WithUserAgent("atom-check-updates/test"))
	store := artifact.NewFileRepository(h.cfg.ArtifactDir)
	resolver := releasesvc.NewResolver(runner, client, releasesvc.Endpoints{
		ReleasesURL:  h.cfg.ReleasesURL,
		ReleaseURL:   h.cfg.ReleaseURL,
		ShortenerURL: h.cfg.ShortenerURL,
	})

	debian := release.Platforms()[0]
	debian.InstallCommand = []string{"sh", "-c", h.script}

	var installOutput bytes.Buffer

	return updater.Execute(t.Context(), updater.Dependencies{
		Detector: platform.NewDetector(runner,
			platform.WithPlatforms([]release.Platform{debian}),
			platform.WithDistroFunc(func(context.Context) (string, string, string, error) {
				return "ubuntu", "debian", "24.04", nil
			}),
		),
		Versions:   resolver,
		Changelog:  resolver,
		Gate:       confirm.NewGate(console.NewPrompterWithIO(strings.NewReader(answers), &h.out)),
		Downloader: download.NewDownloader(client, store, h.cfg.DownloadURL, h.cfg.DownloadTimeout),
		Installer: install.NewInstaller("",
			install.WithStreams(strings.NewReader(""), &installOutput, &installOutput),
			install.WithProcessLister(func() ([]install.Process, error) { return nil, nil }),
		),
		Store:    store,
		Reporter: console.NewReporter(&h.out, console.WithColor(false)),
	}, h.cfg, interactive)
}

// TestUpdater_ForceYesInstallsLatestStable downloads, installs and cleans up the stable package.
func TestUpdater_ForceYesInstallsLatestStable(t *testing.T) {
	t.Parallel()

	h := newHarness(t, `test "$(cat "$0")" = "`+packageBody+`"`)
	h.cfg.ForceYes = true

	outcome, err := h.run(t, "1.7.4", false, "")
	require.NoError(t, err)
	require.Equal(t, release.OutcomeInstalled, outcome)
	require.Equal(t, []string{"v1.8.0/atom-amd64.deb"}, h.host.Downloads())

	for _, agent := range h.host.UserAgents() {
		require.Equal(t, "atom-check-updates/test", agent)
	}

	_, err = os.Stat(filepath.Join(h.cfg.ArtifactDir, "1.8.0-atom-amd64.deb"))
	require.ErrorIs(t, err, os.ErrNotExist)

	output := h.out.String()
	require.Contains(t, output, "Debian-based distro (ubuntu 24.04)")
	require.Contains(t, output, "1.8.0 (changelog: https://git.io/v1.8.0)")
	require.Contains(t, output, "Installation completed successfully!")
}

// TestUpdater_UpToDateSkipsDownload stops after comparing equal versions.
func TestUpdater_UpToDateSkipsDownload(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "exit 0")

	outcome, err := h.run(t, "1.8.0", true, "")
	require.NoError(t, err)
	require.Equal(t, release.OutcomeUpToDate, outcome)
	require.Empty(t, h.host.Downloads())
	require.Contains(t, h.out.String(), "You're already on the latest version!")
}

// TestUpdater_BetaChannelWithConfirmation installs a prerelease after the user agrees.
func TestUpdater_BetaChannelWithConfirmation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "exit 0")
	h.cfg.Channel = release.ChannelBeta

	outcome, err := h.run(t, "", true, "y\n")
	require.NoError(t, err)
	require.Equal(t, release.OutcomeInstalled, outcome)
	require.Equal(t, []string{"v1.9.0-beta1/atom-amd64.deb"}, h.host.Downloads())

	output := h.out.String()
	require.Contains(t, output, "None, or older than 1.7.0")
	require.Contains(t, output, "Upgrade to v1.9.0-beta1? (y/N)")
}

// TestUpdater_DeclineKeepsSystemUntouched aborts before downloading.
func TestUpdater_DeclineKeepsSystemUntouched(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "exit 0")

	outcome, err := h.run(t, "1.7.4", true, "\n")
	require.ErrorIs(t, err, release.ErrAbortedByUser)
	require.Equal(t, release.OutcomeAbortedByUser, outcome)
	require.Empty(t, h.host.Downloads())
	require.Contains(t, h.out.String(), "Installation aborted!")
}

// TestUpdater_FailedInstallKeepsPackage leaves the artifact for inspection.
func TestUpdater_FailedInstallKeepsPackage(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "exit 3")
	h.cfg.ForceYes = true

	outcome, err := h.run(t, "1.7.4", false, "")
	require.ErrorIs(t, err, release.ErrInstallFailed)
	require.Equal(t, release.OutcomeInstallFailed, outcome)

	contents, err := os.ReadFile(filepath.Join(h.cfg.ArtifactDir, "1.8.0-atom-amd64.deb"))
	require.NoError(t, err)
	require.Equal(t, packageBody, string(contents))
}

// TestUpdater_UnreachableFeed reports a network error.
func TestUpdater_UnreachableFeed(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "exit 0")
	h.cfg.ForceYes = true
	h.cfg.ReleasesURL = h.host.URL + "/missing"

	outcome, err := h.run(t, "1.7.4", false, "")
	require.ErrorIs(t, err, release.ErrNetwork)
	require.Equal(t, release.OutcomeNetworkError, outcome)
	require.Empty(t, h.host.Downloads())
}
