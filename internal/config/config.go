package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
)

// Config holds the settings of one updater run.
type Config struct {
	// ReleasesURL lists releases as a JSON array of {name, prerelease}.
	ReleasesURL string `yaml:"releases_url"`
	// DownloadURL is the base of package downloads: {DownloadURL}/v{version}/{file}.
	DownloadURL string `yaml:"download_url"`
	// ReleaseURL is the base of release notes pages: {ReleaseURL}/v{version}.
	ReleaseURL string `yaml:"release_url"`
	// ShortenerURL receives the release notes URL and answers with a short link.
	// Empty disables shortening.
	ShortenerURL string `yaml:"shortener_url"`
	// ArtifactDir is where packages are downloaded.
	ArtifactDir string `yaml:"artifact_dir"`
	// PrivilegeCommand prefixes the install command. Empty runs the package manager directly.
	PrivilegeCommand string `yaml:"privilege_command"`
	// StableBinary is the application binary of the stable channel.
	StableBinary string `yaml:"stable_binary"`
	// BetaBinary is the application binary of the beta channel.
	BetaBinary string `yaml:"beta_binary"`
	// HTTPTimeout bounds the release feed and shortener calls.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	// DownloadTimeout bounds the whole package download.
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	// ProbeTimeout bounds every probe subprocess (package manager and version probes).
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// Channel is set at runtime from the --beta flag.
	Channel release.Channel `yaml:"-"`
	// ForceYes is set at runtime from the --force-yes flag.
	ForceYes bool `yaml:"-"`
}

const (
	// DefaultReleasesURL is the GitHub releases API of Atom.
	DefaultReleasesURL = "https://api.github.com/repos/atom/atom/releases"
	// DefaultDownloadURL is the base of Atom release assets.
	DefaultDownloadURL = "https://github.com/atom/atom/releases/download"
	// DefaultReleaseURL is the base of Atom release notes pages.
	DefaultReleaseURL = "https://github.com/atom/atom/releases/tag"
	// DefaultShortenerURL is the link shortener for release notes.
	DefaultShortenerURL = "https://git.io"
	// DefaultPrivilegeCommand elevates the package manager.
	DefaultPrivilegeCommand = "sudo"
	// DefaultStableBinary is the stable channel binary.
	DefaultStableBinary = "atom"
	// DefaultBetaBinary is the beta channel binary.
	DefaultBetaBinary = "atom-beta"

	// DefaultHTTPTimeout bounds API calls.
	DefaultHTTPTimeout = 30 * time.Second
	// DefaultDownloadTimeout bounds package downloads.
	DefaultDownloadTimeout = 30 * time.Minute
	// DefaultProbeTimeout bounds probe subprocesses.
	DefaultProbeTimeout = 10 * time.Second

	// DefaultFilePermissions is the permission of saved settings files.
	DefaultFilePermissions = 0o600

	artifactDirName = "atom-check-updates"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errURLRequired is returned when a mandatory endpoint is empty.
	errURLRequired = errors.New("url must be provided")
	// errBinaryRequired is returned when an application binary name is empty.
	errBinaryRequired = errors.New("binary name must be provided")
)

// DefaultArtifactDir returns the dedicated download directory under the system temp dir.
func DefaultArtifactDir() string {
	return filepath.Join(os.TempDir(), artifactDirName)
}

// Default returns settings pointing at the public Atom release feed.
func Default() *Config {
	return &Config{
		ReleasesURL:      DefaultReleasesURL,
		DownloadURL:      DefaultDownloadURL,
		ReleaseURL:       DefaultReleaseURL,
		ShortenerURL:     DefaultShortenerURL,
		ArtifactDir:      DefaultArtifactDir(),
		PrivilegeCommand: DefaultPrivilegeCommand,
		StableBinary:     DefaultStableBinary,
		BetaBinary:       DefaultBetaBinary,
		HTTPTimeout:      DefaultHTTPTimeout,
		DownloadTimeout:  DefaultDownloadTimeout,
		ProbeTimeout:     DefaultProbeTimeout,
	}
}

// Load reads settings from path on top of the defaults and validates them.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks endpoints and binaries and fills unset timeouts and directories with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	required := map[string]string{
		"releases_url": cfg.ReleasesURL,
		"download_url": cfg.DownloadURL,
		"release_url":  cfg.ReleaseURL,
	}

	for key, value := range required {
		if err := validateURL(key, value, true); err != nil {
			return err
		}
	}

	if err := validateURL("shortener_url", cfg.ShortenerURL, false); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.StableBinary) == "" || strings.TrimSpace(cfg.BetaBinary) == "" {
		return errBinaryRequired
	}

	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = DefaultArtifactDir()
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}

	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = DefaultDownloadTimeout
	}

	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}

	return nil
}

// Binary returns the application binary of the configured channel.
func (c *Config) Binary() string {
	if c.Channel == release.ChannelBeta {
		return c.BetaBinary
	}

	return c.StableBinary
}

func validateURL(key, value string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s: %w", key, errURLRequired)
		}

		return nil
	}

	if _, err := url.ParseRequestURI(value); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	return nil
}
