package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
	"github.com/oshokin/atom-check-updates/internal/logger"
	"github.com/oshokin/atom-check-updates/internal/repository/artifact"
	"github.com/oshokin/atom-check-updates/internal/service/common"
)

// ProgressEvent describes how much of a package has been received.
type ProgressEvent struct {
	// File is the package filename being downloaded.
	File string
	// BytesDone is the number of bytes written so far.
	BytesDone int64
	// BytesTotal is the declared Content-Length, or -1 when unknown.
	BytesTotal int64
}

// Percent returns the completed share in the 0-100 range, or -1 when the total is unknown.
func (e ProgressEvent) Percent() float64 {
	if e.BytesTotal <= 0 {
		return -1
	}

	return float64(e.BytesDone) * 100 / float64(e.BytesTotal)
}

// ProgressFunc receives progress updates. It is called from the downloading goroutine.
type ProgressFunc func(event ProgressEvent)

// Downloader streams packages from the download host.
type Downloader struct {
	client  *common.Client
	store   artifact.Repository
	baseURL string
	timeout time.Duration
}

// NewDownloader creates a Downloader for packages published under baseURL.
// A positive timeout bounds each download.
func NewDownloader(client *common.Client, store artifact.Repository, baseURL string, timeout time.Duration) *Downloader {
	return &Downloader{
		client:  client,
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// URL returns the download location of the platform package for version.
func (d *Downloader) URL(version string, platform *release.Platform) string {
	return fmt.Sprintf("%s/v%s/%s", d.baseURL, version, platform.File)
}

// Download saves the package of platform for version and returns the artifact.
// Transport failures wrap release.ErrNetwork. A partially written file is left on disk.
func (d *Downloader) Download(
	ctx context.Context,
	version string,
	platform *release.Platform,
	progress ProgressFunc,
) (*release.Artifact, error) {
	if err := d.store.Ensure(ctx); err != nil {
		return nil, err
	}

	destination, err := d.store.Path(version, platform)
	if err != nil {
		return nil, err
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	source := d.URL(version, platform)
	logger.DebugKV(ctx, "Downloading package", "url", source, "destination", destination)

	resp, err := d.client.Stream(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", platform.File, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	output, err := os.Create(destination)
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}

	writer := &progressWriter{
		event: ProgressEvent{
			File:       platform.File,
			BytesTotal: resp.ContentLength,
		},
		report: progress,
	}

	body := &bodyReader{reader: resp.Body}

	written, err := io.Copy(io.MultiWriter(output, writer), body)
	if err != nil {
		_ = output.Close()

		if body.err != nil {
			return nil, fmt.Errorf("%w: receive %s: %w", release.ErrNetwork, platform.File, body.err)
		}

		return nil, fmt.Errorf("write artifact: %w", err)
	}

	if err = output.Close(); err != nil {
		return nil, fmt.Errorf("close artifact: %w", err)
	}

	logger.DebugKV(ctx, "Package downloaded", "path", destination, "bytes", written)

	return &release.Artifact{
		Path:     destination,
		Version:  version,
		Platform: platform,
	}, nil
}

// bodyReader remembers read failures so they can be told apart from local write failures.
type bodyReader struct {
	reader io.Reader
	err    error
}

func (r *bodyReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		r.err = err
	}

	return n, err
}

// progressWriter counts bytes and forwards them to a ProgressFunc.
type progressWriter struct {
	event  ProgressEvent
	report ProgressFunc
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.event.BytesDone += int64(len(p))

	if w.report != nil {
		w.report(w.event)
	}

	return len(p), nil
}
