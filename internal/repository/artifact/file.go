package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/atom-check-updates/internal/domain/release"
)

// DirPermissions is the permission of the artifact directory.
const DirPermissions os.FileMode = 0o700

// Repository defines the storage operations the downloader and orchestrator need.
type Repository interface {
	Ensure(ctx context.Context) error
	Path(version string, platform *release.Platform) (string, error)
	Remove(ctx context.Context, artifact *release.Artifact) error
}

// FileRepository keeps artifacts in one directory on disk.
type FileRepository struct {
	// dir is the filesystem location of the artifact directory.
	dir string
}

var (
	// ErrNotDirectory is returned when the artifact location exists but is not a directory.
	ErrNotDirectory = errors.New("artifact location is not a directory")
	// errInvalidName is returned when a version or file name would escape the directory.
	errInvalidName = errors.New("invalid artifact name")
)

// NewFileRepository creates a repository rooted at dir.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{
		dir: filepath.Clean(dir),
	}
}

// Ensure creates the artifact directory if it is absent.
func (r *FileRepository) Ensure(_ context.Context) error {
	info, err := os.Stat(r.dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s: %w", r.dir, ErrNotDirectory)
		}

		return nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat artifact directory: %w", err)
	}

	if err = os.MkdirAll(r.dir, DirPermissions); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	return nil
}

// Path returns where the package of platform for version is stored.
func (r *FileRepository) Path(version string, platform *release.Platform) (string, error) {
	if platform == nil || !validName(version) || !validName(platform.File) {
		return "", errInvalidName
	}

	return filepath.Join(r.dir, version+"-"+platform.File), nil
}

// Remove deletes the artifact file. A file that is already gone is not an error.
func (r *FileRepository) Remove(_ context.Context, artifact *release.Artifact) error {
	if artifact == nil || artifact.Path == "" {
		return nil
	}

	if err := os.Remove(artifact.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove artifact: %w", err)
	}

	return nil
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
