package property

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// AssetStore owns the stored listing images. Save names the asset, Remove
// deletes it; names never contain path separators.
type AssetStore interface {
	Save(name string, src io.Reader) error
	Remove(name string) error
	Path(name string) string
}

// NewImageName mints a unique stored name preserving the upload's
// extension.
func NewImageName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.NewString() + ext
}

// DirAssets stores assets as files under a single directory.
type DirAssets struct {
	dir string
}

// NewDirAssets creates the directory if needed and returns the store.
func NewDirAssets(dir string) (*DirAssets, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create uploads dir")
	}
	return &DirAssets{dir: dir}, nil
}

// Save writes the asset to disk.
func (a *DirAssets) Save(name string, src io.Reader) error {
	dst, err := os.Create(a.Path(name))
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create image file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to write image file")
	}

	return nil
}

// Remove deletes the asset. A missing file is not an error: the record is
// the source of truth and a crashed previous delete may have removed the
// file already.
func (a *DirAssets) Remove(name string) error {
	if name == "" {
		return nil
	}
	if err := os.Remove(a.Path(name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryInternal, "failed to remove image file")
	}
	return nil
}

// Path resolves the on-disk location for an asset name. The base name is
// taken to keep traversal out of the uploads dir.
func (a *DirAssets) Path(name string) string {
	return filepath.Join(a.dir, filepath.Base(name))
}
