// Package staging holds uploaded files on local disk while they are
// forwarded to permanent cloud storage.
package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Area is a directory of short-lived staged files.
type Area struct {
	dir string
	now func() time.Time
}

// File describes one staged upload.
type File struct {
	Name string // generated, collision resistant
	Path string
	Size int64
}

// NewArea creates dir if needed.
func NewArea(dir string) (*Area, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("staging: create %s: %w", dir, err)
	}
	return &Area{dir: dir, now: time.Now}, nil
}

// NewName returns "<unix-millis>-<uuid>.pdf". The random part keeps names
// unique across concurrent uploads landing in the same millisecond.
func (a *Area) NewName() string {
	return fmt.Sprintf("%d-%s.pdf", a.now().UnixMilli(), uuid.NewString())
}

// Write copies r into a freshly named file. A partially written file is
// removed before the error is returned.
func (a *Area) Write(r io.Reader) (*File, error) {
	name := a.NewName()
	path := filepath.Join(a.dir, name)

	// O_EXCL: never clobber another request's file
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("staging: create file: %w", err)
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("staging: write file: %w", err)
	}

	return &File{Name: name, Path: path, Size: n}, nil
}

// Remove deletes a staged file. Removing an already-missing file is not an error.
func (a *Area) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("staging: remove %s: %w", path, err)
	}
	return nil
}

// Dir returns the staging directory.
func (a *Area) Dir() string {
	return a.dir
}
