package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpeg",
}

// DiskImageStore keeps uploaded images under a single directory. Image
// references handed out look like "images/<uuid>.<ext>" and are also the
// URL path they are served from.
type DiskImageStore struct {
	dir    string
	prefix string
}

func NewDiskImageStore(dir string) (*DiskImageStore, error) {
	if dir == "" {
		dir = "images"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &DiskImageStore{dir: dir, prefix: "images"}, nil
}

func (s *DiskImageStore) Dir() string {
	return s.dir
}

// Save writes r to a fresh file and returns its reference.
func (s *DiskImageStore) Save(_ context.Context, contentType string, r io.Reader) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedImage
	}

	name := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	return path.Join(s.prefix, name), nil
}

// Release deletes the file behind ref. References outside the store are
// rejected; an already missing file is not an error.
func (s *DiskImageStore) Release(_ context.Context, ref string) error {
	name, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("release image: %w", err)
	}
	return nil
}

func (s *DiskImageStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(ref))
	dir, name := path.Split(strings.TrimPrefix(clean, "/"))
	if strings.Trim(dir, "/") != s.prefix || name == "" || name == "." {
		return "", fmt.Errorf("image reference %q is outside the store", ref)
	}
	return name, nil
}
