package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nordicmaskin/kma/config"
)

// LocalClient writes reports as files below a directory, by default the
// working directory of the process.
type LocalClient struct {
	dir string
}

// NewLocalClient constructs a LocalClient rooted at cfg.Dir, made absolute.
func NewLocalClient(cfg config.LocalConfig) (*LocalClient, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &LocalClient{dir: abs}, nil
}

// EnsureBucket creates the directory when missing.
func (l *LocalClient) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(l.dir, 0o755)
}

// Put writes the object to disk. Metadata is not kept.
func (l *LocalClient) Put(ctx context.Context, key string, r io.Reader, size int64, meta ObjectMeta) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Location returns the absolute file path of key.
func (l *LocalClient) Location(key string) string {
	return filepath.Join(l.dir, filepath.FromSlash(key))
}

func (l *LocalClient) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || clean == ".." || filepath.IsAbs(clean) ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New("invalid object key")
	}
	return filepath.Join(l.dir, clean), nil
}
