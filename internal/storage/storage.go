// Package storage archives rendered certificates in an object store or on
// local disk.
package storage

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"
)

// ContentTypePDF is the content type of rendered certificates.
const ContentTypePDF = "application/pdf"

// ObjectMeta describes a stored object.
type ObjectMeta struct {
	ContentType string
	// Filename is offered to downloaders via Content-Disposition.
	Filename string
	// Attributes become user metadata where the backend supports it.
	Attributes map[string]string
}

// ObjectStorage defines the object operations the archive needs.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, meta ObjectMeta) error
	Location(key string) string
}

// Storage wraps an ObjectStorage backend and places reports under a
// common key prefix.
type Storage struct {
	backend ObjectStorage
	prefix  string
}

// NewStorage constructs a Storage for the provided backend. prefix may be
// empty.
func NewStorage(backend ObjectStorage, prefix string) *Storage {
	return &Storage{backend: backend, prefix: strings.Trim(prefix, "/")}
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// SaveReport stores a rendered PDF and returns its location, which is
// what the audit trail records as PdfPath.
func (s *Storage) SaveReport(ctx context.Context, filename string, data []byte, attrs map[string]string) (string, error) {
	key := s.Key(filename)
	meta := ObjectMeta{
		ContentType: ContentTypePDF,
		Filename:    filename,
		Attributes:  attrs,
	}
	if err := s.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), meta); err != nil {
		return "", err
	}
	return s.backend.Location(key), nil
}

// Key returns the object key for a report file name.
func (s *Storage) Key(filename string) string {
	if s.prefix == "" {
		return filename
	}
	return path.Join(s.prefix, filename)
}

func contentDisposition(filename string) string {
	if filename == "" {
		return ""
	}
	return `attachment; filename="` + strings.ReplaceAll(filename, `"`, "") + `"`
}
