// Package storage keeps uploaded documents on local disk. The database
// record holds only the /uploads/... URL returned by Save; everything
// here resolves that URL back to a path under the configured directory.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// URLPrefix is where the router serves stored files from.
const URLPrefix = "/uploads"

// allowedTypes mirrors the transport-layer filter: images and PDFs only.
var allowedTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
}

// AllowedType reports whether a MIME type may be uploaded.
func AllowedType(mime string) bool {
	_, ok := allowedTypes[mime]
	return ok
}

type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Dir() string { return l.dir }

// Save writes the reader to a freshly named file and returns the
// server-relative URL. The original name only contributes its extension.
func (l *Local) Save(originalName string, r io.Reader) (string, error) {
	ext := filepath.Ext(originalName)
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)

	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return URLPrefix + "/" + name, nil
}

// Path maps a stored file URL back to its on-disk location. URLs that
// escape the upload directory resolve to nothing.
func (l *Local) Path(fileURL string) (string, bool) {
	name := strings.TrimPrefix(fileURL, URLPrefix+"/")
	if name == fileURL || name == "" || name != path.Base(name) {
		return "", false
	}
	return filepath.Join(l.dir, name), true
}

// Exists reports whether the file behind a stored URL is still on disk.
func (l *Local) Exists(fileURL string) bool {
	p, ok := l.Path(fileURL)
	if !ok {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

// Remove deletes the file behind a stored URL. A file that is already
// gone is not an error.
func (l *Local) Remove(fileURL string) error {
	p, ok := l.Path(fileURL)
	if !ok {
		return nil
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
