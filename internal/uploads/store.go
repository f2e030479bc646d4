// Package uploads stores family photo and schematic images on disk.
package uploads

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes uploaded images under a single directory, prefixing each
// file with a generated id so repeated uploads never collide.
type Store struct {
	Dir string
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save writes the reader's content under a sanitized unique filename and
// returns the stored name.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	name := sanitize(filename)
	stored := uuid.NewString() + "-" + name

	f, err := os.Create(filepath.Join(s.Dir, stored))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return stored, nil
}

// SaveDataURL decodes a base64 data URL ("data:<mime>;base64,<payload>")
// and stores its content. This is the fallback path for deployments whose
// proxy corrupts multipart bodies.
func (s *Store) SaveDataURL(filename, dataURL string) (string, error) {
	payload := dataURL
	if strings.HasPrefix(dataURL, "data:") {
		idx := strings.Index(dataURL, ",")
		if idx < 0 {
			return "", fmt.Errorf("malformed data URL")
		}
		meta := dataURL[:idx]
		if !strings.Contains(meta, ";base64") {
			return "", fmt.Errorf("unsupported data URL encoding")
		}
		payload = dataURL[idx+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("invalid base64 payload: %w", err)
	}
	return s.Save(filename, strings.NewReader(string(decoded)))
}

// Path returns the on-disk path of a stored file.
func (s *Store) Path(stored string) string {
	return filepath.Join(s.Dir, stored)
}

// sanitize strips any path components and defaults empty names.
func sanitize(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	return name
}
