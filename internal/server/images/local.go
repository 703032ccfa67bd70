package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/chatauth/internal/filex"
)

// LocalStore writes images below a directory. References are URL paths
// starting with URLPrefix, which the HTTP server maps back onto the directory.
type LocalStore struct {
	dir       string
	urlPrefix string
}

const DefaultURLPrefix = "/uploads/"

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStore{dir: abs, urlPrefix: urlPrefix}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o640); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.urlPrefix + filepath.ToSlash(key), nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if !s.Owns(ref) {
		return nil
	}
	p, err := s.path(strings.TrimPrefix(ref, s.urlPrefix))
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *LocalStore) Owns(ref string) bool {
	return strings.HasPrefix(ref, s.urlPrefix)
}

func (s *LocalStore) Key(ref string) (string, bool) {
	if !s.Owns(ref) {
		return "", false
	}
	return strings.TrimPrefix(ref, s.urlPrefix), true
}

// path resolves key inside dir and refuses anything that escapes it.
func (s *LocalStore) path(key string) (string, error) {
	p := filepath.Join(s.dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.dir, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid image key %q", key)
	}
	return p, nil
}
