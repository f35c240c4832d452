package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("stored file not found")

// LocalStorage keeps uploaded documents under one directory. Keys are relative paths
// of the form "<prefix>/<uuid>_<name>".
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) Save(prefix, name string, data []byte) (string, error) {
	dir := filepath.Join(s.root, prefix)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	key := filepath.ToSlash(filepath.Join(prefix, uuid.NewString()+"_"+filepath.Base(name)))
	if err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(key)), data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return key, nil
}

// Path resolves a key to an existing file inside root.
func (s *LocalStorage) Path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", ErrNotFound
	}

	full := filepath.Join(s.root, clean)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return full, nil
}

// Remove deletes one saved file. Missing files are not an error.
func (s *LocalStorage) Remove(key string) error {
	full, err := s.Path(key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return os.Remove(full)
}

// RemovePrefix deletes every file saved under prefix.
func (s *LocalStorage) RemovePrefix(prefix string) error {
	if prefix == "" || strings.Contains(prefix, "..") {
		return fmt.Errorf("refusing to remove %q", prefix)
	}
	return os.RemoveAll(filepath.Join(s.root, prefix))
}
