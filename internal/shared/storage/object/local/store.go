package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bdengine-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// List returns the entries directly under prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]object.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := s.resolve(prefix)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return []object.Entry{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	entries := make([]object.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, object.Entry{Name: de.Name(), IsDir: de.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Download reads the object at key.
func (s *Store) Download(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Upload writes the object at key, creating parent directories as needed.
func (s *Store) Upload(ctx context.Context, key string, contentType string, data []byte, upsert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if !upsert {
		if _, err := os.Stat(full); err == nil {
			return object.ErrExists
		}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", key, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	_ = contentType
	return nil
}

// Remove deletes the given keys. Missing keys are not an error.
func (s *Store) Remove(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, key := range keys {
		full, err := s.resolve(key)
		if err != nil {
			return err
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(strings.TrimPrefix(key, "/"))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	if clean == "." {
		clean = ""
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}

var _ object.ObjectStore = (*Store)(nil)
