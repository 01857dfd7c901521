// Package local stores book files in a directory on disk.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/online-library/internal/storage"
)

// Store implements storage.FileStore on a local directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save creates the file exclusively. When another upload took the same
// millisecond and name, the prefix is advanced until a free key is found.
func (s *Store) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	at := s.now()

	for attempt := 0; attempt < storage.MaxKeyAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		key := storage.NewKey(at.Add(time.Duration(attempt)*time.Millisecond), name)
		f, err := os.OpenFile(filepath.Join(s.dir, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", key, err)
		}

		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("write %s: %w", key, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("close %s: %w", key, err)
		}
		return key, nil
	}

	return "", fmt.Errorf("no free key for %q after %d attempts", name, storage.MaxKeyAttempts)
}

func (s *Store) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if !storage.ValidKey(key) {
		return nil, storage.ErrNotExist
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	if !storage.ValidKey(key) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the regular files directly inside the directory.
func (s *Store) List(_ context.Context) ([]storage.Object, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	objects := make([]storage.Object, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}
		objects = append(objects, storage.Object{
			Key:     entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return objects, nil
}
