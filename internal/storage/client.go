package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotExist is returned by Open for unknown keys.
var ErrNotExist = errors.New("file does not exist")

// MaxKeyAttempts bounds how many millisecond prefixes Save tries before
// giving up on a colliding name.
const MaxKeyAttempts = 100

// Object describes a stored file.
type Object struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// FileStore holds uploaded book content under generated keys.
type FileStore interface {
	// Save stores r under a fresh key derived from name and returns the key.
	// size may be -1 when unknown.
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)

	// Open returns the content stored under key, or ErrNotExist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// List returns every stored object.
	List(ctx context.Context) ([]Object, error)
}

// NewKey builds "{epoch-millis}_{name}" with name sanitized.
func NewKey(at time.Time, name string) string {
	return fmt.Sprintf("%d_%s", at.UnixMilli(), SanitizeName(name))
}

// SanitizeName reduces a client supplied filename to its last path element
// and drops characters that are unsafe in a storage key.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '/' || r == ':' {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}
	return name
}

// ValidKey rejects keys that could escape the store's namespace.
func ValidKey(key string) bool {
	return key != "" && key != "." && key != ".." &&
		!strings.ContainsAny(key, "/\\") && !strings.ContainsRune(key, 0)
}
