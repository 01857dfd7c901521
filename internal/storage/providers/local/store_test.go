package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/online-library/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func readAll(t *testing.T, s *Store, key string) string {
	t.Helper()
	rc, err := s.Open(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestStore_SaveAndOpen(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	key, err := s.Save(context.Background(), "dune.txt", strings.NewReader("spice"), 5)
	require.NoError(t, err)

	assert.Equal(t, "1700000000000_dune.txt", key)
	assert.Equal(t, "spice", readAll(t, s, key))
	assert.FileExists(t, filepath.Join(s.Dir(), key))
}

func TestStore_SameMillisecondDoesNotOverwrite(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	first, err := s.Save(context.Background(), "dune.txt", strings.NewReader("first"), -1)
	require.NoError(t, err)
	second, err := s.Save(context.Background(), "dune.txt", strings.NewReader("second"), -1)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, "1700000000001_dune.txt", second)
	assert.Equal(t, "first", readAll(t, s, first))
	assert.Equal(t, "second", readAll(t, s, second))
}

func TestStore_SaveSanitizesName(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Save(context.Background(), "../../escape.txt", strings.NewReader("x"), 1)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(key, "_escape.txt"))
	assert.FileExists(t, filepath.Join(s.Dir(), key))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestStore_SaveFailureLeavesNoFile(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save(context.Background(), "dune.txt", failingReader{}, 10)
	require.Error(t, err)

	objects, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestStore_SaveCancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "dune.txt", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_OpenMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Open(context.Background(), "1_missing.txt")
	assert.ErrorIs(t, err, storage.ErrNotExist)

	_, err = s.Open(context.Background(), "../outside")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Save(context.Background(), "dune.txt", strings.NewReader("spice"), 5)
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), key))
	_, err = s.Open(context.Background(), key)
	assert.ErrorIs(t, err, storage.ErrNotExist)

	// Missing keys are fine
	assert.NoError(t, s.Remove(context.Background(), key))
}

func TestStore_List(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Save(context.Background(), "a.txt", strings.NewReader("a"), 1)
	require.NoError(t, err)
	b, err := s.Save(context.Background(), "b.txt", strings.NewReader("bb"), 2)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "subdir"), 0o755))

	objects, err := s.List(context.Background())
	require.NoError(t, err)

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
		assert.False(t, o.ModTime.IsZero())
	}
	assert.ElementsMatch(t, []string{a, b}, keys)
}
