package entrypoint

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/online-library/internal/config"
	"github.com/mrlokans/online-library/internal/logger"
	"github.com/mrlokans/online-library/internal/scheduler"
	"github.com/mrlokans/online-library/internal/storage/providers/local"
)

type noPaths struct{}

func (noPaths) ListFilePaths() ([]string, error) { return nil, nil }

func TestStartOrphanSweep(t *testing.T) {
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := scheduler.NewOrphanSweeper(noPaths{}, store, config.Sweep{Schedule: "@hourly", Grace: time.Hour}, nil)
	defer sweeper.Stop()

	assert.True(t, startOrphanSweep(ctx, sweeper, logger.Nop()))
	assert.NotNil(t, sweeper.NextRun())
}

func TestStartOrphanSweep_InvalidSchedule(t *testing.T) {
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)

	sweeper := scheduler.NewOrphanSweeper(noPaths{}, store, config.Sweep{Schedule: "not a schedule"}, nil)

	assert.False(t, startOrphanSweep(context.Background(), sweeper, logger.Nop()))
	assert.False(t, sweeper.IsRunning())
}

func TestNewFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	store, err := newFileStore(config.Storage{Backend: config.StorageBackendLocal, UploadDir: dir})
	require.NoError(t, err)
	assert.IsType(t, &local.Store{}, store)

	_, err = newFileStore(config.Storage{Backend: "ftp"})
	assert.ErrorContains(t, err, "unsupported storage backend")
}
