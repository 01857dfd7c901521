package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/online-library/internal/logger"
	"github.com/mrlokans/online-library/internal/storage"
)

const RemoveFileQueue = "remove_book_file"

// RemoveFileTask deletes one stored book file. Removing a key that is
// already gone succeeds, so retries are safe.
type RemoveFileTask struct {
	Key string `json:"key"`
}

func (t RemoveFileTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        RemoveFileQueue,
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RemoveFileProcessor creates a processor function for RemoveFileTask.
func RemoveFileProcessor(store storage.FileStore, log *logger.Logger) backlite.QueueProcessor[RemoveFileTask] {
	if log == nil {
		log = logger.Nop()
	}
	return func(ctx context.Context, task RemoveFileTask) error {
		if store == nil {
			return fmt.Errorf("file store not configured")
		}
		if !storage.ValidKey(task.Key) {
			log.Warn().Str("file", task.Key).Msg("skipping removal of invalid key")
			return nil
		}
		if err := store.Remove(ctx, task.Key); err != nil {
			return fmt.Errorf("remove %s: %w", task.Key, err)
		}
		log.Info().Str("file", task.Key).Msg("book file removed")
		return nil
	}
}

func NewRemoveFileQueue(store storage.FileStore, log *logger.Logger) backlite.Queue {
	return backlite.NewQueue(RemoveFileProcessor(store, log))
}

// FileRemover hands file removals to the task queue.
type FileRemover struct {
	client *Client
}

func NewFileRemover(client *Client) *FileRemover {
	return &FileRemover{client: client}
}

func (r *FileRemover) RemoveFile(ctx context.Context, key string) error {
	if _, err := r.client.Add(RemoveFileTask{Key: key}).Ctx(ctx).Save(); err != nil {
		return fmt.Errorf("enqueue removal of %s: %w", key, err)
	}
	return nil
}
