package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/online-library/internal/config"
	"github.com/mrlokans/online-library/internal/logger"
	"github.com/mrlokans/online-library/internal/storage"
)

// FilePathLister returns every file key referenced by a book row.
type FilePathLister interface {
	ListFilePaths() ([]string, error)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateCronSchedule checks a five field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// OrphanSweeper periodically removes stored files that no book references.
// Files younger than the grace period are left alone: an upload writes its
// file before its row.
type OrphanSweeper struct {
	books    FilePathLister
	store    storage.FileStore
	schedule string
	grace    time.Duration
	log      *logger.Logger
	now      func() time.Time

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	sweepMu   sync.Mutex
}

func NewOrphanSweeper(books FilePathLister, store storage.FileStore, cfg config.Sweep, log *logger.Logger) *OrphanSweeper {
	if log == nil {
		log = logger.Nop()
	}
	return &OrphanSweeper{
		books:    books,
		store:    store,
		schedule: cfg.Schedule,
		grace:    cfg.Grace,
		log:      log.Child("component", "orphan_sweep"),
		now:      time.Now,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start schedules the sweep. The scheduler stops when ctx is cancelled.
func (s *OrphanSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.SweepOnce(ctx); err != nil {
			s.log.Error().Err(err).Msg("orphan sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule orphan sweep: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true
	s.log.Info().Str("schedule", s.schedule).Dur("grace", s.grace).Msg("orphan sweep scheduled")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop waits for a running sweep to finish.
func (s *OrphanSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false
	s.log.Info().Msg("orphan sweep stopped")
}

func (s *OrphanSweeper) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next sweep will occur, or nil when stopped.
func (s *OrphanSweeper) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// SweepOnce removes unreferenced files older than the grace period and
// returns how many were removed.
func (s *OrphanSweeper) SweepOnce(ctx context.Context) (int, error) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	started := s.now()

	// List files before rows so an upload that completes in between is
	// seen as referenced.
	objects, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored files: %w", err)
	}
	paths, err := s.books.ListFilePaths()
	if err != nil {
		return 0, fmt.Errorf("list referenced files: %w", err)
	}

	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[p] = struct{}{}
	}

	cutoff := started.Add(-s.grace)
	removed := 0
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.ModTime.After(cutoff) {
			continue
		}
		if err := s.store.Remove(ctx, obj.Key); err != nil {
			s.log.Warn().Err(err).Str("file", obj.Key).Msg("failed to remove orphaned file")
			continue
		}
		removed++
	}

	s.log.Info().
		Int("scanned", len(objects)).
		Int("removed", removed).
		Dur("took", s.now().Sub(started)).
		Msg("orphan sweep finished")
	return removed, nil
}
