package tasks

import (
	"path/filepath"
	"time"

	"github.com/mrlokans/online-library/internal/config"
)

const (
	defaultWorkers         = 2
	defaultReleaseAfter    = 15 * time.Minute
	defaultCleanupInterval = time.Hour
)

// withDefaults fills zero values so a partially set config still runs.
func withDefaults(cfg config.Tasks) config.Tasks {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.ReleaseAfter <= 0 {
		cfg.ReleaseAfter = defaultReleaseAfter
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	return cfg
}

// DBPathFor returns the queue database path kept alongside the main
// database: "data/library.db" becomes "data/library-tasks.db".
func DBPathFor(mainDBPath string) string {
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	if ext == "" {
		ext = ".db"
	}
	return filepath.Join(dir, name+"-tasks"+ext)
}
