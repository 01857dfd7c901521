package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/online-library/internal/config"
	"github.com/mrlokans/online-library/internal/logger"
)

// Client wraps backlite with a dedicated SQLite database so queue writes
// never contend with the library database.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config config.Tasks
	log    *logger.Logger

	mu      sync.RWMutex
	started bool
}

// NewClient opens (or creates) the queue database at dbPath and installs
// the backlite schema.
func NewClient(dbPath string, cfg config.Tasks, log *logger.Logger) (*Client, error) {
	cfg = withDefaults(cfg)
	if log == nil {
		log = logger.Nop()
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{log},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create backlite client: %w", err)
	}

	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install backlite schema: %w", err)
	}

	return &Client{
		client: client,
		db:     db,
		config: cfg,
		log:    log,
	}, nil
}

// Register adds queues. Must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start begins processing tasks. It does not block.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.log.Info().Int("workers", c.config.Workers).Msg("task queue started")
	c.client.Start(ctx)
}

// Stop waits for running tasks until ctx expires. It reports whether all
// workers finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	if !c.started {
		c.mu.RUnlock()
		return true
	}
	c.mu.RUnlock()

	c.log.Info().Msg("stopping task queue")
	success := c.client.Stop(ctx)
	if success {
		c.log.Info().Msg("task queue stopped gracefully")
	} else {
		c.log.Warn().Msg("task queue stopped with timeout, some tasks may not have completed")
	}
	return success
}

// Close releases the database. Call after Stop.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.client.Add(tasks...)
}

func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.client.Status(ctx, taskID)
}

// queueLogger adapts backlite's key/value logging to zerolog.
type queueLogger struct {
	log *logger.Logger
}

func (l queueLogger) Info(message string, params ...any) {
	l.log.Debug().Str("component", "tasks").Fields(params).Msg(message)
}

func (l queueLogger) Error(message string, params ...any) {
	l.log.Error().Str("component", "tasks").Fields(params).Msg(message)
}
