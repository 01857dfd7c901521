package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/online-library/internal/config"
	"github.com/mrlokans/online-library/internal/entities"
	"github.com/mrlokans/online-library/internal/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type Database struct {
	DB     *gorm.DB
	Driver config.DatabaseDriver
}

// NewDatabase opens the configured database and migrates all entities.
func NewDatabase(cfg config.Database, log *logger.Logger) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if log != nil {
		gormCfg.Logger = gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Author{},
		&entities.Subject{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if log != nil {
		log.Info().Str("driver", string(cfg.Driver)).Msg("database initialized")
	}

	return &Database{DB: db, Driver: cfg.Driver}, nil
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DatabaseDriverSQLite, "":
		return sqlite.Open(sqliteDSN(cfg.Path)), nil
	case config.DatabaseDriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("DATABASE_DSN is required for postgres")
		}
		return postgres.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
}

// sqliteDSN enables foreign keys on every pooled connection; SQLite leaves
// them off by default.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
