package config

import (
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type StorageBackend string

const (
	StorageBackendLocal StorageBackend = "local" // Files in UPLOAD_DIR (default)
	StorageBackendMinio StorageBackend = "minio" // S3-compatible bucket
)

type (
	Config struct {
		HTTP
		Global
		CORS
		Database
		Storage
		Auth
		Tasks
		Sweep
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		LogLevel                 string
	}
	CORS struct {
		AllowedOrigin string
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // SQLite file
		DSN    string // Postgres connection string
	}
	Storage struct {
		Backend         StorageBackend
		UploadDir       string
		MaxUploadSizeMB int64

		MinioEndpoint  string
		MinioAccessKey string
		MinioSecretKey string
		MinioBucket    string
		MinioUseSSL    bool
	}
	Auth struct {
		JWTSecret       string
		JWTIssuer       string
		TokenExpiry     time.Duration
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
		CSRFEnabled     bool

		// When set, author edits/deletes and subject writes require ADMIN.
		ProtectCatalog bool

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)

		// Bootstrap administrator, created at startup if missing
		AdminUsername string
		AdminPassword string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Sweep struct {
		Enabled  bool
		Schedule string        // Cron format: "30 3 * * *" = daily at 03:30
		Grace    time.Duration // Files younger than this are never swept
	}
)

// MaxUploadBytes returns the multipart body limit in bytes.
func (s Storage) MaxUploadBytes() int64 {
	return s.MaxUploadSizeMB << 20
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8081)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allowed_origin", DefaultAllowedOrigin)

	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	v.SetDefault("storage_backend", string(StorageBackendLocal))
	v.SetDefault("upload_dir", DefaultUploadDir)
	v.SetDefault("max_upload_size_mb", 64)
	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_bucket", "books")
	v.SetDefault("minio_use_ssl", false)

	// Auth defaults
	v.SetDefault("auth_jwt_secret", "") // Auto-generated if empty
	v.SetDefault("auth_jwt_issuer", "online-library")
	v.SetDefault("auth_token_expiry", "24h")
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", false)
	v.SetDefault("auth_csrf_enabled", false)
	v.SetDefault("auth_protect_catalog", false)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")
	v.SetDefault("auth_admin_username", "")
	v.SetDefault("auth_admin_password", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("orphan_sweep_enabled", true)
	v.SetDefault("orphan_sweep_schedule", "30 3 * * *")
	v.SetDefault("orphan_sweep_grace", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			LogLevel:                 v.GetString("LOG_LEVEL"),
		},
		CORS: CORS{
			AllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Storage: Storage{
			Backend:         StorageBackend(v.GetString("STORAGE_BACKEND")),
			UploadDir:       v.GetString("UPLOAD_DIR"),
			MaxUploadSizeMB: v.GetInt64("MAX_UPLOAD_SIZE_MB"),
			MinioEndpoint:   v.GetString("MINIO_ENDPOINT"),
			MinioAccessKey:  v.GetString("MINIO_ACCESS_KEY"),
			MinioSecretKey:  v.GetString("MINIO_SECRET_KEY"),
			MinioBucket:     v.GetString("MINIO_BUCKET"),
			MinioUseSSL:     v.GetBool("MINIO_USE_SSL"),
		},
		Auth: Auth{
			JWTSecret:        v.GetString("AUTH_JWT_SECRET"),
			JWTIssuer:        v.GetString("AUTH_JWT_ISSUER"),
			TokenExpiry:      v.GetDuration("AUTH_TOKEN_EXPIRY"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			CSRFEnabled:      v.GetBool("AUTH_CSRF_ENABLED"),
			ProtectCatalog:   v.GetBool("AUTH_PROTECT_CATALOG"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
			AdminUsername:    v.GetString("AUTH_ADMIN_USERNAME"),
			AdminPassword:    v.GetString("AUTH_ADMIN_PASSWORD"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Sweep: Sweep{
			Enabled:  v.GetBool("ORPHAN_SWEEP_ENABLED"),
			Schedule: v.GetString("ORPHAN_SWEEP_SCHEDULE"),
			Grace:    v.GetDuration("ORPHAN_SWEEP_GRACE"),
		},
	}
}
