package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/online-library/internal/auth"
	"github.com/mrlokans/online-library/internal/config"
	"github.com/mrlokans/online-library/internal/database"
	"github.com/mrlokans/online-library/internal/database/authors"
	"github.com/mrlokans/online-library/internal/database/books"
	"github.com/mrlokans/online-library/internal/database/subjects"
	"github.com/mrlokans/online-library/internal/database/users"
	http_controllers "github.com/mrlokans/online-library/internal/http"
	"github.com/mrlokans/online-library/internal/logger"
	"github.com/mrlokans/online-library/internal/scheduler"
	"github.com/mrlokans/online-library/internal/services"
	"github.com/mrlokans/online-library/internal/storage"
	"github.com/mrlokans/online-library/internal/storage/providers/local"
	"github.com/mrlokans/online-library/internal/storage/providers/objectstore"
	"github.com/mrlokans/online-library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, log *logger.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop taking requests before the queue goes away
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("server exiting")
}

func Run(cfg *config.Config, version string) {
	log := logger.NewLogger("server", cfg.Global.LogLevel)
	log.Info().Str("version", version).Msg("starting online library")

	db, err := database.NewDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	store, err := newFileStore(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("backend", string(cfg.Storage.Backend)).Msg("failed to initialize file store")
	}
	log.Info().Str("backend", string(cfg.Storage.Backend)).Msg("file store ready")

	// Authentication
	authService := auth.NewService(db.DB, cfg.Auth)
	if created, err := authService.EnsureAdmin(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		log.Error().Err(err).Str("username", cfg.Auth.AdminUsername).Msg("failed to bootstrap admin")
	} else if created {
		log.Info().Str("username", cfg.Auth.AdminUsername).Msg("admin account ready")
	}
	if hasUsers, _ := authService.HasUsers(); !hasUsers {
		log.Warn().Msg("no users found; set AUTH_ADMIN_USERNAME or run 'create-user' to add an administrator")
	}

	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		generated, err := auth.GenerateSecret()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to generate signing secret")
		}
		secret = []byte(generated)
		log.Warn().Msg("generated signing secret; set AUTH_JWT_SECRET to keep tokens valid across restarts")
	}
	tokens := auth.NewTokenIssuer(secret, cfg.Auth.JWTIssuer, cfg.Auth.TokenExpiry)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get SQL DB for sessions")
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Database.Driver, cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session manager")
	}

	policy := auth.NewPolicy(auth.DefaultRules(cfg.Auth.ProtectCatalog))
	authMiddleware := auth.NewMiddleware(authService, tokens, sessionManager, policy)
	authController := auth.NewAuthController(authService, tokens, sessionManager, cfg.Auth)

	var csrfSecret []byte
	if cfg.Auth.CSRFEnabled {
		csrfSecret = secret
		log.Info().Msg("CSRF protection enabled for cookie sessions")
	}

	// Superseded and deleted book files go through the task queue when it
	// runs, otherwise they are removed inline.
	var remover services.FileRemover
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		tasksDB := tasks.DBPathFor(cfg.Database.Path)
		taskClient, err = tasks.NewClient(tasksDB, cfg.Tasks, log)
		if err != nil {
			log.Fatal().Err(err).Str("path", tasksDB).Msg("failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("error closing task client")
			}
		}()

		taskClient.Register(tasks.NewRemoveFileQueue(store, log))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		taskClient.Start(taskCtx)
		remover = tasks.NewFileRemover(taskClient)
	}

	bookRepo := books.NewRepository(db.DB)

	var sweepCancel context.CancelFunc = func() {}
	if cfg.Sweep.Enabled {
		var sweepCtx context.Context
		sweepCtx, sweepCancel = context.WithCancel(context.Background())
		startOrphanSweep(sweepCtx, scheduler.NewOrphanSweeper(bookRepo, store, cfg.Sweep, log), log)
	}

	routerCfg := http_controllers.RouterConfig{
		Books:          services.NewBookService(bookRepo, users.NewRepository(db.DB), store, remover, log),
		Authors:        services.NewAuthorService(authors.NewRepository(db.DB)),
		Subjects:       services.NewSubjectService(subjects.NewRepository(db.DB)),
		Database:       db,
		Logger:         log,
		AuthMiddleware: authMiddleware,
		AuthController: authController,
		SessionManager: sessionManager,
		Tokens:         tokens,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		AllowedOrigin:  cfg.CORS.AllowedOrigin,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes(),
		Version:        version,
	}

	gin.SetMode(gin.ReleaseMode)
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		sweepCancel()
		authController.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, log, onShutdown)
}

// startOrphanSweep reports whether the sweep is scheduled.
func startOrphanSweep(ctx context.Context, sweeper *scheduler.OrphanSweeper, log *logger.Logger) bool {
	if err := sweeper.Start(ctx); err != nil {
		log.Error().Err(err).Msg("orphan sweep not started")
		return false
	}
	if !sweeper.IsRunning() {
		return false
	}
	if next := sweeper.NextRun(); next != nil {
		log.Info().Time("next_run", *next).Msg("next orphan sweep")
	}
	return true
}

func newFileStore(cfg config.Storage) (storage.FileStore, error) {
	switch cfg.Backend {
	case config.StorageBackendLocal, "":
		return local.NewStore(cfg.UploadDir)
	case config.StorageBackendMinio:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return objectstore.NewStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	}
	return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
}
