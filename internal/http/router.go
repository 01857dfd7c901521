package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/online-library/internal/auth"
	"github.com/mrlokans/online-library/internal/logger"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(auth.SecurityHeadersMiddleware(cfg.SecureCookies))
	router.Use(CORS(cfg.AllowedOrigin))

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AllowedOrigin, cfg.Tokens))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Resolves the identity and enforces the route policy
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/", health.Root)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router)
	}

	api := router.Group("/api")

	if cfg.Books != nil {
		books := NewBooksController(cfg.Books, cfg.MaxUploadBytes)
		api.GET("/books", books.List)
		api.POST("/books/upload", books.Upload)
		api.PUT("/books/:id", books.Update)
		api.DELETE("/books/:id", books.Delete)
		api.GET("/books/download/:id", books.Download)
	}

	if cfg.Authors != nil {
		authors := NewAuthorsController(cfg.Authors)
		api.GET("/authors", authors.List)
		api.POST("/authors", authors.Add)
		api.PUT("/authors/:id", authors.Update)
		api.DELETE("/authors/:id", authors.Delete)
	}

	if cfg.Subjects != nil {
		subjects := NewSubjectsController(cfg.Subjects)
		api.GET("/subjects", subjects.List)
		api.POST("/subjects", subjects.Add)
		api.PUT("/subjects/:id", subjects.Update)
		api.DELETE("/subjects/:id", subjects.Delete)
	}

	return router
}
