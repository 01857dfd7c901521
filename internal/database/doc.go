// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── books/           # Uploaded books
//	├── authors/         # Author catalog
//	├── subjects/        # Subject catalog
//	└── users/           # User accounts
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(cfg.Database, log)
//
//	booksRepo := books.NewRepository(db.DB)
//	book, err := booksRepo.GetByID(123)
//
// Lookups of missing rows return an error wrapping gorm.ErrRecordNotFound,
// so callers test with errors.Is.
package database
