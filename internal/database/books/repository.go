// Package books provides database operations for uploaded books.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID(123)
package books

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/online-library/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns every book with its uploader, oldest first.
func (r *Repository) GetAll() ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.Preload("Uploader").Order("id ASC").Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetByID loads a book and its uploader.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Preload("Uploader").First(&book, id).Error; err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &book, nil
}

// Create inserts a new book. The uploader association is not upserted.
func (r *Repository) Create(book *entities.Book) error {
	if err := r.db.Omit("Uploader").Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// Save overwrites all columns of an existing book.
func (r *Repository) Save(book *entities.Book) error {
	if err := r.db.Omit("Uploader").Save(book).Error; err != nil {
		return fmt.Errorf("save book %d: %w", book.ID, err)
	}
	return nil
}

// Delete removes a book row by id.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete book %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// ListFilePaths returns the storage keys referenced by any book.
func (r *Repository) ListFilePaths() ([]string, error) {
	var paths []string
	if err := r.db.Model(&entities.Book{}).Pluck("file_path", &paths).Error; err != nil {
		return nil, fmt.Errorf("list file paths: %w", err)
	}
	return paths, nil
}
