// Package authors provides database operations for the author catalog.
package authors

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/online-library/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns every author with the creating user preloaded.
func (r *Repository) GetAll() ([]entities.Author, error) {
	authors := []entities.Author{}
	if err := r.db.Preload("CreatedBy").Order("id ASC").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.Preload("CreatedBy").First(&author, id).Error; err != nil {
		return nil, fmt.Errorf("get author %d: %w", id, err)
	}
	return &author, nil
}

func (r *Repository) Create(author *entities.Author) error {
	if err := r.db.Omit("CreatedBy").Create(author).Error; err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	return nil
}

func (r *Repository) Save(author *entities.Author) error {
	if err := r.db.Omit("CreatedBy").Save(author).Error; err != nil {
		return fmt.Errorf("save author %d: %w", author.ID, err)
	}
	return nil
}

func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Author{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete author %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete author %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
