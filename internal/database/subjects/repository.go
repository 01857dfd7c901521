// Package subjects provides database operations for the subject catalog.
package subjects

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

func (r *Repository) GetAll() ([]entities.Subject, error) {
	subjects := []entities.Subject{}
	if err := r.db.Order("id ASC").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

func (r *Repository) GetByID(id uint) (*entities.Subject, error) {
	var subject entities.Subject
	if err := r.db.First(&subject, id).Error; err != nil {
		return nil, fmt.Errorf("get subject %d: %w", id, err)
	}
	return &subject, nil
}

func (r *Repository) Create(subject *entities.Subject) error {
	if err := r.db.Create(subject).Error; err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

func (r *Repository) Save(subject *entities.Subject) error {
	if err := r.db.Save(subject).Error; err != nil {
		return fmt.Errorf("save subject %d: %w", subject.ID, err)
	}
	return nil
}

// Delete removes a subject. A missing id yields gorm.ErrRecordNotFound.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Subject{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete subject %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete subject %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
