package services

import (
	"context"

	"github.com/mrlokans/online-library/internal/entities"
)

// BookRepository is the persistence the book workflow needs.
// Implemented by database/books.Repository.
type BookRepository interface {
	GetAll() ([]entities.Book, error)
	GetByID(id uint) (*entities.Book, error)
	Create(book *entities.Book) error
	Save(book *entities.Book) error
	Delete(id uint) error
}

// UserRepository resolves the uploader row for an identity.
type UserRepository interface {
	GetUserByID(id uint) (*entities.User, error)
}

type AuthorRepository interface {
	GetAll() ([]entities.Author, error)
	GetByID(id uint) (*entities.Author, error)
	Create(author *entities.Author) error
	Save(author *entities.Author) error
	Delete(id uint) error
}

type SubjectRepository interface {
	GetAll() ([]entities.Subject, error)
	GetByID(id uint) (*entities.Subject, error)
	Create(subject *entities.Subject) error
	Save(subject *entities.Subject) error
	Delete(id uint) error
}

// FileRemover disposes of book files that no row references any more.
// Implementations may remove synchronously or defer the work.
type FileRemover interface {
	RemoveFile(ctx context.Context, key string) error
}
