package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/online-library/internal/auth"
	"github.com/mrlokans/online-library/internal/entities"
)

type AuthorInput struct {
	Name string
	Bio  string
}

// AuthorService manages the author catalog.
type AuthorService struct {
	authors AuthorRepository
}

func NewAuthorService(authors AuthorRepository) *AuthorService {
	return &AuthorService{authors: authors}
}

func (s *AuthorService) List(_ context.Context) ([]entities.Author, error) {
	return s.authors.GetAll()
}

// Add records an author created by identity.
func (s *AuthorService) Add(_ context.Context, identity auth.Identity, input AuthorInput) (*entities.Author, error) {
	if identity.IsAnonymous() {
		return nil, newError(ErrUnauthorized, "User not logged in")
	}
	name, err := validateName("name", input.Name)
	if err != nil {
		return nil, err
	}

	author := &entities.Author{
		Name:        name,
		Bio:         strings.TrimSpace(input.Bio),
		CreatedByID: identity.UserID,
	}
	if err := s.authors.Create(author); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	author.CreatedBy = entities.User{ID: identity.UserID, Username: identity.Username}
	return author, nil
}

func (s *AuthorService) Update(_ context.Context, id uint, input AuthorInput) (*entities.Author, error) {
	author, err := s.authors.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Author not found")
	}
	name, err := validateName("name", input.Name)
	if err != nil {
		return nil, err
	}

	author.Name = name
	author.Bio = strings.TrimSpace(input.Bio)
	if err := s.authors.Save(author); err != nil {
		return nil, fmt.Errorf("update author: %w", err)
	}
	return author, nil
}

func (s *AuthorService) Delete(_ context.Context, id uint) error {
	if err := s.authors.Delete(id); err != nil {
		return notFoundOr(err, "Author not found")
	}
	return nil
}

type SubjectInput struct {
	Name        string
	Description string
}

// SubjectService manages the subject catalog.
type SubjectService struct {
	subjects SubjectRepository
}

func NewSubjectService(subjects SubjectRepository) *SubjectService {
	return &SubjectService{subjects: subjects}
}

func (s *SubjectService) List(_ context.Context) ([]entities.Subject, error) {
	return s.subjects.GetAll()
}

func (s *SubjectService) Add(_ context.Context, input SubjectInput) (*entities.Subject, error) {
	name, err := validateName("name", input.Name)
	if err != nil {
		return nil, err
	}

	subject := &entities.Subject{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.subjects.Create(subject); err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	return subject, nil
}

func (s *SubjectService) Update(_ context.Context, id uint, input SubjectInput) (*entities.Subject, error) {
	subject, err := s.subjects.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Subject not found")
	}
	name, err := validateName("name", input.Name)
	if err != nil {
		return nil, err
	}

	subject.Name = name
	subject.Description = strings.TrimSpace(input.Description)
	if err := s.subjects.Save(subject); err != nil {
		return nil, fmt.Errorf("update subject: %w", err)
	}
	return subject, nil
}

// Delete of an unknown id is ErrNotFound.
func (s *SubjectService) Delete(_ context.Context, id uint) error {
	if err := s.subjects.Delete(id); err != nil {
		return notFoundOr(err, "Subject not found")
	}
	return nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(ErrNotFound, message)
	}
	return err
}
