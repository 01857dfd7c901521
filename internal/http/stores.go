package http

import (
	"context"

	"github.com/mrlokans/online-library/internal/auth"
	"github.com/mrlokans/online-library/internal/entities"
	"github.com/mrlokans/online-library/internal/services"
)

// Each controller depends on the narrow service surface it calls. The
// implementations live in internal/services.

// BookWorkflow is implemented by services.BookService.
type BookWorkflow interface {
	List(ctx context.Context) ([]entities.Book, error)
	Upload(ctx context.Context, identity auth.Identity, input services.BookInput, file *services.FileUpload) (*entities.Book, error)
	Update(ctx context.Context, identity auth.Identity, id uint, input services.BookInput, file *services.FileUpload) (*entities.Book, error)
	Delete(ctx context.Context, identity auth.Identity, id uint) error
	Open(ctx context.Context, id uint) (*services.Download, error)
}

// AuthorCatalog is implemented by services.AuthorService.
type AuthorCatalog interface {
	List(ctx context.Context) ([]entities.Author, error)
	Add(ctx context.Context, identity auth.Identity, input services.AuthorInput) (*entities.Author, error)
	Update(ctx context.Context, id uint, input services.AuthorInput) (*entities.Author, error)
	Delete(ctx context.Context, id uint) error
}

// SubjectCatalog is implemented by services.SubjectService.
type SubjectCatalog interface {
	List(ctx context.Context) ([]entities.Subject, error)
	Add(ctx context.Context, input services.SubjectInput) (*entities.Subject, error)
	Update(ctx context.Context, id uint, input services.SubjectInput) (*entities.Subject, error)
	Delete(ctx context.Context, id uint) error
}

var (
	_ BookWorkflow   = (*services.BookService)(nil)
	_ AuthorCatalog  = (*services.AuthorService)(nil)
	_ SubjectCatalog = (*services.SubjectService)(nil)
)
