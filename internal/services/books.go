package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/mrlokans/online-library/internal/auth"
	"github.com/mrlokans/online-library/internal/entities"
	"github.com/mrlokans/online-library/internal/logger"
	"github.com/mrlokans/online-library/internal/storage"
)

// BookInput carries the editable metadata of a book.
type BookInput struct {
	Title string
	Year  int
}

// FileUpload is a book file received from a client.
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Download is an open book file. The caller closes Content.
type Download struct {
	Book    *entities.Book
	Content io.ReadCloser
}

// BookService runs the upload, update, delete and download workflows.
// Every workflow that touches both the file store and the database
// sequences the two so that a failure never leaves a row pointing at a
// missing file.
type BookService struct {
	books   BookRepository
	users   UserRepository
	store   storage.FileStore
	remover FileRemover
	log     *logger.Logger
}

// NewBookService wires the workflow. A nil remover removes superseded
// files synchronously through store.
func NewBookService(books BookRepository, users UserRepository, store storage.FileStore, remover FileRemover, log *logger.Logger) *BookService {
	if remover == nil {
		remover = NewDirectRemover(store)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BookService{
		books:   books,
		users:   users,
		store:   store,
		remover: remover,
		log:     log,
	}
}

func (s *BookService) List(_ context.Context) ([]entities.Book, error) {
	return s.books.GetAll()
}

// Upload stores the file then the row. If the row cannot be written the
// stored file is removed again.
func (s *BookService) Upload(ctx context.Context, identity auth.Identity, input BookInput, file *FileUpload) (*entities.Book, error) {
	if identity.IsAnonymous() {
		return nil, newError(ErrUnauthorized, "User not logged in")
	}

	uploader, err := s.users.GetUserByID(identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrUnauthorized, "User not found")
		}
		return nil, fmt.Errorf("load uploader: %w", err)
	}
	if uploader.Role != entities.UserRoleAuthor && uploader.Role != entities.UserRoleAdmin {
		return nil, newError(ErrForbidden, "Only authors or admins can upload books")
	}

	title, err := validateBookInput(input)
	if err != nil {
		return nil, err
	}
	if file == nil || file.Content == nil {
		return nil, invalidf("file is required")
	}

	key, err := s.store.Save(ctx, file.Name, file.Content, file.Size)
	if err != nil {
		return nil, fmt.Errorf("save file: %w", err)
	}

	book := &entities.Book{
		Title:      title,
		Year:       input.Year,
		FileName:   storage.SanitizeName(file.Name),
		FilePath:   key,
		UploaderID: uploader.ID,
	}
	if err := s.books.Create(book); err != nil {
		s.discard(ctx, key)
		return nil, fmt.Errorf("create book: %w", err)
	}
	book.Uploader = *uploader

	s.log.Info().
		Uint("book_id", book.ID).
		Str("uploader", uploader.Username).
		Str("file", key).
		Msg("book uploaded")

	return book, nil
}

// Update overwrites title and year and, when file is given, replaces the
// content. The superseded file goes to the FileRemover only after the row
// points at the new one.
func (s *BookService) Update(ctx context.Context, identity auth.Identity, id uint, input BookInput, file *FileUpload) (*entities.Book, error) {
	if identity.IsAnonymous() {
		return nil, newError(ErrUnauthorized, "User not logged in")
	}

	book, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !auth.CanModifyBook(identity, book) {
		return nil, newError(ErrForbidden, "You cannot edit this book")
	}

	title, err := validateBookInput(input)
	if err != nil {
		return nil, err
	}
	book.Title = title
	book.Year = input.Year

	var oldKey, newKey string
	if file != nil && file.Content != nil {
		newKey, err = s.store.Save(ctx, file.Name, file.Content, file.Size)
		if err != nil {
			return nil, fmt.Errorf("save file: %w", err)
		}
		oldKey = book.FilePath
		book.FilePath = newKey
		book.FileName = storage.SanitizeName(file.Name)
	}

	if err := s.books.Save(book); err != nil {
		if newKey != "" {
			s.discard(ctx, newKey)
		}
		return nil, fmt.Errorf("update book: %w", err)
	}

	if oldKey != "" && oldKey != newKey {
		if err := s.remover.RemoveFile(ctx, oldKey); err != nil {
			s.log.Warn().Err(err).Str("file", oldKey).Msg("superseded file not removed")
		}
	}

	s.log.Info().Uint("book_id", book.ID).Bool("file_replaced", newKey != "").Msg("book updated")
	return book, nil
}

// Delete removes the row, then the file. A file that cannot be removed is
// logged and left to the orphan sweep.
func (s *BookService) Delete(ctx context.Context, identity auth.Identity, id uint) error {
	if identity.IsAnonymous() {
		return newError(ErrUnauthorized, "User not logged in")
	}

	book, err := s.load(id)
	if err != nil {
		return err
	}
	if !auth.CanModifyBook(identity, book) {
		return newError(ErrForbidden, "You cannot delete this book")
	}

	if err := s.books.Delete(book.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(ErrNotFound, "Book not found")
		}
		return fmt.Errorf("delete book: %w", err)
	}

	if err := s.remover.RemoveFile(ctx, book.FilePath); err != nil {
		s.log.Warn().Err(err).Str("file", book.FilePath).Msg("book file not removed")
	}

	s.log.Info().Uint("book_id", book.ID).Str("by", identity.Username).Msg("book deleted")
	return nil
}

// Open returns the stored content of a book. No identity is required.
func (s *BookService) Open(ctx context.Context, id uint) (*Download, error) {
	book, err := s.load(id)
	if err != nil {
		return nil, err
	}

	content, err := s.store.Open(ctx, book.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, newError(ErrNotFound, "File not found")
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return &Download{Book: book, Content: content}, nil
}

func (s *BookService) load(id uint) (*entities.Book, error) {
	book, err := s.books.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "Book not found")
		}
		return nil, fmt.Errorf("load book: %w", err)
	}
	return book, nil
}

// discard undoes a Save whose row write failed.
func (s *BookService) discard(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		s.log.Error().Err(err).Str("file", key).Msg("failed to remove file after row write failure")
	}
}

func validateBookInput(input BookInput) (string, error) {
	title, err := validateName("title", input.Title)
	if err != nil {
		return "", err
	}
	if err := validateYear(input.Year); err != nil {
		return "", err
	}
	return title, nil
}

// DirectRemover removes files immediately.
type DirectRemover struct {
	store storage.FileStore
}

func NewDirectRemover(store storage.FileStore) *DirectRemover {
	return &DirectRemover{store: store}
}

func (r *DirectRemover) RemoveFile(ctx context.Context, key string) error {
	return r.store.Remove(ctx, key)
}
