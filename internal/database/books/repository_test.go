package books

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/online-library/internal/config"
	"github.com/mrlokans/online-library/internal/database"
	"github.com/mrlokans/online-library/internal/entities"
)

func setupTestRepo(t *testing.T) (*Repository, *entities.User) {
	t.Helper()
	db, err := database.NewDatabase(config.Database{
		Driver: config.DatabaseDriverSQLite,
		Path:   filepath.Join(t.TempDir(), "books.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uploader := &entities.User{Username: "frank", PasswordHash: "x", Role: entities.UserRoleAuthor}
	require.NoError(t, db.DB.Create(uploader).Error)

	return NewRepository(db.DB), uploader
}

func newBook(uploader *entities.User, title, key string) *entities.Book {
	return &entities.Book{
		Title:      title,
		Year:       1965,
		FileName:   "dune.pdf",
		FilePath:   key,
		UploaderID: uploader.ID,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, uploader := setupTestRepo(t)

	book := newBook(uploader, "Dune", "1700000000000_dune.pdf")
	require.NoError(t, repo.Create(book))
	assert.NotZero(t, book.ID)

	loaded, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", loaded.Title)
	assert.Equal(t, "frank", loaded.Uploader.Username)

	raw, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"Dune","author":"frank","year":1965,"fileName":"dune.pdf","filePath":"1700000000000_dune.pdf"}`, string(raw))
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := setupTestRepo(t)

	_, err := repo.GetByID(99)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepository_GetAll(t *testing.T) {
	repo, uploader := setupTestRepo(t)

	books, err := repo.GetAll()
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)

	require.NoError(t, repo.Create(newBook(uploader, "Dune", "1_dune.pdf")))
	require.NoError(t, repo.Create(newBook(uploader, "Children of Dune", "2_dune.pdf")))

	books, err = repo.GetAll()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "frank", books[1].Uploader.Username)
}

func TestRepository_Save(t *testing.T) {
	repo, uploader := setupTestRepo(t)

	book := newBook(uploader, "Dune", "1_dune.pdf")
	require.NoError(t, repo.Create(book))

	book.Title = "Dune Messiah"
	book.Year = 1969
	require.NoError(t, repo.Save(book))

	loaded, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", loaded.Title)
	assert.Equal(t, 1969, loaded.Year)
}

func TestRepository_Delete(t *testing.T) {
	repo, uploader := setupTestRepo(t)

	book := newBook(uploader, "Dune", "1_dune.pdf")
	require.NoError(t, repo.Create(book))

	require.NoError(t, repo.Delete(book.ID))
	_, err := repo.GetByID(book.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = repo.Delete(book.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepository_ListFilePaths(t *testing.T) {
	repo, uploader := setupTestRepo(t)

	require.NoError(t, repo.Create(newBook(uploader, "Dune", "1_dune.pdf")))
	require.NoError(t, repo.Create(newBook(uploader, "Emma", "2_emma.epub")))

	paths, err := repo.ListFilePaths()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1_dune.pdf", "2_emma.epub"}, paths)
}
