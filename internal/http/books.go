package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/online-library/internal/auth"
	"github.com/mrlokans/online-library/internal/services"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before parts spill to temporary files.
const multipartMemory = 8 << 20

type BooksController struct {
	books          BookWorkflow
	maxUploadBytes int64
}

func NewBooksController(books BookWorkflow, maxUploadBytes int64) *BooksController {
	return &BooksController{
		books:          books,
		maxUploadBytes: maxUploadBytes,
	}
}

func (controller *BooksController) List(c *gin.Context) {
	books, err := controller.books.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// Upload handles multipart title, year and file.
func (controller *BooksController) Upload(c *gin.Context) {
	input, file, ok := controller.parseBookForm(c)
	if !ok {
		return
	}
	if file != nil {
		defer file.close()
	}

	book, err := controller.books.Upload(c.Request.Context(), auth.GetIdentity(c), input, file.upload())
	if err != nil {
		respondServiceError(c, err, "Failed to upload book")
		return
	}
	c.JSON(http.StatusOK, BookResponse{Message: "Book uploaded successfully", BookID: book.ID})
}

// Update overwrites title and year. The file part is optional.
func (controller *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	input, file, ok := controller.parseBookForm(c)
	if !ok {
		return
	}
	if file != nil {
		defer file.close()
	}

	book, err := controller.books.Update(c.Request.Context(), auth.GetIdentity(c), id, input, file.upload())
	if err != nil {
		respondServiceError(c, err, "Failed to update book")
		return
	}
	c.JSON(http.StatusOK, BookResponse{Message: "Book updated successfully", BookID: book.ID})
}

func (controller *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.books.Delete(c.Request.Context(), auth.GetIdentity(c), id); err != nil {
		respondServiceError(c, err, "Failed to delete book")
		return
	}
	respondSuccess(c, "Book deleted successfully")
}

// Download streams the stored file as an attachment under its original name.
func (controller *BooksController) Download(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	download, err := controller.books.Open(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to download book")
		return
	}
	defer download.Content.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", download.Content, map[string]string{
		"Content-Disposition": attachmentDisposition(download.Book.FileName),
	})
}

type formFile struct {
	header *multipart.FileHeader
	file   multipart.File
}

func (f *formFile) upload() *services.FileUpload {
	if f == nil {
		return nil
	}
	return &services.FileUpload{Name: f.header.Filename, Size: f.header.Size, Content: f.file}
}

func (f *formFile) close() {
	f.file.Close()
}

// parseBookForm reads the multipart body. On failure the response has been
// written and ok is false. file is nil when no "file" part was sent.
func (controller *BooksController) parseBookForm(c *gin.Context) (services.BookInput, *formFile, bool) {
	if controller.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, controller.maxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondError(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the %d MB upload limit", controller.maxUploadBytes>>20))
		case errors.Is(err, http.ErrNotMultipart):
			respondBadRequest(c, "multipart form required")
		default:
			respondBadRequest(c, "invalid multipart form")
		}
		return services.BookInput{}, nil, false
	}

	yearStr := strings.TrimSpace(c.PostForm("year"))
	if yearStr == "" {
		respondBadRequest(c, "year is required")
		return services.BookInput{}, nil, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		respondBadRequest(c, "year must be a number")
		return services.BookInput{}, nil, false
	}
	input := services.BookInput{Title: c.PostForm("title"), Year: year}

	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil, true
	}
	if err != nil {
		respondBadRequest(c, "invalid file")
		return services.BookInput{}, nil, false
	}
	file, err := header.Open()
	if err != nil {
		respondServiceError(c, fmt.Errorf("open multipart file: %w", err), "Failed to read uploaded file")
		return services.BookInput{}, nil, false
	}
	return input, &formFile{header: header, file: file}, true
}

// attachmentDisposition quotes name for the filename parameter and adds an
// RFC 5987 filename* when name is not plain ASCII.
func attachmentDisposition(name string) string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name)
	disposition := `attachment; filename="` + quoted + `"`
	for _, r := range name {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return disposition + "; filename*=UTF-8''" + url.PathEscape(name)
		}
	}
	return disposition
}
