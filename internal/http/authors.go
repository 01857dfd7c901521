package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/online-library/internal/auth"
	"github.com/mrlokans/online-library/internal/entities"
	"github.com/mrlokans/online-library/internal/services"
)

type AuthorsController struct {
	authors AuthorCatalog
}

func NewAuthorsController(authors AuthorCatalog) *AuthorsController {
	return &AuthorsController{authors: authors}
}

type authorRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (r authorRequest) input() services.AuthorInput {
	return services.AuthorInput{Name: r.Name, Bio: r.Bio}
}

type authorResponse struct {
	Message string           `json:"message"`
	Author  *entities.Author `json:"author"`
}

func (controller *AuthorsController) List(c *gin.Context) {
	authors, err := controller.authors.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// Add records an author stamped with the caller as creator.
func (controller *AuthorsController) Add(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	author, err := controller.authors.Add(c.Request.Context(), auth.GetIdentity(c), req.input())
	if err != nil {
		respondServiceError(c, err, "Failed to add author")
		return
	}
	c.JSON(http.StatusOK, authorResponse{Message: "Author added successfully", Author: author})
}

func (controller *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	author, err := controller.authors.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondServiceError(c, err, "Failed to update author")
		return
	}
	c.JSON(http.StatusOK, authorResponse{Message: "Author updated successfully", Author: author})
}

func (controller *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := controller.authors.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete author")
		return
	}
	respondSuccess(c, "Author deleted successfully")
}
