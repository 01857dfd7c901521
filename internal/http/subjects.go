package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/online-library/internal/entities"
	"github.com/mrlokans/online-library/internal/services"
)

type SubjectsController struct {
	subjects SubjectCatalog
}

func NewSubjectsController(subjects SubjectCatalog) *SubjectsController {
	return &SubjectsController{subjects: subjects}
}

// subjectRequest accepts "title" as an alias of "name"; the web client
// sends title.
type subjectRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r subjectRequest) input() services.SubjectInput {
	name := r.Name
	if name == "" {
		name = r.Title
	}
	return services.SubjectInput{Name: name, Description: r.Description}
}

type subjectResponse struct {
	Message string            `json:"message"`
	Subject *entities.Subject `json:"subject"`
}

func (controller *SubjectsController) List(c *gin.Context) {
	subjects, err := controller.subjects.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch subjects")
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func (controller *SubjectsController) Add(c *gin.Context) {
	var req subjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	subject, err := controller.subjects.Add(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, err, "Failed to add subject")
		return
	}
	c.JSON(http.StatusOK, subjectResponse{Message: "Subject added successfully", Subject: subject})
}

func (controller *SubjectsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req subjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	subject, err := controller.subjects.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondServiceError(c, err, "Failed to update subject")
		return
	}
	c.JSON(http.StatusOK, subjectResponse{Message: "Subject updated successfully", Subject: subject})
}

func (controller *SubjectsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := controller.subjects.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete subject")
		return
	}
	respondSuccess(c, "Subject deleted successfully")
}
