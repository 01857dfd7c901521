package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/online-library/internal/entities"
)

type authorEnvelope struct {
	Message string         `json:"message"`
	Author  map[string]any `json:"author"`
}

type subjectEnvelope struct {
	Message string         `json:"message"`
	Subject map[string]any `json:"subject"`
}

func TestAuthors_CRUD(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	alice := env.tokenFor(t, "alice", entities.UserRoleUser)

	w := env.doJSON(t, http.MethodPost, "/api/authors", map[string]string{"name": "Frank Herbert"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/authors", map[string]string{"name": "Frank Herbert", "bio": "Dune"}, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	added := decode[authorEnvelope](t, w)
	assert.Equal(t, "Author added successfully", added.Message)
	assert.Equal(t, "alice", added.Author["createdBy"])
	id := uint(added.Author["id"].(float64))
	path := fmt.Sprintf("/api/authors/%d", id)

	w = env.doJSON(t, http.MethodGet, "/api/authors", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Frank Herbert", list[0]["name"])

	// Author edits are open unless the catalog is protected
	w = env.doJSON(t, http.MethodPut, path, map[string]string{"name": "F. Herbert", "bio": "Dune, 1965"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[authorEnvelope](t, w)
	assert.Equal(t, "Author updated successfully", updated.Message)
	assert.Equal(t, "F. Herbert", updated.Author["name"])
	assert.Equal(t, "alice", updated.Author["createdBy"])

	w = env.doJSON(t, http.MethodPut, "/api/authors/999", map[string]string{"name": "x"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Author not found"}`, w.Body.String())

	w = env.doJSON(t, http.MethodPost, "/api/authors", map[string]string{"bio": "no name"}, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, http.MethodDelete, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Author deleted successfully"}`, w.Body.String())

	w = env.doJSON(t, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthors_InvalidBody(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	alice := env.tokenFor(t, "alice", entities.UserRoleUser)

	w := env.doJSON(t, http.MethodPost, "/api/authors", "not an object", alice)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
}

func TestSubjects_CRUD(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.doJSON(t, http.MethodPost, "/api/subjects", map[string]string{"title": "Science Fiction", "description": "Spaceships"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	added := decode[subjectEnvelope](t, w)
	assert.Equal(t, "Subject added successfully", added.Message)
	assert.Equal(t, "Science Fiction", added.Subject["name"])
	id := uint(added.Subject["id"].(float64))
	path := fmt.Sprintf("/api/subjects/%d", id)

	w = env.doJSON(t, http.MethodPut, path, map[string]string{"name": "Sci-Fi", "description": "Spaceships"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sci-Fi", decode[subjectEnvelope](t, w).Subject["name"])

	w = env.doJSON(t, http.MethodGet, "/api/subjects", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = env.doJSON(t, http.MethodPost, "/api/subjects", map[string]string{"description": "nameless"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"name is required"}`, w.Body.String())

	w = env.doJSON(t, http.MethodDelete, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Subject deleted successfully"}`, w.Body.String())

	w = env.doJSON(t, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Subject not found"}`, w.Body.String())
}

func TestCatalog_Protected(t *testing.T) {
	env := newTestEnv(t, envOptions{protectCatalog: true})
	alice := env.tokenFor(t, "alice", entities.UserRoleAuthor)
	admin := env.tokenFor(t, "root", entities.UserRoleAdmin)

	w := env.doJSON(t, http.MethodPost, "/api/subjects", map[string]string{"name": "History"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/subjects", map[string]string{"name": "History"}, alice)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/subjects", map[string]string{"name": "History"}, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	// Any signed in user may still add authors
	w = env.doJSON(t, http.MethodPost, "/api/authors", map[string]string{"name": "Herodotus"}, alice)
	require.Equal(t, http.StatusOK, w.Code)
	id := uint(decode[authorEnvelope](t, w).Author["id"].(float64))

	w = env.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/authors/%d", id), nil, alice)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.doJSON(t, http.MethodGet, "/api/subjects", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
