package auth

import (
	"net/http"
	"strings"

	"github.com/mrlokans/online-library/internal/entities"
)

type AccessLevel int

const (
	AccessPublic AccessLevel = iota
	AccessAuthenticated
	AccessRoles
)

// Access is the requirement a route places on the caller.
type Access struct {
	Level AccessLevel
	Roles []entities.UserRole
}

var (
	Public        = Access{Level: AccessPublic}
	Authenticated = Access{Level: AccessAuthenticated}
)

func Roles(roles ...entities.UserRole) Access {
	return Access{Level: AccessRoles, Roles: roles}
}

// Rule binds an access requirement to a method and a gin route pattern.
type Rule struct {
	Method string
	Path   string
	Access Access
}

// Policy is the single table of route permissions.
type Policy struct {
	rules map[string]Access
}

func NewPolicy(rules []Rule) *Policy {
	p := &Policy{rules: make(map[string]Access, len(rules))}
	for _, r := range rules {
		p.rules[r.Method+" "+r.Path] = r.Access
	}
	return p
}

// Lookup resolves the rule for a request. route is the matched gin pattern
// (empty when no route matched) and path the raw URL path.
func (p *Policy) Lookup(method, route, path string) Access {
	if route != "" {
		if access, ok := p.rules[method+" "+route]; ok {
			return access
		}
	}
	if strings.HasPrefix(path, "/api/") {
		return Authenticated
	}
	return Public
}

// DefaultRules returns the application's route table. With protectCatalog
// author edits and all subject writes require ADMIN.
func DefaultRules(protectCatalog bool) []Rule {
	catalog := Public
	if protectCatalog {
		catalog = Roles(entities.UserRoleAdmin)
	}
	uploaders := Roles(entities.UserRoleAuthor, entities.UserRoleAdmin)

	return []Rule{
		{http.MethodGet, "/", Public},
		{http.MethodGet, "/health", Public},
		{http.MethodGet, "/ping", Public},

		{http.MethodPost, "/auth/login", Public},
		{http.MethodPost, "/auth/signup", Public},
		{http.MethodGet, "/auth/csrf", Public},
		{http.MethodPost, "/auth/logout", Authenticated},
		{http.MethodGet, "/auth/me", Authenticated},

		// Listing needs a caller; downloads by id stay open
		{http.MethodGet, "/api/books", Authenticated},
		{http.MethodGet, "/api/books/download/:id", Public},
		{http.MethodPost, "/api/books/upload", uploaders},
		// Ownership is checked by CanModifyBook once the row is loaded
		{http.MethodPut, "/api/books/:id", Authenticated},
		{http.MethodDelete, "/api/books/:id", Authenticated},

		{http.MethodGet, "/api/authors", Public},
		{http.MethodPost, "/api/authors", Authenticated},
		{http.MethodPut, "/api/authors/:id", catalog},
		{http.MethodDelete, "/api/authors/:id", catalog},

		{http.MethodGet, "/api/subjects", Public},
		{http.MethodPost, "/api/subjects", catalog},
		{http.MethodPut, "/api/subjects/:id", catalog},
		{http.MethodDelete, "/api/subjects/:id", catalog},
	}
}

// CanModifyBook reports whether identity may edit or delete book: its
// uploader or any ADMIN.
func CanModifyBook(identity Identity, book *entities.Book) bool {
	if identity.IsAnonymous() {
		return false
	}
	return identity.IsAdmin() || book.UploaderID == identity.UserID
}
