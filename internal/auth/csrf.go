package auth

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header clients echo the token back in.
const CSRFTokenHeader = "X-CSRF-Token"

const contextKeyCSRFToken = "csrf_token"

// CSRFMiddleware protects cookie-authenticated writes. Requests carrying a
// valid Bearer token are exempt since browsers never attach one on their
// own. trustedOrigin is the SPA origin allowed to post cross-origin.
func CSRFMiddleware(secret []byte, secure bool, trustedOrigin string, tokens *TokenIssuer) gin.HandlerFunc {
	opts := []csrf.Option{
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	}
	if u, err := url.Parse(trustedOrigin); err == nil && u.Host != "" {
		opts = append(opts, csrf.TrustedOrigins([]string{u.Host}))
	}
	csrfProtect := csrf.Protect(secret, opts...)

	return func(c *gin.Context) {
		if hasValidBearer(c, tokens) {
			c.Next()
			return
		}

		r := c.Request
		if !secure {
			r = csrf.PlaintextHTTPRequest(r)
		}

		aborted := true
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			aborted = false
			c.Set(contextKeyCSRFToken, csrf.Token(r))
			c.Request = r
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, r)

		if aborted {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}

func hasValidBearer(c *gin.Context, tokens *TokenIssuer) bool {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok || tokens == nil {
		return false
	}
	_, err := tokens.Parse(token)
	return err == nil
}

// GetCSRFToken retrieves the CSRF token from the Gin context.
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get(contextKeyCSRFToken); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}
