// Package auth provides authentication and authorization for the application.
//
// Callers authenticate either with a Bearer JWT (returned by /auth/login and
// /auth/signup) or with the session cookie set by the same endpoints. The
// Middleware resolves an Identity from whichever is present and enforces the
// route Policy before handlers run:
//
//	Public         no identity needed
//	Authenticated  any logged-in user
//	Roles(...)     logged-in user holding one of the roles
//
// Ownership checks that need the loaded row (CanModifyBook) are evaluated by
// the services, so a missing book yields 404 before any 403.
//
// # Configuration
//
//	AUTH_JWT_SECRET=<hex>         # Auto-generated if empty (tokens die on restart)
//	AUTH_TOKEN_EXPIRY=24h         # Bearer token lifetime
//	AUTH_SESSION_LIFETIME=24h     # Session cookie lifetime
//	AUTH_BCRYPT_COST=12           # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true      # HTTPS-only cookies
//	AUTH_CSRF_ENABLED=true        # CSRF tokens for cookie-authenticated writes
//	AUTH_PROTECT_CATALOG=true     # Author/subject edits require ADMIN
//
// # Usage
//
//	svc := auth.NewService(db, cfg.Auth)
//	tokens := auth.NewTokenIssuer(secret, cfg.Auth.JWTIssuer, cfg.Auth.TokenExpiry)
//	mw := auth.NewMiddleware(svc, tokens, sessions, auth.NewPolicy(auth.DefaultRules(false)))
//	router.Use(sessions.SessionLoadSave(), mw.Handler())
//
// Extract the caller in handlers:
//
//	identity := auth.GetIdentity(c)
package auth
