package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"dictado/internal/models"
	"dictado/internal/security"
	"dictado/internal/service"
)

// SessionCookieName is the browser session cookie.
const SessionCookieName = "session_token"

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const UserContextKey ContextKey = "user"

// CSRFHeaderName is the request header carrying the CSRF token.
const CSRFHeaderName = "X-CSRF-Token"

// Middleware holds dependencies for middleware functions.
type Middleware struct {
	authService *service.AuthService
	limiter     *security.RateLimiter
	csrf        *security.CSRFGenerator
}

// NewMiddleware creates a new middleware instance.
func NewMiddleware(authService *service.AuthService, limiter *security.RateLimiter, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{
		authService: authService,
		limiter:     limiter,
		csrf:        csrf,
	}
}

// RequireAuth rejects requests without a valid session cookie and puts
// the logged-in user on the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "authentication required", nil)
			return
		}

		user, err := m.authService.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
			respondError(w, http.StatusUnauthorized, "session invalid or expired", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect rejects state-changing requests whose X-CSRF-Token header
// does not match the session cookie. Chain it inside RequireAuth so the
// cookie is known to be present.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || !m.csrf.ValidateToken(cookie.Value, r.Header.Get(CSRFHeaderName)) {
			respondError(w, http.StatusForbidden, "invalid CSRF token", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit throttles per client IP.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !m.limiter.Allow(ip) {
			respondError(w, http.StatusTooManyRequests, "too many requests", nil)
			return
		}
		next(w, r)
	}
}

// Logging logs HTTP requests.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context.
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
