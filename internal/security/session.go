package security

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GenerateSessionToken creates an unguessable token for browser sessions.
func GenerateSessionToken() string {
	return uuid.New().String()
}

const classCodeChars = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateClassCode creates a short join code for a teacher's class.
// Ambiguous characters (O, 0, I, 1, L) are excluded.
func GenerateClassCode() (string, error) {
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(classCodeChars))))
		if err != nil {
			return "", err
		}
		code[i] = classCodeChars[n.Int64()]
	}
	return string(code), nil
}

// IsSecureRequest determines if the request is over HTTPS, looking at the
// TLS state, the X-Forwarded-Proto header and the URL scheme.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}

// CreateSessionCookie creates a session cookie with proper security flags.
func CreateSessionCookie(r *http.Request, name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// CreateDeleteCookie creates a cookie that clears the named cookie.
func CreateDeleteCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
	}
}
