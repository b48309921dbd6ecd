package httputil

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const TableCookieName = "table_token"

// SetTableCookie stores the table token so a page reload keeps its seat
func SetTableCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	cookie := &http.Cookie{
		Name:     TableCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
	}

	// SameSite=None requires Secure=true, so use Lax for development
	if secure {
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

func ClearTableCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TableCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// GetTokenFromRequest prefers the Authorization header and falls back to the cookie
func GetTokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return token, nil
		}
		return authHeader, nil
	}

	cookie, err := r.Cookie(TableCookieName)
	if err != nil {
		return "", errors.New("no table token found in header or cookie")
	}
	if cookie.Value == "" {
		return "", errors.New("table cookie is empty")
	}

	return cookie.Value, nil
}
