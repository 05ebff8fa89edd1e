package utils

import (
	"errors"
	"net/http"
	"strings"
)

// TokenFromRequest pulls the session token from the Authorization header
// (API clients) or the auth_token cookie (browser page loads).
func TokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}

	cookie, err := r.Cookie("auth_token")
	if err != nil || cookie.Value == "" {
		return "", errors.New("no session token")
	}
	return cookie.Value, nil
}
