package auth

import (
	"net/http"
	"strings"
)

// AdminKeyHeader carries the shared admin API key.
const AdminKeyHeader = "X-API-Key"

func ExtractAccessToken(r *http.Request) string {
	// Cookie first
	if cookie, err := r.Cookie("access_token"); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	return ""
}

func ExtractAdminKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(AdminKeyHeader))
}
