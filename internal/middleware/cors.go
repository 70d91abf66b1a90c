package middleware

import (
	"net/http"

	"jd-backend/internal/auth"
	"jd-backend/internal/logger"
	"jd-backend/internal/transport"
)

var allowedHeaders = "Content-Type, Authorization, " +
	auth.AdminKeyHeader + ", " +
	transport.UserIDHeader + ", " +
	logger.RequestIDHeader + ", Idempotency-Key"

func CORS(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", allowedHeaders)
			h.Set("Access-Control-Expose-Headers", logger.RequestIDHeader)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
