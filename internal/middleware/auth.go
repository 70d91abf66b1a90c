package middleware

import (
	"net/http"

	"jd-backend/internal/logger"
	"jd-backend/internal/utils"

	"go.uber.org/zap"
)

// AdminChecker is the admin predicate guarding admin routes.
type AdminChecker interface {
	IsAdmin(r *http.Request) bool
}

// AdminOnly rejects requests without admin credentials. Every failure looks the same.
func AdminOnly(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.IsAdmin(r) {
				logger.FromCtx(r.Context()).Warn("admin access denied",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
				)
				utils.WriteJSONError(w, "Unauthorized admin access", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
