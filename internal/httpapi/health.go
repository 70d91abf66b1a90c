package httpapi

import (
	"context"
	"net/http"
	"time"

	"jd-backend/internal/utils"
)

// Pinger reports storage reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("JD Backend API is running"))
}

func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "unreachable"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "ok"})
	}
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// IssueAdminToken exchanges an admin credential for a bearer token.
func (h *Handler) IssueAdminToken(w http.ResponseWriter, r *http.Request) {
	ttl := h.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	token, expires, err := h.Tokens.IssueToken("admin", ttl)
	if err != nil {
		writeError(w, r, err, "Token signing is not configured")
		return
	}
	utils.WriteJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expires.UTC().Format(time.RFC3339)})
}
