package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"jd-backend/internal/order"
	"jd-backend/internal/product"
	"jd-backend/internal/user"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartBody = 10 << 20
)

// TokenIssuer signs admin bearer tokens.
type TokenIssuer interface {
	IssueToken(subject string, ttl time.Duration) (string, time.Time, error)
}

type Handler struct {
	Orders   order.Service
	Products product.Service
	Users    user.Service
	Tokens   TokenIssuer
	TokenTTL time.Duration
}

var errInvalidBody = errors.New("invalid request body")

// decodeJSON reads a bounded JSON body. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}
