package transport

import (
	"net/http"
	"strings"
)

// UserIDHeader carries the caller identity out-of-band.
const UserIDHeader = "X-User-ID"

// Identity is the opaque caller identifier supplied by the client.
type Identity string

func (i Identity) String() string { return string(i) }

func (i Identity) Empty() bool { return i == "" }

// ResolveIdentity picks the first non-empty source: header, then body field, then query.
func ResolveIdentity(r *http.Request, bodyUserID string) Identity {
	candidates := []string{
		r.Header.Get(UserIDHeader),
		bodyUserID,
		r.URL.Query().Get("userId"),
	}
	for _, c := range candidates {
		if v := strings.TrimSpace(c); v != "" {
			return Identity(v)
		}
	}
	return ""
}
