package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "ADMIN"

var ErrTokenSigningDisabled = errors.New("JWT_SECRET is not set")

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authorizer decides whether a request carries admin credentials.
// A request is admin when its API key matches the configured key or bcrypt hash,
// or when it presents a valid HS256 bearer token with role ADMIN.
type Authorizer struct {
	key     []byte
	keyHash []byte
	secret  []byte
	now     func() time.Time
}

func NewAuthorizer(key, keyHash, jwtSecret string) *Authorizer {
	return &Authorizer{
		key:     []byte(key),
		keyHash: []byte(keyHash),
		secret:  []byte(jwtSecret),
		now:     time.Now,
	}
}

// Enabled reports whether any admin credential is configured.
func (a *Authorizer) Enabled() bool {
	return len(a.key) > 0 || len(a.keyHash) > 0 || len(a.secret) > 0
}

func (a *Authorizer) IsAdmin(r *http.Request) bool {
	if key := ExtractAdminKey(r); key != "" && a.CheckKey(key) {
		return true
	}
	if token := ExtractAccessToken(r); token != "" {
		_, err := a.ParseToken(token)
		return err == nil
	}
	return false
}

func (a *Authorizer) CheckKey(candidate string) bool {
	if len(a.key) > 0 && subtle.ConstantTimeCompare(a.key, []byte(candidate)) == 1 {
		return true
	}
	if len(a.keyHash) > 0 && bcrypt.CompareHashAndPassword(a.keyHash, []byte(candidate)) == nil {
		return true
	}
	return false
}

// IssueToken signs an admin bearer token valid for ttl.
func (a *Authorizer) IssueToken(subject string, ttl time.Duration) (string, time.Time, error) {
	if len(a.secret) == 0 {
		return "", time.Time{}, ErrTokenSigningDisabled
	}

	now := a.now()
	expires := now.Add(ttl)
	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func (a *Authorizer) ParseToken(tokenStr string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, ErrTokenSigningDisabled
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return a.secret, nil
		},
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Role != RoleAdmin {
		return nil, errors.New("token is not an admin token")
	}
	return claims, nil
}

// HashKey produces a value suitable for ADMIN_KEY_HASH.
func HashKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(bytes), err
}
