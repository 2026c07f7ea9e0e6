// Single-operator bearer authentication: bcrypt-checked login issuing an
// HMAC-signed JWT, and middleware requiring a valid token.

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitegrid/sitegrid/internal/config"
	"github.com/sitegrid/sitegrid/internal/server/dto"
)

var (
	errLoginDisabled  = errors.New("login is not configured")
	errBadCredentials = errors.New("invalid password")
	errInvalidAuthHdr = errors.New("invalid authorization header")
	errInvalidToken   = errors.New("invalid token")
)

// Auth validates the operator password and session tokens.
type Auth struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
}

// NewAuth creates the auth service from configuration.
func NewAuth(cfg config.Auth) *Auth {
	return &Auth{
		passwordHash: []byte(cfg.PasswordHash),
		secret:       []byte(cfg.JWTSecret),
		ttl:          time.Duration(cfg.TokenTTLHours) * time.Hour,
	}
}

// Enabled reports whether a password is configured. With auth disabled
// RequireAuth passes every request through, writes included.
func (a *Auth) Enabled() bool { return len(a.passwordHash) > 0 }

// Login checks the password and issues a signed session token.
func (a *Auth) Login(password string) (string, error) {
	if !a.Enabled() {
		return "", errLoginDisabled
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", errBadCredentials
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"iat": now.Unix(),
		"exp": now.Add(a.ttl).Unix(),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the Authorization header's bearer token.
func (a *Auth) Verify(r *http.Request) error {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return errInvalidToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return errInvalidAuthHdr
	}
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return errInvalidToken
	}
	return nil
}

// RequireAuth gates a handler behind a valid bearer token when auth is
// enabled.
func RequireAuth(auth *Auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.Enabled() {
				if err := auth.Verify(r); err != nil {
					writeError(r.Context(), w, dto.Unauthorized().Wrap(err))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
