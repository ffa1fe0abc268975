package trie_api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rskv-p/minitrie/pkg/x_db"
	"github.com/rskv-p/minitrie/pkg/x_log"
)

// Authenticator checks API credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*x_db.User, error)
}

type jwtClaims struct {
	Username string `json:"sub"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type contextKey string

const claimsKey = contextKey("jwt_claims")

// IssueToken signs an HS256 token for username.
func IssueToken(secret []byte, username, role string, ttl time.Duration) (string, error) {
	claims := jwtClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// -------- /auth/login --------
func handleLogin(users Authenticator, secret []byte, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, CodeBadRequest, "invalid JSON")
			return
		}
		u, err := users.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			x_log.From(r.Context()).Warn().Str("user", req.Username).Msg("login rejected")
			writeError(w, CodeUnauthorized, "invalid credentials")
			return
		}
		token, err := IssueToken(secret, u.Username, u.Role, ttl)
		if err != nil {
			writeError(w, CodeInternal, "token error")
			return
		}
		writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}

// -------- Middleware: JWT validation --------
func requireRole(secret []byte, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearer(r)
			if tokenStr == "" {
				writeError(w, CodeUnauthorized, "missing token")
				return
			}
			claims := &jwtClaims{}
			_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil {
				writeError(w, CodeUnauthorized, "invalid or expired token")
				return
			}
			if role != "" && claims.Role != role {
				writeJSON(w, http.StatusForbidden, ServiceError{Code: "403", Description: "forbidden"})
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return token
	}
	return ""
}

// UserFromContext returns the authenticated caller.
func UserFromContext(ctx context.Context) (username, role string, ok bool) {
	claims, ok := ctx.Value(claimsKey).(*jwtClaims)
	if !ok {
		return "", "", false
	}
	return claims.Username, claims.Role, true
}

var errNoSecret = errors.New("trie_api: jwt secret required when authentication is enabled")
