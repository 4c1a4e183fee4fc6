// Package api implements the seokit HTTP surface using chi.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/starford/seokit/internal/apperr"
	"github.com/starford/seokit/internal/audit"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
	AuthModeJWT      = "jwt"
)

// Actors recorded in the audit log when the credential carries no subject.
const (
	localActor = "local"
	tokenActor = "token"
)

// AuthOptions selects how admin routes are protected.
type AuthOptions struct {
	Mode      string
	Token     string
	JWTSecret string
}

// AuthMiddleware returns middleware that admits admin requests.
//
//   - disabled: every request passes.
//   - token: requests must carry "Authorization: Bearer <token>".
//   - jwt: requests must carry an HS256 bearer token signed with JWTSecret
//     whose "role" claim is "admin".
//
// The authenticated actor is stored in the request context for auditing.
func AuthMiddleware(opts AuthOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := authenticate(opts, r.Header.Get("Authorization"))
			if err != nil {
				slog.Debug("admin request rejected", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(audit.WithActor(r.Context(), actor)))
		})
	}
}

func authenticate(opts AuthOptions, header string) (string, error) {
	switch opts.Mode {
	case "", AuthModeDisabled:
		return localActor, nil
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthorized)
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	switch opts.Mode {
	case AuthModeToken:
		if opts.Token == "" || raw != opts.Token {
			return "", fmt.Errorf("%w: token mismatch", apperr.ErrUnauthorized)
		}
		return tokenActor, nil
	case AuthModeJWT:
		return adminSubject(raw, opts.JWTSecret)
	default:
		return "", fmt.Errorf("%w: unknown auth mode %q", apperr.ErrUnauthorized, opts.Mode)
	}
}

// adminSubject validates an HS256 token and returns its subject.
func adminSubject(raw, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("%w: jwt secret not configured", apperr.ErrUnauthorized)
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}); err != nil {
		return "", fmt.Errorf("%w: %w", apperr.ErrUnauthorized, err)
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return "", fmt.Errorf("%w: role %q is not admin", apperr.ErrUnauthorized, role)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		sub = "admin"
	}
	return sub, nil
}
