// Package middleware holds the authorization guards applied before any
// resource handler runs.
package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"voltgrid/internal/service"
	"voltgrid/internal/tokencache"
)

type contextKey string

const tokenKey contextKey = "bearerToken"

const apiKeyHeader = "X-Api-Key"

// BearerAuth guards the CRUD routes. The cache lookup happens before the
// cryptographic check: a correctly signed token that was never issued by
// this process, or was revoked on refresh, is rejected.
func BearerAuth(tokens *service.TokenService, cache tokencache.Cache, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := checkToken(w, r, tokens, cache, logger, false)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tokenKey, token)))
		})
	}
}

// RefreshAuth guards the token refresh route. It verifies the signature
// while ignoring expiry, and passes the raw token downstream so the
// handler can revoke it.
func RefreshAuth(tokens *service.TokenService, cache tokencache.Cache, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := checkToken(w, r, tokens, cache, logger, true)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tokenKey, token)))
		})
	}
}

// APIKeyAuth guards the token generation route with a static shared key.
func APIKeyAuth(validKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validKey == "" {
				writeAuthError(w, http.StatusForbidden, "no valid API key is set in the environment")
				return
			}
			key := r.Header.Get(apiKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(validKey)) != 1 {
				logger.Error("authentication failure: wrong API key",
					zap.String("method", r.Method), zap.String("path", r.URL.Path))
				writeAuthError(w, http.StatusForbidden, "invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func checkToken(w http.ResponseWriter, r *http.Request, tokens *service.TokenService, cache tokencache.Cache, logger *zap.Logger, ignoreExpiry bool) (string, bool) {
	fail := func(message string) (string, bool) {
		logger.Error("authentication failure",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("reason", message))
		writeAuthError(w, http.StatusUnauthorized, message)
		return "", false
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return fail("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return fail("invalid authorization header")
	}
	token := strings.TrimSpace(parts[1])

	cached, err := cache.Exists(r.Context(), token)
	if err != nil {
		logger.Error("token cache lookup failed", zap.Error(err))
		return fail("token is invalid")
	}
	if !cached {
		return fail("token is invalid")
	}

	if ignoreExpiry {
		_, err = tokens.ValidateIgnoreExpiry(token)
	} else {
		_, err = tokens.Validate(token)
	}
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			return fail("token expired")
		}
		return fail("invalid token")
	}

	return token, true
}

// TokenFromContext retrieves the validated bearer token placed by the guards.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
