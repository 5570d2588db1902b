package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"voltgrid/internal/tokencache"
)

var (
	// ErrNoSecret is returned when no signing secret is configured.
	ErrNoSecret = errors.New("token: jwt secret is missing")
	// ErrTokenExpired marks a token past its signature expiry.
	ErrTokenExpired = errors.New("token: token expired")
	// ErrTokenInvalid covers signature mismatches and malformed tokens.
	ErrTokenInvalid = errors.New("token: invalid token")
)

// Claims is the JWT payload of issued bearer tokens. Key is a random
// nonce so two tokens minted in the same second still differ.
type Claims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// TokenService mints, verifies and refreshes the short-lived bearer
// tokens guarding the API. Every issued token is also inserted into the
// token cache; the bearer guard requires cache presence on top of a
// valid signature.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
	cacheTTL  time.Duration
	cache     tokencache.Cache
	logger    *zap.Logger
}

// NewTokenService returns configured token service.
func NewTokenService(secret string, expiresIn, cacheTTL time.Duration, cache tokencache.Cache, logger *zap.Logger) *TokenService {
	if expiresIn <= 0 {
		expiresIn = 120 * time.Second
	}
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		cacheTTL:  cacheTTL,
		cache:     cache,
		logger:    logger,
	}
}

// Generate mints a new signed token and registers it in the cache.
func (t *TokenService) Generate(ctx context.Context) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now().UTC()
	claims := Claims{
		Key: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiresIn)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", err
	}

	if err := t.cache.Set(ctx, signed, t.cacheTTL); err != nil {
		return "", err
	}

	t.logger.Info("token issued", zap.Time("expires_at", now.Add(t.expiresIn)))
	return signed, nil
}

// Refresh mints a replacement token and revokes the old one from the
// cache. The old token's signature expiry is not consulted here; the
// refresh guard has already checked cache presence and signature.
func (t *TokenService) Refresh(ctx context.Context, oldToken string) (string, error) {
	token, err := t.Generate(ctx)
	if err != nil {
		return "", err
	}

	if err := t.cache.Delete(ctx, oldToken); err != nil {
		t.logger.Warn("failed to revoke refreshed token", zap.Error(err))
	}

	return token, nil
}

// Validate verifies signature and expiry.
func (t *TokenService) Validate(tokenString string) (*Claims, error) {
	return t.parse(tokenString)
}

// ValidateIgnoreExpiry verifies the signature only. A token past its
// expiry may still be refreshed as long as it remains in the cache.
func (t *TokenService) ValidateIgnoreExpiry(tokenString string) (*Claims, error) {
	return t.parse(tokenString, jwt.WithoutClaimsValidation())
}

func (t *TokenService) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	if len(t.secret) == 0 {
		return nil, ErrNoSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return t.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
