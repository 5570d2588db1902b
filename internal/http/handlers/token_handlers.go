package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"voltgrid/internal/http/middleware"
	"voltgrid/internal/service"
)

// TokenHandlers serves token generation and refresh.
type TokenHandlers struct {
	tokens *service.TokenService
	logger *zap.Logger
}

// NewTokenHandlers builds TokenHandlers.
func NewTokenHandlers(tokens *service.TokenService, logger *zap.Logger) *TokenHandlers {
	return &TokenHandlers{tokens: tokens, logger: logger}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Generate handles POST /generatetoken. The API-key guard has already run.
func (h *TokenHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.Generate(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoSecret) {
			writeError(w, http.StatusBadRequest, "JWT Secret is missing")
			return
		}
		h.logger.Error("failed to generate token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Refresh handles POST /refreshtoken. The refresh guard has validated the
// old token and left it in the request context for revocation.
func (h *TokenHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	oldToken, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "Token is missing in request")
		return
	}

	token, err := h.tokens.Refresh(r.Context(), oldToken)
	if err != nil {
		if errors.Is(err, service.ErrNoSecret) {
			writeError(w, http.StatusBadRequest, "JWT Secret is missing")
			return
		}
		h.logger.Error("failed to refresh token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
