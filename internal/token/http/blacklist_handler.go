package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/keyosk/internal/httputil"
	"github.com/allisson/keyosk/internal/token/http/dto"
	tokenUseCase "github.com/allisson/keyosk/internal/token/usecase"
	customValidation "github.com/allisson/keyosk/internal/validation"
)

// BlacklistHandler serves /v1/blacklist.
type BlacklistHandler struct {
	tokenUseCase tokenUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewBlacklistHandler creates a BlacklistHandler.
func NewBlacklistHandler(tokenUseCase tokenUseCase.TokenUseCase, logger *slog.Logger) *BlacklistHandler {
	return &BlacklistHandler{tokenUseCase: tokenUseCase, logger: logger}
}

// ListHandler returns the ids of revoked tokens that have not expired yet, so resource
// servers can reject them before expiry.
// GET /v1/blacklist
func (h *BlacklistHandler) ListHandler(c *gin.Context) {
	tokens, err := h.tokenUseCase.ListRevoked(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokensToBlacklistResponse(tokens))
}

// RevokeHandler revokes a token by id.
// POST /v1/blacklist
func (h *BlacklistHandler) RevokeHandler(c *gin.Context) {
	var req dto.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.tokenUseCase.Revoke(c.Request.Context(), uuid.MustParse(req.JTI)); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
