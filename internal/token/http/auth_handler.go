package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keyosk/internal/httputil"
	"github.com/allisson/keyosk/internal/token/http/dto"
	tokenUseCase "github.com/allisson/keyosk/internal/token/usecase"
	customValidation "github.com/allisson/keyosk/internal/validation"
)

// AuthHandler serves the unauthenticated token endpoints.
type AuthHandler struct {
	tokenUseCase tokenUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(tokenUseCase tokenUseCase.TokenUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{tokenUseCase: tokenUseCase, logger: logger}
}

// AuthenticateHandler exchanges account credentials for a token.
// POST /v1/auth/:domain
func (h *AuthHandler) AuthenticateHandler(c *gin.Context) {
	var req dto.AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.tokenUseCase.Authenticate(c.Request.Context(), req.ToInput(c.Param("domain")))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIssueResultToResponse(result))
}

// RefreshHandler exchanges a refresh token for a new token.
// POST /v1/auth/:domain/refresh
func (h *AuthHandler) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.tokenUseCase.Refresh(c.Request.Context(), c.Param("domain"), req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIssueResultToResponse(result))
}

// PublicKeyHandler returns the PEM encoded token verification key.
// GET /v1/public-key
func (h *AuthHandler) PublicKeyHandler(c *gin.Context) {
	pem, err := h.tokenUseCase.PublicKey(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, "application/x-pem-file", pem)
}
