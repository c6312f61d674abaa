package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keyosk/internal/httputil"
	"github.com/allisson/keyosk/internal/token/http/dto"
	tokenUseCase "github.com/allisson/keyosk/internal/token/usecase"
)

// AuditHandler serves the issued token history of a domain.
type AuditHandler struct {
	tokenUseCase tokenUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(tokenUseCase tokenUseCase.TokenUseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{tokenUseCase: tokenUseCase, logger: logger}
}

// ListHandler lists the tokens issued for a domain, newest first, with their frozen claims.
// GET /v1/domains/:ref/audit
func (h *AuditHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	tokens, err := h.tokenUseCase.ListByDomain(c.Request.Context(), c.Param("ref"), page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokensToListResponse(tokens, time.Now().UTC()))
}
