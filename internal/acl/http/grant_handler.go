// Package http exposes the ACL of accounts over REST. The domain is selected with the
// domain query parameter, a domain id or name.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/keyosk/internal/acl/http/dto"
	aclUseCase "github.com/allisson/keyosk/internal/acl/usecase"
	"github.com/allisson/keyosk/internal/httputil"
	customValidation "github.com/allisson/keyosk/internal/validation"
)

var (
	errInvalidAccountID = errors.New("invalid account ID format: must be a valid UUID")
	errMissingDomain    = errors.New("the domain query parameter is required")
	errMissingGrantRef  = errors.New("the access_list and permission query parameters are required")
)

// GrantHandler serves /v1/accounts/:id/permissions.
type GrantHandler struct {
	grantUseCase aclUseCase.GrantUseCase
	logger       *slog.Logger
}

// NewGrantHandler creates a GrantHandler.
func NewGrantHandler(grantUseCase aclUseCase.GrantUseCase, logger *slog.Logger) *GrantHandler {
	return &GrantHandler{grantUseCase: grantUseCase, logger: logger}
}

func (h *GrantHandler) target(c *gin.Context) (uuid.UUID, string, bool) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, errInvalidAccountID, h.logger)
		return uuid.Nil, "", false
	}
	ref := c.Query("domain")
	if ref == "" {
		httputil.HandleValidationErrorGin(c, errMissingDomain, h.logger)
		return uuid.Nil, "", false
	}
	return accountID, ref, true
}

// ListHandler returns the grants of an account under a domain.
// GET /v1/accounts/:id/permissions?domain=stargate
func (h *GrantHandler) ListHandler(c *gin.Context) {
	accountID, ref, ok := h.target(c)
	if !ok {
		return
	}

	grants, err := h.grantUseCase.ListGrants(c.Request.Context(), accountID, ref)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGrantsToListResponse(ref, grants))
}

// GrantHandler creates or updates one grant.
// POST /v1/accounts/:id/permissions?domain=stargate
func (h *GrantHandler) GrantHandler(c *gin.Context) {
	accountID, ref, ok := h.target(c)
	if !ok {
		return
	}

	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	grant, err := h.grantUseCase.Grant(c.Request.Context(), accountID, ref, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGrantToResponse(grant))
}

// ReplaceHandler replaces every grant of an account under a domain.
// PUT /v1/accounts/:id/permissions?domain=stargate
func (h *GrantHandler) ReplaceHandler(c *gin.Context) {
	accountID, ref, ok := h.target(c)
	if !ok {
		return
	}

	var req dto.ReplaceGrantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	grants, err := h.grantUseCase.ReplaceGrants(c.Request.Context(), accountID, ref, req.ToInputs())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGrantsToListResponse(ref, grants))
}

// RevokeHandler deletes one grant. Revoking a missing grant succeeds.
// DELETE /v1/accounts/:id/permissions?domain=stargate&access_list=zatniktel&permission=fire
func (h *GrantHandler) RevokeHandler(c *gin.Context) {
	accountID, ref, ok := h.target(c)
	if !ok {
		return
	}

	accessList, permission := c.Query("access_list"), c.Query("permission")
	if accessList == "" || permission == "" {
		httputil.HandleValidationErrorGin(c, errMissingGrantRef, h.logger)
		return
	}

	if err := h.grantUseCase.Revoke(c.Request.Context(), accountID, ref, accessList, permission); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
