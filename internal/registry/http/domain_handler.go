// Package http exposes the domain registry over REST. Every :ref path parameter
// accepts a domain id or name.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/keyosk/internal/httputil"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
	"github.com/allisson/keyosk/internal/registry/http/dto"
	registryUseCase "github.com/allisson/keyosk/internal/registry/usecase"
	customValidation "github.com/allisson/keyosk/internal/validation"
)

// DomainHandler serves /v1/domains.
type DomainHandler struct {
	domainUseCase registryUseCase.DomainUseCase
	logger        *slog.Logger
}

// NewDomainHandler creates a DomainHandler.
func NewDomainHandler(domainUseCase registryUseCase.DomainUseCase, logger *slog.Logger) *DomainHandler {
	return &DomainHandler{domainUseCase: domainUseCase, logger: logger}
}

// CreateHandler creates a domain with its access lists, permissions and admin settings.
// POST /v1/domains
func (h *DomainHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	detail, err := h.domainUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapDomainDetailToResponse(detail))
}

// GetHandler returns a domain with everything it owns.
// GET /v1/domains/:ref
func (h *DomainHandler) GetHandler(c *gin.Context) {
	detail, err := h.domainUseCase.GetDetail(c.Request.Context(), c.Param("ref"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDomainDetailToResponse(detail))
}

// ListHandler returns a page of domains ordered by name.
// GET /v1/domains?offset=0&limit=50
func (h *DomainHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	domains, err := h.domainUseCase.List(c.Request.Context(), page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDomainsToListResponse(domains))
}

// UpdateHandler replaces the settings of a domain.
// PUT /v1/domains/:ref
func (h *DomainHandler) UpdateHandler(c *gin.Context) {
	var req dto.DomainSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	domain, err := h.domainUseCase.Update(c.Request.Context(), c.Param("ref"), req.ToSettings())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDomainToResponse(domain))
}

// DeleteHandler removes a domain with its access lists, permissions and grants.
// DELETE /v1/domains/:ref
func (h *DomainHandler) DeleteHandler(c *gin.Context) {
	if err := h.domainUseCase.Delete(c.Request.Context(), c.Param("ref")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// AddAccessListHandler adds an access list to a domain.
// POST /v1/domains/:ref/access-lists
func (h *DomainHandler) AddAccessListHandler(c *gin.Context) {
	var req dto.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	list, err := h.domainUseCase.AddAccessList(c.Request.Context(), c.Param("ref"), req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAccessListToResponse(list))
}

// AddPermissionHandler appends a permission to a domain.
// POST /v1/domains/:ref/permissions
func (h *DomainHandler) AddPermissionHandler(c *gin.Context) {
	var req dto.AddPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	perm, err := h.domainUseCase.AddPermission(c.Request.Context(), c.Param("ref"), registryDomain.PermissionInput{
		Name:     req.Name,
		BitIndex: *req.BitIndex,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapPermissionToResponse(perm))
}

// ReplacePermissionsHandler replaces the whole permission set of a domain.
// PUT /v1/domains/:ref/permissions
func (h *DomainHandler) ReplacePermissionsHandler(c *gin.Context) {
	var req dto.ReplacePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	permissions, err := h.domainUseCase.ReplacePermissions(c.Request.Context(), c.Param("ref"), req.Permissions)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ListPermissionsResponse{Data: dto.MapPermissionsToResponse(permissions)})
}

// SetAdminHandler replaces the admin settings of a domain.
// PUT /v1/domains/:ref/admin
func (h *DomainHandler) SetAdminHandler(c *gin.Context) {
	var req registryDomain.DomainAdminInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	admin, err := h.domainUseCase.SetAdmin(c.Request.Context(), c.Param("ref"), &req)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDomainAdminToResponse(admin))
}
