// Package http exposes account management over REST.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	"github.com/allisson/keyosk/internal/account/http/dto"
	accountUseCase "github.com/allisson/keyosk/internal/account/usecase"
	"github.com/allisson/keyosk/internal/httputil"
	customValidation "github.com/allisson/keyosk/internal/validation"
)

var errInvalidAccountID = errors.New("invalid account ID format: must be a valid UUID")

// AccountHandler serves /v1/accounts.
type AccountHandler struct {
	accountUseCase accountUseCase.AccountUseCase
	logger         *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accountUseCase accountUseCase.AccountUseCase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accountUseCase: accountUseCase, logger: logger}
}

func (h *AccountHandler) accountID(c *gin.Context) (uuid.UUID, bool) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, errInvalidAccountID, h.logger)
		return uuid.Nil, false
	}
	return accountID, true
}

// CreateHandler creates an account.
// POST /v1/accounts - returns 201 with the server secret, shown only once.
func (h *AccountHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.accountUseCase.Create(c.Request.Context(), &accountDomain.CreateAccountInput{
		Username:     req.Username,
		ClientSecret: req.ClientSecret,
		Enabled:      req.Enabled,
		Extras:       req.Extras,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateAccountResponse{
		AccountResponse: dto.MapAccountToResponse(output.Account),
		ServerSecret:    output.ServerSecret,
	})
}

// GetHandler returns one account. Domain admins only see accounts assigned to their
// domain.
// GET /v1/accounts/:id
func (h *AccountHandler) GetHandler(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var (
		account *accountDomain.Account
		err     error
	)
	if domainID, scoped := httputil.DomainScope(ctx); scoped {
		account, err = h.accountUseCase.GetInDomain(ctx, accountID, domainID)
	} else {
		account, err = h.accountUseCase.Get(ctx, accountID)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountToResponse(account))
}

// ListHandler returns a page of accounts ordered by username, limited to the accounts
// assigned to the domain for domain admins.
// GET /v1/accounts?offset=0&limit=50
func (h *AccountHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	var accounts []*accountDomain.Account
	if domainID, scoped := httputil.DomainScope(ctx); scoped {
		accounts, err = h.accountUseCase.ListInDomain(ctx, domainID, page.Offset, page.Limit)
	} else {
		accounts, err = h.accountUseCase.List(ctx, page.Offset, page.Limit)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountsToListResponse(accounts))
}

// UpdateHandler replaces the profile of an account.
// PUT /v1/accounts/:id
func (h *AccountHandler) UpdateHandler(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	account, err := h.accountUseCase.Update(c.Request.Context(), accountID, &accountDomain.UpdateAccountInput{
		Username: req.Username,
		Enabled:  req.Enabled,
		Extras:   req.Extras,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAccountToResponse(account))
}

// DeleteHandler removes an account. Its grants go with it, its tokens stay for audit.
// DELETE /v1/accounts/:id
func (h *AccountHandler) DeleteHandler(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	if err := h.accountUseCase.Delete(c.Request.Context(), accountID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// UpdateClientSecretHandler sets a new client-set secret.
// PUT /v1/accounts/:id/client-secret
func (h *AccountHandler) UpdateClientSecretHandler(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	var req dto.UpdateClientSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.accountUseCase.UpdateClientSecret(c.Request.Context(), accountID, req.ClientSecret); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// RegenerateServerSecretHandler rotates the server-set secret.
// POST /v1/accounts/:id/server-secret - the new secret is shown only once.
func (h *AccountHandler) RegenerateServerSecretHandler(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	secret, err := h.accountUseCase.RegenerateServerSecret(c.Request.Context(), accountID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ServerSecretResponse{ServerSecret: secret})
}
