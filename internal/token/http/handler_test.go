package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/keyosk/internal/account/domain"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
	"github.com/allisson/keyosk/internal/token/http/dto"
	"github.com/allisson/keyosk/internal/token/usecase/mocks"
)

func setupTokenUseCase(t *testing.T) *mocks.MockTokenUseCase {
	t.Helper()
	gin.SetMode(gin.TestMode)

	useCase := &mocks.MockTokenUseCase{}
	t.Cleanup(func() { useCase.AssertExpectations(t) })
	return useCase
}

func createTestContext(method, path string, body any, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	return c, w
}

func testIssueResult(withRefresh bool) *tokenDomain.IssueResult {
	issued := time.Now().UTC().Truncate(time.Second)
	token := &tokenDomain.Token{
		ID:         uuid.Must(uuid.NewV7()),
		Issuer:     "keyosk",
		Issued:     issued,
		Expires:    issued.Add(15 * time.Minute),
		SecretType: accountDomain.SecretTypeClient,
	}
	result := &tokenDomain.IssueResult{Token: token, Claims: sampleClaims(), AccessToken: "signed.jwt.value"}
	if withRefresh {
		refreshExpires := issued.Add(24 * time.Hour)
		token.RefreshExpires = &refreshExpires
		result.RefreshToken = "refresh-value"
	}
	return result
}

func testTokenRecord(revoked bool) *tokenDomain.Token {
	issued := time.Now().UTC().Add(-time.Minute).Truncate(time.Second)
	accountID := uuid.Must(uuid.NewV7())
	domainID := uuid.Must(uuid.NewV7())
	return &tokenDomain.Token{
		ID:         uuid.Must(uuid.NewV7()),
		AccountID:  &accountID,
		DomainID:   &domainID,
		Issuer:     "keyosk",
		Issued:     issued,
		Expires:    issued.Add(15 * time.Minute),
		Revoked:    revoked,
		Claims:     []byte(`{"sub":"oneill","aud":"sgc","ksk-pem":{"zatniktel":6}}`),
		SecretType: accountDomain.SecretTypeClient,
	}
}

func TestAuthHandler_AuthenticateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewAuthHandler(useCase, discardLogger())

		useCase.On("Authenticate", mock.Anything, &tokenDomain.AuthenticateInput{
			Domain:     "stargate",
			Username:   "oneill",
			Secret:     "jack-secret",
			SecretType: accountDomain.SecretTypeClient,
			Refresh:    true,
		}).Return(testIssueResult(true), nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/auth/stargate", dto.AuthenticateRequest{
			Username: "oneill", Secret: "jack-secret", SecretType: "client", Refresh: true,
		}, gin.Param{Key: "domain", Value: "stargate"})
		handler.AuthenticateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp dto.TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signed.jwt.value", resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, int64(900), resp.ExpiresIn)
		assert.Equal(t, "refresh-value", resp.RefreshToken)
		assert.Equal(t, int64(86400), resp.RefreshExpiresIn)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler := NewAuthHandler(setupTokenUseCase(t), discardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/v1/auth/stargate", bytes.NewBufferString("{"))
		c.Request.Header.Set("Content-Type", "application/json")
		handler.AuthenticateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_UnknownSecretType", func(t *testing.T) {
		handler := NewAuthHandler(setupTokenUseCase(t), discardLogger())

		c, w := createTestContext(http.MethodPost, "/v1/auth/stargate", dto.AuthenticateRequest{
			Username: "oneill", Secret: "jack-secret", SecretType: "shared",
		}, gin.Param{Key: "domain", Value: "stargate"})
		handler.AuthenticateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewAuthHandler(useCase, discardLogger())

		useCase.On("Authenticate", mock.Anything, mock.Anything).
			Return(nil, accountDomain.ErrInvalidCredentials).Once()

		c, w := createTestContext(http.MethodPost, "/v1/auth/stargate", dto.AuthenticateRequest{
			Username: "oneill", Secret: "wrong", SecretType: "client",
		}, gin.Param{Key: "domain", Value: "stargate"})
		handler.AuthenticateHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})
}

func TestAuthHandler_RefreshHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewAuthHandler(useCase, discardLogger())

		useCase.On("Refresh", mock.Anything, "stargate", "refresh-value").Return(testIssueResult(true), nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/auth/stargate/refresh",
			dto.RefreshRequest{RefreshToken: "refresh-value"}, gin.Param{Key: "domain", Value: "stargate"})
		handler.RefreshHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"refresh_token":"refresh-value"`)
	})

	t.Run("Error_MissingRefreshToken", func(t *testing.T) {
		handler := NewAuthHandler(setupTokenUseCase(t), discardLogger())

		c, w := createTestContext(http.MethodPost, "/v1/auth/stargate/refresh",
			dto.RefreshRequest{}, gin.Param{Key: "domain", Value: "stargate"})
		handler.RefreshHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidRefreshToken", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewAuthHandler(useCase, discardLogger())

		useCase.On("Refresh", mock.Anything, "stargate", "stale").
			Return(nil, tokenDomain.ErrInvalidRefreshToken).Once()

		c, w := createTestContext(http.MethodPost, "/v1/auth/stargate/refresh",
			dto.RefreshRequest{RefreshToken: "stale"}, gin.Param{Key: "domain", Value: "stargate"})
		handler.RefreshHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_RefreshDisabled", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewAuthHandler(useCase, discardLogger())

		useCase.On("Refresh", mock.Anything, "stargate", "refresh-value").
			Return(nil, tokenDomain.ErrRefreshDisabled).Once()

		c, w := createTestContext(http.MethodPost, "/v1/auth/stargate/refresh",
			dto.RefreshRequest{RefreshToken: "refresh-value"}, gin.Param{Key: "domain", Value: "stargate"})
		handler.RefreshHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAuthHandler_PublicKeyHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewAuthHandler(useCase, discardLogger())

		pem := []byte("-----BEGIN PUBLIC KEY-----\nMCowBQYDK2VwAyEA\n-----END PUBLIC KEY-----\n")
		useCase.On("PublicKey", mock.Anything).Return(pem, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/public-key", nil)
		handler.PublicKeyHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/x-pem-file", w.Header().Get("Content-Type"))
		assert.Equal(t, pem, w.Body.Bytes())
	})

	t.Run("Error_SymmetricSigner", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewAuthHandler(useCase, discardLogger())

		useCase.On("PublicKey", mock.Anything).Return(nil, tokenDomain.ErrPublicKeyUnavailable).Once()

		c, w := createTestContext(http.MethodGet, "/v1/public-key", nil)
		handler.PublicKeyHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBlacklistHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewBlacklistHandler(useCase, discardLogger())

		revoked := testTokenRecord(true)
		useCase.On("ListRevoked", mock.Anything).Return([]*tokenDomain.Token{revoked}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/blacklist", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.BlacklistResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, revoked.ID.String(), resp.Data[0].JTI)
	})

	t.Run("Success_Empty", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewBlacklistHandler(useCase, discardLogger())

		useCase.On("ListRevoked", mock.Anything).Return([]*tokenDomain.Token{}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/blacklist", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})
}

func TestBlacklistHandler_RevokeHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewBlacklistHandler(useCase, discardLogger())

		tokenID := uuid.Must(uuid.NewV7())
		useCase.On("Revoke", mock.Anything, tokenID).Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/blacklist", dto.RevokeRequest{JTI: tokenID.String()})
		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Error_InvalidJTI", func(t *testing.T) {
		handler := NewBlacklistHandler(setupTokenUseCase(t), discardLogger())

		c, w := createTestContext(http.MethodPost, "/v1/blacklist", dto.RevokeRequest{JTI: "not-a-uuid"})
		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_UnknownToken", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewBlacklistHandler(useCase, discardLogger())

		tokenID := uuid.Must(uuid.NewV7())
		useCase.On("Revoke", mock.Anything, tokenID).Return(tokenDomain.ErrTokenNotFound).Once()

		c, w := createTestContext(http.MethodPost, "/v1/blacklist", dto.RevokeRequest{JTI: tokenID.String()})
		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuditHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewAuditHandler(useCase, discardLogger())

		active := testTokenRecord(false)
		revoked := testTokenRecord(true)
		useCase.On("ListByDomain", mock.Anything, "stargate", 10, 5).
			Return([]*tokenDomain.Token{active, revoked}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/domains/stargate/audit?offset=10&limit=5", nil,
			gin.Param{Key: "ref", Value: "stargate"})
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.ListTokensResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "active", resp.Data[0].State)
		assert.Equal(t, "revoked", resp.Data[1].State)
		assert.JSONEq(t, string(active.Claims), string(resp.Data[0].Claims))
	})

	t.Run("Error_InvalidPagination", func(t *testing.T) {
		handler := NewAuditHandler(setupTokenUseCase(t), discardLogger())

		c, w := createTestContext(http.MethodGet, "/v1/domains/stargate/audit?limit=500", nil,
			gin.Param{Key: "ref", Value: "stargate"})
		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_UseCaseFailure", func(t *testing.T) {
		useCase := setupTokenUseCase(t)
		handler := NewAuditHandler(useCase, discardLogger())

		useCase.On("ListByDomain", mock.Anything, "stargate", 0, 50).
			Return(nil, errors.New("connection reset")).Once()

		c, w := createTestContext(http.MethodGet, "/v1/domains/stargate/audit", nil,
			gin.Param{Key: "ref", Value: "stargate"})
		handler.ListHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
