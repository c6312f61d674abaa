package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accountHTTP "github.com/allisson/keyosk/internal/account/http"
	accountMocks "github.com/allisson/keyosk/internal/account/usecase/mocks"
	aclHTTP "github.com/allisson/keyosk/internal/acl/http"
	aclMocks "github.com/allisson/keyosk/internal/acl/usecase/mocks"
	"github.com/allisson/keyosk/internal/config"
	"github.com/allisson/keyosk/internal/metrics"
	registryDomain "github.com/allisson/keyosk/internal/registry/domain"
	registryHTTP "github.com/allisson/keyosk/internal/registry/http"
	registryMocks "github.com/allisson/keyosk/internal/registry/usecase/mocks"
	tokenDomain "github.com/allisson/keyosk/internal/token/domain"
	tokenHTTP "github.com/allisson/keyosk/internal/token/http"
	tokenMocks "github.com/allisson/keyosk/internal/token/usecase/mocks"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestServer creates a test server without a database.
func createTestServer() *Server {
	return NewServer(nil, "localhost", 8080, discardLogger())
}

type routerFixture struct {
	server   *Server
	domains  *registryMocks.MockDomainUseCase
	accounts *accountMocks.MockAccountUseCase
	grants   *aclMocks.MockGrantUseCase
	tokens   *tokenMocks.MockTokenUseCase
}

func newRouterFixture(t *testing.T, cfg *config.Config) *routerFixture {
	t.Helper()
	logger := discardLogger()

	f := &routerFixture{
		server:   createTestServer(),
		domains:  &registryMocks.MockDomainUseCase{},
		accounts: &accountMocks.MockAccountUseCase{},
		grants:   &aclMocks.MockGrantUseCase{},
		tokens:   &tokenMocks.MockTokenUseCase{},
	}
	t.Cleanup(func() {
		f.domains.AssertExpectations(t)
		f.accounts.AssertExpectations(t)
		f.grants.AssertExpectations(t)
		f.tokens.AssertExpectations(t)
	})

	f.server.SetupRouter(t.Context(), cfg, Handlers{
		Domain:     registryHTTP.NewDomainHandler(f.domains, logger),
		Account:    accountHTTP.NewAccountHandler(f.accounts, logger),
		Grant:      aclHTTP.NewGrantHandler(f.grants, logger),
		Auth:       tokenHTTP.NewAuthHandler(f.tokens, logger),
		Blacklist:  tokenHTTP.NewBlacklistHandler(f.tokens, logger),
		Audit:      tokenHTTP.NewAuditHandler(f.tokens, logger),
		Verifier:   f.tokens,
		Authorizer: tokenHTTP.NewAuthorizer(f.domains, "keyosk", "admin", logger),
	}, nil)
	return f
}

func (f *routerFixture) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.server.GetHandler().ServeHTTP(w, req)
	return w
}

// TestHealthHandler tests the health check endpoint handler.
func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	t.Run("NotReady_NilDB", func(t *testing.T) {
		server := createTestServer()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not_ready", response["status"])
		components, ok := response["components"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "error", components["database"])
	})

	t.Run("Ready", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		dbMock.ExpectPing()

		server := NewServer(db, "localhost", 8080, discardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("NotReady_FailingCheck", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		dbMock.ExpectPing()

		server := NewServer(db, "localhost", 8080, discardLogger())
		server.AddReadinessCheck("redis", func(context.Context) error {
			return errors.New("connection refused")
		})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t,
			`{"status":"not_ready","components":{"database":"ok","redis":"error"}}`,
			w.Body.String())
	})
}

// TestCustomLoggerMiddleware tests the custom logging middleware.
func TestCustomLoggerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"test"}`, w.Body.String())

	requestID, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, requestID)
}

// TestRecoveryMiddleware tests Gin's built-in recovery middleware.
func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter(t *testing.T) {
	cfg := &config.Config{MetricsNamespace: "keyosk"}

	t.Run("HealthEndpoint", func(t *testing.T) {
		f := newRouterFixture(t, cfg)

		w := f.serve(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFoundEndpoint", func(t *testing.T) {
		f := newRouterFixture(t, cfg)

		w := f.serve(httptest.NewRequest(http.MethodGet, "/nonexistent", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("NoMetricsEndpoint", func(t *testing.T) {
		f := newRouterFixture(t, cfg)

		w := f.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("PublicKeyIsUnauthenticated", func(t *testing.T) {
		f := newRouterFixture(t, cfg)
		f.tokens.On("PublicKey", mock.Anything).Return([]byte("pem"), nil).Once()

		w := f.serve(httptest.NewRequest(http.MethodGet, "/v1/public-key", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("AdminRoutesRequireBearerToken", func(t *testing.T) {
		f := newRouterFixture(t, cfg)

		for _, path := range []string{"/v1/domains", "/v1/accounts", "/v1/domains/stargate/audit"} {
			w := f.serve(httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})

	t.Run("AdminRoutesRequireAction", func(t *testing.T) {
		f := newRouterFixture(t, cfg)
		f.tokens.On("Verify", mock.Anything, "signed.jwt").Return(&tokenDomain.Claims{
			Subject:  "oneill",
			Audience: "sgc",
		}, nil).Once()
		f.domains.On("Resolve", mock.Anything, "keyosk").Return(nil, registryDomain.ErrDomainNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/domains", nil)
		req.Header.Set("Authorization", "Bearer signed.jwt")
		w := f.serve(req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("AuthEndpointRateLimited", func(t *testing.T) {
		limited := &config.Config{
			MetricsNamespace:            "keyosk",
			RateLimitAuthEnabled:        true,
			RateLimitAuthRequestsPerSec: 1,
			RateLimitAuthBurst:          1,
		}
		f := newRouterFixture(t, limited)

		first := f.serve(httptest.NewRequest(http.MethodPost, "/v1/auth/stargate", nil))
		second := f.serve(httptest.NewRequest(http.MethodPost, "/v1/auth/stargate", nil))

		assert.Equal(t, http.StatusBadRequest, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
	})
}

// TestServer_ShutdownGracefully tests graceful server shutdown.
func TestServer_ShutdownGracefully(t *testing.T) {
	server := NewServer(nil, "localhost", 0, discardLogger())
	server.SetupRouter(t.Context(), &config.Config{}, Handlers{
		Auth:       tokenHTTP.NewAuthHandler(&tokenMocks.MockTokenUseCase{}, discardLogger()),
		Blacklist:  tokenHTTP.NewBlacklistHandler(&tokenMocks.MockTokenUseCase{}, discardLogger()),
		Authorizer: tokenHTTP.NewAuthorizer(&registryMocks.MockDomainUseCase{}, "keyosk", "admin", discardLogger()),
	}, nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}

func TestServer_StartWithoutRouter(t *testing.T) {
	assert.Error(t, createTestServer().Start(context.Background()))
}

// TestMetricsServer_Endpoints tests the metrics server endpoints.
func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider()
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
