package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(t *testing.T, enabled bool, origins string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	if middleware := createCORSMiddleware(enabled, origins, slog.Default()); middleware != nil {
		router.Use(middleware)
	}
	router.GET("/v1/public-key", func(c *gin.Context) {
		c.String(http.StatusOK, "pem")
	})
	router.POST("/v1/auth/:domain", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func TestCreateCORSMiddleware(t *testing.T) {
	assert.Nil(t, createCORSMiddleware(false, "https://sgc.example.com", slog.Default()))
	assert.Nil(t, createCORSMiddleware(true, "", slog.Default()))
	assert.Nil(t, createCORSMiddleware(true, " , ", slog.Default()))
	assert.NotNil(t, createCORSMiddleware(true, "https://sgc.example.com", slog.Default()))
	assert.NotNil(t, createCORSMiddleware(true, "*", slog.Default()))
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "Empty", input: "", want: nil},
		{name: "Single", input: "https://sgc.example.com", want: []string{"https://sgc.example.com"}},
		{
			name:  "TrimsSpacesAndSlashes",
			input: " https://sgc.example.com/ ,https://atlantis.example.com ,,",
			want:  []string{"https://sgc.example.com", "https://atlantis.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOrigins(tt.input))
		})
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	router := newCORSRouter(t, true, "https://sgc.example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/public-key", nil)
	req.Header.Set("Origin", "https://sgc.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://sgc.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_UnknownOriginRejected(t *testing.T) {
	router := newCORSRouter(t, true, "https://sgc.example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/public-key", nil)
	req.Header.Set("Origin", "https://goauld.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllOrigins(t *testing.T) {
	router := newCORSRouter(t, true, "*")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/public-key", nil)
	req.Header.Set("Origin", "https://tollana.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Disabled(t *testing.T) {
	router := newCORSRouter(t, false, "https://sgc.example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/public-key", nil)
	req.Header.Set("Origin", "https://sgc.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightOnAuthenticate(t *testing.T) {
	router := newCORSRouter(t, true, "https://sgc.example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/auth/stargate", nil)
	req.Header.Set("Origin", "https://sgc.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
}
