package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystemEngine(h *SystemHandler) *gin.Engine {
	engine := router.NewEngine(router.EngineConfig{})
	router.NewRouter(engine).Register(SystemRoutes(h)).Setup()
	return engine
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("", "1.2.3")
	assert.Equal(t, "invoice-service", h.name)
	assert.Equal(t, "1.2.3", h.version)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_Root(t *testing.T) {
	engine := newSystemEngine(NewSystemHandler("invoice-service", "dev"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Success","message":"Hello World"}`, w.Body.String())
}

func TestSystemHandler_Health(t *testing.T) {
	engine := newSystemEngine(NewSystemHandler("invoice-service", "dev"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","message":"invoice-service"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	engine := newSystemEngine(NewSystemHandler("invoice-service", "1.0.0"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/info", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool               `json:"success"`
		Data    SystemInfoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "invoice-service", resp.Data.Name)
	assert.Equal(t, "1.0.0", resp.Data.Version)
	assert.Contains(t, resp.Data.GoVersion, "go")
	assert.NotEmpty(t, resp.Data.Uptime)
}

func TestSystemHandler_MethodNotAllowed(t *testing.T) {
	engine := newSystemEngine(NewSystemHandler("invoice-service", "dev"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
