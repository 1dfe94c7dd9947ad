package upload

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/response"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(response.MethodNotAllowed)
	NewHandler(svc, zap.NewNop()).RegisterRoutes(r.Group("/api"))
	return r
}

func postSign(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload/sign", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignEndpoint(t *testing.T) {
	r := newTestRouter(newTestService(&fakePresigner{}))

	w := postSign(r, `{"filename":"doc.pdf","contentType":"application/pdf","size":2048}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res SignResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "uploads/2025-06-15/fixed-uuid.pdf", res.Key)
	assert.NotEmpty(t, res.URL)
	assert.NotEmpty(t, res.ViewURL)
}

func TestSignEndpointErrors(t *testing.T) {
	r := newTestRouter(newTestService(&fakePresigner{}))

	w := postSign(r, `{"contentType":"application/pdf","size":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing filename")

	w = postSign(r, `{"filename":"x.exe","contentType":"application/x-msdownload","size":10}`)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = postSign(r, `{"filename":"x.png","contentType":"image/png","size":99999999}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = postSign(r, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignEndpointMethodNotAllowed(t *testing.T) {
	r := newTestRouter(newTestService(&fakePresigner{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/upload/sign", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
