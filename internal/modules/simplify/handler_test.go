package simplify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/response"
	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/upstream"
)

// newFakeModel serves both wire shapes of the chat-completions endpoint:
// event-stream frames for streaming requests, a JSON completion otherwise.
func newFakeModel(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		var req struct {
			Stream bool `json:"stream"`
		}
		_ = json.Unmarshal(body, &req)

		if req.Stream {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, piece := range strings.SplitAfter(content, " ") {
				fmt.Fprint(w, frame(piece))
			}
			fmt.Fprint(w, "data: [DONE]\n")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestRouter(upstreamURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(response.MethodNotAllowed)

	client := upstream.New(upstream.Config{APIKey: "test-key", Endpoint: upstreamURL})
	h := NewHandler(NewService(client, zap.NewNop()), zap.NewNop())
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSimplifyStreamsModelOutput(t *testing.T) {
	srv := newFakeModel(t, "Hello world")
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := postJSON(r, "/api/simplify", `{"text":"explain this clause to me please in detail"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))
	assert.Equal(t, "Hello world", w.Body.String())
}

func TestSimplifyAcceptsRawTextBody(t *testing.T) {
	srv := newFakeModel(t, "ok")
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/simplify", strings.NewReader("plain body text goes straight through"))
	req.Header.Set("Content-Type", "text/plain")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestSimplifyNonStreamingRepairs(t *testing.T) {
	srv := newFakeModel(t, "Summary: the short version")
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := postJSON(r, "/api/simplify?stream=false", `{"text":"some reasonably sized input text here"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Simplified string `json:"simplified"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Simplified, "1. Summary\nthe short version")
	assert.Contains(t, body.Simplified, "2. Main Points\nN/A")
}

func TestSimplifyMissingText(t *testing.T) {
	r := newTestRouter("http://127.0.0.1:0")

	w := postJSON(r, "/api/simplify", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `Missing \"text\" string.`)
}

func TestSimplifyInputTooLarge(t *testing.T) {
	r := newTestRouter("http://127.0.0.1:0")

	big, _ := json.Marshal(map[string]string{"text": strings.Repeat("a", MaxTextChars+1)})
	w := postJSON(r, "/api/simplify", string(big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "Input too large")
	assert.Contains(t, w.Body.String(), "10,000")
	assert.Contains(t, w.Body.String(), "10,001")
}

func TestSimplifyMethodNotAllowed(t *testing.T) {
	r := newTestRouter("http://127.0.0.1:0")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/simplify", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "Method not allowed")
}

func TestSimplifyUpstreamFailureIsBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := postJSON(r, "/api/simplify", `{"text":"anything at all long enough to not be short"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Upstream model error")
	assert.Contains(t, w.Body.String(), "upstream exploded")
}

func TestSimplifyMissingAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	client := upstream.New(upstream.Config{})
	h := NewHandler(NewService(client, zap.NewNop()), zap.NewNop())
	h.RegisterRoutes(r.Group("/api"))

	w := postJSON(r, "/api/simplify", `{"text":"some reasonably sized input text here"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "OPENAI_API_KEY")
}

func TestAnalyzeImageMissingSource(t *testing.T) {
	r := newTestRouter("http://127.0.0.1:0")

	w := postJSON(r, "/api/analyze-image", `{"level":"beginner"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing imageUrl or dataUrl")
}

func TestAnalyzeImageInvalidDataURL(t *testing.T) {
	r := newTestRouter("http://127.0.0.1:0")

	w := postJSON(r, "/api/analyze-image", `{"dataUrl":"not-a-data-url"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid dataUrl format")
}

func TestAnalyzeImageUnsupportedType(t *testing.T) {
	r := newTestRouter("http://127.0.0.1:0")

	w := postJSON(r, "/api/analyze-image", `{"dataUrl":"data:image/gif;base64,AAAA"}`)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestAnalyzeImageRepairsOutput(t *testing.T) {
	srv := newFakeModel(t, "Summary: a chart of quarterly revenue")
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := postJSON(r, "/api/analyze-image", `{"dataUrl":"data:image/png;base64,AAAA","level":"beginner"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Simplified string `json:"simplified"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Simplified, "1. Summary\na chart of quarterly revenue")
	assert.Contains(t, body.Simplified, "2. Main Points\nN/A")
	assert.Contains(t, body.Simplified, "3. Helpful Definitions\nN/A")
}

func TestAnalyzeImageDownloadFailure(t *testing.T) {
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer imgSrv.Close()
	r := newTestRouter("http://127.0.0.1:0")

	w := postJSON(r, "/api/analyze-image", fmt.Sprintf(`{"imageUrl":%q}`, imgSrv.URL+"/missing.png"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to download image (status 404)")
}

func TestSimplifyDocumentStreamsByDefault(t *testing.T) {
	srv := newFakeModel(t, "streamed document output")
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := postJSON(r, "/api/simplify-document", `{"text":"full extracted document text"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "streamed document output", w.Body.String())
}

func TestSimplifyDocumentNonStreamingRepairs(t *testing.T) {
	srv := newFakeModel(t, "3. Helpful Definitions\nAPR: a rate\n\n1. Summary\nThe gist.\n\n2. Main Points\n- a point")
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := postJSON(r, "/api/simplify-document", `{"text":"full extracted document text","stream":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Simplified string `json:"simplified"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t,
		"1. Summary\nThe gist.\n\n2. Main Points\n- a point\n\n3. Helpful Definitions\n- **APR**: a rate",
		body.Simplified)
}

func TestSimplifyDocumentAcceptsPDFTextAlias(t *testing.T) {
	srv := newFakeModel(t, "ok")
	defer srv.Close()
	r := newTestRouter(srv.URL)

	w := postJSON(r, "/api/simplify-document", `{"pdfText":"text extracted from a pdf"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestSimplifyDocumentMissingText(t *testing.T) {
	r := newTestRouter("http://127.0.0.1:0")

	w := postJSON(r, "/api/simplify-document", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "0", groupDigits(0))
	assert.Equal(t, "999", groupDigits(999))
	assert.Equal(t, "1,000", groupDigits(1000))
	assert.Equal(t, "10,000", groupDigits(10000))
	assert.Equal(t, "3,145,728", groupDigits(3145728))
}
