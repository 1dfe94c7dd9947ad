package simplify

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/response"
	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/upstream"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the simplification endpoints on rg. The extra
// middleware runs ahead of each handler; the caller passes the per-route
// quota limiter through it.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	routes := rg.Group("", mw...)
	routes.POST("/simplify", h.simplify)
	routes.POST("/analyze-image", h.analyzeImage)
	routes.POST("/simplify-document", h.simplifyDocument)
}

func (h *Handler) simplify(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		response.BadRequest(c, "Unable to read request body")
		return
	}

	req, ok := ParseRequest(c.ContentType(), body)
	if !ok {
		response.BadRequest(c, `Missing "text" string.`)
		return
	}
	if len(req.Text) > MaxTextChars {
		response.PayloadTooLarge(c, "Input too large",
			fmt.Sprintf("Text is limited to %s characters; got %s.", groupDigits(MaxTextChars), groupDigits(len(req.Text))))
		return
	}

	if c.Query("stream") == "false" {
		out, err := h.svc.Simplify(c.Request.Context(), req)
		if err != nil {
			h.writeUpstreamError(c, err)
			return
		}
		response.OK(c, gin.H{"simplified": out})
		return
	}

	stream, err := h.svc.Stream(c.Request.Context(), req)
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}
	defer stream.Close()

	h.relay(c, stream)
}

type imageRequest struct {
	ImageURL string `json:"imageUrl"`
	DataURL  string `json:"dataUrl"`
	Level    string `json:"level"`
}

func (h *Handler) analyzeImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}
	if req.ImageURL == "" && req.DataURL == "" {
		response.BadRequest(c, "Missing imageUrl or dataUrl")
		return
	}

	dataURL := req.DataURL
	if dataURL != "" {
		if err := ValidateDataURL(dataURL); err != nil {
			h.writeImageError(c, err)
			return
		}
	} else {
		resolved, err := h.svc.ResolveImage(c.Request.Context(), req.ImageURL)
		if err != nil {
			h.writeImageError(c, err)
			return
		}
		dataURL = resolved
	}

	out, err := h.svc.AnalyzeImage(c.Request.Context(), dataURL, req.Level)
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}
	response.OK(c, gin.H{"simplified": out})
}

// documentRequest accepts the current "text" field and the older "pdfText"
// name still sent by cached clients.
type documentRequest struct {
	Text    string `json:"text"`
	PDFText string `json:"pdfText"`
	Domain  string `json:"domain"`
	Level   string `json:"level"`
	Stream  *bool  `json:"stream"`
}

func (h *Handler) simplifyDocument(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}
	text := req.Text
	if text == "" {
		text = req.PDFText
	}
	if text == "" {
		response.BadRequest(c, `Missing "text" string.`)
		return
	}

	parsed := Request{Text: text, Domain: req.Domain, Level: req.Level}

	if req.Stream != nil && !*req.Stream {
		out, err := h.svc.SimplifyDocument(c.Request.Context(), parsed)
		if err != nil {
			h.writeUpstreamError(c, err)
			return
		}
		response.OK(c, gin.H{"simplified": out})
		return
	}

	stream, err := h.svc.StreamDocument(c.Request.Context(), parsed)
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}
	defer stream.Close()

	h.relay(c, stream)
}

// relay copies model deltas to the client as unbuffered plain text.
func (h *Handler) relay(c *gin.Context, stream io.Reader) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if err := RelayStream(stream, c.Writer, c.Writer.Flush); err != nil {
		// Headers are already out; all we can do is cut the stream short.
		h.logger.Warn("stream relay aborted", zap.Error(err))
	}
}

func (h *Handler) writeUpstreamError(c *gin.Context, err error) {
	var statusErr *upstream.StatusError
	switch {
	case errors.Is(err, upstream.ErrMissingAPIKey):
		response.InternalErrorMsg(c, "Server missing OPENAI_API_KEY")
	case errors.As(err, &statusErr):
		response.BadGateway(c, "Upstream model error", statusErr.Body)
	default:
		h.logger.Error("upstream request failed", zap.Error(err))
		response.InternalError(c)
	}
}

func (h *Handler) writeImageError(c *gin.Context, err error) {
	var fetchErr *ImageFetchError
	switch {
	case errors.As(err, &fetchErr):
		response.BadRequestDetail(c,
			fmt.Sprintf("Failed to download image (status %d)", fetchErr.StatusCode), fetchErr.Detail)
	case errors.Is(err, ErrInvalidDataURL):
		response.BadRequest(c, "Invalid dataUrl format")
	case errors.Is(err, ErrUnsupportedImageType):
		response.UnsupportedMediaType(c, "Unsupported image type. Use JPEG, PNG, WebP, or PDF.")
	case errors.Is(err, ErrImageTooLarge):
		response.PayloadTooLarge(c, "Image too large", fmt.Sprintf("Images are limited to %s bytes.", groupDigits(MaxImageBytes)))
	default:
		h.logger.Warn("image fetch failed", zap.Error(err))
		response.BadRequest(c, "Failed to download image")
	}
}

// groupDigits renders n with comma separators, e.g. 10000 -> "10,000".
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return string(out)
}
