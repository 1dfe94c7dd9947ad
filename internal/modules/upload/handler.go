package upload

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andrew-zhouu/unjargon-ai/internal/pkg/response"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	routes := rg.Group("", mw...)
	routes.POST("/upload/sign", h.sign)
}

func (h *Handler) sign(c *gin.Context) {
	var req SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}

	result, err := h.svc.Sign(c.Request.Context(), req)
	if err != nil {
		h.writeSignError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) writeSignError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingFilename):
		response.BadRequest(c, "Missing filename")
	case errors.Is(err, ErrFilenameTooLong):
		response.BadRequest(c, fmt.Sprintf("Filename is limited to %d characters", MaxFilenameLen))
	case errors.Is(err, ErrUnsupportedType):
		response.UnsupportedMediaType(c, "Unsupported file type. Use JPEG, PNG, WebP, HEIC, PDF, or plain text.")
	case errors.Is(err, ErrInvalidSize):
		response.PayloadTooLarge(c, "File too large", fmt.Sprintf("Uploads are limited to %d bytes.", MaxUploadBytes))
	case errors.Is(err, ErrNotConfigured):
		response.InternalErrorMsg(c, "Uploads are not configured on this server")
	default:
		h.logger.Error("presign failed", zap.Error(err))
		response.InternalError(c)
	}
}
