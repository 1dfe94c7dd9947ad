package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// All error responses share the envelope {"error": "...", "detail": "..."},
// with detail omitted when empty.

func errBody(message, detail string) gin.H {
	if detail == "" {
		return gin.H{"error": message}
	}
	return gin.H{"error": message, "detail": detail}
}

// OK sends a 200 JSON response.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errBody(message, ""))
}

// BadRequestDetail sends a 400 error response with a detail string.
func BadRequestDetail(c *gin.Context, message, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errBody(message, detail))
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, errBody("Method not allowed", ""))
}

// PayloadTooLarge sends a 413 error response.
func PayloadTooLarge(c *gin.Context, message, detail string) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errBody(message, detail))
}

// UnsupportedMediaType sends a 415 error response.
func UnsupportedMediaType(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, errBody(message, ""))
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, errBody(message, ""))
}

// InternalError sends a 500 error response with a generic message. The real
// error is expected to be logged by the caller, never returned to the client.
func InternalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, errBody("Internal error", ""))
}

// InternalErrorMsg sends a 500 error response with a specific message.
func InternalErrorMsg(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, errBody(message, ""))
}

// BadGateway sends a 502 error response carrying a truncated upstream diagnostic.
func BadGateway(c *gin.Context, message, detail string) {
	c.AbortWithStatusJSON(http.StatusBadGateway, errBody(message, detail))
}

// ServiceUnavailable sends a 503 error response.
func ServiceUnavailable(c *gin.Context, message, detail string) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, errBody(message, detail))
}
