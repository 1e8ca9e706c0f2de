package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pubs-backend/internal/shared"
)

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success responses
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

// FromError map lỗi domain sang HTTP status + code. Lỗi hệ thống không lộ message ra ngoài.
func FromError(c *gin.Context, err error) {
	status := shared.ToHTTPStatus(err)
	code := shared.ToErrorCode(err)

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).Msg("request failed")
		ErrorResponse(c, status, code, "Internal server error")
		return
	}

	ErrorResponse(c, status, code, err.Error())
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, shared.ErrCodeInvalidArgument, message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, shared.ErrCodeNotFound, message)
}
