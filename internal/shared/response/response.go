package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"books-api/internal/shared/apperror"
)

// Response is the envelope shared by every endpoint.
type Response struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    interface{}           `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
	Error   string                `json:"error,omitempty"`
}

const internalErrorMessage = "internal server error"

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// Error converts err into the matching status and envelope, logs it and
// aborts the handler chain. Storage failures are logged in full and answered
// with a sanitized message.
func Error(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)

	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")

		c.AbortWithStatusJSON(status, Response{
			Success: false,
			Message: internalErrorMessage,
			Error:   internalErrorMessage,
		})
		return
	}

	log.Debug().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Int("status", status).
		Msg("Request rejected")

	body := Response{Success: false, Message: err.Error()}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
		body.Errors = appErr.Fields
	}
	c.AbortWithStatusJSON(status, body)
}
