// Package request holds the binding helpers shared by the HTTP handlers.
package request

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"books-api/internal/shared/apperror"
	"books-api/internal/shared/pagination"
)

// Validatable is implemented by every request DTO.
type Validatable interface {
	Validate() error
}

// BindJSON decodes the body into dest and validates it. An empty body
// decodes to the zero value, so a bare PATCH reaches the service as a no-op.
func BindJSON(c *gin.Context, dest Validatable) error {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		return apperror.Validation("invalid request body", apperror.FieldError{
			Field:   "body",
			Message: err.Error(),
		})
	}
	return apperror.FromValidation(dest.Validate())
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.Validation("invalid "+name, apperror.FieldError{
			Field:   name,
			Message: name + " must be a positive integer",
		})
	}
	return id, nil
}

// Page reads the page and limit query parameters.
func Page(c *gin.Context) (pagination.Params, error) {
	return pagination.Parse(c.Query("page"), c.Query("limit"))
}
