package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"books-api/internal/shared/apperror"
	"books-api/internal/shared/response"
)

// Recovery turns a panic into a sanitized 500 envelope. The panic value and
// stack are logged by response.Error along with the request id.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			cause := fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
			response.Error(c, apperror.Storage("panic recovered", cause))
		}()

		c.Next()
	}
}
