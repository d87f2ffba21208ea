package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"books-api/internal/shared/apperror"
	"books-api/internal/shared/response"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	msgInsufficientPrivilege = "insufficient privilege"
)

// RequireRole lets the request through only when Authenticate resolved an
// identity carrying role. A missing identity is denied as well.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok || identity.Role != role {
			response.Error(c, apperror.Forbidden(msgInsufficientPrivilege))
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if user has admin role
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}

// RequireSelfOrAdmin restricts profile routes to the account named by the
// path parameter, or to an admin.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			response.Error(c, apperror.Forbidden(msgInsufficientPrivilege))
			return
		}
		if identity.Role == RoleAdmin {
			c.Next()
			return
		}

		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || id != identity.UserID {
			response.Error(c, apperror.Forbidden(msgInsufficientPrivilege))
			return
		}

		c.Next()
	}
}
