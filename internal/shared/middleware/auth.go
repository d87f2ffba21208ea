package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"books-api/internal/shared/apperror"
	"books-api/internal/shared/response"
	"books-api/pkg/jwt"
)

const (
	identityKey = "identity"

	msgNoToken      = "no access token"
	msgInvalidToken = "invalid or expired token"
)

// TokenVerifier resolves a bearer token into identity claims.
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// Authenticate requires a valid bearer token and stores the resolved claims
// on the request context for the rest of the chain.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperror.Unauthenticated(msgNoToken))
			return
		}

		// A header without a usable token still goes through Verify and
		// fails the same way a forged one does.
		claims, err := verifier.Verify(bearerToken(authHeader))
		if err != nil {
			response.Error(c, &apperror.Error{
				Kind:    apperror.KindUnauthenticated,
				Message: msgInvalidToken,
				Err:     err,
			})
			return
		}

		c.Set(identityKey, claims)
		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// CurrentIdentity returns the claims stored by Authenticate.
func CurrentIdentity(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return ""
	}
	return strings.TrimSpace(token)
}
