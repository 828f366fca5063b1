package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/digistore/internal/pkg/auth"
	"github.com/polkiloo/digistore/internal/server/http/dto"
)

// AdminAuthorizer validates operator API keys.
type AdminAuthorizer interface {
	Authorize(presented string) error
}

// AdminRequired guards operator-only routes behind a bearer admin key.
func AdminRequired(authorizer AdminAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := authorizer.Authorize(extractBearer(c))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, pkgAuth.ErrAdminDisabled):
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "admin access disabled"})
		case errors.Is(err, pkgAuth.ErrInvalidAdminKey):
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		}
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
