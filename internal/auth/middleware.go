package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/academy-console/internal/pkg/apperror"
	"github.com/nekogravitycat/academy-console/internal/pkg/response"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, ErrMissingToken)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			abort(c, ErrMalformedToken)
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			abort(c, apperror.WrapAs(err, ErrInvalidToken))
			return
		}

		// Store staff info into Gin context for later handlers.
		c.Set(staffIDKey, claims.StaffID)
		c.Set(staffEmailKey, claims.Email)

		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}
