package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/utils"
)

// RequireRole must run after JWTAuth.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	allow := map[string]struct{}{}
	for _, r := range allowed {
		if r.Valid() {
			allow[r.Name()] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "you are not logged in, please log in to get access",
			})
			return
		}

		if _, ok := allow[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "you do not have permission to perform this action",
			})
			return
		}

		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc { return RequireRole(models.RoleAdmin) }
