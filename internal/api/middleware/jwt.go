package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yoockh/jobportal/internal/auth"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// UserLoader resolves a token subject to a live account.
type UserLoader interface {
	Authenticate(ctx context.Context, userID string) (*models.User, error)
}

// JWTAuth verifies the bearer token and loads its user, so deleted or
// deactivated accounts are rejected even with an unexpired token. The role
// set on the context is the stored one, not the token's.
func JWTAuth(tokens *auth.Manager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "you are not logged in, please log in to get access",
			})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "invalid token",
			})
			return
		}

		u, err := users.Authenticate(c.Request.Context(), claims.Subject)
		if err != nil {
			var ae *utils.AppError
			if errors.As(err, &ae) && ae.Code == utils.CodeUnauthorized {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{Code: ae.Code, Message: ae.Message})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: http.StatusText(http.StatusInternalServerError),
			})
			return
		}

		c.Set("user_id", u.ID.Hex())
		c.Set("role", u.Role.Name())
		c.Next()
	}
}

// bearerToken reads the Authorization header. Websocket upgrades may pass
// the token as ?token= since browsers cannot set headers on them.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if websocket.IsWebSocketUpgrade(c.Request) {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}
