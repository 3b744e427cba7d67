package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

// userKey is where RequireAuth stores the resolved user in the gin context.
const userKey = "currentUser"

// UserSource resolves a token subject to a full user record.
type UserSource interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// RequireAuth extracts and verifies the bearer token, resolves its subject to
// a user and attaches it to the request context. Every failure mode — missing
// header, malformed token, bad signature, expiry, unknown subject — answers
// 401 without distinguishing the cause.
func RequireAuth(secret string, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		claims, err := utils.ValidateJWT(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthorized(c)
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := users.FindUserByID(c.Request.Context(), id)
		if err != nil || user == nil {
			abortUnauthorized(c)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireRoles answers 403 unless the authenticated user's role is in the
// allowed set. It assumes RequireAuth already ran on the route.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c)
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "User role " + string(user.Role) + " is not authorized to access this route",
		})
	}
}

// CurrentUser returns the user RequireAuth attached to the request, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   "Not authorized to access this route",
	})
}
