package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopopti/pricing_backend/models"
	"github.com/shopopti/pricing_backend/utils"
)

// AuthMiddleware resolves the owner identity from a bearer token. Requests
// without an Authorization header pass through unauthenticated; handlers
// that require an owner reject them.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if auth == "" {
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, _ := validate.Claims.(*utils.JwtCustomClaim)
		if claim == nil || claim.ID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), auth)
		ctx = utils.SetUserIdInContext(ctx, claim.ID)
		ctx = utils.SetIsAdminInContext(ctx, claim.Role == models.UserRoleAdmin)
		if _, ok := utils.GetCorrelationIdFromContext(ctx); !ok {
			ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
