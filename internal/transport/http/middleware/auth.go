package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-hotseat/pkg/auth"
	"github.com/iamasit07/connect4-hotseat/pkg/httputil"
)

// TableAuthMiddleware only lets requests through whose token was issued for
// the table named by the :id route parameter.
func TableAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		tableID := c.Param("id")
		if err := auth.AuthorizeTable(tokenString, tableID, secret); err != nil {
			if errors.Is(err, auth.ErrTableMismatch) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token does not grant access to this table"})
				return
			}
			httputil.ClearTableCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("table_id", tableID)
		c.Next()
	}
}
