// server/internal/api/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	sellerIDKey    = "seller_id"
	SellerIDHeader = "X-Seller-ID"
)

// DemoSeller identifies the acting seller. Until real accounts exist every
// request acts as demoSellerID unless it names a seller in X-Seller-ID.
func DemoSeller(demoSellerID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(SellerIDHeader))
		if id == "" {
			id = demoSellerID
		}
		c.Set(sellerIDKey, id)
		c.Next()
	}
}

// SellerID returns the seller set by DemoSeller, or "" outside that middleware.
func SellerID(c *gin.Context) string {
	return c.GetString(sellerIDKey)
}
