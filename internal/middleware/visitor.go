package middleware

import (
	"academy_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const visitorCookieMaxAge = 2 * 365 * 24 * 60 * 60 // two years, effectively sticky

// VisitorMiddleware assigns every browser a stable visitor ID cookie. The
// gate flags and the purchase token hang off this ID, preserving the
// per-browser, unsynced semantics of the old client-side storage.
func VisitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(util.VisitorCookie)
		if err != nil || id == "" {
			id = uuid.New().String()
			c.SetCookie(util.VisitorCookie, id, visitorCookieMaxAge, "/", "", false, true)
		}
		c.Set("visitorID", id)
		c.Next()
	}
}

// VisitorID returns the visitor ID set by VisitorMiddleware, or "".
func VisitorID(c *gin.Context) string {
	return c.GetString("visitorID")
}
