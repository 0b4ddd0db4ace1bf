package middleware

import "github.com/gin-gonic/gin"

// NoCache returns a middleware that disables intermediary and client caching
// of API responses. SLA resolution must always reflect the current rule set,
// so stale cached responses are never acceptable.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
