package middleware

import "github.com/gin-gonic/gin"

// requestIDKey is the key used to store the request ID in the Gin context.
const requestIDKey = contextKey("requestID")

// clientIDHeader lets a dashboard identify itself for analytics; it is not authentication.
const clientIDHeader = "X-Client-ID"

// GetRequestIDFromContext retrieves the request ID set by StructuredLoggingMiddleware.
func GetRequestIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(requestIDKey))
	if !exists {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}

// GetClientID returns the caller's self-declared client ID, falling back to its IP address.
func GetClientID(c *gin.Context) string {
	if id := c.GetHeader(clientIDHeader); id != "" {
		return id
	}
	return c.ClientIP()
}
