package middleware

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gin-gonic/gin"
)

// Session keys identify anonymous shoppers so their cart survives
// between requests.
const (
	SessionKeyHeader  = "X-Session-Key"
	SessionKeyContext = "session_key"
	sessionCookieName = "shop_session"
	sessionCookieAge  = 30 * 24 * 3600 // seconds
)

// Session assigns every request a session key, reading it from the
// X-Session-Key header or the session cookie and minting one when
// neither is present. The key is echoed back on both channels.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(SessionKeyHeader)
		if key == "" {
			if cookie, err := c.Cookie(sessionCookieName); err == nil {
				key = cookie
			}
		}
		if key == "" || len(key) > 64 {
			key = newSessionKey()
		}

		c.Set(SessionKeyContext, key)
		c.Writer.Header().Set(SessionKeyHeader, key)
		c.SetCookie(sessionCookieName, key, sessionCookieAge, "/", "", false, true)
		c.Next()
	}
}

// GetSessionKey retrieves the session key assigned to the request
func GetSessionKey(c *gin.Context) string {
	if key, exists := c.Get(SessionKeyContext); exists {
		if s, ok := key.(string); ok {
			return s
		}
	}
	return ""
}

func newSessionKey() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)
}
