package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

const (
	sessionCookie     = "cart_session"
	sessionContextKey = "cart_session_id"
	sessionMaxAge     = 60 * 60 * 24 * 90
)

// SessionMiddleware pins each browser to a stable session id via a cookie.
// The id keys the session's cart store and its persisted cart reference.
type SessionMiddleware struct {
	log    *logger.Logger
	secure bool
}

func NewSessionMiddleware(log *logger.Logger, secure bool) *SessionMiddleware {
	return &SessionMiddleware{
		log:    log.With("middleware", "SessionMiddleware"),
		secure: secure,
	}
}

func (m *SessionMiddleware) EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sid, sessionMaxAge, "/", "", m.secure, true)
			m.log.Debug("Issued new cart session", "session_id", sid)
		}
		c.Set(sessionContextKey, sid)
		c.Next()
	}
}

// SessionID returns the session id placed in the context by EnsureSession.
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(sessionContextKey); ok {
		if sid, ok := v.(string); ok {
			return sid
		}
	}
	return ""
}
