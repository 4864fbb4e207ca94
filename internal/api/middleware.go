package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storelab/storefront/internal/identity"
	"github.com/storelab/storefront/pkg/apierr"
	"github.com/storelab/storefront/pkg/metrics"
)

const identityKey = "identity"

// RequestID tags every request with a correlation id, generating one
// when the client did not send it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

// Observe records request counts and latency per route.
func Observe(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// Authenticate extracts the caller's identity from the session cookie
// or a bearer token. Routes behind it always see a verified identity.
func Authenticate(secret, sessionKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionKey)
		if err != nil || token == "" {
			auth := c.GetHeader("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if token == "" {
			respondError(c, apierr.Unauthorized("You must be logged in to access this resource."))
			c.Abort()
			return
		}

		id, err := identity.FromToken(secret, token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireRoles denies callers whose role is outside the required set.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := callerIdentity(c)
		if !identity.Allowed(id, roles...) {
			respondError(c, apierr.Forbidden("You do not have permission to access this resource."))
			c.Abort()
			return
		}
		c.Next()
	}
}

func callerIdentity(c *gin.Context) identity.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return identity.Identity{}
	}
	id, _ := v.(identity.Identity)
	return id
}
