package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrisight/paddy/internal/auth"
)

const identityKey = "identity"

// identityMiddleware resolves the optional bearer credential into an
// Identity. Credential validity is an upstream concern: a missing or
// unverifiable token simply means an anonymous caller, it never rejects
// the request.
func (s *Server) identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" || s.cfg.Auth.JWTSecret == "" {
			c.Next()
			return
		}

		id, err := auth.VerifyToken(token, []byte(s.cfg.Auth.JWTSecret))
		if err != nil {
			s.log.Debug("ignoring unverifiable bearer token", zap.Error(err))
			c.Next()
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func (s *Server) identity(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.Identity{}
}

// requireAdmin guards the admin group.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.identity(c).Admin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
