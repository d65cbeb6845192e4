package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/pkg/jwt"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/redis"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/response"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxClaims   = "claims"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxSource   = "source"
)

// JWTAuth verifies the bearer token and, when Redis is available, rejects
// logged-out tokens. A nil Redis client skips the blacklist check.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, response.CodeUnauthorized, "authorization header must be: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			if err == jwt.ErrTokenExpired {
				response.Unauthorized(c, response.CodeTokenExpired, "token expired")
			} else {
				response.Unauthorized(c, response.CodeUnauthorized, "token invalid")
			}
			c.Abort()
			return
		}

		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// blacklist outage must not lock every operator out
				logger.Warn("blacklist check failed", zap.Error(err))
			} else if blacklisted {
				response.Unauthorized(c, response.CodeUnauthorized, "token has been logged out")
				c.Abort()
				return
			}
		}

		c.Set(CtxClaims, claims)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxSource, claims.Source)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if !allowed[role] {
			response.Forbidden(c, response.CodeForbidden, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
