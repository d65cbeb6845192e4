package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/joseggch15/inboundoutbound-sub000/internal/api/middleware"
	"github.com/joseggch15/inboundoutbound-sub000/internal/service"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/jwt"
)

// currentIdentity reads the operator identity the auth middleware stored.
func currentIdentity(c *gin.Context) service.Identity {
	return service.Identity{
		Username: c.GetString(middleware.CtxUsername),
		Role:     c.GetString(middleware.CtxRole),
		Source:   c.GetString(middleware.CtxSource),
	}
}

// currentClaims reads the verified token claims, nil outside the auth group.
func currentClaims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(middleware.CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}
