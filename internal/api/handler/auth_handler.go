package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/service"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/response"
)

// AuthHandler session and account endpoints.
type AuthHandler struct {
	svc    service.AuthService
	logger *zap.Logger
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, response.CodeUnauthorized, err.Error())
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, resp)
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Unauthorized(c, response.CodeUnauthorized, "no session")
		return
	}
	if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		response.Unauthorized(c, response.CodeUnauthorized, "no session")
		return
	}
	response.OK(c, h.svc.Me(claims))
}

// CreateAccount POST /api/v1/auth/accounts (admin)
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	if err := h.svc.CreateAccount(c.Request.Context(), currentIdentity(c), &req); err != nil {
		if errors.Is(err, service.ErrUsernameExists) {
			response.Conflict(c, response.CodeUserExists, err.Error())
			return
		}
		h.logger.Error("create account failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.Created(c, nil)
}
