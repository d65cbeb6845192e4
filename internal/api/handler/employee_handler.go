package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/service"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/response"
)

// EmployeeHandler registry endpoints.
type EmployeeHandler struct {
	svc    service.EmployeeService
	logger *zap.Logger
}

// Register POST /api/v1/employees
func (h *EmployeeHandler) Register(c *gin.Context) {
	var req dto.RegisterEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), currentIdentity(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrBadgeExists) {
			// the message names the colliding badge
			response.Conflict(c, response.CodeBadgeExists, err.Error())
			return
		}
		h.logger.Error("register employee failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.Created(c, resp)
}

// List GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), currentIdentity(c).Source)
	if err != nil {
		h.logger.Error("list employees failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// GetByBadge GET /api/v1/employees/:badge
func (h *EmployeeHandler) GetByBadge(c *gin.Context) {
	resp, err := h.svc.GetByBadge(c.Request.Context(), currentIdentity(c).Source, c.Param("badge"))
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, response.CodeEmployeeNotFound, err.Error())
			return
		}
		h.logger.Error("get employee failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Update PUT /api/v1/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), currentIdentity(c), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmployeeNotFound):
			response.NotFound(c, response.CodeEmployeeNotFound, err.Error())
		case errors.Is(err, service.ErrBadgeExists):
			response.Conflict(c, response.CodeBadgeExists, err.Error())
		default:
			h.logger.Error("update employee failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}

	response.OK(c, resp)
}

// Delete DELETE /api/v1/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentIdentity(c), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, response.CodeEmployeeNotFound, err.Error())
			return
		}
		h.logger.Error("delete employee failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Import POST /api/v1/employees/import (multipart file upload)
func (h *EmployeeHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			// BodyLimit turns this into a 413 after the handler returns
			_ = c.Error(err)
			return
		}
		response.BadRequest(c, response.CodeInvalidParams, "missing uploaded file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "cannot open uploaded file")
		return
	}
	defer file.Close()

	rows, err := h.svc.ParseImportFile(file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportNoData),
			errors.Is(err, service.ErrImportBadHeader),
			errors.Is(err, service.ErrImportTooManyRows):
			response.BadRequest(c, response.CodeInvalidParams, err.Error())
		default:
			h.logger.Error("parse import file failed", zap.Error(err))
			response.BadRequest(c, response.CodeInvalidParams, err.Error())
		}
		return
	}

	resp, err := h.svc.ImportEmployees(c.Request.Context(), currentIdentity(c), rows)
	if err != nil {
		h.logger.Error("import employees failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, resp)
}
