package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/service"
	pkgerrors "github.com/joseggch15/inboundoutbound-sub000/pkg/errors"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/response"
)

// RosterHandler duty ledger endpoints.
type RosterHandler struct {
	svc    service.RosterService
	logger *zap.Logger
}

// rosterError maps the ledger sentinels onto HTTP envelopes.
func (h *RosterHandler) rosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrBadDate):
		response.BadRequest(c, response.CodeBadDate, err.Error())
	case errors.Is(err, pkgerrors.ErrInvertedRange):
		response.BadRequest(c, response.CodeInvertedRange, err.Error())
	case errors.Is(err, service.ErrRosterBadStatus):
		response.BadRequest(c, response.CodeBadStatus, err.Error())
	case errors.Is(err, service.ErrRosterEmployeeNotFound):
		response.NotFound(c, response.CodeEmployeeNotFound, err.Error())
	default:
		h.logger.Error("roster operation failed", zap.Error(err))
		response.InternalError(c)
	}
}

// MarkRange POST /api/v1/roster/mark
func (h *RosterHandler) MarkRange(c *gin.Context) {
	var req dto.MarkRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	resp, err := h.svc.MarkRange(c.Request.Context(), currentIdentity(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrRosterPartialWrite) {
			// completed days stay committed; the count tells the caller how far
			// the write got
			response.ErrorWithDetails(c, http.StatusInternalServerError, response.CodePartialWrite, err.Error(),
				"days_written="+strconv.Itoa(resp.DaysWritten))
			return
		}
		h.rosterError(c, err)
		return
	}

	response.OK(c, resp)
}

// ClearRange POST /api/v1/roster/clear
func (h *RosterHandler) ClearRange(c *gin.Context) {
	var req dto.ClearRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	resp, err := h.svc.ClearRange(c.Request.Context(), currentIdentity(c), &req)
	if err != nil {
		h.rosterError(c, err)
		return
	}

	response.OK(c, resp)
}

// ReadRange GET /api/v1/roster/:badge?start_date=&end_date=
func (h *RosterHandler) ReadRange(c *gin.Context) {
	start := c.Query("start_date")
	end := c.Query("end_date")
	if start == "" || end == "" {
		response.BadRequest(c, response.CodeInvalidParams, "start_date and end_date are required")
		return
	}

	days, err := h.svc.ReadRange(c.Request.Context(), currentIdentity(c).Source, c.Param("badge"), start, end)
	if err != nil {
		h.rosterError(c, err)
		return
	}

	response.OK(c, days)
}

// List GET /api/v1/roster
func (h *RosterHandler) List(c *gin.Context) {
	records, err := h.svc.ListBySource(c.Request.Context(), currentIdentity(c).Source)
	if err != nil {
		h.rosterError(c, err)
		return
	}
	response.OK(c, records)
}

// Operations GET /api/v1/roster/operations?offset=&limit=
func (h *RosterHandler) Operations(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ops, total, err := h.svc.Operations(c.Request.Context(), offset, limit)
	if err != nil {
		h.rosterError(c, err)
		return
	}

	response.OK(c, gin.H{"items": ops, "total": total})
}
