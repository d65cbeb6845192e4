package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/service"
	"github.com/joseggch15/inboundoutbound-sub000/internal/sheet"
	pkgerrors "github.com/joseggch15/inboundoutbound-sub000/pkg/errors"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/response"
)

// PlanHandler spreadsheet bridge endpoints.
type PlanHandler struct {
	svc    service.PlanService
	travel service.TravelService
	logger *zap.Logger
}

func (h *PlanHandler) planError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrBadDate):
		response.BadRequest(c, response.CodeBadDate, err.Error())
	case errors.Is(err, pkgerrors.ErrInvertedRange):
		response.BadRequest(c, response.CodeInvertedRange, err.Error())
	case errors.Is(err, service.ErrPlanBadStatus):
		response.BadRequest(c, response.CodeBadStatus, err.Error())
	case errors.Is(err, service.ErrPlanNoWorkbook):
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
	case errors.Is(err, sheet.ErrArtifactMissing):
		response.NotFound(c, response.CodeArtifactMissing, err.Error())
	case errors.Is(err, sheet.ErrMalformedArtifact):
		response.Error(c, http.StatusUnprocessableEntity, response.CodeMalformedArtifact, err.Error())
	default:
		h.logger.Error("plan operation failed", zap.Error(err))
		response.InternalError(c)
	}
}

// Export POST /api/v1/plan/export
func (h *PlanHandler) Export(c *gin.Context) {
	resp, err := h.svc.Export(c.Request.Context(), currentIdentity(c))
	if err != nil {
		h.planError(c, err)
		return
	}
	response.OK(c, resp)
}

// Import POST /api/v1/plan/import
func (h *PlanHandler) Import(c *gin.Context) {
	resp, err := h.svc.Import(c.Request.Context(), currentIdentity(c))
	if err != nil {
		h.planError(c, err)
		return
	}
	response.OK(c, resp)
}

// WriteCells POST /api/v1/plan/cells
func (h *PlanHandler) WriteCells(c *gin.Context) {
	var req dto.WriteCellsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	if err := h.svc.WriteCells(c.Request.Context(), currentIdentity(c), &req); err != nil {
		h.planError(c, err)
		return
	}
	response.OK(c, nil)
}

// Conflicts GET /api/v1/plan/conflicts?badge=&name=&start_date=&end_date=
func (h *PlanHandler) Conflicts(c *gin.Context) {
	var req dto.ConflictRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	resp, err := h.svc.Conflicts(c.Request.Context(), &req)
	if err != nil {
		h.planError(c, err)
		return
	}
	response.OK(c, resp)
}

// Grid GET /api/v1/plan/grid
func (h *PlanHandler) Grid(c *gin.Context) {
	resp, err := h.svc.Grid(c.Request.Context())
	if err != nil {
		h.planError(c, err)
		return
	}
	response.OK(c, resp)
}

// GridEvents GET /api/v1/plan/events?start_date=&end_date=
// Derives travel events from the workbook grid instead of the ledger.
func (h *PlanHandler) GridEvents(c *gin.Context) {
	var req dto.TravelReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	grid, err := h.svc.TimelineGrid()
	if err != nil {
		h.planError(c, err)
		return
	}

	resp, err := h.travel.DeriveFromGrid(grid, req.StartDate, req.EndDate)
	if err != nil {
		h.planError(c, err)
		return
	}
	response.OK(c, resp)
}
