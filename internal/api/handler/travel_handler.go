package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/internal/dto"
	"github.com/joseggch15/inboundoutbound-sub000/internal/service"
	pkgerrors "github.com/joseggch15/inboundoutbound-sub000/pkg/errors"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/response"
)

// TravelHandler travel derivation and report endpoints.
type TravelHandler struct {
	svc    service.TravelService
	logger *zap.Logger
}

func (h *TravelHandler) travelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrBadDate):
		response.BadRequest(c, response.CodeBadDate, err.Error())
	case errors.Is(err, pkgerrors.ErrInvertedRange):
		response.BadRequest(c, response.CodeInvertedRange, err.Error())
	case errors.Is(err, service.ErrRosterEmployeeNotFound):
		response.NotFound(c, response.CodeEmployeeNotFound, err.Error())
	case errors.Is(err, service.ErrTravelNoData):
		// a valid outcome, not a failure
		response.Error(c, http.StatusUnprocessableEntity, response.CodeNoData, err.Error())
	default:
		h.logger.Error("travel operation failed", zap.Error(err))
		response.InternalError(c)
	}
}

// Derive GET /api/v1/travel/events?start_date=&end_date=
func (h *TravelHandler) Derive(c *gin.Context) {
	var req dto.TravelReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	resp, err := h.svc.Derive(c.Request.Context(), currentIdentity(c).Source, req.StartDate, req.EndDate)
	if err != nil {
		h.travelError(c, err)
		return
	}

	response.OK(c, resp)
}

// Report GET /api/v1/travel/report?start_date=&end_date=
// Streams the transport request workbook as a download.
func (h *TravelHandler) Report(c *gin.Context) {
	var req dto.TravelReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	buf, filename, err := h.svc.BuildReport(c.Request.Context(), currentIdentity(c).Source, req.StartDate, req.EndDate)
	if err != nil {
		h.travelError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// Calendar GET /api/v1/travel/calendar/:badge?start_date=&end_date=
// Streams one employee's rotation blocks as an iCalendar feed.
func (h *TravelHandler) Calendar(c *gin.Context) {
	var req dto.TravelReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, err.Error())
		return
	}

	ical, err := h.svc.RotationCalendar(c.Request.Context(),
		currentIdentity(c).Source, c.Param("badge"), req.StartDate, req.EndDate)
	if err != nil {
		h.travelError(c, err)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="rotation_%s.ics"`, c.Param("badge")))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ical))
}
