package handler

import (
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/internal/service"
)

// Handler aggregates every HTTP handler group.
type Handler struct {
	Auth     *AuthHandler
	Employee *EmployeeHandler
	Roster   *RosterHandler
	Travel   *TravelHandler
	Plan     *PlanHandler
}

// New wires the handler layer.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:     &AuthHandler{svc: svc.Auth, logger: logger},
		Employee: &EmployeeHandler{svc: svc.Employee, logger: logger},
		Roster:   &RosterHandler{svc: svc.Roster, logger: logger},
		Travel:   &TravelHandler{svc: svc.Travel, logger: logger},
		Plan:     &PlanHandler{svc: svc.Plan, travel: svc.Travel, logger: logger},
	}
}
