package service

import (
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/config"
	"github.com/joseggch15/inboundoutbound-sub000/internal/repository"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/jwt"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/redis"
)

// Identity is the acting operator, taken from the verified token claims. The
// scheduling core trusts Source as the tenant partition.
type Identity struct {
	Username string
	Role     string
	Source   string
}

// Service aggregates every business interface.
type Service struct {
	Auth     AuthService
	Employee EmployeeService
	Roster   RosterService
	Travel   TravelService
	Plan     PlanService
}

// NewService wires the service layer.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Employee: NewEmployeeService(repo, logger),
		Roster:   NewRosterService(cfg, repo, logger),
		Travel:   NewTravelService(cfg, repo, logger),
		Plan:     NewPlanService(cfg, repo, logger),
	}
}
