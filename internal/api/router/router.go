package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseggch15/inboundoutbound-sub000/config"
	"github.com/joseggch15/inboundoutbound-sub000/internal/api/handler"
	"github.com/joseggch15/inboundoutbound-sub000/internal/api/middleware"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/jwt"
	"github.com/joseggch15/inboundoutbound-sub000/pkg/redis"
)

// Login throttling and upload cap. Uploads carry at most maxImportRows
// spreadsheet rows, so 10MB is generous.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
	maxImportBody   = 10 << 20
)

// New builds the gin engine with every route group mounted.
func New(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(&cfg.Server.CORS))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// public, throttled per client IP
	api.POST("/auth/login", middleware.RateLimit(rdb, loginRateLimit, loginRateWindow), h.Auth.Login)

	// authenticated
	auth := api.Group("")
	auth.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
	{
		auth.POST("/auth/logout", h.Auth.Logout)
		auth.GET("/auth/me", h.Auth.Me)

		auth.GET("/employees", h.Employee.List)
		auth.GET("/employees/:badge", h.Employee.GetByBadge)

		auth.GET("/roster", h.Roster.List)
		auth.GET("/roster/operations", h.Roster.Operations)
		auth.GET("/roster/:badge", h.Roster.ReadRange)

		auth.GET("/travel/events", h.Travel.Derive)
		auth.GET("/travel/report", h.Travel.Report)
		auth.GET("/travel/calendar/:badge", h.Travel.Calendar)

		auth.GET("/plan/grid", h.Plan.Grid)
		auth.GET("/plan/conflicts", h.Plan.Conflicts)
		auth.GET("/plan/events", h.Plan.GridEvents)
	}

	// write operations: admin and operator
	writer := auth.Group("")
	writer.Use(middleware.RequireRole("admin", "operator"))
	{
		writer.POST("/employees", h.Employee.Register)
		writer.PUT("/employees/:id", h.Employee.Update)
		writer.DELETE("/employees/:id", h.Employee.Delete)
		writer.POST("/employees/import", middleware.BodyLimit(maxImportBody), h.Employee.Import)

		writer.POST("/roster/mark", h.Roster.MarkRange)
		writer.POST("/roster/clear", h.Roster.ClearRange)

		writer.POST("/plan/export", h.Plan.Export)
		writer.POST("/plan/import", h.Plan.Import)
		writer.POST("/plan/cells", h.Plan.WriteCells)
	}

	// account provisioning: admin only
	admin := auth.Group("")
	admin.Use(middleware.RequireRole("admin"))
	{
		admin.POST("/auth/accounts", h.Auth.CreateAccount)
	}

	return r
}
