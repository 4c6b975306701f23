package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/handler"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/middleware"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/service"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/config"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/logger"
	corsmiddleware "github.com/tanishq4141/PROJECT-ALPHA/pkg/middleware/cors"
	reqidmiddleware "github.com/tanishq4141/PROJECT-ALPHA/pkg/middleware/requestid"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	AssignmentHandler *handler.AssignmentHandler
	BatchHandler      *handler.BatchHandler
	MetricsHandler    *handler.MetricsHandler
	Metrics           *service.MetricsService
	Tokens            middleware.TokenValidator
	Logger            *zap.Logger
}

// New builds the gin engine with the global middleware chain and every route.
func New(cfg *config.Config, deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.WithResponseMeta())

	Register(r, cfg, deps)
	return r
}

// Register wires the HTTP routes into the gin engine.
func Register(r *gin.Engine, cfg *config.Config, deps Dependencies) {
	if h := deps.MetricsHandler; h != nil {
		r.GET("/health", h.Health)
		r.GET("/ready", h.Ready)
		r.GET("/metrics", h.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	auth := middleware.JWT(deps.Tokens, cfg.Cookie.Name)
	teacherOnly := middleware.RequireRoles(models.RoleTeacher)
	studentOnly := middleware.RequireRoles(models.RoleStudent)

	if h := deps.AuthHandler; h != nil {
		group := api.Group("/auth")
		group.POST("/signup", h.SignUp)
		group.POST("/signin", h.SignIn)
		group.POST("/logout", h.Logout)
		group.GET("/me", auth, h.Me)
	}

	if h := deps.AssignmentHandler; h != nil {
		group := api.Group("/assignments", auth)
		group.POST("/create", teacherOnly, h.Create)
		group.POST("/assign", teacherOnly, h.Assign)
		group.POST("/submit", studentOnly, h.Submit)
		group.GET("/student/:id", middleware.RequireRoles(models.RoleStudent, models.RoleTeacher), h.ForStudent)
		group.GET("/teacher/:id", h.ForTeacher)
		group.GET("/activity/:id", teacherOnly, h.History)
	}

	if h := deps.BatchHandler; h != nil {
		group := api.Group("/batches", auth, teacherOnly)
		group.POST("/create", h.Create)
		group.GET("", h.List)
		group.GET("/:id/gradebook", h.Gradebook)
	}

	if h := deps.MetricsHandler; h != nil && deps.Metrics != nil {
		api.GET("/metrics/summary", auth, teacherOnly, h.Snapshot)
	}
}
