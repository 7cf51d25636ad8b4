package server

import (
	"context"
	"net/http"
	"time"

	"greensteps/internal/auth"
	"greensteps/internal/config"
	"greensteps/internal/dashboard"
	"greensteps/internal/reward"
	"greensteps/internal/tips"
	"greensteps/internal/user"
	"greensteps/internal/waste"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Users     *user.Handler
	Waste     *waste.Handler
	Rewards   *reward.Handler
	Dashboard *dashboard.Handler
	Tips      *tips.Handler
}

// Deps are the collaborators the router needs besides the domain handlers.
type Deps struct {
	Tokens *auth.TokenManager
	DB     Pinger
	Emails EmailQueue
}

type Server struct {
	http *http.Server
}

func New(cfg *config.Config, deps Deps, h Handlers) *Server {
	router := NewRouter(cfg, deps, h)

	return &Server{
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func NewRouter(cfg *config.Config, deps Deps, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(cfg.FrontendURL),
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, ClientIPKey),
	)

	router.GET("/health", Health(deps.DB))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	public := router.Group("/auth")
	{
		public.POST("/signup", h.Users.Signup)
		public.POST("/login", h.Users.Login)
		public.POST("/refresh", h.Users.Refresh)
	}

	authMiddleware := auth.Middleware(deps.Tokens)
	adminMiddleware := auth.RequireRole(auth.RoleAdmin)

	users := router.Group("/users", authMiddleware)
	{
		users.GET("/profile", h.Users.GetProfile)
		users.PUT("/profile", h.Users.UpdateProfile)
	}

	wasteGroup := router.Group("/waste", authMiddleware)
	{
		wasteGroup.POST("/add", h.Waste.AddWaste)
		wasteGroup.GET("/list", h.Waste.ListWaste)
		wasteGroup.GET("/types", h.Waste.GetWasteTypes)
		wasteGroup.PUT("/:recordId", h.Waste.UpdateWaste)
		wasteGroup.DELETE("/:recordId", h.Waste.DeleteWaste)
	}

	rewards := router.Group("/rewards", authMiddleware)
	{
		rewards.GET("", h.Rewards.GetRewards)
		rewards.GET("/all", h.Rewards.GetAllRewards)
		rewards.GET("/check-streak", h.Rewards.CheckStreak)
	}

	dash := router.Group("/dashboard", authMiddleware)
	{
		dash.GET("/stats", h.Dashboard.GetStats)
		dash.GET("/tips",
			RateLimitMiddleware(cfg.TipsRateLimitRPS, 3, UserKey),
			h.Tips.GetTips,
		)

		dashAdmin := dash.Group("/admin", adminMiddleware)
		dashAdmin.GET("/stats", h.Dashboard.GetAdminStats)
		dashAdmin.GET("/export-csv", h.Dashboard.ExportCSV)
	}

	admin := router.Group("/admin", authMiddleware, adminMiddleware)
	{
		admin.GET("/users", h.Users.ListUsers)
		admin.GET("/waste", h.Waste.ListAllWaste)
		if deps.Emails != nil {
			admin.GET("/email/queue", EmailQueueStatus(deps.Emails))
		}
	}

	return router
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
