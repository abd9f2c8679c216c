package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/middleware"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/config"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/metrics"
)

const apiPrefix = "/api"

type RouterDeps struct {
	Handler *Handler
	Auth    middleware.Authenticator
	Config  *config.Config
	Logger  *zap.Logger

	// Metrics and Gatherer are optional; without them no metrics are
	// recorded and /metrics is not mounted.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

func NewRouter(d RouterDeps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	_ = router.SetTrustedProxies(nil)
	router.Use(middleware.Recovery(log, d.Config.IsDevelopment()))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
	}
	if len(d.Config.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: d.Config.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{
				"Origin", "Content-Type", "Accept",
				"Authorization",
				"X-Requested-With",
				middleware.HeaderRequestID,
			},
			ExposeHeaders:    []string{"Content-Length", "Location", middleware.HeaderRequestID},
			AllowCredentials: d.Config.AllowCredentials,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	h := d.Handler
	api := router.Group(apiPrefix)
	bearer := middleware.BearerAuth(d.Auth)

	users := api.Group("/users")
	users.Use(middleware.NewHTTPRateLimitPerIP(d.Config.RateLimitRPS, d.Config.RateLimitBurst, 10_000, time.Hour))
	users.POST("/register", h.Register)
	users.POST("/login", h.Login)
	users.POST("/google-signin", h.GoogleSignIn)
	users.POST("/refresh-token", h.RefreshToken)
	users.POST("/logout", bearer, h.Logout)

	projects := api.Group("/projects", bearer)
	projects.GET("", h.ListProjects)
	projects.POST("", h.CreateProject)
	projects.GET("/:id", h.GetProject)
	projects.PUT("/:id", h.UpdateProject)
	projects.DELETE("/:id", h.DeleteProject)

	tasks := api.Group("/tasks", bearer)
	tasks.GET("", h.ListTasks)
	tasks.POST("", h.CreateTask)
	tasks.GET("/:id", h.GetTask)
	tasks.PUT("/:id", h.UpdateTask)
	tasks.DELETE("/:id", h.DeleteTask)

	return router
}
