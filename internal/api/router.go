package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jengzang/telco-sightings-go/internal/config"
	"github.com/jengzang/telco-sightings-go/internal/handler"
	"github.com/jengzang/telco-sightings-go/internal/middleware"
	"github.com/jengzang/telco-sightings-go/internal/repository"
	"github.com/jengzang/telco-sightings-go/internal/service"
)

// SetupRouter 设置路由. The returned function releases the rate limiter.
func SetupRouter(cfg *config.Config, db *sql.DB, logger logrus.FieldLogger) (*gin.Engine, func()) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(logger))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	release := func() {}
	if cfg.Server.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
		r.Use(middleware.RateLimit(limiter))
		release = limiter.Stop
	}

	health := func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := db.PingContext(c.Request.Context()); err != nil {
			status, code = "database unavailable", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"message": "Sightings API is running",
		})
	}

	// 健康检查
	r.GET("/health", health)

	siteRepo := repository.NewSiteRepository(db)
	siteHandler := handler.NewSiteHandler(service.NewSiteService(siteRepo, repository.NewTransitionRepository(db)))
	recordHandler := handler.NewRecordHandler(service.NewRecordService(
		repository.NewRecordRepository(db), repository.NewSubscriberRepository(db), siteRepo,
	))
	runHandler := handler.NewRunHandler(service.NewRunService(repository.NewRunRepository(db)))

	// API 路由组
	api := r.Group("/api/v1")
	api.GET("/health", health)
	if cfg.Server.JWTSecret != "" {
		api.Use(middleware.JWTAuth(cfg.Server.JWTSecret))
	}
	{
		api.GET("/runs/latest", runHandler.GetLatestRun)

		sites := api.Group("/sites")
		{
			sites.GET("", siteHandler.GetSites)
			sites.GET("/:id", siteHandler.GetSite)
			sites.GET("/:id/transitions", siteHandler.GetTransitions)
		}

		api.GET("/records", recordHandler.GetRecords)

		subscribers := api.Group("/subscribers")
		{
			subscribers.GET("/:id/trajectory", recordHandler.GetTrajectory)
			subscribers.GET("/:id/summary", recordHandler.GetSummary)
		}
	}

	return r, release
}
