package transport

import (
	"net/http"
	"time"

	"github.com/ds124wfegd/pasphoto/internal/transport/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	MaxUploadBytes int64
	AppVersion     string
}

func InitRoutes(photoHandler *PhotoHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.NewString()
	})))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Length", "Content-Disposition", "X-Request-ID", "X-Jpeg-Quality", "X-Compress-Fallback"},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(cfg.RequestTimeout))

	router.GET("/", photoHandler.Index)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.BodySizeLimit(cfg.MaxUploadBytes))
	{
		api.POST("/process", photoHandler.ProcessPhoto)

		jobs := api.Group("/jobs")
		{
			jobs.POST("", photoHandler.SubmitJob)
			jobs.GET("/:id", photoHandler.GetJob)
			jobs.GET("/:id/result", photoHandler.DownloadResult)
			jobs.DELETE("/:id", photoHandler.DeleteJob)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "pasphoto",
			"version": cfg.AppVersion,
		})
	})
	return router
}
