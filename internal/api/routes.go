package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterOptions struct {
	CORSEnabled bool
	CORSOrigins []string
	// Metrics is served on /metrics when set.
	Metrics http.Handler
	Logger  *zap.Logger
}

// NewRouter builds the engine with recovery, request logging, optional CORS
// and the API routes.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	if opts.CORSEnabled {
		corsConfig := cors.DefaultConfig()
		if len(opts.CORSOrigins) == 0 || slices.Contains(opts.CORSOrigins, "*") {
			corsConfig.AllowAllOrigins = true
		} else {
			corsConfig.AllowOrigins = opts.CORSOrigins
		}
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Requested-With"}
		corsConfig.ExposeHeaders = []string{"Content-Disposition", headerPreviewScale, headerPreviewLabel}
		r.Use(cors.New(corsConfig))
	}

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	RegisterRoutes(r, h)
	return r
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)

		api.GET("/profile", h.getProfile)
		api.PUT("/profile", h.putProfile)
		api.POST("/profile/photo", h.uploadPhoto)
		api.DELETE("/profile/photo", h.deletePhoto)

		api.PUT("/preset", h.putPreset)
		api.PUT("/template", h.putTemplate)
		api.GET("/theme", h.getTheme)

		api.GET("/preview", h.preview)
		api.POST("/export", h.exportCover)

		api.GET("/notifications", h.listNotifications)
		api.DELETE("/notifications/:id", h.dismissNotification)

		api.GET("/templates", listTemplates)
		api.GET("/presets", listPresets)
		api.GET("/platforms", listPlatforms)
		api.GET("/groups/:code", getGroup)
		api.GET("/qr", h.qrHandler)
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
