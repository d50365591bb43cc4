package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New 创建 gin engine 并注册全部路由。
// env 为 prod / production 时使用 release 模式。
func New(env string, h *Handler) *gin.Engine {
	if env == "prod" || env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	r := gin.New()
	r.Use(cors.New(corsConfig), AccessLogger(), Recovery())

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/predict/profile-risk", h.PredictProfileRisk)
		api.POST("/similar-houses/", h.SimilarHouses)
		api.GET("/similar-houses/:index", h.SimilarHousesByIndex)
	}
	return r
}
