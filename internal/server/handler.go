package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Gerilya-By-BSI/huniya-ml/feature"
	"github.com/Gerilya-By-BSI/huniya-ml/service"
)

// Predictor 对客户画像做信用评分分类（service.CreditScoreService）
type Predictor interface {
	Predict(ctx context.Context, record feature.Record) (*service.Prediction, error)
}

// SimilarFinder 查找相似房源（service.SimilarityService）
type SimilarFinder interface {
	Similar(ctx context.Context, index int64, topN int) ([]int64, error)
}

// Handler 把 HTTP 请求转换为 service 调用，不包含业务逻辑。
type Handler struct {
	predictor Predictor
	similar   SimilarFinder
}

func NewHandler(predictor Predictor, similar SimilarFinder) *Handler {
	return &Handler{predictor: predictor, similar: similar}
}

// PredictProfileRisk POST /api/predict/profile-risk
func (h *Handler) PredictProfileRisk(c *gin.Context) {
	var req ProfileRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	pred, err := h.predictor.Predict(c.Request.Context(), req.Record())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Prediction error: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, pred)
}

// SimilarHouses POST /api/similar-houses/
func (h *Handler) SimilarHouses(c *gin.Context) {
	var req SimilarHousesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	h.respondSimilar(c, *req.Index, req.TopN)
}

// SimilarHousesByIndex GET /api/similar-houses/:index?top_n=5
func (h *Handler) SimilarHousesByIndex(c *gin.Context) {
	index, err := strconv.ParseInt(c.Param("index"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid house index"})
		return
	}
	topN := 0
	if s := c.Query("top_n"); s != "" {
		if topN, err = strconv.Atoi(s); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid top_n"})
			return
		}
	}
	h.respondSimilar(c, index, topN)
}

func (h *Handler) respondSimilar(c *gin.Context, index int64, topN int) {
	ids, err := h.similar.Similar(c.Request.Context(), index, topN)
	if err != nil {
		log.Error().Err(err).Int64("index", index).Msg("similar houses failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Similarity error: " + err.Error()})
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	c.JSON(http.StatusOK, SimilarHousesResponse{SimilarHouses: ids})
}

// Health GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
