package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Couple-App/internal/domain/helper"
	"Couple-App/internal/domain/model"
	"Couple-App/internal/usecase"
)

// GPSHandler GPS記録・近接判定・訪問場所APIのハンドラー
type GPSHandler struct {
	useCase usecase.CoupleLocationUseCase
}

// NewGPSHandler は新しいGPSHandlerインスタンスを作成
func NewGPSHandler(useCase usecase.CoupleLocationUseCase) *GPSHandler {
	return &GPSHandler{useCase: useCase}
}

// PostLocation POST /gps - GPSサンプルの記録
func (h *GPSHandler) PostLocation(c *gin.Context) {
	var req model.RecordLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "user_id, latitude, longitude は必須です: " + err.Error(),
		})
		return
	}

	sample, err := h.useCase.RecordLocation(c.Request.Context(), req.UserID, *req.Latitude, *req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sample)
}

// CheckNearby GET /gps/check-nearby?couple_id= - 2人が近くにいるかの判定
func (h *GPSHandler) CheckNearby(c *gin.Context) {
	coupleID, err := requiredQuery(c, "couple_id")
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.useCase.CheckNearby(c.Request.Context(), coupleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetClusters GET /gps/couples?couple_id=&date=YYYY-MM-DD[&format=geojson] - 一日の訪問場所
func (h *GPSHandler) GetClusters(c *gin.Context) {
	coupleID, err := requiredQuery(c, "couple_id")
	if err != nil {
		respondError(c, err)
		return
	}
	date, err := requiredQuery(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	response, err := h.useCase.ClusterDay(c.Request.Context(), coupleID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "geojson" {
		c.JSON(http.StatusOK, helper.ClustersToFeatureCollection(response.Clusters))
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetDates GET /gps/couples/dates/:yearMonth?couple_id= - チェックポイントがある日の一覧
func (h *GPSHandler) GetDates(c *gin.Context) {
	coupleID, err := requiredQuery(c, "couple_id")
	if err != nil {
		respondError(c, err)
		return
	}
	yearMonth := c.Param("yearMonth")

	days, err := h.useCase.DatesWithCheckpoints(c.Request.Context(), coupleID, yearMonth)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"couple_id":  coupleID,
		"year_month": yearMonth,
		"dates":      days,
	})
}

// GetTrail GET /gps/couples/trail?couple_id=&date= - 両メンバーの移動軌跡 (GeoJSON)
func (h *GPSHandler) GetTrail(c *gin.Context) {
	coupleID, err := requiredQuery(c, "couple_id")
	if err != nil {
		respondError(c, err)
		return
	}
	date, err := requiredQuery(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}

	trail, err := h.useCase.CoupleTrail(c.Request.Context(), coupleID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, helper.TrailToFeatureCollection(trail))
}

// GetUserLocations GET /gps/user?user_id=&limit= - ユーザーの直近サンプル
func (h *GPSHandler) GetUserLocations(c *gin.Context) {
	userID, err := requiredQuery(c, "user_id")
	if err != nil {
		respondError(c, err)
		return
	}

	limit := model.RecentLocationsLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(c, &ValidationError{Field: "limit", Message: "limitは正の整数で指定してください"})
			return
		}
	}

	samples, err := h.useCase.RecentLocations(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, samples)
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func requiredQuery(c *gin.Context, key string) (string, error) {
	v := c.Query(key)
	if v == "" {
		return "", &ValidationError{Field: key, Message: key + "は必須です"}
	}
	return v, nil
}

// respondError エラー種別からステータスコードを決める
func respondError(c *gin.Context, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, model.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_parameter", "message": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.Is(err, model.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage_unavailable", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
	}
}
