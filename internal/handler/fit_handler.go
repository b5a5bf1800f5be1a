package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"fitroom/internal/catalog"
	"fitroom/internal/fit"
	"fitroom/internal/storage"

	"github.com/gin-gonic/gin"
)

type RecommendFitRequest struct {
	GarmentID string `json:"garmentId" example:"uniqlo-airism"`
}

type RecommendFitResponse struct {
	Scores  map[string]int `json:"scores"`
	BestFit string         `json:"bestFit,omitempty" example:"M"`
}

// RecommendFit godoc
// @Summary      사이즈 추천 (Fit Recommendation)
// @Description  사용자 신체 치수와 브랜드 사이즈 차트를 대조해 사이즈별 0~100 적합도 점수를 반환합니다.
// @Description  모르는 의류 ID나 스코어링 실패는 빈 점수 맵으로 응답합니다 (추천 없음).
// @Tags         API (Protected)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handler.RecommendFitRequest true "의류 ID"
// @Success      200 {object} handler.RecommendFitResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/fit/recommendation [post]
func RecommendFit(c *gin.Context) {
	profileID := c.GetString("profileID")

	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	var req RecommendFitRequest
	if err := json.Unmarshal(rawData, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	empty := RecommendFitResponse{Scores: map[string]int{}}

	chart, exists := catalog.GetSizeChart(req.GarmentID)
	if !exists {
		// 차트가 없는 의류는 호출자 측 조회 실패: 추천 없음으로 응답
		log.Printf("RecommendFit(): no size chart found for garment ID: %s", req.GarmentID)
		c.JSON(http.StatusOK, empty)
		return
	}

	profile, err := storage.GetProfile(profileID)
	if err != nil {
		log.Printf("[ERROR] RecommendFit(): failed to load profile: %v", err)
		c.JSON(http.StatusOK, empty)
		return
	}
	if len(profile.Measurements) == 0 {
		c.JSON(http.StatusOK, empty)
		return
	}

	// 의류 선택이 바뀌면 진행 중이던 요청 결과는 폐기 (last-request-wins)
	token := scoreDispatcher.Begin(profileID)

	scores, err := fitScorer.Score(c.Request.Context(), profile.Measurements, chart, chart.GarmentType)
	if err != nil {
		log.Printf("RecommendFit(): scoring failed, degrading to empty result: %v", err)
		c.JSON(http.StatusOK, empty)
		return
	}
	if !scoreDispatcher.Commit(profileID, token) {
		c.JSON(http.StatusOK, RecommendFitResponse{Scores: map[string]int{}, BestFit: ""})
		return
	}

	c.JSON(http.StatusOK, RecommendFitResponse{
		Scores:  scores,
		BestFit: fit.BestFit(scores, chart.Sizes),
	})
}
