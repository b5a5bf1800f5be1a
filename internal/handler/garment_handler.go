package handler

import (
	"net/http"

	"fitroom/internal/catalog"

	"github.com/gin-gonic/gin"
)

type GarmentResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	ImageURL string   `json:"imageUrl"`
	Sizes    []string `json:"sizes"`
}

// ListGarments godoc
// @Summary      의류 카탈로그 조회
// @Description  선택 가능한 의류와 사이즈 목록을 반환합니다.
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} handler.GarmentResponse
// @Router       /api/garments [get]
func ListGarments(c *gin.Context) {
	garments := catalog.Garments()
	out := make([]GarmentResponse, 0, len(garments))
	for _, g := range garments {
		sizes := []string{}
		if chart, ok := catalog.GetSizeChart(g.ID); ok {
			sizes = chart.Sizes
		}
		out = append(out, GarmentResponse{
			ID:       g.ID,
			Name:     g.Name,
			Type:     g.Type,
			ImageURL: g.ImageURL,
			Sizes:    sizes,
		})
	}
	c.JSON(http.StatusOK, out)
}
