package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"fitroom/internal/models"
	"fitroom/internal/storage"

	"github.com/gin-gonic/gin"
)

// PATCH /api/profile 요청 바디. 포인터 필드 = 미전송 필드는 건드리지 않음.
type UpdateProfileRequest struct {
	DisplayName *string        `json:"displayName,omitempty" example:"Gildong"`
	Gender      *models.Gender `json:"gender,omitempty" example:"female"`
}

// GetProfile godoc
// @Summary      프로필 조회 (Profile)
// @Description  인증된 사용자의 프로필 정보를 조회합니다. (JWT 필요)
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.UserProfile
// @Failure      401 {object} handler.ErrorResponse "인증 토큰 누락 또는 만료"
// @Failure      404 {object} handler.ErrorResponse "프로필 없음"
// @Router       /api/profile [get]
func GetProfile(c *gin.Context) {
	profileID := c.GetString("profileID")

	profile, err := storage.GetProfile(profileID)
	if err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		log.Printf("[ERROR] GetProfile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary      프로필 수정 (Update Profile)
// @Description  displayName과 gender만 부분 수정합니다. avatar와 measurements는 캡처 플로우 전용입니다.
// @Tags         API (Protected)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handler.UpdateProfileRequest true "수정할 필드"
// @Success      200 {object} models.UserProfile
// @Failure      400 {object} handler.ErrorResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/profile [patch]
func UpdateProfile(c *gin.Context) {
	profileID := c.GetString("profileID")

	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	var req UpdateProfileRequest
	if err := json.Unmarshal(rawData, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Gender != nil && !req.Gender.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gender"})
		return
	}

	if err := storage.UpdateProfileFields(profileID, req.DisplayName, req.Gender); err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		log.Printf("[ERROR] UpdateProfileFields failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	profile, err := storage.GetProfile(profileID)
	if err != nil {
		log.Printf("[ERROR] GetProfile after update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteAccount godoc
// @Summary      계정 삭제 (Delete Account)
// @Description  프로필 레코드와 인증 계정을 함께 삭제합니다.
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.SuccessResponse
// @Failure      401 {object} handler.ErrorResponse
// @Failure      404 {object} handler.ErrorResponse
// @Router       /api/profile [delete]
func DeleteAccount(c *gin.Context) {
	profileID := c.GetString("profileID")

	if err := storage.DeleteAccount(profileID); err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		log.Printf("[ERROR] DeleteAccount failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
