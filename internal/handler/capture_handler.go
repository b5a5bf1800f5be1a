/**
* Name: 			capture_handler.go
* Description: 		크로스 디바이스 캡처 핸드오프 HTTP 핸들러
* Workflow: 		세션 생성(데스크톱), QR 발급, 세션 조회(모바일), 사진 제출(모바일)
 */
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"fitroom/internal/avatar"
	"fitroom/internal/handoff"
	"fitroom/internal/storage"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

type CreateCaptureSessionResponse struct {
	SessionID  string    `json:"sessionId"`
	CaptureURL string    `json:"captureUrl"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type SubmitCaptureRequest struct {
	PhotoDataURI string `json:"photoDataUri"`
}

type SubmitCaptureResponse struct {
	Status    string `json:"status" example:"complete"`
	AvatarURL string `json:"avatarUrl"`
}

func captureURLFor(sessionID string) string {
	return publicBaseURL + "/capture?session=" + sessionID
}

// CreateCaptureSession godoc
// @Summary      캡처 세션 생성
// @Description  데스크톱이 자신의 프로필에 바인딩된 캡처 세션을 만들고, 모바일에서 열 수 있는 캡처 URL을 받습니다.
// @Tags         Capture
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.CreateCaptureSessionResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/capture/sessions [post]
func CreateCaptureSession(c *gin.Context) {
	profileID := c.GetString("profileID")

	session := handoff.NewSession(profileID)
	if err := storage.CreateCaptureSession(session); err != nil {
		log.Printf("[ERROR] CreateCaptureSession failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create capture session"})
		return
	}

	c.JSON(http.StatusOK, CreateCaptureSessionResponse{
		SessionID:  session.ID,
		CaptureURL: captureURLFor(session.ID),
		ExpiresAt:  session.ExpiresAt,
	})
}

// CaptureSessionQR godoc
// @Summary      캡처 세션 QR 코드
// @Description  캡처 URL을 담은 QR 코드를 PNG로 반환합니다. 데스크톱 대기 화면에 표시됩니다.
// @Tags         Capture
// @Produce      image/png
// @Security     BearerAuth
// @Param        id path string true "캡처 세션 ID"
// @Success      200 {file} file "QR PNG"
// @Failure      404 {object} handler.ErrorResponse "세션 없음 또는 만료"
// @Router       /api/capture/sessions/{id}/qr [get]
func CaptureSessionQR(c *gin.Context) {
	profileID := c.GetString("profileID")
	sessionID := c.Param("id")

	session, err := loadActiveSession(c, sessionID)
	if err != nil {
		return
	}
	if session.ProfileID != profileID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Session belongs to another profile"})
		return
	}

	png, err := qrcode.Encode(captureURLFor(session.ID), qrcode.High, 256)
	if err != nil {
		log.Printf("[ERROR] CaptureSessionQR(): failed to encode QR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetCaptureSession godoc
// @Summary      캡처 세션 조회
// @Description  QR을 스캔한 모바일이 세션 상태와 대상 프로필을 확인합니다. 인증 불필요 (세션 ID가 capability 역할).
// @Tags         Capture
// @Produce      json
// @Param        id path string true "캡처 세션 ID"
// @Success      200 {object} handoff.Session
// @Failure      404 {object} handler.ErrorResponse "세션 없음 또는 만료"
// @Router       /capture/sessions/{id} [get]
func GetCaptureSession(c *gin.Context) {
	session, err := loadActiveSession(c, c.Param("id"))
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, session)
}

// SubmitCapturePhoto godoc
// @Summary      캡처 사진 제출
// @Description  모바일이 촬영한 사진을 제출하면 아바타 생성 후 프로필에 아바타와 치수를 원자적으로 기록합니다.
// @Description  실패 시 세션은 error 상태가 되고 같은 세션으로 재제출할 수 있습니다.
// @Tags         Capture
// @Accept       json
// @Produce      json
// @Param        id path string true "캡처 세션 ID"
// @Param        request body handler.SubmitCaptureRequest true "사진 data URI"
// @Success      200 {object} handler.SubmitCaptureResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      404 {object} handler.ErrorResponse "세션 없음 또는 만료"
// @Failure      409 {object} handler.ErrorResponse "이미 완료된 세션"
// @Failure      502 {object} handler.ErrorResponse "아바타 생성 실패"
// @Router       /capture/sessions/{id}/photos [post]
func SubmitCapturePhoto(c *gin.Context) {
	session, err := loadActiveSession(c, c.Param("id"))
	if err != nil {
		return
	}

	if session.State == handoff.StateComplete {
		c.JSON(http.StatusConflict, gin.H{"error": "Capture already complete"})
		return
	}
	if !session.State.CanTransition(handoff.StateCapturing) {
		c.JSON(http.StatusConflict, gin.H{"error": "Session is not ready for capture"})
		return
	}

	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	var req SubmitCaptureRequest
	if err := json.Unmarshal(rawData, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	_, photoBytes, err := avatar.DecodeDataURI(req.PhotoDataURI)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photoDataUri must be a base64 data URI"})
		return
	}

	if err := storage.TransitionCaptureSession(session.ID, session.State, handoff.StateCapturing); err != nil {
		// 같은 세션에 동시에 제출한 다른 기기가 선점한 경우
		c.JSON(http.StatusConflict, gin.H{"error": "Session is not ready for capture"})
		return
	}
	captureHub.Publish(handoff.Event{
		ProfileID: session.ProfileID,
		SessionID: session.ID,
		State:     handoff.StateCapturing,
	})

	profile, err := storage.GetProfile(session.ProfileID)
	if err != nil {
		failCaptureSession(session, "profile lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load target profile"})
		return
	}

	avatarURL, err := avatarGenerator.Generate(c.Request.Context(), req.PhotoDataURI)
	if err != nil {
		failCaptureSession(session, "avatar generation failed", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Avatar generation failed, please try again"})
		return
	}

	measurements := avatar.ExtractMeasurements(profile.Gender, photoBytes)

	// 아바타 + 치수는 한 트랜잭션으로 기록, 부분 적용 없음
	if err := storage.CompleteCaptureSession(session.ID, session.ProfileID, avatarURL, measurements); err != nil {
		failCaptureSession(session, "profile write failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save capture result, please try again"})
		return
	}

	captureHub.Publish(handoff.Event{
		ProfileID: session.ProfileID,
		SessionID: session.ID,
		State:     handoff.StateComplete,
		AvatarURL: avatarURL,
	})

	c.JSON(http.StatusOK, SubmitCaptureResponse{Status: "complete", AvatarURL: avatarURL})
}

// loadActiveSession resolves the path session id, writing the error
// response itself. Unknown and expired sessions are both 404.
func loadActiveSession(c *gin.Context, sessionID string) (handoff.Session, error) {
	session, err := storage.GetCaptureSession(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Capture session not found"})
		} else {
			log.Printf("[ERROR] loadActiveSession failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return session, err
	}
	if session.Expired(time.Now().UTC()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Capture session expired"})
		return session, storage.ErrSessionNotFound
	}
	return session, nil
}

func failCaptureSession(session handoff.Session, reason string, cause error) {
	log.Printf("SubmitCapturePhoto(): %s for session %s: %v", reason, session.ID, cause)
	if err := storage.TransitionCaptureSession(session.ID, handoff.StateCapturing, handoff.StateError); err != nil {
		log.Printf("SubmitCapturePhoto(): failed to mark session %s as error: %v", session.ID, err)
	}
	captureHub.Publish(handoff.Event{
		ProfileID: session.ProfileID,
		SessionID: session.ID,
		State:     handoff.StateError,
	})
}
