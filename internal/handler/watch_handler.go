package handler

import (
	"context"
	"log"
	"net/http"

	"fitroom/internal/auth"
	"fitroom/internal/handoff"
	"fitroom/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type watchFrame struct {
	Event     string        `json:"event"`
	State     handoff.State `json:"state,omitempty"`
	AvatarURL string        `json:"avatarUrl,omitempty"`
	Role      string        `json:"role,omitempty"`
}

// HandleCaptureWatch godoc
// @Summary      캡처 대기 WebSocket 연결
// @Description  데스크톱이 자신의 프로필 캡처 진행 상황을 실시간으로 구독합니다.
// @Description  <br>
// @Description  **참고: 이것은 표준 HTTP API가 아닙니다.**
// @Description  클라이언트는 `ws://` 또는 `wss://` 스킴을 사용하여 이 엔드포인트에 연결해야 합니다.
// @Description  인증은 HTTP Header가 아닌 **쿼리 파라미터('token')**를 통해 수행됩니다.
// @Description  avatarUrl이 기록되는 순간 `complete` 이벤트가 전송되고 연결이 종료됩니다.
// @Tags         WebSocket (Capture)
// @Param        token query string true "로그인 시 발급받은 JWT 토큰"
// @Success      101 {string} string "101 Switching Protocols (WebSocket으로 프로토콜 전환 성공)"
// @Failure      401 {object} handler.ErrorResponse "토큰 누락 또는 유효하지 않은 토큰"
// @Router       /ws/capture [get]
func HandleCaptureWatch(c *gin.Context) {
	// URL Query 파라미터 추출
	tokenString := c.Query("token")

	// 사용자 토큰 검증
	claims, err := auth.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	profileID := claims.ProfileID

	// 이벤트를 놓치지 않도록 현재 상태 확인 전에 구독함
	sub := captureHub.Subscribe(profileID)
	defer sub.Close()

	// WebSocket 연결 업그레이드와 종료
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("error: Failed to upgrade to WebSocket : profile %s with %v", profileID, err)
		return
	}
	defer conn.Close()
	log.Printf("Capture watch established for profile: %s", profileID)

	// 이미 아바타가 있으면 즉시 complete
	profile, err := storage.GetProfile(profileID)
	if err == nil && profile.AvatarURL != "" {
		writeWatchFrame(conn, profileID, watchFrame{
			Event:     "complete",
			State:     handoff.StateComplete,
			AvatarURL: profile.AvatarURL,
			Role:      "observer",
		})
		return
	}

	manageWatchSession(conn, sub, profileID, context.Background())
}

func manageWatchSession(conn *websocket.Conn, sub *handoff.Subscription, profileID string, parentCtx context.Context) {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	// 클라이언트 종료 감지 전담 (데스크톱이 대기 화면을 떠나면 구독도 해제)
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Printf("Capture watch closed by profile %s: %v", profileID, err)
				return
			}
		}
	}()

WatchLoop:
	for {
		select {
		case <-ctx.Done():
			break WatchLoop
		case event, ok := <-sub.C:
			if !ok {
				break WatchLoop
			}
			frame := watchFrame{Event: "state", State: event.State, AvatarURL: event.AvatarURL}
			if event.State == handoff.StateComplete {
				// 캡처한 기기가 아닌 관찰자만 자동 이동함
				frame.Event = "complete"
				frame.Role = "observer"
			}
			if !writeWatchFrame(conn, profileID, frame) {
				break WatchLoop
			}
			if event.State == handoff.StateComplete {
				break WatchLoop
			}
		}
	}
	log.Printf("Capture watch ended for profile: %s", profileID)
}

func writeWatchFrame(conn *websocket.Conn, profileID string, frame watchFrame) bool {
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("Error sending watch frame to profile %s: %v", profileID, err)
		return false
	}
	return true
}
