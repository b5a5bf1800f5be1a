package middleware

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// 회원가입은 초대 코드가 있어야 가능함 (비공개 베타)
func InviteCodeMiddleware() gin.HandlerFunc {
	inviteCode := os.Getenv("SIGNUP_INVITE_CODE")
	if inviteCode == "" {
		log.Println("Warning: SIGNUP_INVITE_CODE is not set, signup is open")
	}
	return func(c *gin.Context) {
		if inviteCode == "" {
			c.Next()
			return
		}
		clientKey := c.GetHeader("X-Invite-Code")

		if clientKey != inviteCode {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid invite code"})
			return
		}
		c.Next()
	}
}
