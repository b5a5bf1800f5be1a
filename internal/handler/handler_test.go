package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitroom/internal/avatar"
	"fitroom/internal/fit"
	"fitroom/internal/handoff"
	"fitroom/internal/middleware"
	"fitroom/internal/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Unsetenv("SIGNUP_INVITE_CODE")

	dir, err := os.MkdirTemp("", "fitroom-handler-test")
	if err != nil {
		panic(err)
	}
	storage.InitDB(filepath.Join(dir, "test.db"))
	Configure(fit.NewEngine(), avatar.StaticGenerator{}, "http://localhost:3000")

	code := m.Run()

	storage.CloseDB()
	os.RemoveAll(dir)
	os.Exit(code)
}

func testRouter() *gin.Engine {
	router := gin.New()
	router.POST("/signup", middleware.InviteCodeMiddleware(), Signup)
	router.POST("/login", Login)

	protected := router.Group("/api").Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile", GetProfile)
		protected.PATCH("/profile", UpdateProfile)
		protected.DELETE("/profile", DeleteAccount)
		protected.GET("/garments", ListGarments)
		protected.POST("/fit/recommendation", RecommendFit)
		protected.POST("/capture/sessions", CreateCaptureSession)
		protected.GET("/capture/sessions/:id/qr", CaptureSessionQR)
	}

	router.GET("/capture/sessions/:id", GetCaptureSession)
	router.POST("/capture/sessions/:id/photos", SubmitCapturePhoto)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signupAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/signup", "", gin.H{
		"email":       email,
		"password":    "password123",
		"displayName": "Tester",
		"gender":      "female",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func photoDataURI(payload string) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestSignupLoginProfile(t *testing.T) {
	router := testRouter()
	token := signupAndLogin(t, router, "roundtrip@example.com")

	w := doJSON(t, router, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "roundtrip@example.com", profile["email"])
	assert.Equal(t, "Tester", profile["displayName"])
	assert.Nil(t, profile["avatarUrl"], "avatar must be unset before capture")
}

func TestProfileRequiresToken(t *testing.T) {
	router := testRouter()
	w := doJSON(t, router, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecommendFit_NoMeasurementsYet(t *testing.T) {
	router := testRouter()
	token := signupAndLogin(t, router, "nomeasure@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/fit/recommendation", token, gin.H{"garmentId": "uniqlo-airism"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp RecommendFitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Scores)
	assert.Empty(t, resp.BestFit)
}

func TestRecommendFit_UnknownGarmentDegradesToEmpty(t *testing.T) {
	router := testRouter()
	token := signupAndLogin(t, router, "unknowngarment@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/fit/recommendation", token, gin.H{"garmentId": "no-such-garment"})
	require.Equal(t, http.StatusOK, w.Code, "unknown garment is not an error")

	var resp RecommendFitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Scores)
}

func TestCaptureHandoffFlow(t *testing.T) {
	router := testRouter()
	token := signupAndLogin(t, router, "handoff@example.com")

	// 데스크톱: 세션 생성
	w := doJSON(t, router, http.MethodPost, "/api/capture/sessions", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created CreateCaptureSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)
	assert.Contains(t, created.CaptureURL, "/capture?session="+created.SessionID)

	// QR은 PNG로 내려옴
	w = doJSON(t, router, http.MethodGet, "/api/capture/sessions/"+created.SessionID+"/qr", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	// 모바일: 세션 조회 (인증 없음)
	w = doJSON(t, router, http.MethodGet, "/capture/sessions/"+created.SessionID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var session handoff.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, handoff.StateAwaitingCapture, session.State)

	// 데스크톱 측 구독: 제출이 이벤트로 관찰되어야 함
	sub := CaptureHub().Subscribe(session.ProfileID)
	defer sub.Close()

	// 모바일: 사진 제출
	w = doJSON(t, router, http.MethodPost, "/capture/sessions/"+created.SessionID+"/photos", "", gin.H{
		"photoDataUri": photoDataURI("front-photo"),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var submitted SubmitCaptureResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitted))
	assert.Equal(t, "complete", submitted.Status)
	assert.NotEmpty(t, submitted.AvatarURL)

	// capturing → complete 이벤트가 푸시로 도착함
	var sawComplete bool
	deadline := time.After(2 * time.Second)
	for !sawComplete {
		select {
		case event := <-sub.C:
			if event.State == handoff.StateComplete {
				assert.Equal(t, submitted.AvatarURL, event.AvatarURL)
				sawComplete = true
			}
		case <-deadline:
			t.Fatal("no complete event observed")
		}
	}

	// 프로필에는 아바타와 치수가 함께 기록됨
	w = doJSON(t, router, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, submitted.AvatarURL, profile["avatarUrl"])
	assert.NotEmpty(t, profile["measurements"])

	// 완료된 세션으로 다시 제출하면 409
	w = doJSON(t, router, http.MethodPost, "/capture/sessions/"+created.SessionID+"/photos", "", gin.H{
		"photoDataUri": photoDataURI("front-photo"),
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 이제 치수가 있으니 추천이 나옴
	w = doJSON(t, router, http.MethodPost, "/api/fit/recommendation", token, gin.H{"garmentId": "uniqlo-airism"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp RecommendFitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Scores, 4)
	assert.NotEmpty(t, resp.BestFit)
}

func TestSubmitCapturePhoto_UnknownSession(t *testing.T) {
	router := testRouter()
	w := doJSON(t, router, http.MethodPost, "/capture/sessions/not-a-session/photos", "", gin.H{
		"photoDataUri": photoDataURI("photo"),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitCapturePhoto_RejectsPlainURL(t *testing.T) {
	router := testRouter()
	token := signupAndLogin(t, router, "badphoto@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/capture/sessions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var created CreateCaptureSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost, "/capture/sessions/"+created.SessionID+"/photos", "", gin.H{
		"photoDataUri": "https://example.com/photo.jpg",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaptureSessionQR_ForeignSessionForbidden(t *testing.T) {
	router := testRouter()
	owner := signupAndLogin(t, router, "qr-owner@example.com")
	intruder := signupAndLogin(t, router, "qr-intruder@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/capture/sessions", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var created CreateCaptureSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodGet, "/api/capture/sessions/"+created.SessionID+"/qr", intruder, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateProfile_MergeAndValidation(t *testing.T) {
	router := testRouter()
	token := signupAndLogin(t, router, "patch@example.com")

	w := doJSON(t, router, http.MethodPatch, "/api/profile", token, gin.H{"gender": "not-a-gender"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/api/profile", token, gin.H{"displayName": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Renamed", profile["displayName"])
	assert.Equal(t, "female", profile["gender"], "gender must survive a displayName-only patch")
}

func TestDeleteAccount_RemovesLogin(t *testing.T) {
	router := testRouter()
	token := signupAndLogin(t, router, "goodbye@example.com")

	w := doJSON(t, router, http.MethodDelete, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/login", "", gin.H{
		"email":    "goodbye@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
