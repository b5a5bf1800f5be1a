package main

import (
	"context"
	"log"
	"os"

	_ "fitroom/docs"
	"fitroom/internal/avatar"
	"fitroom/internal/fit"
	"fitroom/internal/handler"
	"fitroom/internal/middleware"
	"fitroom/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title        fitroom API
// @version      1.0
// @description  가상 피팅룸 백엔드: 프로필, 크로스 디바이스 캡처 핸드오프, 사이즈 추천
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("main(): no .env file found, using process environment")
	}

	storage.InitDB(envOr("FITROOM_DB_PATH", "./fitroom.db"))

	handler.Configure(
		buildScorer(),
		buildAvatarGenerator(),
		envOr("PUBLIC_BASE_URL", "http://localhost:3000"),
	)

	router := gin.Default()
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", "X-Invite-Code")
	router.Use(cors.New(config))

	router.POST("/signup", middleware.InviteCodeMiddleware(), handler.Signup)
	router.POST("/login", handler.Login)

	protected := router.Group("/api").Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile", handler.GetProfile)
		protected.PATCH("/profile", handler.UpdateProfile)
		protected.DELETE("/profile", handler.DeleteAccount)
		protected.GET("/garments", handler.ListGarments)
		protected.POST("/fit/recommendation", middleware.RateLimitByIP(2, 5), handler.RecommendFit)
		protected.POST("/capture/sessions", handler.CreateCaptureSession)
		protected.GET("/capture/sessions/:id/qr", handler.CaptureSessionQR)
	}

	// 모바일 캡처 기기는 로그인 없이 세션 ID로 동작함
	router.GET("/capture/sessions/:id", handler.GetCaptureSession)
	router.POST("/capture/sessions/:id/photos", middleware.RateLimitByIP(1, 3), handler.SubmitCapturePhoto)

	router.GET("/ws/capture", handler.HandleCaptureWatch)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Fatal(router.Run(":8080"))
}

// buildScorer picks the generative scorer when an API key is configured and
// falls back to the deterministic engine otherwise.
func buildScorer() fit.Scorer {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("main(): GEMINI_API_KEY not set, using deterministic fit engine")
		return fit.NewEngine()
	}
	scorer, err := fit.NewGeminiScorer(context.Background(), apiKey, os.Getenv("FIT_SCORING_MODEL"))
	if err != nil {
		log.Printf("main(): failed to init Gemini scorer, using deterministic fit engine: %v", err)
		return fit.NewEngine()
	}
	return scorer
}

func buildAvatarGenerator() avatar.Generator {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("main(): GEMINI_API_KEY not set, using static avatar generator")
		return avatar.StaticGenerator{}
	}
	generator, err := avatar.NewGeminiGenerator(context.Background(), apiKey, os.Getenv("AVATAR_MODEL"))
	if err != nil {
		log.Printf("main(): failed to init Gemini avatar generator, using static generator: %v", err)
		return avatar.StaticGenerator{}
	}
	return generator
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
