package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/getauthentic/backend/pkg/auth"
	"github.com/getauthentic/backend/pkg/logger"
)

// RouterDeps carries everything the router assembly needs. Nil Redis simply
// disables rate limiting, which the tests rely on.
type RouterDeps struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Media     *MediaHandler
	Quiz      *QuizHandler
	Billing   *BillingHandler
	Assistant *AssistantHandler

	JWTService *auth.JWTService
	Redis      *redis.Client
	Logger     logger.Logger

	StaticDir string
	MediaDir  string
	// AskAILimit requests per AskAIWindow and client IP.
	AskAILimit  int
	AskAIWindow time.Duration
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ErrorMiddleware(deps.Logger))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "Stripe-Signature")
	router.Use(cors.New(corsCfg))

	api := router.Group("/api")
	{
		api.POST("/signup", deps.Auth.Signup)
		api.GET("/verify-email", deps.Auth.VerifyEmail)
		api.POST("/login", deps.Auth.Login)

		api.POST("/profile-update", deps.Profile.UpdateProfile)
		api.POST("/upload-result-image", deps.Media.UploadResultImage)

		api.POST("/quiz-result", deps.Quiz.SaveResult)
		api.GET("/quiz-result", deps.Quiz.GetResult)

		api.GET("/subscription-status", deps.Billing.SubscriptionStatus)
		api.POST("/create-checkout-session", deps.Billing.CreateCheckoutSession)

		// Direct activation bypasses payment verification, so it is limited
		// to authenticated callers; the webhook is the authoritative path.
		api.POST("/subscribe", AuthMiddleware(deps.JWTService, deps.Logger), deps.Billing.Subscribe)

		askAI := api.Group("/")
		if deps.Redis != nil {
			limit, window := deps.AskAILimit, deps.AskAIWindow
			if limit <= 0 {
				limit = 20
			}
			if window <= 0 {
				window = time.Minute
			}
			askAI.Use(RateLimitMiddleware(deps.Redis, limit, window, deps.Logger))
		}
		askAI.POST("/ask-ai", deps.Assistant.AskAI)
	}

	router.POST("/webhook", deps.Billing.Webhook)

	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "UP"}) })

	if deps.MediaDir != "" {
		router.Static("/uploads", deps.MediaDir)
	}
	if deps.StaticDir != "" {
		router.NoRoute(SPAFallback(deps.StaticDir))
	}

	return router
}
