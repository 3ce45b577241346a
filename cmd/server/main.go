package main

import (
	"log"

	"github.com/getauthentic/backend/adapters/billing"
	"github.com/getauthentic/backend/adapters/event"
	httpAdapter "github.com/getauthentic/backend/adapters/http"
	"github.com/getauthentic/backend/adapters/llm"
	"github.com/getauthentic/backend/adapters/mailer"
	"github.com/getauthentic/backend/adapters/media_storage"
	"github.com/getauthentic/backend/adapters/persistence"
	"github.com/getauthentic/backend/internal/application/service"
	assistantUC "github.com/getauthentic/backend/internal/application/usecase/assistant"
	authUC "github.com/getauthentic/backend/internal/application/usecase/auth"
	billingUC "github.com/getauthentic/backend/internal/application/usecase/billing"
	mediaUC "github.com/getauthentic/backend/internal/application/usecase/media"
	profileUC "github.com/getauthentic/backend/internal/application/usecase/profile"
	quizUC "github.com/getauthentic/backend/internal/application/usecase/quiz"
	"github.com/getauthentic/backend/internal/config"
	"github.com/getauthentic/backend/pkg/auth"
	"github.com/getauthentic/backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting GetAuthentic API server...")

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)

	// Provider adapters, constructed once at startup and injected.
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	mailSvc, err := mailer.NewMailgunAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize mailer", err)
	}

	var uploader service.Uploader
	if cfg.Media.Provider == "cloudinary" {
		uploader, err = media_storage.NewCloudinaryAdapter(cfg)
	} else {
		uploader, err = media_storage.NewDiskAdapter(cfg, appLogger)
	}
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	billingProvider, err := billing.NewStripeAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize billing provider", err)
	}

	llmSvc, err := llm.NewOpenAILLMAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM adapter", err)
	}

	plans := billingUC.Plans{
		MonthlyPriceID: cfg.Stripe.MonthlyPriceID,
		YearlyPriceID:  cfg.Stripe.YearlyPriceID,
	}

	// Use cases
	signupUseCase := authUC.NewSignupUseCase(userRepo, mailSvc, kafkaClient, appLogger)
	verifyEmailUseCase := authUC.NewVerifyEmailUseCase(userRepo, kafkaClient, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	updateProfileUseCase := profileUC.NewUpdateProfileUseCase(userRepo, appLogger)
	uploadResultImageUseCase := mediaUC.NewUploadResultImageUseCase(userRepo, uploader, appLogger)
	quizUseCase := quizUC.NewQuizUseCase(userRepo, kafkaClient, appLogger)
	billingUseCase := billingUC.NewBillingUseCase(userRepo, billingProvider, plans, cfg.App.FrontendURL, appLogger)
	webhookUseCase := billingUC.NewWebhookUseCase(userRepo, billingProvider, plans, redisClient, kafkaClient, appLogger)
	askUseCase := assistantUC.NewAskUseCase(userRepo, llmSvc, cfg.OpenAI.HistoryCap, appLogger)

	// HTTP
	deps := httpAdapter.RouterDeps{
		Auth:       httpAdapter.NewAuthHandler(signupUseCase, verifyEmailUseCase, loginUseCase, cfg.App.FrontendURL, appLogger),
		Profile:    httpAdapter.NewProfileHandler(updateProfileUseCase, appLogger),
		Media:      httpAdapter.NewMediaHandler(uploadResultImageUseCase, appLogger),
		Quiz:       httpAdapter.NewQuizHandler(quizUseCase, appLogger),
		Billing:    httpAdapter.NewBillingHandler(billingUseCase, webhookUseCase, appLogger),
		Assistant:  httpAdapter.NewAssistantHandler(askUseCase, appLogger),
		JWTService: jwtSvc,
		Redis:      redisClient,
		Logger:     appLogger,
		StaticDir:  cfg.App.StaticDir,
		MediaDir:   cfg.Media.Dir,
	}

	router := httpAdapter.NewRouter(deps)

	appLogger.Info("Server running on port " + cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("Cannot run server", err)
	}
}
