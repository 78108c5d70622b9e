package main

import (
	"context"
	"log"

	"boostbot-backend/config"
	"boostbot-backend/controllers"
	"boostbot-backend/logging"
	"boostbot-backend/models"
	"boostbot-backend/repository"
	"boostbot-backend/routes"
	"boostbot-backend/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if present (local development).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	if err := logging.InitLogger(cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.L().Sync()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logging.L().Fatal("database connection failed", zap.Error(err))
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.ChatMessage{},
		&models.Campaign{},
		&models.Referral{},
		&models.ReferredUser{},
		&models.CampaignPoints{},
	)
	if err != nil {
		logging.L().Fatal("database migration failed", zap.Error(err))
	}
	logging.L().Info("database migrated")

	customerRepo := repository.NewCustomerRepository(db)
	chatRepo := repository.NewChatRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	userRepo := repository.NewUserRepository(db)

	transport := services.NewTwilioTransport(cfg)

	classifier, err := services.NewGeminiClassifier(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logging.L().Fatal("classifier initialization failed", zap.Error(err))
	}
	agents := services.NewAgentTable(classifier)

	referralService := services.NewReferralService(referralRepo, campaignRepo, transport, cfg)

	bot := services.NewBot(customerRepo, chatRepo, campaignRepo, referralService, classifier, agents, transport)

	auditor := services.NewAuditor(referralRepo, campaignRepo)
	auditor.Start()
	defer auditor.Stop()

	ctrl := routes.Controllers{
		Auth:          controllers.NewAuthController(userRepo),
		Webhook:       controllers.NewWebhookController(bot),
		ReferralLinks: controllers.NewReferralLinksController(cfg),
		Campaigns:     controllers.NewCampaignController(campaignRepo, referralRepo),
		Customers:     controllers.NewCustomerController(customerRepo),
		Chats:         controllers.NewChatController(chatRepo, customerRepo, transport),
	}

	r := routes.SetupRouter(cfg, ctrl)

	logging.L().Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logging.L().Fatal("server failed", zap.Error(err))
	}
}
