package routes

import (
	"net/http"
	"time"

	"boostbot-backend/config"
	"boostbot-backend/controllers"
	"boostbot-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth          *controllers.AuthController
	Webhook       *controllers.WebhookController
	ReferralLinks *controllers.ReferralLinksController
	Campaigns     *controllers.CampaignController
	Customers     *controllers.CustomerController
	Chats         *controllers.ChatController
}

func SetupRouter(cfg *config.Config, ctrl Controllers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(config.PerformanceLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.TrustedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public surface: Twilio webhook plus the referral deep-link redirects.
	r.POST("/webhook/whatsapp", ctrl.Webhook.IncomingMessage)
	r.GET("/ref/*path", ctrl.ReferralLinks.Redirect)

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.GET("/me", utils.AuthMiddleware(), ctrl.Auth.Me)
	}

	// Dashboard API, JWT-protected.
	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		campaigns := api.Group("/campaigns")
		{
			campaigns.POST("", ctrl.Campaigns.CreateCampaign)
			campaigns.GET("", ctrl.Campaigns.GetCampaigns)
			campaigns.GET("/active", ctrl.Campaigns.GetActiveCampaigns)
			campaigns.GET("/:code", ctrl.Campaigns.GetCampaign)
			campaigns.PATCH("/:code", ctrl.Campaigns.UpdateCampaign)
			campaigns.DELETE("/:code", ctrl.Campaigns.DeleteCampaign)
			campaigns.GET("/:code/leaderboard", ctrl.Campaigns.GetLeaderboard)
		}

		customers := api.Group("/customers")
		{
			customers.GET("", ctrl.Customers.GetCustomers)
			customers.GET("/tags", ctrl.Customers.GetTags)
			customers.GET("/:phone", ctrl.Customers.GetCustomer)
			customers.PATCH("/:phone", ctrl.Customers.UpdateCustomer)
			customers.DELETE("/:phone", ctrl.Customers.DeleteCustomer)
		}

		chats := api.Group("/chats")
		{
			chats.GET("", ctrl.Chats.GetConversations)
			chats.GET("/:phone", ctrl.Chats.GetChatHistory)
			chats.POST("/:phone/messages", ctrl.Chats.SendMessage)
			chats.PUT("/:phone/escalation", ctrl.Chats.SetEscalation)
		}
	}

	return r
}
