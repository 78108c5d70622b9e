package controllers

import (
	"context"
	"net/http"
	"time"

	"boostbot-backend/logging"
	"boostbot-backend/services"
	"boostbot-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// messageTurnTimeout bounds one message's full handling (classifier,
// persistence, outbound send).
const messageTurnTimeout = 2 * time.Minute

type WebhookController struct {
	bot *services.Bot
}

func NewWebhookController(bot *services.Bot) *WebhookController {
	return &WebhookController{bot: bot}
}

// IncomingMessage receives Twilio's inbound WhatsApp webhook. Twilio
// posts form-encoded fields; From arrives as "whatsapp:+<number>".
// The turn runs as its own task so the webhook can acknowledge fast.
func (wc *WebhookController) IncomingMessage(c *gin.Context) {
	from := c.PostForm("From")
	body := c.PostForm("Body")
	messageSid := c.PostForm("MessageSid")

	phone := utils.NormalizePhone(from)
	if phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing or invalid From number")
		return
	}
	if body == "" {
		// Media-only messages are acknowledged but not routed.
		logging.L().Info("ignoring empty-body message",
			zap.String("phone", phone), zap.String("sid", messageSid))
		c.Status(http.StatusOK)
		return
	}

	logging.L().Info("inbound whatsapp message",
		zap.String("phone", phone), zap.String("sid", messageSid))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), messageTurnTimeout)
		defer cancel()
		wc.bot.HandleInbound(ctx, phone, body, "text")
	}()

	c.Status(http.StatusOK)
}
