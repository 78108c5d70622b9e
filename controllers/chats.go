package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"boostbot-backend/logging"
	"boostbot-backend/models"
	"boostbot-backend/repository"
	"boostbot-backend/services"
	"boostbot-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatController struct {
	chats     *repository.ChatRepository
	customers *repository.CustomerRepository
	transport services.Transport
}

func NewChatController(chats *repository.ChatRepository, customers *repository.CustomerRepository, transport services.Transport) *ChatController {
	return &ChatController{chats: chats, customers: customers, transport: transport}
}

// GetConversations lists the phone numbers with chat history, most
// recently active first.
func (cc *ChatController) GetConversations(c *gin.Context) {
	phones, err := cc.chats.Phones()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve conversations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": phones})
}

// GetChatHistory returns recent messages for one phone number in
// chronological order.
func (cc *ChatController) GetChatHistory(c *gin.Context) {
	phone := utils.NormalizePhone(c.Param("phone"))
	if phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	messages, err := cc.chats.Recent(phone, limit)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve chat history")
		return
	}

	total, err := cc.chats.CountByPhone(phone)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": total})
}

type SendMessageInput struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage lets a dashboard representative reply in a conversation.
// The message goes out over WhatsApp and lands in the ledger with the
// representative sender tag, so the bot's context window includes it.
func (cc *ChatController) SendMessage(c *gin.Context) {
	phone := utils.NormalizePhone(c.Param("phone"))
	if phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := cc.transport.Send(c.Request.Context(), phone, input.Content); err != nil {
		logging.L().Error("representative send failed",
			zap.String("phone", phone), zap.Error(err))
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to deliver message")
		return
	}

	message := models.ChatMessage{
		PhoneNumber: phone,
		Sender:      models.SenderRepresentative,
		Content:     input.Content,
		ContentType: "text",
		SentAt:      time.Now(),
	}
	if err := cc.chats.Append(&message); err != nil {
		// Delivered but not recorded. Surface it, the send already went out.
		logging.L().Error("failed to record representative message",
			zap.String("phone", phone), zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Message sent but not recorded")
		return
	}

	c.JSON(http.StatusCreated, message)
}

type EscalationInput struct {
	Escalated *bool `json:"escalated" binding:"required"`
}

// SetEscalation toggles the human-takeover flag. While set, the bot
// stores inbound messages but produces no replies.
func (cc *ChatController) SetEscalation(c *gin.Context) {
	phone := utils.NormalizePhone(c.Param("phone"))
	if phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	var input EscalationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if _, err := cc.customers.GetByPhone(phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := cc.customers.SetEscalation(phone, *input.Escalated); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update escalation status")
		return
	}

	logging.L().Info("escalation status changed",
		zap.String("phone", phone), zap.Bool("escalated", *input.Escalated))
	c.JSON(http.StatusOK, gin.H{"phone": phone, "escalated": *input.Escalated})
}
