// services/bot.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"boostbot-backend/logging"
	"boostbot-backend/models"
	"boostbot-backend/repository"

	"go.uber.org/zap"
)

const historyWindow = 10

// apologyReply is sent whenever the correctness-critical path (classifier
// or agent) fails for a turn. The customer always gets some reply.
const apologyReply = "Sorry, something went wrong on our side while handling your message. " +
	"Please try again in a little while 🙏"

// Bot is the routing dispatcher: it decides per inbound message whether
// to run the referral workflow or the classifier + agent pipeline, and
// owns the conversation ledger writes around it.
type Bot struct {
	customers  CustomerStore
	chats      ChatStore
	campaigns  CampaignStore
	referrals  *ReferralService
	classifier Classifier
	agents     map[AgentKind]AgentHandler
	transport  Transport

	// Per-phone serialization: messages from the same customer are
	// processed one at a time, while different customers proceed
	// concurrently.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBot(
	customers CustomerStore,
	chats ChatStore,
	campaigns CampaignStore,
	referrals *ReferralService,
	classifier Classifier,
	agents map[AgentKind]AgentHandler,
	transport Transport,
) *Bot {
	return &Bot{
		customers:  customers,
		chats:      chats,
		campaigns:  campaigns,
		referrals:  referrals,
		classifier: classifier,
		agents:     agents,
		transport:  transport,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (b *Bot) phoneLock(phone string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.locks[phone]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[phone] = lock
	}
	return lock
}

// HandleInbound processes one customer message end to end: ledger
// append, routing, reply append and WhatsApp send. It never returns an
// error; fatal turn errors degrade to an apology reply.
func (b *Bot) HandleInbound(ctx context.Context, phone, content, contentType string) {
	lock := b.phoneLock(phone)
	lock.Lock()
	defer lock.Unlock()

	log := logging.L().With(zap.String("phone", phone))

	// History is captured before the inbound append so the context
	// window contains only prior turns, matching what the classifier
	// expects alongside the standalone latest message.
	history, err := b.chats.Recent(phone, historyWindow)
	if err != nil {
		log.Error("loading chat history failed", zap.Error(err))
		history = nil
	}

	if err := b.chats.Append(&models.ChatMessage{
		PhoneNumber: phone,
		Sender:      models.SenderCustomer,
		Content:     content,
		ContentType: contentType,
		SentAt:      time.Now(),
	}); err != nil {
		log.Error("appending customer message failed", zap.Error(err))
	}

	customer, err := b.getOrCreateCustomer(phone)
	if err != nil {
		log.Error("customer lookup failed", zap.Error(err))
		b.reply(ctx, phone, apologyReply, log)
		return
	}

	if customer.EscalationStatus {
		log.Info("customer escalated, skipping AI routing")
		return
	}

	campaigns, err := b.campaigns.Active()
	if err != nil {
		log.Warn("loading active campaigns failed", zap.Error(err))
	}
	gc := &GlobalContext{Customer: customer, History: history, Campaigns: campaigns}

	var reply string
	if _, _, ok := ExtractCodes(content); ok {
		reply, err = b.referrals.Workflow(ctx, content, phone, gc)
		if err != nil {
			log.Error("referral workflow failed", zap.Error(err))
			reply = apologyReply
		}
	} else {
		reply, err = b.routeToAgent(ctx, gc, phone, content)
		if err != nil {
			log.Error("agent routing failed", zap.Error(err))
			reply = apologyReply
		}
	}

	if err := b.chats.Append(&models.ChatMessage{
		PhoneNumber: phone,
		Sender:      models.SenderAgent,
		Content:     reply,
		ContentType: "text",
		SentAt:      time.Now(),
	}); err != nil {
		log.Error("appending agent reply failed", zap.Error(err))
	}

	b.reply(ctx, phone, reply, log)
}

func (b *Bot) reply(ctx context.Context, phone, text string, log *zap.Logger) {
	if err := b.transport.Send(ctx, phone, text); err != nil {
		log.Error("sending whatsapp reply failed", zap.Error(err))
	}
}

// routeToAgent runs the classifier, merges any extracted profile
// attributes into the directory, and hands the turn to the selected
// agent. Classifier contract violations propagate as errors.
func (b *Bot) routeToAgent(ctx context.Context, gc *GlobalContext, phone, message string) (string, error) {
	decision, err := b.classifier.Classify(ctx, gc, message)
	if err != nil {
		return "", fmt.Errorf("classify intent: %w", err)
	}

	if decision.HasProfileData() {
		updates := map[string]interface{}{
			"name":            decision.Name,
			"email":           decision.Email,
			"address":         decision.Address,
			"socials":         decision.Socials,
			"interest_groups": decision.InterestGroups,
		}
		if err := b.customers.Merge(phone, updates); err != nil {
			// Enrichment is best-effort; the reply pipeline continues.
			logging.L().Error("customer profile merge failed",
				zap.String("phone", phone), zap.Error(err))
		}
	}

	handler, ok := b.agents[decision.NextAgent]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAgent, decision.NextAgent)
	}
	logging.L().Info("routing to agent",
		zap.String("phone", phone),
		zap.String("agent", string(decision.NextAgent)),
		zap.String("reasoning", decision.RoutingReasoning))

	return handler.Handle(ctx, gc, message)
}

func (b *Bot) getOrCreateCustomer(phone string) (*models.Customer, error) {
	customer, err := b.customers.GetByPhone(phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	customer = &models.Customer{
		PhoneNumber:  phone,
		CustomerType: models.CustomerTypeD2C,
		IsActive:     true,
		Tags:         models.StringList{"new customer"},
	}
	if err := b.customers.Create(customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	logging.L().Info("new customer created", zap.String("phone", phone))

	// Every customer gets a referral record lazily; failure here must
	// not block the conversation.
	if _, err := b.referrals.GetOrCreate(phone, "", "", ""); err != nil {
		logging.L().Warn("ensuring referral record failed",
			zap.String("phone", phone), zap.Error(err))
	}
	return customer, nil
}
