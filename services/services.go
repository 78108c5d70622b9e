// Package services holds the message-handling core: the routing
// dispatcher, the referral workflow, the intent classifier and the
// downstream reply agents. Storage and transport are injected through
// the interfaces below so tests can run against in-memory fakes.
package services

import (
	"context"
	"errors"

	"boostbot-backend/models"

	"github.com/google/uuid"
)

var (
	// ErrMalformedModelOutput marks a reasoning-service payload that
	// failed schema validation. Fatal for the current turn.
	ErrMalformedModelOutput = errors.New("malformed model output")

	// ErrUnknownAgent marks a routing decision naming an agent outside
	// the closed set. Indicates a classifier contract violation.
	ErrUnknownAgent = errors.New("unknown next agent")

	// ErrCodeExhausted is returned when referral code generation keeps
	// colliding past the retry budget.
	ErrCodeExhausted = errors.New("referral code generation exhausted retries")
)

type CustomerStore interface {
	GetByPhone(phone string) (*models.Customer, error)
	Create(customer *models.Customer) error
	Merge(phone string, updates map[string]interface{}) error
	IsEscalated(phone string) (bool, error)
}

type ChatStore interface {
	Append(message *models.ChatMessage) error
	Recent(phone string, limit int) ([]models.ChatMessage, error)
}

type ReferralStore interface {
	GetByCode(code string) (*models.Referral, error)
	GetByPhone(phone string) (*models.Referral, error)
	Create(referral *models.Referral) error
	AddReferredUser(referralID uuid.UUID, phone, campaignCode string) (bool, error)
	IncrementPoints(referralID uuid.UUID, campaignCode string) error
	EnsurePointsEntry(referralID uuid.UUID, campaignCode string) error
}

type CampaignStore interface {
	GetByCode(code string) (*models.Campaign, error)
	Active() ([]models.Campaign, error)
}

// Transport is the outbound messaging side (WhatsApp via Twilio in
// production).
type Transport interface {
	Send(ctx context.Context, to, body string) error
	SendTemplate(ctx context.Context, to, templateSID string, params map[string]string) (string, error)
}

// Classifier produces a routing decision for the latest inbound message.
type Classifier interface {
	Classify(ctx context.Context, gc *GlobalContext, message string) (*RoutingDecision, error)
}

// AgentHandler is a terminal reply producer for one conversation lane.
type AgentHandler interface {
	Handle(ctx context.Context, gc *GlobalContext, message string) (string, error)
}
