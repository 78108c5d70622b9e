// services/intent.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"boostbot-backend/logging"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// AgentKind is the closed set of downstream conversation agents.
type AgentKind string

const (
	AgentGreeting AgentKind = "GreetingAgent"
	AgentD2C      AgentKind = "D2CSupportAgent"
	AgentB2B      AgentKind = "B2BSupportAgent"
)

func (k AgentKind) Valid() bool {
	switch k {
	case AgentGreeting, AgentD2C, AgentB2B:
		return true
	}
	return false
}

// InterestVocabulary is the closed set of interest-group labels the
// classifier may emit. Anything outside it is invalid output.
var InterestVocabulary = []string{
	"Bluetooth Headphones",
	"Bluetooth Speakers",
	"Wireless Earbuds",
	"Gaming Chairs",
	"Smart Watches",
	"Enclosure",
	"Power Supply",
	"Office Mouse",
	"CPU Coolers",
	"Computer Accessories",
	"Power Banks",
	"Gaming Mouse",
	"Gaming Monitors",
	"Combo",
	"Core",
}

var interestVocabularySet = func() map[string]bool {
	set := make(map[string]bool, len(InterestVocabulary))
	for _, v := range InterestVocabulary {
		set[v] = true
	}
	return set
}()

// RoutingDecision is the classifier's structured output.
type RoutingDecision struct {
	UserMessage      string    `json:"user_message"`
	NextAgent        AgentKind `json:"next_agent"`
	RoutingReasoning string    `json:"routing_reasoning,omitempty"`
	Name             string    `json:"name,omitempty"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address,omitempty"`
	Socials          []string  `json:"socials,omitempty"`
	InterestGroups   []string  `json:"interest_groups"`
}

// HasProfileData reports whether the decision carries any extracted
// customer attributes worth merging into the directory.
func (d *RoutingDecision) HasProfileData() bool {
	return d.Name != "" || d.Email != "" || d.Address != "" ||
		len(d.Socials) > 0 || len(d.InterestGroups) > 0
}

// Validate enforces the output contract. lastMessage is the verbatim
// inbound message the decision must echo.
func (d *RoutingDecision) Validate(lastMessage string) error {
	if !d.NextAgent.Valid() {
		return fmt.Errorf("%w: next_agent %q", ErrMalformedModelOutput, d.NextAgent)
	}
	if d.UserMessage != lastMessage {
		return fmt.Errorf("%w: user_message does not echo the inbound message", ErrMalformedModelOutput)
	}
	for _, group := range d.InterestGroups {
		if !interestVocabularySet[group] {
			return fmt.Errorf("%w: interest group %q outside vocabulary", ErrMalformedModelOutput, group)
		}
	}
	return nil
}

const classifierInstructions = `You are a conversation sentiment and intent router for a WhatsApp
customer support bot. Analyze the most recent customer message and produce a routing decision.

Rules:
- Classify intent into exactly one of: greeting (social pleasantries, no business ask),
  d2c_support (individual consumer help with products, orders, delivery, returns, refunds),
  b2b_support (bulk orders, wholesale pricing, partnerships, enterprise, vendor relationships).
- Map intent to next_agent: greeting -> GreetingAgent,
  d2c_support -> D2CSupportAgent, b2b_support -> B2BSupportAgent.
- Customer type override: if the customer context says customer_type B2B, route ALL support
  requests to B2BSupportAgent regardless of message wording. If D2C, route all support to
  D2CSupportAgent. If unknown, default support to D2CSupportAgent.
- If the latest message is ambiguous ("yes", "okay", "still waiting"), use the previous 1-2
  messages to decide whether it continues a support thread or a greeting exchange.
- user_message must copy the latest customer message exactly: same capitalization,
  punctuation, spacing and special characters. Never paraphrase.
- Extract name only if the customer context has it or the customer stated it explicitly.
  Email, address and socials come from customer context only.
- interest_groups: combine groups listed in the customer context with groups inferred from
  product mentions in the message, mapped onto the allowed vocabulary. Drop mentions that
  do not map; never invent values. Deduplicate. Empty list if nothing matches.
- routing_reasoning: at most 25 words.`

const (
	classifyTimeout = 30 * time.Second
	classifyBackoff = time.Second
)

// GeminiClassifier implements Classifier over the Gemini API using
// strict JSON schema mode, so non-conforming payloads are rejected by
// the service instead of coerced.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

// Classify runs the routing decision with a bounded timeout and a
// single retry. Schema-invalid output is surfaced as
// ErrMalformedModelOutput after the retry budget is spent.
func (c *GeminiClassifier) Classify(ctx context.Context, gc *GlobalContext, message string) (*RoutingDecision, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(classifyBackoff):
			}
		}
		decision, err := c.classifyOnce(ctx, gc, message)
		if err == nil {
			return decision, nil
		}
		lastErr = err
		logging.L().Warn("intent classification attempt failed",
			zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return nil, lastErr
}

func (c *GeminiClassifier) classifyOnce(ctx context.Context, gc *GlobalContext, message string) (*RoutingDecision, error) {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	prompt := fmt.Sprintf("%s\n\n%s\n\n%s\n\nLatest customer message:\n%s",
		gc.CustomerPrompt(), gc.CampaignsPrompt(), gc.HistoryPrompt(), message)

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(classifierInstructions, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    routingDecisionSchema(),
			Temperature:       genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("reasoning service call: %w", err)
	}

	var decision RoutingDecision
	if err := json.Unmarshal([]byte(resp.Text()), &decision); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedModelOutput, err)
	}
	if err := decision.Validate(message); err != nil {
		return nil, err
	}
	return &decision, nil
}

func routingDecisionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"user_message": {Type: genai.TypeString},
			"next_agent": {
				Type: genai.TypeString,
				Enum: []string{
					string(AgentGreeting),
					string(AgentD2C),
					string(AgentB2B),
				},
			},
			"routing_reasoning": {Type: genai.TypeString, Nullable: genai.Ptr(true)},
			"name":              {Type: genai.TypeString, Nullable: genai.Ptr(true)},
			"email":             {Type: genai.TypeString, Nullable: genai.Ptr(true)},
			"address":           {Type: genai.TypeString, Nullable: genai.Ptr(true)},
			"socials": {
				Type:     genai.TypeArray,
				Items:    &genai.Schema{Type: genai.TypeString},
				Nullable: genai.Ptr(true),
			},
			"interest_groups": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeString,
					Enum: InterestVocabulary,
				},
			},
		},
		Required: []string{"user_message", "next_agent", "interest_groups"},
	}
}
