// services/agents.go
package services

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

const agentReplyTimeout = 45 * time.Second

const greetingInstructions = `You are Boost Buddy, the friendly WhatsApp assistant of a consumer
electronics brand. The customer is making small talk or greeting you. Reply warmly in one or two
short sentences, use the customer's name when known, and gently offer help with products or
orders. Never invent order details or prices.`

const d2cInstructions = `You are Boost Buddy, the WhatsApp support assistant for individual
customers of a consumer electronics brand. Help with product questions, orders, delivery,
returns and warranty. Be concise and practical; WhatsApp replies should stay under a few short
paragraphs. If the request needs a human (payment disputes, legal issues), say a representative
will follow up. Never invent order status or stock information you do not have.`

const b2bInstructions = `You are Boost Buddy, the WhatsApp assistant for business customers of a
consumer electronics brand. Handle wholesale and bulk order enquiries, partnership requests and
commercial terms. Be professional and concise. For pricing commitments or contracts, collect the
requirements and say the sales team will confirm the details. Never quote firm prices yourself.`

// geminiAgent is a thin prompt layer over the reasoning service. Each
// downstream agent is one persona with its own instruction set.
type geminiAgent struct {
	client       *genai.Client
	model        string
	instructions string
}

func (a *geminiAgent) Handle(ctx context.Context, gc *GlobalContext, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, agentReplyTimeout)
	defer cancel()

	prompt := fmt.Sprintf("%s\n\n%s\n\n%s\n\nLatest customer message:\n%s",
		gc.CustomerPrompt(), gc.CampaignsPrompt(), gc.HistoryPrompt(), message)

	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(a.instructions, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("agent reply: %w", err)
	}
	return resp.Text(), nil
}

// NewAgentTable builds the dispatch table mapping each agent kind to
// its typed handler. The classifier shares the same client.
func NewAgentTable(classifier *GeminiClassifier) map[AgentKind]AgentHandler {
	return map[AgentKind]AgentHandler{
		AgentGreeting: &geminiAgent{client: classifier.client, model: classifier.model, instructions: greetingInstructions},
		AgentD2C:      &geminiAgent{client: classifier.client, model: classifier.model, instructions: d2cInstructions},
		AgentB2B:      &geminiAgent{client: classifier.client, model: classifier.model, instructions: b2bInstructions},
	}
}
