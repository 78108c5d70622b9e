package services

import (
	"fmt"
	"strings"

	"boostbot-backend/models"
)

// GlobalContext is the per-turn snapshot handed to the classifier and
// the reply agents: the customer profile as known so far, the recent
// conversation window and the active campaigns.
type GlobalContext struct {
	Customer  *models.Customer
	History   []models.ChatMessage
	Campaigns []models.Campaign
}

// CustomerPrompt renders the profile snapshot for prompt injection.
func (g *GlobalContext) CustomerPrompt() string {
	if g.Customer == nil {
		return "Customer context: unknown customer, no profile on record."
	}
	c := g.Customer
	var b strings.Builder
	b.WriteString("Customer context:\n")
	fmt.Fprintf(&b, "- phone_number: %s\n", c.PhoneNumber)
	fmt.Fprintf(&b, "- customer_type: %s\n", c.CustomerType)
	if c.Name != "" {
		fmt.Fprintf(&b, "- name: %s\n", c.Name)
	}
	if c.Email != "" {
		fmt.Fprintf(&b, "- email: %s\n", c.Email)
	}
	if c.Address != "" {
		fmt.Fprintf(&b, "- address: %s\n", c.Address)
	}
	if c.CompanyName != "" {
		fmt.Fprintf(&b, "- company: %s\n", c.CompanyName)
	}
	if len(c.Socials) > 0 {
		fmt.Fprintf(&b, "- socials: %s\n", strings.Join(c.Socials, ", "))
	}
	if len(c.InterestGroups) > 0 {
		fmt.Fprintf(&b, "- interest_groups: %s\n", strings.Join(c.InterestGroups, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// HistoryPrompt renders the conversation window oldest to newest.
func (g *GlobalContext) HistoryPrompt() string {
	if len(g.History) == 0 {
		return "Chat history: (empty)"
	}
	var b strings.Builder
	b.WriteString("Chat history (oldest first):\n")
	for _, m := range g.History {
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.SentAt.Format("2006-01-02 15:04"), m.Sender, m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// CampaignsPrompt renders the active campaign list.
func (g *GlobalContext) CampaignsPrompt() string {
	if len(g.Campaigns) == 0 {
		return "Active campaigns: none"
	}
	var b strings.Builder
	b.WriteString("Active campaigns:\n")
	for _, c := range g.Campaigns {
		fmt.Fprintf(&b, "- %s (%s): %s\n", c.Name, c.Code, c.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// LastCustomerMessage returns the newest customer-sent message content.
func (g *GlobalContext) LastCustomerMessage() string {
	for i := len(g.History) - 1; i >= 0; i-- {
		if g.History[i].Sender == models.SenderCustomer {
			return g.History[i].Content
		}
	}
	return ""
}
