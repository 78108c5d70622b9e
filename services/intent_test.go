package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentKindValid(t *testing.T) {
	assert.True(t, AgentGreeting.Valid())
	assert.True(t, AgentD2C.Valid())
	assert.True(t, AgentB2B.Valid())
	assert.False(t, AgentKind("OrderAgent").Valid())
	assert.False(t, AgentKind("").Valid())
	assert.False(t, AgentKind("greetingagent").Valid())
}

func TestRoutingDecisionValidate(t *testing.T) {
	const inbound = "Hi, do you have gaming monitors?"

	valid := RoutingDecision{
		UserMessage:    inbound,
		NextAgent:      AgentD2C,
		InterestGroups: []string{"Gaming Monitors"},
	}
	assert.NoError(t, valid.Validate(inbound))

	t.Run("agent outside the closed set", func(t *testing.T) {
		d := valid
		d.NextAgent = AgentKind("SalesAgent")
		assert.ErrorIs(t, d.Validate(inbound), ErrMalformedModelOutput)
	})

	t.Run("paraphrased echo", func(t *testing.T) {
		d := valid
		d.UserMessage = "hi, do you have gaming monitors?"
		assert.ErrorIs(t, d.Validate(inbound), ErrMalformedModelOutput)
	})

	t.Run("interest outside vocabulary", func(t *testing.T) {
		d := valid
		d.InterestGroups = []string{"Gaming Monitors", "Mechanical Keyboards"}
		assert.ErrorIs(t, d.Validate(inbound), ErrMalformedModelOutput)
	})

	t.Run("empty interests are fine", func(t *testing.T) {
		d := valid
		d.InterestGroups = nil
		assert.NoError(t, d.Validate(inbound))
	})
}

func TestHasProfileData(t *testing.T) {
	assert.False(t, (&RoutingDecision{UserMessage: "hi", NextAgent: AgentGreeting}).HasProfileData())
	assert.True(t, (&RoutingDecision{Name: "Sara"}).HasProfileData())
	assert.True(t, (&RoutingDecision{Email: "sara@example.com"}).HasProfileData())
	assert.True(t, (&RoutingDecision{Socials: []string{"@sara"}}).HasProfileData())
	assert.True(t, (&RoutingDecision{InterestGroups: []string{"Core"}}).HasProfileData())
}

func TestRoutingDecisionSchemaClosed(t *testing.T) {
	schema := routingDecisionSchema()

	assert.ElementsMatch(t,
		[]string{"user_message", "next_agent", "interest_groups"},
		schema.Required)

	agentEnum := schema.Properties["next_agent"].Enum
	assert.ElementsMatch(t, []string{"GreetingAgent", "D2CSupportAgent", "B2BSupportAgent"}, agentEnum)

	interestEnum := schema.Properties["interest_groups"].Items.Enum
	assert.ElementsMatch(t, InterestVocabulary, interestEnum)
}
