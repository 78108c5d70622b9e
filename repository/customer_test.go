package repository

import (
	"testing"

	"boostbot-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestPruneEmpty(t *testing.T) {
	clean := pruneEmpty(map[string]interface{}{
		"name":            "Sara",
		"email":           "",
		"address":         nil,
		"socials":         []string{},
		"interest_groups": []string{"Power Banks"},
		"tags":            models.StringList{},
		"escalation":      false,
	})

	assert.Equal(t, "Sara", clean["name"])
	assert.Equal(t, models.StringList{"Power Banks"}, clean["interest_groups"])
	// A present-but-false bool is a real value, not an empty one.
	assert.Equal(t, false, clean["escalation"])

	// Empty values never reach the write, so they can never erase data.
	assert.NotContains(t, clean, "email")
	assert.NotContains(t, clean, "address")
	assert.NotContains(t, clean, "socials")
	assert.NotContains(t, clean, "tags")
}

func TestPruneEmptyAllEmpty(t *testing.T) {
	clean := pruneEmpty(map[string]interface{}{
		"name":  "",
		"email": nil,
	})
	assert.Empty(t, clean)
}
