package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateReferralCode()
		assert.True(t, ValidReferralCode(code), "generated code %q must be six uppercase letters", code)
	}
	for i := 0; i < 100; i++ {
		code := GenerateCampaignCode()
		assert.True(t, ValidCampaignCode(code), "generated code %q must be four uppercase letters", code)
	}
}

func TestValidReferralCode(t *testing.T) {
	assert.True(t, ValidReferralCode("GOBCKX"))
	assert.False(t, ValidReferralCode("gobckx"))
	assert.False(t, ValidReferralCode("GOBCK"))
	assert.False(t, ValidReferralCode("GOBCKXX"))
	assert.False(t, ValidReferralCode("GOBCK1"))
	assert.False(t, ValidReferralCode(""))
}

func TestValidCampaignCode(t *testing.T) {
	assert.True(t, ValidCampaignCode("AGSP"))
	assert.False(t, ValidCampaignCode("agsp"))
	assert.False(t, ValidCampaignCode("AGS"))
	assert.False(t, ValidCampaignCode("AGSPX"))
	assert.False(t, ValidCampaignCode("AG5P"))
}
