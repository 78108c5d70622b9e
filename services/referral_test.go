package services

import (
	"context"
	"testing"

	"boostbot-backend/config"
	"boostbot-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerBaseURL:            "https://bot.example.com",
		WhatsAppBusinessNumber:   "923000000000",
		ReferralPointTemplateSID: "HX123",
	}
}

func newTestReferralService(store *fakeReferralStore, campaigns *fakeCampaignStore, transport *fakeTransport) *ReferralService {
	return NewReferralService(store, campaigns, transport, testConfig())
}

func seedReferral(t *testing.T, store *fakeReferralStore, phone, code string) *models.Referral {
	t.Helper()
	referral := &models.Referral{ReferrerPhone: phone, ReferralCode: code}
	require.NoError(t, store.Create(referral))
	return referral
}

func TestExtractCodes(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		wantCampaign string
		wantReferral string
		wantOK       bool
	}{
		{
			name:         "exact pattern",
			message:      "I'm joining using this referral code: (Referral code: _AGSP-GOBCKX_) 🎉",
			wantCampaign: "AGSP",
			wantReferral: "GOBCKX",
			wantOK:       true,
		},
		{
			name:         "extra whitespace after colon",
			message:      "(Referral code:   _LUCK-ABCDEF_)",
			wantCampaign: "LUCK",
			wantReferral: "ABCDEF",
			wantOK:       true,
		},
		{
			name:    "lowercase codes rejected",
			message: "(Referral code: _agsp-gobckx_)",
			wantOK:  false,
		},
		{
			name:    "missing underscores",
			message: "(Referral code: AGSP-GOBCKX)",
			wantOK:  false,
		},
		{
			name:    "wrong lengths",
			message: "(Referral code: _AGS-GOBCK_)",
			wantOK:  false,
		},
		{
			name:    "plain chatter",
			message: "hi, what power banks do you have?",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign, referral, ok := ExtractCodes(tt.message)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCampaign, campaign)
			assert.Equal(t, tt.wantReferral, referral)
		})
	}
}

func TestCreditReferralIdempotent(t *testing.T) {
	store := newFakeReferralStore()
	campaigns := newFakeCampaignStore(&models.Campaign{Code: "AGSP", Name: "Lucky Draw", IsActive: true})
	transport := &fakeTransport{}
	svc := newTestReferralService(store, campaigns, transport)

	referrer := seedReferral(t, store, "923001111111", "GOBCKX")
	ctx := context.Background()

	require.NoError(t, svc.CreditReferral(ctx, "GOBCKX", "923002222222", "AGSP", true))
	require.NoError(t, svc.CreditReferral(ctx, "GOBCKX", "923002222222", "AGSP", true))

	assert.Equal(t, 1, store.creditedCount(referrer.ID, "AGSP"), "duplicate delivery must credit once")
	assert.Equal(t, 1, store.pointsFor(referrer.ID, "AGSP"), "points must match credited events")
	assert.Len(t, transport.templates, 1, "referrer notified only for the real credit")
	assert.Equal(t, "923001111111", transport.templates[0].To)
}

func TestCreditReferralDistinctCampaigns(t *testing.T) {
	store := newFakeReferralStore()
	campaigns := newFakeCampaignStore(
		&models.Campaign{Code: "AGSP", IsActive: true},
		&models.Campaign{Code: "LUCK", IsActive: true},
	)
	svc := newTestReferralService(store, campaigns, &fakeTransport{})

	referrer := seedReferral(t, store, "923001111111", "GOBCKX")
	ctx := context.Background()

	require.NoError(t, svc.CreditReferral(ctx, "GOBCKX", "923002222222", "AGSP", false))
	require.NoError(t, svc.CreditReferral(ctx, "GOBCKX", "923002222222", "LUCK", false))

	assert.Equal(t, 1, store.pointsFor(referrer.ID, "AGSP"))
	assert.Equal(t, 1, store.pointsFor(referrer.ID, "LUCK"))
}

func TestIsAlreadyReferred(t *testing.T) {
	store := newFakeReferralStore()
	svc := newTestReferralService(store, newFakeCampaignStore(), &fakeTransport{})

	referrer := seedReferral(t, store, "923001111111", "GOBCKX")
	_, err := store.AddReferredUser(referrer.ID, "923002222222", "AGSP")
	require.NoError(t, err)

	assert.True(t, svc.IsAlreadyReferred("923002222222", "GOBCKX", "AGSP"))
	assert.False(t, svc.IsAlreadyReferred("923003333333", "GOBCKX", "AGSP"))
	assert.False(t, svc.IsAlreadyReferred("923002222222", "GOBCKX", "LUCK"))

	// Unknown codes can never be credited.
	assert.True(t, svc.IsAlreadyReferred("923002222222", "NOPENO", "AGSP"))
}

func TestGetOrCreateReusesExisting(t *testing.T) {
	store := newFakeReferralStore()
	svc := newTestReferralService(store, newFakeCampaignStore(), &fakeTransport{})

	first, err := svc.GetOrCreate("923001111111", "Ali", "ali@example.com", "")
	require.NoError(t, err)
	assert.Len(t, first.ReferralCode, 6)

	second, err := svc.GetOrCreate("923001111111", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, first.ReferralCode, second.ReferralCode)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetOrCreateSeedsPointsEntry(t *testing.T) {
	store := newFakeReferralStore()
	svc := newTestReferralService(store, newFakeCampaignStore(), &fakeTransport{})

	referral, err := svc.GetOrCreate("923001111111", "", "", "AGSP")
	require.NoError(t, err)
	assert.Equal(t, 0, store.pointsFor(referral.ID, "AGSP"))
	store.mu.Lock()
	_, seeded := store.points[pairKey(referral.ID, "AGSP")]
	store.mu.Unlock()
	assert.True(t, seeded, "zero-point entry should exist immediately")
}

func TestGetOrCreateCodeExhaustion(t *testing.T) {
	store := newFakeReferralStore()
	store.collideAll = true
	svc := newTestReferralService(store, newFakeCampaignStore(), &fakeTransport{})

	_, err := svc.GetOrCreate("923001111111", "", "", "")
	assert.ErrorIs(t, err, ErrCodeExhausted)
}

func TestWorkflowIssuesOwnCode(t *testing.T) {
	store := newFakeReferralStore()
	campaigns := newFakeCampaignStore(&models.Campaign{Code: "AGSP", Name: "Lucky Draw", IsActive: true})
	transport := &fakeTransport{}
	svc := newTestReferralService(store, campaigns, transport)

	referrer := seedReferral(t, store, "923001111111", "GOBCKX")
	ctx := context.Background()

	message := "Hi! I'm joining using this referral code: (Referral code: _AGSP-GOBCKX_) 🎉"
	reply, err := svc.Workflow(ctx, message, "923002222222", &GlobalContext{})
	require.NoError(t, err)

	joiner, err := store.GetByPhone("923002222222")
	require.NoError(t, err)
	assert.NotEqual(t, "GOBCKX", joiner.ReferralCode)

	// The reply advertises the joiner's own share link, never the inviter's.
	assert.Contains(t, reply, "/ref/share/AGSP-"+joiner.ReferralCode)
	assert.NotContains(t, reply, "GOBCKX")

	assert.Equal(t, 1, store.pointsFor(referrer.ID, "AGSP"))
}

func TestWorkflowDuplicateDelivery(t *testing.T) {
	store := newFakeReferralStore()
	campaigns := newFakeCampaignStore(&models.Campaign{Code: "AGSP", Name: "Lucky Draw", IsActive: true})
	svc := newTestReferralService(store, campaigns, &fakeTransport{})

	referrer := seedReferral(t, store, "923001111111", "GOBCKX")
	ctx := context.Background()
	message := "(Referral code: _AGSP-GOBCKX_)"

	first, err := svc.Workflow(ctx, message, "923002222222", &GlobalContext{})
	require.NoError(t, err)
	second, err := svc.Workflow(ctx, message, "923002222222", &GlobalContext{})
	require.NoError(t, err)

	assert.Equal(t, 1, store.creditedCount(referrer.ID, "AGSP"))
	assert.Equal(t, 1, store.pointsFor(referrer.ID, "AGSP"))
	assert.Equal(t, first, second, "redelivery gets the same share reply")
}

func TestWorkflowInactiveCampaignStillReplies(t *testing.T) {
	store := newFakeReferralStore()
	campaigns := newFakeCampaignStore(&models.Campaign{Code: "AGSP", IsActive: false})
	svc := newTestReferralService(store, campaigns, &fakeTransport{})

	seedReferral(t, store, "923001111111", "GOBCKX")

	reply, err := svc.Workflow(context.Background(), "(Referral code: _AGSP-GOBCKX_)", "923002222222", nil)
	require.NoError(t, err)
	assert.Contains(t, reply, "/ref/share/AGSP-")
}

func TestShareAndJoinLinks(t *testing.T) {
	svc := newTestReferralService(newFakeReferralStore(), newFakeCampaignStore(), &fakeTransport{})

	assert.Equal(t, "https://bot.example.com/ref/share/AGSP-GOBCKX", svc.ShareLink("AGSP", "GOBCKX"))
	assert.Equal(t, "https://bot.example.com/ref/AGSP-GOBCKX", svc.JoinLink("AGSP", "GOBCKX"))
}
