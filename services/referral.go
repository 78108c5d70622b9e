// services/referral.go
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"boostbot-backend/config"
	"boostbot-backend/logging"
	"boostbot-backend/models"
	"boostbot-backend/repository"
	"boostbot-backend/utils"

	"go.uber.org/zap"
)

// Messages carry the invitation as "(Referral code: _CAMP-ABCDEF_)":
// four uppercase letters for the campaign, six for the referral code.
var referralPattern = regexp.MustCompile(`\(Referral code:\s*_([A-Z]{4})-([A-Z]{6})_\)`)

// codeGenAttempts bounds the unique-code retry loop. Collisions in a
// 26^6 space are rare enough that exhausting this means something is
// broken (e.g. the table is nearly full of generated codes).
const codeGenAttempts = 5

// ExtractCodes scans a free-text message for an embedded referral
// invitation. Returns (campaignCode, referralCode, true) on a match.
// Lowercase codes never match.
func ExtractCodes(message string) (string, string, bool) {
	m := referralPattern.FindStringSubmatch(message)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// ReferralService owns the referral ledger's business rules: eligibility,
// idempotent crediting and lazy code issuance.
type ReferralService struct {
	referrals ReferralStore
	campaigns CampaignStore
	transport Transport

	baseURL          string
	botNumber        string
	pointTemplateSID string
}

func NewReferralService(referrals ReferralStore, campaigns CampaignStore, transport Transport, cfg *config.Config) *ReferralService {
	return &ReferralService{
		referrals:        referrals,
		campaigns:        campaigns,
		transport:        transport,
		baseURL:          cfg.ServerBaseURL,
		botNumber:        cfg.WhatsAppBusinessNumber,
		pointTemplateSID: cfg.ReferralPointTemplateSID,
	}
}

// IsAlreadyReferred reports whether crediting must be skipped for this
// (phone, campaign) pair. Unknown referral codes are treated as already
// referred so they can never be credited.
func (s *ReferralService) IsAlreadyReferred(phone, referralCode, campaignCode string) bool {
	referral, err := s.referrals.GetByCode(referralCode)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logging.L().Error("referral lookup failed",
				zap.String("referral_code", referralCode), zap.Error(err))
		}
		return true
	}
	for _, user := range referral.ReferredUsers {
		if user.PhoneNumber == phone && user.CampaignCode == campaignCode {
			return true
		}
	}
	return false
}

// CreditReferral records the referral event and bumps the campaign
// points. The underlying insert is conditional, so calling this twice
// for the same (code, phone, campaign) credits exactly once. When
// notify is set and a credit actually happened, the referrer gets a
// best-effort template notification; a send failure never rolls back
// the credit.
func (s *ReferralService) CreditReferral(ctx context.Context, referralCode, phone, campaignCode string, notify bool) error {
	referral, err := s.referrals.GetByCode(referralCode)
	if err != nil {
		return fmt.Errorf("resolve referral %s: %w", referralCode, err)
	}

	credited, err := s.referrals.AddReferredUser(referral.ID, phone, campaignCode)
	if err != nil {
		return fmt.Errorf("add referred user: %w", err)
	}
	if !credited {
		logging.L().Info("duplicate referral credit skipped",
			zap.String("referral_code", referralCode),
			zap.String("phone", phone),
			zap.String("campaign", campaignCode))
		return nil
	}

	if err := s.referrals.IncrementPoints(referral.ID, campaignCode); err != nil {
		return fmt.Errorf("increment points: %w", err)
	}
	logging.L().Info("referral credited",
		zap.String("referral_code", referralCode),
		zap.String("phone", phone),
		zap.String("campaign", campaignCode))

	if notify && referral.ReferrerPhone != "" {
		s.notifyReferrer(ctx, referral.ReferrerPhone, campaignCode)
	}
	return nil
}

func (s *ReferralService) notifyReferrer(ctx context.Context, referrerPhone, campaignCode string) {
	campaignName := campaignCode
	if campaign, err := s.campaigns.GetByCode(campaignCode); err == nil {
		campaignName = campaign.Name
	}
	_, err := s.transport.SendTemplate(ctx, referrerPhone, s.pointTemplateSID, map[string]string{
		"campaign_name": campaignName,
	})
	if err != nil {
		logging.L().Warn("referrer notification failed",
			zap.String("referrer_phone", referrerPhone), zap.Error(err))
	}
}

// GetOrCreate returns the referral record for a phone number, lazily
// creating one with a fresh unique code. seedCampaign, when non-empty,
// seeds a zero-point entry so the campaign shows up immediately in the
// referrer's totals.
func (s *ReferralService) GetOrCreate(phone, name, email, seedCampaign string) (*models.Referral, error) {
	referral, err := s.referrals.GetByPhone(phone)
	if err == nil {
		return referral, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	code, err := s.generateUniqueCode()
	if err != nil {
		return nil, err
	}

	referral = &models.Referral{
		ReferrerPhone: phone,
		ReferrerName:  name,
		ReferrerEmail: email,
		ReferralCode:  code,
	}
	if err := s.referrals.Create(referral); err != nil {
		return nil, fmt.Errorf("create referral: %w", err)
	}
	if seedCampaign != "" {
		if err := s.referrals.EnsurePointsEntry(referral.ID, seedCampaign); err != nil {
			logging.L().Warn("seeding points entry failed",
				zap.String("phone", phone), zap.String("campaign", seedCampaign), zap.Error(err))
		}
	}
	logging.L().Info("referral created",
		zap.String("phone", phone), zap.String("referral_code", code))
	return referral, nil
}

func (s *ReferralService) generateUniqueCode() (string, error) {
	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		code := utils.GenerateReferralCode()
		_, err := s.referrals.GetByCode(code)
		if errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		logging.L().Warn("referral code collision, regenerating", zap.String("code", code))
	}
	return "", ErrCodeExhausted
}

// Workflow handles a message carrying a referral invitation: credit the
// inviter once, make sure the joining customer has their own code, and
// return the share-link reply for the joiner. Soft failures (unknown or
// inactive campaign, duplicate credit) degrade without error; only the
// inability to issue a code for the joiner surfaces one.
func (s *ReferralService) Workflow(ctx context.Context, message, phone string, gc *GlobalContext) (string, error) {
	campaignCode, referralCode, ok := ExtractCodes(message)
	if !ok {
		return "", errors.New("no referral code in message")
	}

	if !s.campaignActive(campaignCode) {
		logging.L().Warn("campaign not active or unknown, continuing",
			zap.String("campaign", campaignCode))
	}

	if s.IsAlreadyReferred(phone, referralCode, campaignCode) {
		logging.L().Info("phone already referred for campaign",
			zap.String("phone", phone), zap.String("campaign", campaignCode))
	} else if err := s.CreditReferral(ctx, referralCode, phone, campaignCode, true); err != nil {
		// Crediting is auxiliary to the reply pipeline; log and move on.
		logging.L().Error("referral crediting failed", zap.Error(err))
	}

	var name, email string
	if gc != nil && gc.Customer != nil {
		name = gc.Customer.Name
		email = gc.Customer.Email
	}
	own, err := s.GetOrCreate(phone, name, email, campaignCode)
	if err != nil {
		return "", fmt.Errorf("issue referral code for %s: %w", phone, err)
	}

	return s.shareMessage(own.ReferralCode, campaignCode), nil
}

func (s *ReferralService) campaignActive(campaignCode string) bool {
	campaign, err := s.campaigns.GetByCode(campaignCode)
	if err != nil {
		return false
	}
	return campaign.IsActive
}

// ShareLink opens the WhatsApp share dialog with the invite message.
func (s *ReferralService) ShareLink(campaignCode, referralCode string) string {
	return fmt.Sprintf("%s/ref/share/%s-%s", s.baseURL, campaignCode, referralCode)
}

// JoinLink opens WhatsApp with the pre-filled join message.
func (s *ReferralService) JoinLink(campaignCode, referralCode string) string {
	return fmt.Sprintf("%s/ref/%s-%s", s.baseURL, campaignCode, referralCode)
}

func (s *ReferralService) shareMessage(referralCode, campaignCode string) string {
	shareLink := s.ShareLink(campaignCode, referralCode)
	return "🎉 *Thank you for Joining the Lucky Draw Giveaway* 🎉\n\n" +
		"Below is a little Cheat Code just for you 😉\n\n" +
		"By clicking the link below, you can invite your Friends & Family on WhatsApp.\n" +
		"Each person who joins the Lucky Draw using your special link will earn you *1 point* 🔗\n\n" +
		"The more people join, the more points you collect… and the greater your chances of winning amazing prizes! 🏆\n\n" +
		"🔑 " + shareLink
}
