// services/audit.go
package services

import (
	"time"

	"boostbot-backend/logging"
	"boostbot-backend/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Auditor runs nightly consistency checks over the referral ledger and
// the campaign registry. It only reports; it never mutates.
type Auditor struct {
	referrals *repository.ReferralRepository
	campaigns *repository.CampaignRepository
	cron      *cron.Cron
}

func NewAuditor(referrals *repository.ReferralRepository, campaigns *repository.CampaignRepository) *Auditor {
	return &Auditor{
		referrals: referrals,
		campaigns: campaigns,
		cron:      cron.New(),
	}
}

// Start schedules the audits. Runs daily at 3 AM.
func (a *Auditor) Start() {
	a.cron.AddFunc("0 3 * * *", a.RunOnce)
	a.cron.Start()
	logging.L().Info("ledger audit scheduler started")
}

func (a *Auditor) Stop() {
	a.cron.Stop()
}

// RunOnce executes both checks immediately.
func (a *Auditor) RunOnce() {
	a.auditPoints()
	a.auditCampaignWindows()
}

// auditPoints cross-checks every stored points aggregate against the
// count of credited referral events. The crediting path keeps these in
// lockstep, so any hit here means manual intervention happened or a bug
// slipped in.
func (a *Auditor) auditPoints() {
	mismatches, err := a.referrals.PointsMismatches()
	if err != nil {
		logging.L().Error("points audit query failed", zap.Error(err))
		return
	}
	if len(mismatches) == 0 {
		logging.L().Info("points audit clean")
		return
	}
	for _, m := range mismatches {
		logging.L().Error("points aggregate mismatch",
			zap.String("referral_code", m.ReferralCode),
			zap.String("campaign", m.CampaignCode),
			zap.Int("points", m.Points),
			zap.Int("credited", m.Credited))
	}
}

// auditCampaignWindows flags campaigns whose end date passed while the
// active flag is still set. The flag stays authoritative; this is a
// heads-up for operators, not an auto-expiry.
func (a *Auditor) auditCampaignWindows() {
	stale, err := a.campaigns.StaleActive(time.Now())
	if err != nil {
		logging.L().Error("campaign window audit failed", zap.Error(err))
		return
	}
	for _, campaign := range stale {
		logging.L().Warn("campaign past end date but still active",
			zap.String("campaign", campaign.Code),
			zap.String("name", campaign.Name),
			zap.Time("end_date", campaign.EndDate))
	}
}
