package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"boostbot-backend/config"
	"boostbot-backend/logging"
	"boostbot-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Link path segment: 4-letter campaign code, hyphen, 6-letter referral code.
var referralInfoRe = regexp.MustCompile(`^([A-Z]{4})-([A-Z]{6})$`)

// ReferralLinksController serves the two public redirect endpoints that
// turn share links into WhatsApp deep links. Both are stateless.
type ReferralLinksController struct {
	baseURL   string
	botNumber string
}

func NewReferralLinksController(cfg *config.Config) *ReferralLinksController {
	return &ReferralLinksController{
		baseURL:   cfg.ServerBaseURL,
		botNumber: cfg.WhatsAppBusinessNumber,
	}
}

func parseReferralInfo(info string) (campaignCode, referralCode string, ok bool) {
	m := referralInfoRe.FindStringSubmatch(info)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Redirect dispatches GET /ref/*path. Both link shapes (join and
// share) resolve here so their validation and logging stay in one place.
func (rc *ReferralLinksController) Redirect(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if info, found := strings.CutPrefix(path, "share/"); found {
		rc.shareRedirect(c, info)
		return
	}
	rc.joinRedirect(c, path)
}

// joinRedirect handles GET /ref/{CAMP-REFCODE}: a friend clicked a join
// link and gets sent into WhatsApp with the pre-filled join message.
func (rc *ReferralLinksController) joinRedirect(c *gin.Context, info string) {
	campaignCode, referralCode, ok := parseReferralInfo(info)
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid referral format. Expected: CAMP-REFCODE")
		return
	}

	message := fmt.Sprintf(
		"👋 Hi Boost Buddy!\n"+
			"I'd like to join the Lucky Draw Giveaway 🚀\n"+
			"I'm joining using this referral code: (Referral code: _%s-%s_) 🎉\n"+
			"👉 Please generate a referral code for me so I can start inviting others!",
		campaignCode, referralCode)

	target := fmt.Sprintf(
		"https://api.whatsapp.com/send/?phone=%s&text=%s&type=phone_number&app_absent=0",
		rc.botNumber, url.QueryEscape(message))

	logging.L().Info("join link clicked",
		zap.String("campaign", campaignCode), zap.String("referral_code", referralCode))

	c.Redirect(http.StatusFound, target)
}

// shareRedirect handles GET /ref/share/{CAMP-REFCODE}: the referrer
// clicked their share link and gets the WhatsApp share dialog with the
// invitation message embedding the join link.
func (rc *ReferralLinksController) shareRedirect(c *gin.Context, info string) {
	campaignCode, referralCode, ok := parseReferralInfo(info)
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid referral format. Expected: CAMP-REFCODE")
		return
	}

	joinLink := fmt.Sprintf("%s/ref/%s-%s", rc.baseURL, campaignCode, referralCode)
	message := fmt.Sprintf(
		"Salam, my dear Friends & Family 🌸\n\n"+
			"Boost Lifestyle, one of Pakistan's leading tech brands, is holding a Lucky Draw Giveaway! 🎁\n"+
			"I've already joined - and I thought to share it with you too 😊\n\n"+
			"Simply click the link below to participate for free ⬇\n"+
			"Whether you win or not, there's nothing to lose — so why not try your luck? 🍀\n\n"+
			"👉 %s",
		joinLink)

	target := fmt.Sprintf(
		"https://api.whatsapp.com/send/?text=%s&type=phone_number&app_absent=0",
		url.QueryEscape(message))

	logging.L().Info("share link clicked",
		zap.String("campaign", campaignCode), zap.String("referral_code", referralCode))

	c.Redirect(http.StatusFound, target)
}
