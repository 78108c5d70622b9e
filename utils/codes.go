// utils/codes.go
package utils

import (
	"math/rand"
	"regexp"
)

const upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	ReferralCodeLength = 6
	CampaignCodeLength = 4
)

var (
	referralCodeRe = regexp.MustCompile(`^[A-Z]{6}$`)
	campaignCodeRe = regexp.MustCompile(`^[A-Z]{4}$`)
)

// GenerateCode returns a random uppercase code of the given length.
// Uniqueness is the caller's responsibility (lookup with bounded retry).
func GenerateCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = upperLetters[rand.Intn(len(upperLetters))]
	}
	return string(b)
}

func GenerateReferralCode() string {
	return GenerateCode(ReferralCodeLength)
}

func GenerateCampaignCode() string {
	return GenerateCode(CampaignCodeLength)
}

// ValidReferralCode reports whether s is exactly six uppercase letters.
func ValidReferralCode(s string) bool {
	return referralCodeRe.MatchString(s)
}

// ValidCampaignCode reports whether s is exactly four uppercase letters.
func ValidCampaignCode(s string) bool {
	return campaignCodeRe.MatchString(s)
}
