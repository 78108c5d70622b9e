package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every environment-driven setting the process needs.
// Loaded once in main and passed by reference.
type Config struct {
	Env  string
	Port string

	DatabaseURL string

	JWTSecret      string
	JWTExpiryHours int

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	// Twilio content template used to notify a referrer about a new point.
	ReferralPointTemplateSID string

	GeminiAPIKey string
	GeminiModel  string

	// Public base URL used to build /ref share and join links.
	ServerBaseURL string
	// Bot number in digits-only form, embedded in WhatsApp deep links.
	WhatsAppBusinessNumber string

	TrustedOrigins []string
}

func Load() *Config {
	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		Port:                     getEnv("PORT", "8080"),
		DatabaseURL:              os.Getenv("DB_URL"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		JWTExpiryHours:           getEnvInt("JWT_EXPIRY_HOURS", 24),
		TwilioAccountSID:         os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:          os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber:     os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		ReferralPointTemplateSID: os.Getenv("REFERRAL_POINT_TEMPLATE_SID"),
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		GeminiModel:              getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ServerBaseURL:            getEnv("SERVER_BASE_URL", "http://localhost:8080"),
		WhatsAppBusinessNumber:   os.Getenv("WHATSAPP_BUSINESS_NUMBER"),
	}

	if origins := os.Getenv("TRUSTED_ORIGINS"); origins != "" {
		cfg.TrustedOrigins = splitAndTrim(origins)
	} else {
		cfg.TrustedOrigins = []string{"http://localhost:3000"}
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "release" || c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
