// services/whatsapp.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"boostbot-backend/config"
	"boostbot-backend/logging"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// TwilioTransport sends WhatsApp messages through the Twilio Messaging
// API. Sends are retried once with a short backoff.
type TwilioTransport struct {
	client *twilio.RestClient
	from   string
}

const sendRetryBackoff = 500 * time.Millisecond

func NewTwilioTransport(cfg *config.Config) *TwilioTransport {
	return &TwilioTransport{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		from: cfg.TwilioWhatsAppNumber,
	}
}

// Send delivers a plain text message to the given phone number
// (digits-only form).
func (t *TwilioTransport) Send(ctx context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + to)
	params.SetFrom("whatsapp:" + t.from)
	params.SetBody(body)

	err := t.createWithRetry(ctx, params, to)
	if err != nil {
		return fmt.Errorf("whatsapp send to %s: %w", to, err)
	}
	return nil
}

// SendTemplate delivers a pre-approved content template with variables.
// Returns the message SID on success.
func (t *TwilioTransport) SendTemplate(ctx context.Context, to, templateSID string, vars map[string]string) (string, error) {
	encoded, err := json.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("encode template variables: %w", err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + to)
	params.SetFrom("whatsapp:" + t.from)
	params.SetContentSid(templateSID)
	params.SetContentVariables(string(encoded))

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("whatsapp template send to %s: %w", to, err)
	}
	if resp.Sid == nil {
		return "", errors.New("twilio returned no message SID")
	}
	return *resp.Sid, nil
}

func (t *TwilioTransport) createWithRetry(ctx context.Context, params *twilioApi.CreateMessageParams, to string) error {
	resp, err := t.client.Api.CreateMessage(params)
	if err == nil {
		if resp.Sid != nil {
			logging.L().Info("whatsapp message sent",
				zap.String("to", to), zap.String("sid", *resp.Sid))
		}
		return nil
	}

	logging.L().Warn("whatsapp send failed, retrying once",
		zap.String("to", to), zap.Error(err))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(sendRetryBackoff):
	}

	if _, err = t.client.Api.CreateMessage(params); err != nil {
		return err
	}
	return nil
}
