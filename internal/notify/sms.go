package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// placeholderSID is the unconfigured credential value shipped in sample env
// files; it triggers the simulated path the same way an empty value does.
const placeholderSID = "your_account_sid_here"

// SMSConfig carries gateway credentials. An unconfigured (or placeholder)
// account SID switches the gateway to simulated sends.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// Configured reports whether real sends are possible.
func (c SMSConfig) Configured() bool {
	return c.AccountSID != "" && c.AccountSID != placeholderSID && c.AuthToken != ""
}

// SMSGateway sends text messages through the Twilio Messages API. When not
// configured it records the attempt and succeeds trivially.
type SMSGateway struct {
	BaseURL string
	HTTP    *http.Client

	cfg SMSConfig
}

// NewSMSGateway creates a gateway from explicit config.
func NewSMSGateway(cfg SMSConfig) *SMSGateway {
	return &SMSGateway{
		BaseURL: "https://api.twilio.com",
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		cfg:     cfg,
	}
}

// Send delivers one message to one phone number. Any transport error or
// gateway rejection is returned; callers must treat an error as a failed
// delivery for that single recipient.
func (g *SMSGateway) Send(ctx context.Context, to, body string) error {
	if !g.cfg.Configured() {
		g.simulate(to, body)
		return nil
	}

	// Twilio requires E.164; prefix a bare national number with +.
	formatted := to
	if !strings.HasPrefix(formatted, "+") {
		formatted = "+" + formatted
	}

	form := url.Values{}
	form.Set("To", formatted)
	form.Set("From", g.cfg.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", g.BaseURL, g.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		smsDeliveries.WithLabelValues(outcomeFailed).Inc()
		return fmt.Errorf("sms gateway: create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(g.cfg.AccountSID, g.cfg.AuthToken)

	resp, err := g.HTTP.Do(req)
	if err != nil {
		smsDeliveries.WithLabelValues(outcomeFailed).Inc()
		return fmt.Errorf("sms gateway: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		smsDeliveries.WithLabelValues(outcomeFailed).Inc()
		return fmt.Errorf("sms gateway: rejected (%d): %s", resp.StatusCode, string(respBody))
	}

	smsDeliveries.WithLabelValues(outcomeSent).Inc()
	log.Printf("sms sent to %s", formatted)
	return nil
}

func (g *SMSGateway) simulate(to, body string) {
	smsDeliveries.WithLabelValues(outcomeSimulated).Inc()
	log.Printf("sms simulated (gateway not configured) to=%s payload=%q", to, body)
}
