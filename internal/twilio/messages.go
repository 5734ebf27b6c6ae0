package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clientbase/platform/logger"
	"clientbase/platform/phone"
)

const messagesBaseURL = "https://api.twilio.com/2010-04-01"

// MessagesClient sends WhatsApp messages through the Twilio Messages API.
type MessagesClient struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewMessagesClient creates a messages client.
func NewMessagesClient(log *logger.Logger) *MessagesClient {
	return &MessagesClient{
		baseURL: messagesBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// WhatsappSend describes a single outbound WhatsApp message.
type WhatsappSend struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
	Body       string
	// ContentSID, when set, sends a pre-approved content template with the
	// body as its first variable instead of a free-form message.
	ContentSID string
}

// SendWhatsapp sends one WhatsApp message. From and To are normalized to
// E.164 and prefixed with the whatsapp: channel marker.
func (c *MessagesClient) SendWhatsapp(ctx context.Context, msg WhatsappSend) error {
	form := url.Values{}
	form.Set("From", "whatsapp:"+phone.NormalizeE164(msg.From))
	form.Set("To", "whatsapp:"+phone.NormalizeE164(msg.To))

	if msg.ContentSID != "" {
		variables, err := json.Marshal(map[string]string{"1": msg.Body})
		if err != nil {
			return fmt.Errorf("marshal content variables: %w", err)
		}
		form.Set("ContentSid", msg.ContentSID)
		form.Set("ContentVariables", string(variables))
	} else {
		form.Set("Body", msg.Body)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, url.PathEscape(msg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(msg.AccountSID, msg.AuthToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp send returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("whatsapp message sent", "to", msg.To)
	return nil
}
