// Package twilio provides thin HTTP clients for the Twilio Lookup and
// Messages APIs. Credentials are passed per call because every company
// uses its own account.
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
)

const lookupBaseURL = "https://lookups.twilio.com/v1/PhoneNumbers"

// LookupClient queries the Twilio Lookup v1 API.
type LookupClient struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewLookupClient creates a lookup client with a bounded per-call timeout.
func NewLookupClient(timeout time.Duration, log *logger.Logger) *LookupClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LookupClient{
		baseURL: lookupBaseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type lookupResponse struct {
	PhoneNumber string `json:"phone_number"`
}

// Lookup resolves a raw number to its canonical E.164 form. A non-2xx reply
// means the number does not exist; that is reported as an error and the
// caller maps it to an Invalid verdict.
func (c *LookupClient) Lookup(ctx context.Context, accountSID, authToken, number string) (string, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(accountSID, authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("lookup returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode lookup response: %w", err)
	}
	if parsed.PhoneNumber == "" {
		return "", fmt.Errorf("lookup response missing phone number")
	}

	return parsed.PhoneNumber, nil
}
