package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GatewayProvider posts messages to an HTTP SMS gateway.
type GatewayProvider struct {
	url      string
	apiKey   string
	senderID string
	client   *http.Client
}

func NewGatewayProvider(url, apiKey, senderID string) *GatewayProvider {
	return &GatewayProvider{
		url:      url,
		apiKey:   apiKey,
		senderID: senderID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *GatewayProvider) Send(ctx context.Context, to, message string) error {
	payload, err := json.Marshal(map[string]string{
		"to":      to,
		"message": message,
		"sender":  p.senderID,
	})
	if err != nil {
		return fmt.Errorf("sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway: unexpected status %d", resp.StatusCode)
	}
	return nil
}
