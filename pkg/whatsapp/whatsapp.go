package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DefaultURL is the AiSensy campaign endpoint.
const DefaultURL = "https://api.aisensy.com/v1/messages/campaign"

type campaignRequest struct {
	APIKey         string   `json:"apiKey"`
	CampaignName   string   `json:"campaignName"`
	Destination    string   `json:"destination"`
	UserName       string   `json:"userName"`
	TemplateParams []string `json:"templateParams"`
}

// Client sends WhatsApp messages through AiSensy campaigns.
type Client struct {
	APIKey     string
	URL        string
	HTTPClient *http.Client
}

// Send delivers body as the single template parameter of campaign to destination.
func (c *Client) Send(ctx context.Context, campaign, destination, body string) error {
	if c.APIKey == "" || campaign == "" {
		return fmt.Errorf("AiSensy API key or campaign name is not configured")
	}
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("invalid whatsapp number: %q", destination)
	}

	payload, err := json.Marshal(campaignRequest{
		APIKey:         c.APIKey,
		CampaignName:   campaign,
		Destination:    destination,
		UserName:       "User",
		TemplateParams: []string{body},
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := c.URL
	if url == "" {
		url = DefaultURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp to %s: %w", destination, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("AiSensy API returned status %d for %s", resp.StatusCode, destination)
	}
	return nil
}
