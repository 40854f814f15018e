package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
)

// ResendURL is the Resend send-email endpoint.
const ResendURL = "https://api.resend.com/emails"

// Send delivers an HTML email over SMTP.
func Send(server string, port int, username, password, from, to, subject, html string) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("invalid email address: %s", to)
	}
	if from == "" {
		from = username
	}

	msg := []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + html)

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, server)
	}
	addr := fmt.Sprintf("%s:%d", server, port)
	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Resend sends transactional email through the Resend HTTP API.
type Resend struct {
	APIKey     string
	From       string
	URL        string
	HTTPClient *http.Client
}

// Send delivers an HTML email to a single recipient.
func (r *Resend) Send(ctx context.Context, to, subject, html string) error {
	if r.APIKey == "" {
		return fmt.Errorf("Resend API key is not configured")
	}
	if !strings.Contains(to, "@") {
		return fmt.Errorf("invalid email address: %s", to)
	}

	body, err := json.Marshal(resendRequest{
		From:    r.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := r.URL
	if url == "" {
		url = ResendURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.APIKey)

	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	}
	return nil
}
