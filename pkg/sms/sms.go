package sms

import (
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Client sends SMS through Twilio.
type Client struct {
	rest *twilio.RestClient
	from string
}

// New builds a Twilio client. Empty credentials yield a client whose Send always fails.
func New(accountSID, authToken, fromNumber string) *Client {
	c := &Client{from: fromNumber}
	if accountSID != "" && authToken != "" {
		c.rest = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}
	return c
}

// Send delivers body to toNumber, which must be in E.164 form.
func (c *Client) Send(toNumber, body string) error {
	if c.rest == nil || c.from == "" {
		return fmt.Errorf("missing SMS configuration: AccountSID, AuthToken, or FromNumber is empty")
	}
	if err := ValidateNumber(toNumber); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(c.from)
	params.SetBody(body)

	if _, err := c.rest.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", toNumber, err)
	}
	return nil
}

// ValidateNumber checks for a leading '+'.
func ValidateNumber(number string) error {
	if !strings.HasPrefix(number, "+") {
		return fmt.Errorf("invalid phone number: %s", number)
	}
	return nil
}
