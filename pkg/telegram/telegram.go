package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Client sends Telegram messages through a bot.
type Client struct {
	bot *bot.Bot
}

// New creates a bot client without calling getMe, so construction never
// touches the network. Extra options are passed to bot.New.
func New(token string, opts ...bot.Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	opts = append([]bot.Option{bot.WithSkipGetMe()}, opts...)
	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return &Client{bot: b}, nil
}

// Send posts text to each chat, stopping at the first failure.
func (c *Client) Send(ctx context.Context, chatIDs []int64, text string) error {
	for _, chatID := range chatIDs {
		if chatID == 0 {
			return fmt.Errorf("missing telegram chat_id")
		}
		_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   text,
		})
		if err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", chatID, err)
		}
	}
	return nil
}
