// Package line wraps the LINE Messaging API client used to receive webhook
// deliveries and send replies.
package line

import (
	"context"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Client is a thin wrapper over the LINE bot SDK exposing only what the
// webhook transport needs.
type Client struct {
	bot *linebot.Client
}

// NewClient builds the client from the channel secret and access token.
func NewClient(channelSecret, channelToken string) (*Client, error) {
	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, fmt.Errorf("line: create client: %w", err)
	}
	return &Client{bot: bot}, nil
}

// ParseRequest validates the webhook signature and decodes the delivery.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return c.bot.ParseRequest(r)
}

// Reply answers the event that carried replyToken with a text message.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	if _, err := c.bot.ReplyMessage(replyToken, linebot.NewTextMessage(text)).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("line: reply message: %w", err)
	}
	return nil
}
