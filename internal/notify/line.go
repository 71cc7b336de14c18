package notify

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/golfmatch/go-services/pkg/logger"
)

// ErrNotConfigured indicates the Messaging API channel token is absent.
// Notification paths treat this as a soft condition, never a hard failure.
var ErrNotConfigured = errors.New("LINE messaging is not configured")

// Client is the minimal LINE Messaging API surface the fan-out service needs.
type Client interface {
	Configured() bool
	Push(ctx context.Context, to string, text string) error
	Multicast(ctx context.Context, to []string, text string) error
}

// LineClient wraps the Messaging API SDK client. The endpoint is
// configurable so tests can point it at a local server.
type LineClient struct {
	api *messaging_api.MessagingApiAPI
}

func NewLineClient(endpoint, channelAccessToken string) *LineClient {
	if channelAccessToken == "" {
		return &LineClient{}
	}
	api, err := messaging_api.NewMessagingApiAPI(channelAccessToken,
		messaging_api.WithEndpoint(endpoint),
		messaging_api.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
	if err != nil {
		logger.Warnf("messaging api client init failed: %v", err)
		return &LineClient{}
	}
	return &LineClient{api: api}
}

func (c *LineClient) Configured() bool {
	return c.api != nil
}

// Push sends one text message to a single recipient.
func (c *LineClient) Push(ctx context.Context, to string, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To:       to,
		Messages: []messaging_api.MessageInterface{messaging_api.TextMessage{Text: text}},
	}, "")
	return err
}

// Multicast sends one text message to up to 500 recipients in a single call.
func (c *LineClient) Multicast(ctx context.Context, to []string, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	_, err := c.api.Multicast(&messaging_api.MulticastRequest{
		To:       to,
		Messages: []messaging_api.MessageInterface{messaging_api.TextMessage{Text: text}},
	}, "")
	return err
}
