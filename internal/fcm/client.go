// Package fcm delivers push notifications through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	fcmapi "google.golang.org/api/fcm/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var ErrNotConfigured = errors.New("fcm project id is not configured")

// apnsPayload keeps iOS delivery consistent with Android: badge the app icon
// and wake the app for background processing.
const apnsPayload = `{"aps":{"badge":1,"sound":"default","content-available":1}}`

type Client struct {
	projectID string
	service   *fcmapi.Service
}

// NewClient authenticates with application default credentials. It fails when
// no project id is configured so callers can decide to run without push.
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*Client, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, ErrNotConfigured
	}

	service, err := fcmapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create fcm service: %w", err)
	}
	return &Client{projectID: projectID, service: service}, nil
}

// Send pushes one notification to a single device token.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if c == nil || c.service == nil {
		return ErrNotConfigured
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("device token is required")
	}

	message := &fcmapi.Message{
		Token: token,
		Notification: &fcmapi.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Apns: &fcmapi.ApnsConfig{
			Payload: googleapi.RawMessage(apnsPayload),
		},
	}

	_, err := c.service.Projects.Messages.Send("projects/"+c.projectID, &fcmapi.SendMessageRequest{
		Message: message,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("send fcm message: %w", err)
	}
	return nil
}
