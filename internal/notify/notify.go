// Package notify fans out push notifications for new messages. Delivery is
// best effort: a missing token or a transport failure is logged and dropped,
// never surfaced to the sender of the message.
package notify

import (
	"context"
	"log"
	"strings"

	"wutzup/functions/internal/store"
)

type UserLookup interface {
	GetUser(ctx context.Context, id string) (store.User, error)
}

type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

type Dispatcher struct {
	users      UserLookup
	sender     Sender
	previewLen int
}

func NewDispatcher(users UserLookup, sender Sender, previewLen int) Dispatcher {
	if previewLen <= 0 {
		previewLen = 100
	}
	return Dispatcher{users: users, sender: sender, previewLen: previewLen}
}

// Message describes one delivered chat message for notification purposes.
type Message struct {
	ConversationID string
	MessageID      string
	SenderID       string
	SenderName     string
	Content        string
}

// NotifyNewMessage pushes a preview of msg to recipientID's device. It
// reports whether a notification was actually sent.
func (d Dispatcher) NotifyNewMessage(ctx context.Context, recipientID string, msg Message) bool {
	if d.sender == nil {
		return false
	}

	recipient, err := d.users.GetUser(ctx, recipientID)
	if err != nil {
		log.Printf("notify: lookup recipient %s: %v", recipientID, err)
		return false
	}
	if strings.TrimSpace(recipient.PushToken) == "" {
		return false
	}

	title := "Wutzup from " + msg.SenderName
	body := d.preview(msg.Content)
	data := map[string]string{
		"conversationId": msg.ConversationID,
		"messageId":      msg.MessageID,
		"senderId":       msg.SenderID,
		"type":           "new_message",
	}

	if err := d.sender.Send(ctx, recipient.PushToken, title, body, data); err != nil {
		log.Printf("notify: send to %s: %v", recipientID, err)
		return false
	}
	return true
}

func (d Dispatcher) preview(content string) string {
	runes := []rune(content)
	if len(runes) <= d.previewLen {
		return content
	}
	return string(runes[:d.previewLen]) + "..."
}
