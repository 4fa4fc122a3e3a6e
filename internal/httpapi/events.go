package httpapi

import (
	"log"
	"net/http"
	"strings"

	"wutzup/functions/internal/notify"
)

// Event webhooks are delivered by the hosting platform's database triggers.
// They are always acknowledged with 204: the trigger pipeline retries on
// non-2xx, and none of this work is worth replaying.

type messageCreatedEvent struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
	SenderID       string `json:"senderId"`
	Content        string `json:"content"`
}

// MessageCreated refreshes the conversation preview and notifies every
// participant except the sender. Each recipient is handled independently.
func (h Handler) MessageCreated(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusNoContent)

	var event messageCreatedEvent
	if err := decodeJSON(r, &event); err != nil {
		log.Printf("events: bad message-created payload: %v", err)
		return
	}
	if event.ConversationID == "" || event.SenderID == "" {
		log.Printf("events: message-created missing conversationId or senderId")
		return
	}

	conversation, err := h.store.GetConversation(r.Context(), event.ConversationID)
	if err != nil {
		log.Printf("events: conversation %s not found: %v", event.ConversationID, err)
		return
	}

	if err := h.store.UpdateConversationPreview(r.Context(), event.ConversationID, previewText(event.Content, 100)); err != nil {
		log.Printf("events: preview update for %s: %v", event.ConversationID, err)
	}

	senderName := "Someone"
	if sender, err := h.store.GetUser(r.Context(), event.SenderID); err == nil && strings.TrimSpace(sender.DisplayName) != "" {
		senderName = sender.DisplayName
	}

	if h.notifier == nil {
		return
	}

	sent := 0
	for _, participantID := range conversation.ParticipantIDs {
		if participantID == event.SenderID {
			continue
		}
		if h.notifier.NotifyNewMessage(r.Context(), participantID, notify.Message{
			ConversationID: event.ConversationID,
			MessageID:      event.MessageID,
			SenderID:       event.SenderID,
			SenderName:     senderName,
			Content:        event.Content,
		}) {
			sent++
		}
	}
	log.Printf("events: message %s notified %d recipients", event.MessageID, sent)
}

type conversationCreatedEvent struct {
	ConversationID string   `json:"conversationId"`
	ParticipantIDs []string `json:"participantIds"`
	IsGroup        bool     `json:"isGroup"`
}

// ConversationCreated only logs for now; participants discover new
// conversations from their chat list.
func (h Handler) ConversationCreated(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusNoContent)

	var event conversationCreatedEvent
	if err := decodeJSON(r, &event); err != nil {
		log.Printf("events: bad conversation-created payload: %v", err)
		return
	}
	log.Printf("events: new conversation %s with %d participants (group=%t)",
		event.ConversationID, len(event.ParticipantIDs), event.IsGroup)
}

type presenceState struct {
	Status string `json:"status"`
}

type presenceUpdatedEvent struct {
	UserID string         `json:"userId"`
	Before *presenceState `json:"before"`
	After  *presenceState `json:"after"`
}

// PresenceUpdated logs status transitions. Presence is read-only to this
// service.
func (h Handler) PresenceUpdated(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusNoContent)

	var event presenceUpdatedEvent
	if err := decodeJSON(r, &event); err != nil {
		log.Printf("events: bad presence-updated payload: %v", err)
		return
	}
	if event.Before == nil || event.After == nil {
		return
	}
	if event.Before.Status != event.After.Status {
		log.Printf("events: user %s status changed: %s -> %s", event.UserID, event.Before.Status, event.After.Status)
	}
}
