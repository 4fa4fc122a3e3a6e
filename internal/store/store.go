// Package store reads and writes the chat documents (users, conversations,
// messages, presence) that the surrounding application owns. This service
// only reacts to creation events and issues single-document writes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("document not found")

type User struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	PushToken        string `json:"pushToken,omitempty"`
	TutorName        string `json:"tutorName,omitempty"`
	TutorPersonality string `json:"tutorPersonality,omitempty"`
}

type Conversation struct {
	ID             string   `json:"id"`
	ParticipantIDs []string `json:"participantIds"`
	IsGroup        bool     `json:"isGroup"`
	GroupName      string   `json:"groupName,omitempty"`
	LastMessage    string   `json:"lastMessage,omitempty"`
	LastMessageAt  string   `json:"lastMessageAt,omitempty"`
	UpdatedAt      string   `json:"updatedAt"`
}

type Message struct {
	ID             string   `json:"id"`
	ConversationID string   `json:"conversationId"`
	SenderID       string   `json:"senderId"`
	Content        string   `json:"content"`
	ReadBy         []string `json:"readBy"`
	DeliveredTo    []string `json:"deliveredTo"`
	CreatedAt      string   `json:"createdAt"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return Store{db: db}
}

func (s Store) GetUser(ctx context.Context, id string) (User, error) {
	query := `
SELECT id, COALESCE(display_name, ''), COALESCE(push_token, ''), COALESCE(tutor_name, ''), COALESCE(tutor_personality, '')
FROM users
WHERE id = ?
LIMIT 1;
`

	var out User
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(id)).Scan(
		&out.ID,
		&out.DisplayName,
		&out.PushToken,
		&out.TutorName,
		&out.TutorPersonality,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return out, nil
}

func (s Store) GetConversation(ctx context.Context, id string) (Conversation, error) {
	query := `
SELECT id, COALESCE(participant_ids, '[]'), is_group, COALESCE(group_name, ''), COALESCE(last_message, ''), COALESCE(last_message_at, ''), updated_at
FROM conversations
WHERE id = ?
LIMIT 1;
`

	var out Conversation
	var rawParticipants string
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(id)).Scan(
		&out.ID,
		&rawParticipants,
		&out.IsGroup,
		&out.GroupName,
		&out.LastMessage,
		&out.LastMessageAt,
		&out.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Conversation{}, ErrNotFound
	}
	if err != nil {
		return Conversation{}, fmt.Errorf("get conversation: %w", err)
	}

	if err := json.Unmarshal([]byte(rawParticipants), &out.ParticipantIDs); err != nil {
		return Conversation{}, fmt.Errorf("parse participant ids: %w", err)
	}
	return out, nil
}

// AppendMessage inserts a new message document. ReadBy and DeliveredTo
// default to the sender when unset, matching client-originated writes.
func (s Store) AppendMessage(ctx context.Context, msg Message) (Message, error) {
	if strings.TrimSpace(msg.ConversationID) == "" {
		return Message{}, errors.New("conversation id is required")
	}
	if strings.TrimSpace(msg.SenderID) == "" {
		return Message{}, errors.New("sender id is required")
	}

	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if len(msg.ReadBy) == 0 {
		msg.ReadBy = []string{msg.SenderID}
	}
	if len(msg.DeliveredTo) == 0 {
		msg.DeliveredTo = []string{msg.SenderID}
	}

	readBy, err := json.Marshal(msg.ReadBy)
	if err != nil {
		return Message{}, fmt.Errorf("marshal read_by: %w", err)
	}
	deliveredTo, err := json.Marshal(msg.DeliveredTo)
	if err != nil {
		return Message{}, fmt.Errorf("marshal delivered_to: %w", err)
	}

	query := `
INSERT INTO messages (id, conversation_id, sender_id, content, read_by, delivered_to, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	if _, err := s.db.ExecContext(ctx, query, msg.ID, msg.ConversationID, msg.SenderID, msg.Content, string(readBy), string(deliveredTo), msg.CreatedAt); err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

// UpdateConversationPreview writes the lastMessage preview and bumps the
// conversation timestamps. Only these summary fields are ever mutated here.
func (s Store) UpdateConversationPreview(ctx context.Context, conversationID, preview string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
UPDATE conversations
SET last_message = ?, last_message_at = ?, updated_at = ?
WHERE id = ?;
`
	if _, err := s.db.ExecContext(ctx, query, preview, now, now, strings.TrimSpace(conversationID)); err != nil {
		return fmt.Errorf("update conversation preview: %w", err)
	}
	return nil
}
