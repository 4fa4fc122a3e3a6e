package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"wutzup/functions/internal/config"
	"wutzup/functions/internal/duckduckgo"
	"wutzup/functions/internal/notify"
	"wutzup/functions/internal/openai"
	"wutzup/functions/internal/store"
)

type chatCompleter interface {
	ChatCompletion(ctx context.Context, req openai.ChatRequest) (string, error)
}

type searchProvider interface {
	Search(ctx context.Context, query string, count int) ([]duckduckgo.SearchResult, error)
}

type pageReader interface {
	Text(ctx context.Context, rawURL string, maxRunes int) string
}

type notifier interface {
	NotifyNewMessage(ctx context.Context, recipientID string, msg notify.Message) bool
}

type animationPipeline interface {
	GenerateAnimation(ctx context.Context, prompt string) (path string, frames int, err error)
}

type objectStore interface {
	PutObject(ctx context.Context, objectPath, contentType string, data []byte) error
	PublicURL(objectPath string) string
}

type Handler struct {
	cfg      config.Config
	store    store.Store
	llm      chatCompleter
	search   searchProvider
	reader   pageReader
	notifier notifier
	push     notify.Sender
	gifs     animationPipeline
	objects  objectStore
}

func NewHandler(
	cfg config.Config,
	st store.Store,
	llm chatCompleter,
	search searchProvider,
	reader pageReader,
	dispatcher notifier,
	push notify.Sender,
	gifs animationPipeline,
	objects objectStore,
) Handler {
	return Handler{
		cfg:      cfg,
		store:    st,
		llm:      llm,
		search:   search,
		reader:   reader,
		notifier: dispatcher,
		push:     push,
		gifs:     gifs,
		objects:  objects,
	}
}

func (h Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeLLMError maps a failed model call onto the API error contract. A
// missing key is a configuration problem reported with a fixed message.
func writeLLMError(w http.ResponseWriter, err error) {
	if errors.Is(err, openai.ErrMissingAPIKey) {
		writeError(w, http.StatusInternalServerError, "missing_api_key", "OpenAI API key not configured")
		return
	}
	writeError(w, http.StatusInternalServerError, "openai_error", err.Error())
}

// historyMessage covers every conversation_history item shape the clients
// send; each endpoint reads the fields it cares about.
type historyMessage struct {
	Role              string `json:"role"`
	SenderID          string `json:"sender_id"`
	SenderName        string `json:"sender_name"`
	Content           string `json:"content"`
	Timestamp         string `json:"timestamp"`
	IsFromCurrentUser bool   `json:"is_from_current_user"`
}

const historyWindow = 10

func lastMessages(history []historyMessage, n int) []historyMessage {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func formatSenderHistory(history []historyMessage) string {
	lines := make([]string, 0, len(history))
	for _, msg := range lastMessages(history, historyWindow) {
		sender := msg.SenderName
		if sender == "" {
			sender = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", sender, msg.Content))
	}
	return strings.Join(lines, "\n")
}

// formatSuggestionHistory labels the requesting user's own messages "You" so
// the model knows which side it is suggesting replies for.
func formatSuggestionHistory(history []historyMessage) string {
	lines := make([]string, 0, len(history))
	for _, msg := range lastMessages(history, historyWindow) {
		sender := msg.SenderName
		if msg.IsFromCurrentUser {
			sender = "You"
		} else if sender == "" {
			sender = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", sender, msg.Content))
	}
	return strings.Join(lines, "\n")
}

func formatTutorChatHistory(history []historyMessage) string {
	lines := make([]string, 0, len(history))
	for _, msg := range lastMessages(history, historyWindow) {
		switch msg.Role {
		case "user":
			lines = append(lines, "Student: "+msg.Content)
		case "assistant":
			lines = append(lines, "Tutor: "+msg.Content)
		}
	}
	return strings.Join(lines, "\n")
}

// previewText caps conversation previews at limit runes without an ellipsis,
// matching what the clients render in the chat list.
func previewText(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit])
}
