package httpapi

import (
	"net/http"
	"strings"

	"wutzup/functions/internal/openai"
	"wutzup/functions/internal/prompts"
)

type messageContextRequest struct {
	SelectedMessage     string           `json:"selected_message"`
	ConversationHistory []historyMessage `json:"conversation_history"`
}

// MessageContext explains the cultural and conversational subtext of one
// selected message, optionally informed by the surrounding conversation.
func (h Handler) MessageContext(w http.ResponseWriter, r *http.Request) {
	var req messageContextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	selected := strings.TrimSpace(req.SelectedMessage)
	if selected == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "'selected_message' is required and cannot be empty")
		return
	}

	conversationContext := ""
	if len(req.ConversationHistory) > 0 {
		conversationContext = "\n\nConversation context (recent messages):\n" + formatSenderHistory(req.ConversationHistory) + "\n"
	}

	analysis, err := h.llm.ChatCompletion(r.Context(), openai.ChatRequest{
		System:      prompts.CulturalAnalysisSystem,
		User:        prompts.CulturalAnalysisUser(selected, conversationContext),
		Temperature: 0.7,
	})
	if err != nil {
		writeLLMError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"context": analysis})
}
