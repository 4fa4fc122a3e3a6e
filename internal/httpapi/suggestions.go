package httpapi

import (
	"log"
	"net/http"

	"wutzup/functions/internal/llmtext"
	"wutzup/functions/internal/openai"
	"wutzup/functions/internal/prompts"
)

type suggestionsRequest struct {
	ConversationHistory []historyMessage `json:"conversation_history"`
	UserPersonality     string           `json:"user_personality"`
}

type suggestionsResponse struct {
	PositiveResponse string `json:"positive_response"`
	NegativeResponse string `json:"negative_response"`
}

// ResponseSuggestions drafts a positive and a negative reply the user could
// send next, styled after their stated personality.
func (h Handler) ResponseSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if len(req.ConversationHistory) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "conversation_history is required")
		return
	}

	personalityContext := ""
	if req.UserPersonality != "" {
		personalityContext = "\n\nThe user's personality: " + req.UserPersonality
	}

	out, err := h.llm.ChatCompletion(r.Context(), openai.ChatRequest{
		System:      prompts.ResponseSuggestionsSystem,
		User:        prompts.ResponseSuggestionsUser(formatSuggestionHistory(req.ConversationHistory), personalityContext),
		Temperature: 0.7,
	})
	if err != nil {
		writeLLMError(w, err)
		return
	}

	fields, err := llmtext.ExtractFields(out, []string{"positive_response", "negative_response"})
	if err != nil {
		log.Printf("suggestions: unable to parse model output: %v", err)
		writeError(w, http.StatusInternalServerError, "parse_error", "Failed to parse AI response")
		return
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{
		PositiveResponse: fields["positive_response"],
		NegativeResponse: fields["negative_response"],
	})
}
