package httpapi

import (
	"net/http"
	"strings"

	"wutzup/functions/internal/openai"
	"wutzup/functions/internal/prompts"
)

type languageTutorRequest struct {
	UserMessage         string           `json:"user_message"`
	ConversationHistory []historyMessage `json:"conversation_history"`
	LearningLanguage    string           `json:"learning_language"`
	PrimaryLanguage     string           `json:"primary_language"`
}

type languageTutorResponse struct {
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// LanguageTutor holds an immersive practice conversation: the tutor reply
// comes back in the learning language, paired with a translation into the
// student's primary language.
func (h Handler) LanguageTutor(w http.ResponseWriter, r *http.Request) {
	var req languageTutorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	userMessage := strings.TrimSpace(req.UserMessage)
	if userMessage == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "'user_message' is required and cannot be empty")
		return
	}

	learningLanguage := req.LearningLanguage
	if strings.TrimSpace(learningLanguage) == "" {
		learningLanguage = "es"
	}
	primaryLanguage := req.PrimaryLanguage
	if strings.TrimSpace(primaryLanguage) == "" {
		primaryLanguage = "en"
	}

	learningName := prompts.LanguageName(learningLanguage)
	primaryName := prompts.LanguageName(primaryLanguage)

	tutorMessage, err := h.llm.ChatCompletion(r.Context(), openai.ChatRequest{
		System:      prompts.LanguageTutorSystem(learningName, primaryName),
		User:        prompts.LanguageTutorUser(formatTutorChatHistory(req.ConversationHistory), userMessage),
		Temperature: 0.8,
	})
	if err != nil {
		writeLLMError(w, err)
		return
	}

	translation, err := h.llm.ChatCompletion(r.Context(), openai.ChatRequest{
		System:      prompts.TutorTranslation(learningName, primaryName, tutorMessage),
		Temperature: 0.2,
	})
	if err != nil {
		writeLLMError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, languageTutorResponse{
		Message:     tutorMessage,
		Translation: translation,
	})
}
