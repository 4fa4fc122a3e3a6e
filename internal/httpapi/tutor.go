package httpapi

import (
	"net/http"
	"strings"

	"wutzup/functions/internal/openai"
	"wutzup/functions/internal/prompts"
	"wutzup/functions/internal/store"
)

type tutorRequest struct {
	TutorID             string           `json:"tutor_id"`
	TutorPersonality    string           `json:"tutor_personality"`
	TutorName           string           `json:"tutor_name"`
	UserName            string           `json:"user_name"`
	ConversationID      string           `json:"conversation_id"`
	GroupName           string           `json:"group_name"`
	ConversationHistory []historyMessage `json:"conversation_history"`
}

func (req *tutorRequest) normalize() {
	req.TutorID = strings.TrimSpace(req.TutorID)
	req.TutorPersonality = strings.TrimSpace(req.TutorPersonality)
	req.TutorName = strings.TrimSpace(req.TutorName)
	req.ConversationID = strings.TrimSpace(req.ConversationID)
	req.GroupName = strings.TrimSpace(req.GroupName)
	if strings.TrimSpace(req.UserName) == "" {
		req.UserName = "Unknown"
	}
}

func (req tutorRequest) missingRequired() bool {
	return req.TutorID == "" || req.TutorPersonality == "" || req.TutorName == "" || req.ConversationID == ""
}

// TutorGreeting writes the tutor's opening message into a fresh
// conversation: generate a personality-matched welcome, persist it as a
// message from the tutor, and refresh the conversation preview.
func (h Handler) TutorGreeting(w http.ResponseWriter, r *http.Request) {
	var req tutorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.normalize()
	if req.missingRequired() {
		writeError(w, http.StatusBadRequest, "invalid_request", "tutor_id, tutor_personality, tutor_name, and conversation_id are required")
		return
	}

	greeting, err := h.llm.ChatCompletion(r.Context(), openai.ChatRequest{
		System:      prompts.TutorGreetingSystem(req.TutorName, req.TutorPersonality, req.UserName, req.GroupName),
		User:        prompts.TutorGreetingUser(req.UserName, req.GroupName),
		Temperature: 0.9,
	})
	if err != nil {
		writeLLMError(w, err)
		return
	}

	messageID, err := h.persistTutorMessage(r, req, greeting)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"greeting":   greeting,
		"message_id": messageID,
	})
}

// TutorResponse continues an existing tutor conversation based on its recent
// history, persisting the reply the same way TutorGreeting does.
func (h Handler) TutorResponse(w http.ResponseWriter, r *http.Request) {
	var req tutorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.normalize()
	if req.missingRequired() {
		writeError(w, http.StatusBadRequest, "invalid_request", "tutor_id, tutor_personality, tutor_name, and conversation_id are required")
		return
	}
	if len(req.ConversationHistory) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "conversation_history is required and cannot be empty")
		return
	}

	response, err := h.llm.ChatCompletion(r.Context(), openai.ChatRequest{
		System:      prompts.TutorResponseSystem(req.TutorName, req.TutorPersonality),
		User:        prompts.TutorResponseUser(formatSenderHistory(req.ConversationHistory)),
		Temperature: 0.85,
	})
	if err != nil {
		writeLLMError(w, err)
		return
	}

	messageID, err := h.persistTutorMessage(r, req, response)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"response":   response,
		"message_id": messageID,
	})
}

func (h Handler) persistTutorMessage(r *http.Request, req tutorRequest, content string) (string, error) {
	msg, err := h.store.AppendMessage(r.Context(), store.Message{
		ConversationID: req.ConversationID,
		SenderID:       req.TutorID,
		Content:        content,
	})
	if err != nil {
		return "", err
	}
	if err := h.store.UpdateConversationPreview(r.Context(), req.ConversationID, previewText(content, 100)); err != nil {
		return "", err
	}
	return msg.ID, nil
}
