package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"wutzup/functions/internal/llmtext"
	"wutzup/functions/internal/openai"
	"wutzup/functions/internal/prompts"
)

type translateRequest struct {
	Text           flexString `json:"text"`
	TargetLanguage flexString `json:"target_language"`
	SourceLanguage flexString `json:"source_language"`
}

type translateResponse struct {
	TranslatedText   string `json:"translated_text"`
	DetectedLanguage string `json:"detected_language"`
}

func (h Handler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	text := req.Text.String()
	targetLanguage := req.TargetLanguage.String()
	if text == "" || targetLanguage == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Both 'text' and 'target_language' are required")
		return
	}

	out, err := h.llm.ChatCompletion(r.Context(), openai.ChatRequest{
		System:      prompts.TranslationSystem,
		User:        prompts.TranslationUser(targetLanguage, text, req.SourceLanguage.String()),
		Temperature: 0.2,
	})
	if err != nil {
		writeLLMError(w, err)
		return
	}

	translated, detected := parseTranslation(out, req.SourceLanguage.String())
	writeJSON(w, http.StatusOK, translateResponse{
		TranslatedText:   translated,
		DetectedLanguage: detected,
	})
}

// parseTranslation reads the model's JSON answer. When the model ignores the
// format, the whole fence-stripped text is treated as the translation and
// the detected language falls back to the caller's source hint.
func parseTranslation(raw, sourceLanguage string) (string, string) {
	stripped := llmtext.StripFences(raw)

	var parsed struct {
		TranslatedText   string `json:"translated_text"`
		DetectedLanguage string `json:"detected_language"`
	}
	if err := json.Unmarshal([]byte(stripped), &parsed); err == nil && strings.TrimSpace(parsed.TranslatedText) != "" {
		detected := strings.TrimSpace(parsed.DetectedLanguage)
		if detected == "" {
			detected = sourceLanguage
		}
		return parsed.TranslatedText, detected
	}

	return stripped, sourceLanguage
}
