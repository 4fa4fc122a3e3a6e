package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"wutzup/functions/internal/gifgen"
)

type gifRequest struct {
	Prompt *string `json:"prompt"`
}

type gifResponse struct {
	GIFURL          string `json:"gif_url"`
	FramesGenerated int    `json:"frames_generated"`
}

// GenerateGIF renders a two-frame animation for the prompt, uploads it to
// the public bucket, and returns its URL.
func (h Handler) GenerateGIF(w http.ResponseWriter, r *http.Request) {
	var req gifRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if req.Prompt == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Missing 'prompt' in request body")
		return
	}
	prompt := strings.TrimSpace(*req.Prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Prompt cannot be empty")
		return
	}

	if h.cfg.OpenAIAPIKey == "" {
		writeError(w, http.StatusInternalServerError, "missing_api_key", "OpenAI API key not configured")
		return
	}
	if h.objects == nil {
		writeError(w, http.StatusInternalServerError, "storage_unavailable", "object storage is not configured")
		return
	}

	path, frames, err := h.gifs.GenerateAnimation(r.Context(), prompt)
	if err != nil {
		log.Printf("gif: animation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "gif_error", err.Error())
		return
	}
	defer gifgen.Cleanup(path)

	data, err := os.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "gif_error", err.Error())
		return
	}

	objectPath := fmt.Sprintf("gifs/generated_%s.gif", time.Now().UTC().Format("20060102_150405"))
	if err := h.objects.PutObject(r.Context(), objectPath, "image/gif", data); err != nil {
		log.Printf("gif: upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, gifResponse{
		GIFURL:          h.objects.PublicURL(objectPath),
		FramesGenerated: frames,
	})
}
