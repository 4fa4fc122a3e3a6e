package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"wutzup/functions/internal/store"
)

type testNotificationRequest struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// TestNotification pushes a plain notification straight to one user's
// device, bypassing the message fan-out. Used to verify device tokens.
func (h Handler) TestNotification(w http.ResponseWriter, r *http.Request) {
	var req testNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Missing userId")
		return
	}

	user, err := h.store.GetUser(r.Context(), req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user_not_found", "User not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if strings.TrimSpace(user.PushToken) == "" {
		writeError(w, http.StatusNotFound, "no_push_token", "No FCM token for user")
		return
	}

	if h.push == nil {
		writeError(w, http.StatusInternalServerError, "push_unavailable", "push delivery is not configured")
		return
	}

	title := req.Title
	if title == "" {
		title = "Test"
	}
	body := req.Body
	if body == "" {
		body = "Test notification"
	}

	if err := h.push.Send(r.Context(), user.PushToken, title, body, nil); err != nil {
		writeError(w, http.StatusInternalServerError, "fcm_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
