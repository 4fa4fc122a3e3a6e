package httpapi

import (
	"net/http"
	"strings"
	"testing"
)

func TestMessageCreatedNotifiesRecipientsExceptSender(t *testing.T) {
	st, database := openTestStore(t)
	seedUser(t, database, "u1", "Ana", "token-1")
	seedUser(t, database, "u2", "Ben", "token-2")
	seedUser(t, database, "u3", "Cam", "")
	seedConversation(t, database, "conv-1", []string{"u1", "u2", "u3"}, true, "Friends")

	push := &fakePush{}
	h := NewHandler(testConfig(), st, &fakeLLM{}, nil, nil, newDispatcher(st, push), push, nil, nil)

	rec := postJSON(t, h.MessageCreated, `{
		"conversationId": "conv-1",
		"messageId": "msg-1",
		"senderId": "u1",
		"content": "lunch at noon?"
	}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if len(push.calls) != 1 {
		t.Fatalf("expected one push (u2 only; sender and tokenless user skipped), got %d", len(push.calls))
	}
	call := push.calls[0]
	if call.token != "token-2" {
		t.Fatalf("unexpected token: %q", call.token)
	}
	if call.title != "Wutzup from Ana" {
		t.Fatalf("unexpected title: %q", call.title)
	}
	if call.body != "lunch at noon?" {
		t.Fatalf("unexpected body: %q", call.body)
	}
	if call.data["conversationId"] != "conv-1" || call.data["messageId"] != "msg-1" ||
		call.data["senderId"] != "u1" || call.data["type"] != "new_message" {
		t.Fatalf("unexpected data: %v", call.data)
	}
}

func TestMessageCreatedUpdatesConversationPreview(t *testing.T) {
	st, database := openTestStore(t)
	seedUser(t, database, "u1", "Ana", "")
	seedConversation(t, database, "conv-1", []string{"u1", "u2"}, false, "")

	h := NewHandler(testConfig(), st, &fakeLLM{}, nil, nil, nil, nil, nil, nil)

	long := strings.Repeat("a", 150)
	rec := postJSON(t, h.MessageCreated, `{
		"conversationId": "conv-1",
		"messageId": "msg-1",
		"senderId": "u1",
		"content": "`+long+`"
	}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	var preview string
	if err := database.QueryRow(`SELECT last_message FROM conversations WHERE id = 'conv-1';`).Scan(&preview); err != nil {
		t.Fatalf("read preview: %v", err)
	}
	if len([]rune(preview)) != 100 {
		t.Fatalf("expected 100-rune preview, got %d", len([]rune(preview)))
	}
}

func TestMessageCreatedUnknownConversationStillAcks(t *testing.T) {
	st, _ := openTestStore(t)
	push := &fakePush{}
	h := NewHandler(testConfig(), st, &fakeLLM{}, nil, nil, newDispatcher(st, push), push, nil, nil)

	rec := postJSON(t, h.MessageCreated, `{"conversationId":"missing","messageId":"m","senderId":"u1","content":"x"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(push.calls) != 0 {
		t.Fatal("expected no pushes for an unknown conversation")
	}
}

func TestConversationCreatedAcks(t *testing.T) {
	st, _ := openTestStore(t)
	h := NewHandler(testConfig(), st, &fakeLLM{}, nil, nil, nil, nil, nil, nil)

	rec := postJSON(t, h.ConversationCreated, `{"conversationId":"conv-9","participantIds":["a","b"],"isGroup":false}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestPresenceUpdatedAcks(t *testing.T) {
	st, _ := openTestStore(t)
	h := NewHandler(testConfig(), st, &fakeLLM{}, nil, nil, nil, nil, nil, nil)

	rec := postJSON(t, h.PresenceUpdated, `{"userId":"u1","before":{"status":"online"},"after":{"status":"away"}}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = postJSON(t, h.PresenceUpdated, `{"userId":"u1","after":{"status":"online"}}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for first write, got %d", rec.Code)
	}
}

func TestTestNotificationValidation(t *testing.T) {
	st, database := openTestStore(t)
	seedUser(t, database, "tokenless", "Tok", "")

	push := &fakePush{}
	h := NewHandler(testConfig(), st, &fakeLLM{}, nil, nil, nil, push, nil, nil)

	rec := postJSON(t, h.TestNotification, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Missing userId" {
		t.Fatalf("unexpected message: %q", msg)
	}

	rec = postJSON(t, h.TestNotification, `{"userId":"missing"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "User not found" {
		t.Fatalf("unexpected message: %q", msg)
	}

	rec = postJSON(t, h.TestNotification, `{"userId":"tokenless"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing token, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "No FCM token for user" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestTestNotificationSendsWithDefaults(t *testing.T) {
	st, database := openTestStore(t)
	seedUser(t, database, "u1", "Ana", "token-1")

	push := &fakePush{}
	h := NewHandler(testConfig(), st, &fakeLLM{}, nil, nil, nil, push, nil, nil)

	rec := postJSON(t, h.TestNotification, `{"userId":"u1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]bool
	decodeBody(t, rec, &resp)
	if !resp["success"] {
		t.Fatal("expected success true")
	}

	if len(push.calls) != 1 {
		t.Fatalf("expected one push, got %d", len(push.calls))
	}
	if push.calls[0].title != "Test" || push.calls[0].body != "Test notification" {
		t.Fatalf("expected default title/body, got %+v", push.calls[0])
	}
}
