package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"wutzup/functions/internal/config"
	"wutzup/functions/internal/db"
	"wutzup/functions/internal/duckduckgo"
	"wutzup/functions/internal/notify"
	"wutzup/functions/internal/openai"
	"wutzup/functions/internal/store"
)

func testConfig() config.Config {
	return config.Config{
		OpenAIAPIKey:            "sk-test",
		MaxSearchResults:        5,
		MaxScrapedContentLength: 1000,
		NotificationPreviewLen:  100,
	}
}

func openTestStore(t *testing.T) (store.Store, *sql.DB) {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	if err := db.Migrate(context.Background(), database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.NewStore(database), database
}

func seedUser(t *testing.T, database *sql.DB, id, name, token string) {
	t.Helper()
	_, err := database.Exec(
		`INSERT INTO users (id, display_name, push_token) VALUES (?, ?, ?);`,
		id, name, token,
	)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedConversation(t *testing.T, database *sql.DB, id string, participantIDs []string, isGroup bool, groupName string) {
	t.Helper()
	participants, err := json.Marshal(participantIDs)
	if err != nil {
		t.Fatalf("marshal participants: %v", err)
	}
	_, err = database.Exec(
		`INSERT INTO conversations (id, participant_ids, is_group, group_name, updated_at) VALUES (?, ?, ?, ?, ?);`,
		id, string(participants), isGroup, groupName, "2026-01-01T00:00:00Z",
	)
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
}

type fakeLLM struct {
	out  string
	err  error
	fn   func(openai.ChatRequest) (string, error)
	reqs []openai.ChatRequest
}

func (f *fakeLLM) ChatCompletion(_ context.Context, req openai.ChatRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	if f.fn != nil {
		return f.fn(req)
	}
	return f.out, f.err
}

type fakeSearch struct {
	results []duckduckgo.SearchResult
	err     error
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) ([]duckduckgo.SearchResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type fakeReader struct {
	pages map[string]string
}

func (f *fakeReader) Text(_ context.Context, rawURL string, maxRunes int) string {
	text := f.pages[rawURL]
	runes := []rune(text)
	if len(runes) > maxRunes {
		return string(runes[:maxRunes])
	}
	return text
}

type fakePush struct {
	err   error
	calls []fakePushCall
}

type fakePushCall struct {
	token string
	title string
	body  string
	data  map[string]string
}

func (f *fakePush) Send(_ context.Context, token, title, body string, data map[string]string) error {
	f.calls = append(f.calls, fakePushCall{token: token, title: title, body: body, data: data})
	return f.err
}

type fakePipeline struct {
	path   string
	frames int
	err    error
}

func (f *fakePipeline) GenerateAnimation(context.Context, string) (string, int, error) {
	return f.path, f.frames, f.err
}

type fakeObjects struct {
	putPath string
	putType string
	putData []byte
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, objectPath, contentType string, data []byte) error {
	f.putPath = objectPath
	f.putType = contentType
	f.putData = data
	return f.err
}

func (f *fakeObjects) PublicURL(objectPath string) string {
	return "https://storage.googleapis.com/test-bucket/" + objectPath
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	decodeBody(t, rec, &resp)
	return resp.Error.Message
}

func newDispatcher(st store.Store, push notify.Sender) notify.Dispatcher {
	return notify.NewDispatcher(st, push, 100)
}
