package research

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestValidatePageURLSchemeAllowDeny(t *testing.T) {
	if _, err := validatePageURL("https://example.com/page"); err != nil {
		t.Fatalf("expected https to be allowed: %v", err)
	}
	if _, err := validatePageURL("http://example.com/page"); err != nil {
		t.Fatalf("expected http to be allowed: %v", err)
	}
	if _, err := validatePageURL("file:///etc/passwd"); err == nil {
		t.Fatal("expected file scheme to be denied")
	}
}

func TestValidatePageURLBlocksPrivateIP(t *testing.T) {
	if _, err := validatePageURL("http://127.0.0.1:8080/admin"); err == nil {
		t.Fatal("expected private loopback ip to be blocked")
	}
	if _, err := validatePageURL("http://[::1]/"); err == nil {
		t.Fatal("expected ipv6 loopback to be blocked")
	}
}

func TestReaderBodySizeCap(t *testing.T) {
	payload := strings.Repeat("a", 2048)
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"text/plain"}},
				Body:       io.NopCloser(strings.NewReader(payload)),
				Request:    req,
			}, nil
		}),
	}
	reader := NewHTTPReader(ReaderConfig{MaxBytes: 256, MaxTextRunes: 512, RequestTimeout: 2 * time.Second}, client)

	result, err := reader.Read(context.Background(), "https://example.com/large")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !result.Truncated {
		t.Fatalf("expected truncated result")
	}
	if len(result.Text) == 0 || len(result.Text) > 256 {
		t.Fatalf("expected bounded extracted text, got length=%d", len(result.Text))
	}
}

func TestReaderTimeoutBehavior(t *testing.T) {
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}),
	}
	reader := NewHTTPReader(ReaderConfig{RequestTimeout: 20 * time.Millisecond}, client)

	_, err := reader.Read(context.Background(), "https://example.com/slow")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestReaderExtractionByContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "html", contentType: "text/html", body: "<html><head><title>T</title></head><body><h1>Hello</h1><p>World</p></body></html>"},
		{name: "text", contentType: "text/plain", body: "plain text"},
		{name: "markdown", contentType: "text/markdown", body: "# Header\nBody"},
		{name: "json", contentType: "application/json", body: "{\"a\":1,\"b\":2}"},
		{name: "csv", contentType: "text/csv", body: "a,b\n1,2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &http.Client{
				Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
					return &http.Response{
						StatusCode: http.StatusOK,
						Header:     http.Header{"Content-Type": []string{tc.contentType}},
						Body:       io.NopCloser(strings.NewReader(tc.body)),
						Request:    req,
					}, nil
				}),
			}
			reader := NewHTTPReader(ReaderConfig{RequestTimeout: time.Second}, client)
			result, err := reader.Read(context.Background(), "https://example.com/content")
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if strings.TrimSpace(result.Text) == "" {
				t.Fatalf("expected non-empty extracted text")
			}
		})
	}
}

func TestReaderHTMLSkipsChrome(t *testing.T) {
	page := `<html><body>
		<nav>Site navigation links</nav>
		<header>Page header banner</header>
		<article><p>Actual article body</p></article>
		<footer>Copyright footer</footer>
		<script>var tracking = true;</script>
	</body></html>`
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"text/html"}},
				Body:       io.NopCloser(strings.NewReader(page)),
				Request:    req,
			}, nil
		}),
	}
	reader := NewHTTPReader(ReaderConfig{RequestTimeout: time.Second}, client)

	result, err := reader.Read(context.Background(), "https://example.com/article")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(result.Text, "Actual article body") {
		t.Fatalf("expected article text, got %q", result.Text)
	}
	for _, chrome := range []string{"navigation", "banner", "Copyright", "tracking"} {
		if strings.Contains(result.Text, chrome) {
			t.Fatalf("expected %q to be stripped, got %q", chrome, result.Text)
		}
	}
}

func TestTextSoftFailsAndCapsLength(t *testing.T) {
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"text/plain"}},
				Body:       io.NopCloser(strings.NewReader(strings.Repeat("word ", 100))),
				Request:    req,
			}, nil
		}),
	}
	reader := NewHTTPReader(ReaderConfig{RequestTimeout: time.Second}, client)

	if text := reader.Text(context.Background(), "https://example.com/page", 20); len([]rune(text)) > 20 {
		t.Fatalf("expected capped text, got %d runes", len([]rune(text)))
	}
	if text := reader.Text(context.Background(), "http://127.0.0.1/blocked", 100); text != "" {
		t.Fatalf("expected empty text for blocked url, got %q", text)
	}
}

func TestClassifyReadFailure(t *testing.T) {
	if reason := classifyReadFailure(context.DeadlineExceeded, PageResult{FetchStatus: "fetch_failed"}); reason != "timeout" {
		t.Fatalf("expected timeout reason, got %q", reason)
	}
	if reason := classifyReadFailure(errUnsupportedContentType, PageResult{FetchStatus: "unsupported_content_type"}); reason != "unsupported_content_type" {
		t.Fatalf("expected unsupported_content_type reason, got %q", reason)
	}
	if reason := classifyReadFailure(fmt.Errorf("%w", errBlockedURLHost), PageResult{FetchStatus: "blocked"}); reason != "blocked_url" {
		t.Fatalf("expected blocked_url reason, got %q", reason)
	}
}
