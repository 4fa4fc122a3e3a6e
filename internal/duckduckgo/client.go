// Package duckduckgo searches the DuckDuckGo HTML interface. There is no
// documented API: results come from parsing the rendered results page, so
// malformed fragments are skipped rather than treated as errors.
package duckduckgo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"wutzup/functions/internal/config"
)

const (
	searchUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	searchRegion    = "us-en"
)

type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg config.Config, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.SearchBaseURL), "/"),
		timeout:    cfg.RequestTimeout,
		httpClient: httpClient,
	}
}

func (c Client) Search(ctx context.Context, query string, count int) ([]SearchResult, error) {
	trimmedQuery := strings.TrimSpace(query)
	if trimmedQuery == "" {
		return nil, nil
	}
	if count <= 0 {
		count = 5
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("q", trimmedQuery)
	form.Set("kl", searchRegion)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/html/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", searchUserAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("search returned %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	return parseResults(doc, count), nil
}

func parseResults(doc *html.Node, count int) []SearchResult {
	results := make([]SearchResult, 0, count)

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if len(results) >= count {
			return
		}
		if node.Type == html.ElementNode && node.Data == "div" && hasClass(node, "result") {
			if result, ok := parseResultFragment(node); ok {
				results = append(results, result)
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return results
}

func parseResultFragment(node *html.Node) (SearchResult, bool) {
	titleAnchor := findByClass(node, "a", "result__a")
	if titleAnchor == nil {
		return SearchResult{}, false
	}

	title := collapseText(titleAnchor)
	rawURL := cleanResultURL(attrValue(titleAnchor, "href"))
	if title == "" || rawURL == "" {
		return SearchResult{}, false
	}

	snippet := ""
	if snippetNode := findByClass(node, "a", "result__snippet"); snippetNode != nil {
		snippet = collapseText(snippetNode)
	}

	return SearchResult{Title: title, URL: rawURL, Snippet: snippet}, true
}

// cleanResultURL unwraps DuckDuckGo's redirect links, which carry the target
// in the uddg query parameter, and normalizes protocol-relative URLs.
func cleanResultURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	if strings.Contains(href, "duckduckgo.com/l/") {
		if _, rawQuery, found := strings.Cut(href, "?"); found {
			if params, err := url.ParseQuery(rawQuery); err == nil {
				if target := strings.TrimSpace(params.Get("uddg")); target != "" {
					href = target
				}
			}
		}
	}

	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	if !strings.HasPrefix(href, "http") {
		return ""
	}
	return href
}

func hasClass(node *html.Node, class string) bool {
	for _, field := range strings.Fields(attrValue(node, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attrValue(node *html.Node, name string) string {
	for _, attr := range node.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func findByClass(node *html.Node, element, class string) *html.Node {
	if node.Type == html.ElementNode && node.Data == element && hasClass(node, class) {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findByClass(child, element, class); found != nil {
			return found
		}
	}
	return nil
}

func collapseText(node *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.Join(strings.Fields(builder.String()), " ")
}
