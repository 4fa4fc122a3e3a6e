package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"wutzup/functions/internal/openai"
	"wutzup/functions/internal/prompts"
)

const maxScrapedSources = 3

const (
	noResultsSummary = "I couldn't find any relevant information for your query. Please try rephrasing your question or search for something else."
	noContentSummary = "I found some results but couldn't access their content. This might be due to website restrictions. Please try a different query."
)

type researchRequest struct {
	Prompt *string `json:"prompt"`
}

type researchSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type researchResponse struct {
	Summary string           `json:"summary"`
	Sources []researchSource `json:"sources"`
}

// Research answers a question from live web content: search, scrape the top
// results, then summarize. Empty search results and unreachable pages come
// back as apologetic 200s rather than errors so the chat UI can show them.
func (h Handler) Research(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
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

	results, err := h.search.Search(r.Context(), prompt, h.cfg.MaxSearchResults)
	if err != nil {
		log.Printf("research: search failed: %v", err)
	}
	if len(results) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"summary": noResultsSummary})
		return
	}

	if len(results) > maxScrapedSources {
		results = results[:maxScrapedSources]
	}

	scraped := make([]researchSource, 0, len(results))
	var contextBuilder strings.Builder
	for _, result := range results {
		content := h.reader.Text(r.Context(), result.URL, h.cfg.MaxScrapedContentLength)
		if content == "" {
			continue
		}
		if contextBuilder.Len() > 0 {
			contextBuilder.WriteString("\n\n")
		}
		fmt.Fprintf(&contextBuilder, "Source: %s\nURL: %s\nContent: %s", result.Title, result.URL, content)
		scraped = append(scraped, researchSource{Title: result.Title, URL: result.URL})
	}

	if len(scraped) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"summary": noContentSummary})
		return
	}

	summary, err := h.llm.ChatCompletion(r.Context(), openai.ChatRequest{
		System:      prompts.ResearchSystem,
		User:        prompts.ResearchUser(prompt, contextBuilder.String()),
		Temperature: 0.7,
	})
	if err != nil {
		writeLLMError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, researchResponse{Summary: summary, Sources: scraped})
}
