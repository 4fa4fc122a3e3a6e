package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"wutzup/functions/internal/config"
)

const maxErrorBodyBytes = 8 * 1024

var ErrMissingAPIKey = errors.New("openai api key is not configured")

type ChatRequest struct {
	System      string
	User        string
	Temperature float64
}

type Client struct {
	apiKey      string
	baseURL     string
	chatModel   string
	imageModel  string
	imageSize   string
	temperature float64
	httpClient  *http.Client
}

type chatAPIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatAPIRequest struct {
	Model       string           `json:"model"`
	Messages    []chatAPIMessage `json:"messages"`
	Temperature float64          `json:"temperature"`
}

type chatAPIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type imageAPIRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type imageAPIResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

func NewClient(cfg config.Config, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return Client{
		apiKey:      strings.TrimSpace(cfg.OpenAIAPIKey),
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.OpenAIBaseURL), "/"),
		chatModel:   strings.TrimSpace(cfg.ChatModel),
		imageModel:  strings.TrimSpace(cfg.ImageModel),
		imageSize:   strings.TrimSpace(cfg.ImageSize),
		temperature: cfg.ChatTemperature,
		httpClient:  httpClient,
	}
}

// ChatCompletion sends a system/user prompt pair and returns the trimmed
// completion text. A zero Temperature falls back to the configured default.
func (c Client) ChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}

	messages := make([]chatAPIMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, chatAPIMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatAPIMessage{Role: "user", Content: req.User})

	payload, err := json.Marshal(chatAPIRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal openai request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build openai request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", fmt.Errorf("openai returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if parsed.Error != nil && strings.TrimSpace(parsed.Error.Message) != "" {
		return "", errors.New(strings.TrimSpace(parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("openai response has no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// GenerateImage submits an image-generation prompt and returns the URL of
// the rendered image.
func (c Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	payload, err := json.Marshal(imageAPIRequest{
		Model:   c.imageModel,
		Prompt:  prompt,
		Size:    c.imageSize,
		Quality: "standard",
		N:       1,
	})
	if err != nil {
		return "", fmt.Errorf("marshal image request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request image generation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", fmt.Errorf("image generation returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed imageAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	if len(parsed.Data) == 0 || strings.TrimSpace(parsed.Data[0].URL) == "" {
		return "", errors.New("image response has no url")
	}

	return strings.TrimSpace(parsed.Data[0].URL), nil
}
