package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WebResult is the normalized outcome of one focused web search.
type WebResult struct {
	Query     string `json:"query"`
	Focus     string `json:"focus"`
	Content   string `json:"content"`
	Citations string `json:"citations"` // comma-joined citation URLs
}

// WebSearchClient performs web search through a Perplexity-compatible
// chat-completions API with online models.
type WebSearchClient struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
	cache   *Cache
}

func NewWebSearchClient(apiKey string, timeout time.Duration, cache *Cache) *WebSearchClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebSearchClient{
		APIKey:  apiKey,
		BaseURL: "https://api.perplexity.ai",
		Model:   "llama-3.1-sonar-small-128k-online",
		Client: &http.Client{
			Timeout: timeout,
		},
		cache: cache,
	}
}

type webChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type webChatRequest struct {
	Model    string           `json:"model"`
	Messages []webChatMessage `json:"messages"`
}

type webChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

var focusSystemPrompts = map[string]string{
	"academic": "You are an academic research assistant. Provide scholarly information with proper citations.",
	"internet": "You are a helpful research assistant that provides accurate information with citations.",
	"general":  "You are a helpful assistant that provides accurate information.",
}

// SearchFocused runs a focused web search. Unknown focus values fall back to
// the general system prompt.
func (w *WebSearchClient) SearchFocused(ctx context.Context, query string, focus string) (*WebResult, error) {
	cacheKey := fmt.Sprintf("retrieval:web:%s:%s", focus, query)
	var cached WebResult
	if w.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	systemPrompt, ok := focusSystemPrompts[focus]
	if !ok {
		systemPrompt = focusSystemPrompts["general"]
	}

	reqPayload := webChatRequest{
		Model: w.Model,
		Messages: []webChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := w.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp webChatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("empty choices from web search")
	}

	citations := "No citations available"
	if len(chatResp.Citations) > 0 {
		citations = strings.Join(chatResp.Citations, ", ")
	}

	result := &WebResult{
		Query:     query,
		Focus:     focus,
		Content:   chatResp.Choices[0].Message.Content,
		Citations: citations,
	}

	w.cache.Set(ctx, cacheKey, result)
	return result, nil
}
