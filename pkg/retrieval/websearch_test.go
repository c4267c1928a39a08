package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newWebTestServer(t *testing.T, citations []string, onRequest func(req webChatRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}

		var req webChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if onRequest != nil {
			onRequest(req)
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "recent findings about the topic"}},
			},
			"citations": citations,
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestSearchFocusedAcademic(t *testing.T) {
	var captured webChatRequest
	srv := newWebTestServer(t, []string{"https://a.example", "https://b.example"}, func(req webChatRequest) {
		captured = req
	})
	defer srv.Close()

	client := NewWebSearchClient("test-key", 5*time.Second, nil)
	client.BaseURL = srv.URL

	result, err := client.SearchFocused(context.Background(), "quantum error correction", "academic")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(captured.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != focusSystemPrompts["academic"] {
		t.Errorf("wrong system prompt for academic focus: %+v", captured.Messages[0])
	}
	if captured.Messages[1].Content != "quantum error correction" {
		t.Errorf("user message = %q", captured.Messages[1].Content)
	}

	if result.Content != "recent findings about the topic" {
		t.Errorf("content = %q", result.Content)
	}
	if result.Citations != "https://a.example, https://b.example" {
		t.Errorf("citations = %q", result.Citations)
	}
	if result.Focus != "academic" {
		t.Errorf("focus = %q", result.Focus)
	}
}

func TestSearchFocusedNoCitations(t *testing.T) {
	srv := newWebTestServer(t, nil, nil)
	defer srv.Close()

	client := NewWebSearchClient("test-key", 5*time.Second, nil)
	client.BaseURL = srv.URL

	result, err := client.SearchFocused(context.Background(), "q", "internet")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Citations != "No citations available" {
		t.Errorf("citations = %q", result.Citations)
	}
}

func TestSearchFocusedUnknownFocusFallsBack(t *testing.T) {
	var captured webChatRequest
	srv := newWebTestServer(t, nil, func(req webChatRequest) { captured = req })
	defer srv.Close()

	client := NewWebSearchClient("test-key", 5*time.Second, nil)
	client.BaseURL = srv.URL

	if _, err := client.SearchFocused(context.Background(), "q", "nonsense"); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if captured.Messages[0].Content != focusSystemPrompts["general"] {
		t.Errorf("unknown focus should use the general prompt, got %q", captured.Messages[0].Content)
	}
}

func TestSearchFocusedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream failure", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewWebSearchClient("test-key", 5*time.Second, nil)
	client.BaseURL = srv.URL

	if _, err := client.SearchFocused(context.Background(), "q", "academic"); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestSearchFocusedEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := NewWebSearchClient("test-key", 5*time.Second, nil)
	client.BaseURL = srv.URL

	if _, err := client.SearchFocused(context.Background(), "q", "academic"); err == nil {
		t.Error("expected error on empty choices")
	}
}
