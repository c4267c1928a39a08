package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func step(name string) {
	color.Cyan("\n=== %s ===", name)
}

func check(resp *http.Response, body []byte, err error, wantStatus int) bool {
	if err != nil {
		color.Red("request failed: %v", err)
		return false
	}
	prettyPrint(body)
	if resp.StatusCode != wantStatus {
		color.Red("expected status %d, got %d", wantStatus, resp.StatusCode)
		return false
	}
	color.Green("OK (%d)", resp.StatusCode)
	return true
}

func main() {
	failed := false

	step("Health")
	resp, body, err := sendRequest(http.MethodGet, "/health", nil)
	if !check(resp, body, err, http.StatusOK) {
		color.Red("server is not reachable, aborting")
		os.Exit(1)
	}

	step("Create session")
	resp, body, err = sendRequest(http.MethodPost, "/session/v1", map[string]string{
		"title": "Smoke test session",
	})
	failed = !check(resp, body, err, http.StatusOK) || failed

	var created struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	_ = json.Unmarshal(body, &created)

	step("List sessions")
	resp, body, err = sendRequest(http.MethodGet, "/session/v1", nil)
	failed = !check(resp, body, err, http.StatusOK) || failed

	step("Quick answer")
	resp, body, err = sendRequest(http.MethodPost, "/research/v1/quick", map[string]string{
		"query": "What is retrieval augmented generation?",
	})
	failed = !check(resp, body, err, http.StatusOK) || failed

	step("Full research query")
	resp, body, err = sendRequest(http.MethodPost, "/research/v1/query", map[string]string{
		"query":      "Recent advances in transformer attention mechanisms",
		"session_id": created.Data.Id,
	})
	failed = !check(resp, body, err, http.StatusOK) || failed

	step("Conversation turns")
	resp, body, err = sendRequest(http.MethodGet, "/session/v1/"+created.Data.Id+"/turns", nil)
	failed = !check(resp, body, err, http.StatusOK) || failed

	step("Semantic search over documents")
	resp, body, err = sendRequest(http.MethodPost, "/document/v1/search", map[string]interface{}{
		"query": "attention mechanisms",
		"limit": 3,
	})
	failed = !check(resp, body, err, http.StatusOK) || failed

	step("Validation error path")
	resp, body, err = sendRequest(http.MethodPost, "/research/v1/query", map[string]string{
		"query": "x",
	})
	failed = !check(resp, body, err, http.StatusBadRequest) || failed

	if failed {
		color.Red("\nSmoke test finished with failures")
		os.Exit(1)
	}
	color.Green("\nAll smoke checks passed")
}
