package websocket

import (
	"testing"

	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/pkg/agent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(nil, logger.NewNopLogger())
}

func addClient(h *Hub, sessionID string) *Client {
	client := &Client{Hub: h, SessionID: sessionID, Send: make(chan []byte, 8)}
	h.mu.Lock()
	h.clients[sessionID] = append(h.clients[sessionID], client)
	h.mu.Unlock()
	return client
}

func TestNotifyProgressDeliversOnce(t *testing.T) {
	h := newTestHub()
	sessionClient := addClient(h, "session-1")
	firehose := addClient(h, "")
	other := addClient(h, "session-2")

	h.NotifyProgress(agent.ProgressEvent{SessionID: "session-1", Step: agent.StepResearch})

	assert.Len(t, sessionClient.Send, 1)
	assert.Len(t, firehose.Send, 1)
	assert.Len(t, other.Send, 0)
}

func TestHandleRelaySkipsOwnPublishes(t *testing.T) {
	h := newTestHub()
	client := addClient(h, "session-1")

	data := []byte(`{"type":"progress"}`)
	h.handleRelay(h.relayEnvelope("session-1", data))

	assert.Len(t, client.Send, 0)
}

func TestHandleRelayDeliversForeignPublishes(t *testing.T) {
	local := newTestHub()
	remote := newTestHub()
	client := addClient(local, "session-1")

	data := []byte(`{"type":"progress"}`)
	local.handleRelay(remote.relayEnvelope("session-1", data))

	require.Len(t, client.Send, 1)
	assert.Equal(t, data, <-client.Send)
}

func TestHandleRelayIgnoresMalformedPayload(t *testing.T) {
	h := newTestHub()
	client := addClient(h, "session-1")

	h.handleRelay([]byte("not json"))

	assert.Len(t, client.Send, 0)
}
