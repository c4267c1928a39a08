package agent

import "time"

// ProgressEvent announces a workflow stage transition to observers such
// as websocket subscribers or the event bus.
type ProgressEvent struct {
	SessionID string    `json:"session_id"`
	Step      Step      `json:"step"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives stage transitions as they happen. Implementations
// must not block the workflow; slow delivery belongs on the consumer
// side.
type Notifier interface {
	NotifyProgress(event ProgressEvent)
}
