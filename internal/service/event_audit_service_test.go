package service

import (
	"context"
	"testing"

	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/pkg/events"
	pkgNats "ai-research-assistant-be/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEventSubscriber struct {
	subject string
	durable string
	handler pkgNats.EventHandler
}

func (s *stubEventSubscriber) Subscribe(subject string, durableName string, handler pkgNats.EventHandler) error {
	s.subject = subject
	s.durable = durableName
	s.handler = handler
	return nil
}

func TestEventAuditServiceSubscribesToAllEvents(t *testing.T) {
	sub := &stubEventSubscriber{}
	svc := NewEventAuditService(sub, logger.NewNopLogger())

	require.NoError(t, svc.Start())

	assert.Equal(t, "events.>", sub.subject)
	assert.Equal(t, "research-assistant-audit", sub.durable)
	require.NotNil(t, sub.handler)

	evt := events.NewResearchCompletedEvent("session-1", 3, 1.2)
	assert.NoError(t, sub.handler(context.Background(), evt))
}
