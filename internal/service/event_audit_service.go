package service

import (
	"context"

	"ai-research-assistant-be/internal/pkg/logger"
	"ai-research-assistant-be/pkg/events"
	pkgNats "ai-research-assistant-be/pkg/nats"
)

// EventSubscriber is the slice of the NATS subscriber the audit
// service needs.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pkgNats.EventHandler) error
}

// IEventAuditService consumes the bus and writes an audit trail of
// everything the system announces (completed research runs, indexed
// documents).
type IEventAuditService interface {
	Start() error
}

type eventAuditService struct {
	subscriber EventSubscriber
	log        logger.ILogger
}

func NewEventAuditService(subscriber EventSubscriber, log logger.ILogger) IEventAuditService {
	return &eventAuditService{
		subscriber: subscriber,
		log:        log,
	}
}

// Start attaches a durable consumer to the full event stream. Durable
// so audit entries survive a restart of this instance.
func (s *eventAuditService) Start() error {
	return s.subscriber.Subscribe("events.>", "research-assistant-audit", s.record)
}

func (s *eventAuditService) record(ctx context.Context, event events.Event) error {
	s.log.Info("event.audit", "event recorded", map[string]interface{}{
		"type":        event.EventType(),
		"payload":     event.Payload(),
		"occurred_at": event.Timestamp(),
	})
	return nil
}
