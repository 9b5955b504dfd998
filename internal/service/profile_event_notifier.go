package service

import (
	"context"
	"encoding/json"

	"ai-agent-platform/internal/dto"
	"ai-agent-platform/internal/pkg/logger"
	"ai-agent-platform/pkg/profile"
)

// ProfileEventNotifier puts session lifecycle events on the in-process bus.
// Publish failures are logged; a session never fails because of them.
type ProfileEventNotifier struct {
	publisher IPublisherService
	logger    logger.ILogger
}

func NewProfileEventNotifier(publisher IPublisherService, log logger.ILogger) *ProfileEventNotifier {
	return &ProfileEventNotifier{publisher: publisher, logger: log}
}

func (n *ProfileEventNotifier) Notify(ctx context.Context, event profile.Event) {
	payload, err := json.Marshal(ToEventMessage(event))
	if err != nil {
		n.logger.Error("ProfileEvents", "Failed to marshal event", map[string]interface{}{
			"type":  string(event.Type),
			"error": err.Error(),
		})
		return
	}

	if err := n.publisher.Publish(context.WithoutCancel(ctx), payload); err != nil {
		n.logger.Warn("ProfileEvents", "Failed to publish event", map[string]interface{}{
			"type":       string(event.Type),
			"session_id": event.Snapshot.ID,
			"error":      err.Error(),
		})
	}
}

func ToEventMessage(event profile.Event) dto.ProfileSessionEventMessage {
	return dto.ProfileSessionEventMessage{
		Type:           string(event.Type),
		SessionId:      event.Snapshot.ID,
		State:          string(event.Snapshot.State),
		Profile:        event.Snapshot.Profile,
		AskedQuestions: event.Snapshot.Asked,
		CreatedAt:      event.Snapshot.CreatedAt,
		LastActive:     event.Snapshot.LastActive,
		OccurredAt:     event.OccurredAt,
	}
}

func FromEventMessage(msg dto.ProfileSessionEventMessage) profile.Snapshot {
	return profile.Snapshot{
		ID:         msg.SessionId,
		Profile:    msg.Profile,
		Asked:      msg.AskedQuestions,
		State:      profile.State(msg.State),
		CreatedAt:  msg.CreatedAt,
		LastActive: msg.LastActive,
	}
}
