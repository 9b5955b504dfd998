package service

import (
	"context"
	"encoding/json"

	"ai-agent-platform/internal/dto"
	"ai-agent-platform/internal/pkg/logger"
	"ai-agent-platform/pkg/events"
	"ai-agent-platform/pkg/profile"

	"github.com/ThreeDotsLabs/watermill/message"
)

const maxDeliveryAttempts = 3

// EventBroadcaster pushes an encoded event to live listeners.
type EventBroadcaster interface {
	Broadcast(payload []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the profile event topic. Finished sessions are
// archived through the persister; every event is forwarded to the external
// bus and to live listeners when those are configured.
type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	persister   profile.Persister
	forwarder   events.Publisher
	broadcaster EventBroadcaster
	logger      logger.ILogger

	// attempts counts deliveries per message id; only the consume loop
	// touches it.
	attempts map[string]int
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	persister profile.Persister,
	forwarder events.Publisher,
	broadcaster EventBroadcaster,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		persister:   persister,
		forwarder:   forwarder,
		broadcaster: broadcaster,
		logger:      log,
		attempts:    make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProfileSessionEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	details := map[string]interface{}{
		"type":       payload.Type,
		"session_id": payload.SessionId,
		"answered":   len(payload.Profile),
	}

	if cs.shouldArchive(payload) && cs.persister != nil {
		if err := cs.persister.SaveSession(ctx, FromEventMessage(payload)); err != nil {
			details["error"] = err.Error()
			if cs.retry(msg.UUID) {
				cs.logger.Warn("Consumer", "Archiving session failed, retrying", details)
				msg.Nack()
				return
			}
			cs.logger.Error("Consumer", "Archiving session failed, giving up", details)
		}
	}

	if cs.forwarder != nil {
		event := events.BaseEvent{
			Type: payload.Type,
			Data: map[string]interface{}{
				"type":       payload.Type,
				"session_id": payload.SessionId,
				"state":      payload.State,
				"profile":    payload.Profile,
			},
			OccurredAt: payload.OccurredAt,
		}
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn("Consumer", "Failed to forward event", map[string]interface{}{
				"type":  payload.Type,
				"error": err.Error(),
			})
		}
	}

	if cs.broadcaster != nil {
		cs.broadcaster.Broadcast(msg.Payload)
	}

	delete(cs.attempts, msg.UUID)
	cs.logger.Info("Consumer", "Processed profile event", details)
	msg.Ack()
}

func (cs *consumerService) shouldArchive(payload dto.ProfileSessionEventMessage) bool {
	switch profile.EventType(payload.Type) {
	case profile.EventSessionCompleted, profile.EventSessionEvicted:
		return true
	}
	return false
}

// retry records a failed delivery and reports whether another is allowed.
func (cs *consumerService) retry(messageID string) bool {
	cs.attempts[messageID]++
	if cs.attempts[messageID] < maxDeliveryAttempts {
		return true
	}
	delete(cs.attempts, messageID)
	return false
}
