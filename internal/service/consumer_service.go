package service

import (
	"context"

	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// ProgressBroadcaster pushes raw event frames to connected admins.
type ProgressBroadcaster interface {
	Broadcast(ctx context.Context, data []byte)
}

// EventForwarder relays events to other instances.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	broadcaster ProgressBroadcaster
	forwarder   EventForwarder
	logger      logger.ILogger
}

// NewConsumerService drains the in-process knowledge topic. broadcaster and forwarder may be nil.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	broadcaster ProgressBroadcaster,
	forwarder EventForwarder,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		broadcaster: broadcaster,
		forwarder:   forwarder,
		logger:      logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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
	// undecodable messages are acked so they are not redelivered forever
	defer msg.Ack()

	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to decode knowledge event", map[string]interface{}{"error": err.Error()})
		return
	}

	if cs.broadcaster != nil {
		cs.broadcaster.Broadcast(ctx, msg.Payload)
	}

	// per-item progress stays local; only table changes concern other instances
	if cs.forwarder != nil && event.EventType() != events.KnowledgeImportItem {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn("CONSUMER", "Failed to forward event", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}
}
