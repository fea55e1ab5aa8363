package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// EngagementPublisher sends engagement events to one Pub/Sub topic, creating
// the topic on first use. Lookup failures are retried on the next publish.
type EngagementPublisher struct {
	client    *pubsub.Client
	topicName string

	mu    sync.Mutex
	topic *pubsub.Topic
}

func NewEngagementPublisher(client *pubsub.Client, topicName string) repository.IEventPublisher {
	return &EngagementPublisher{client: client, topicName: topicName}
}

func (p *EngagementPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}

	topic := p.client.Topic(p.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", p.topicName, err)
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		if topic, err = p.client.CreateTopic(ctx, p.topicName); err != nil {
			return nil, fmt.Errorf("create topic %s: %w", p.topicName, err)
		}
	}
	p.topic = topic
	return topic, nil
}

func (p *EngagementPublisher) Publish(ctx context.Context, event model.EngagementEvent) error {
	if p.client == nil {
		return errors.New("pubsub client not configured")
	}
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	serverID, err := topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"type":    string(event.Type),
			"videoId": event.VideoID,
		},
	}).Get(ctx)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).WithField("serverId", serverID).WithField("eventId", event.ID).Debug("Engagement event published")
	return nil
}

// Close flushes pending messages and stops the topic's publishers.
func (p *EngagementPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		p.topic.Stop()
		p.topic = nil
	}
}
