package servicebus

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// EngagementSender sends engagement events to a Service Bus queue or topic.
type EngagementSender struct {
	client *azservicebus.Client
	queue  string

	mu     sync.Mutex
	sender *azservicebus.Sender
}

func NewEngagementSender(client *azservicebus.Client, queue string) repository.IEventPublisher {
	return &EngagementSender{client: client, queue: queue}
}

func (s *EngagementSender) getSender() (*azservicebus.Sender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sender != nil {
		return s.sender, nil
	}
	sender, err := s.client.NewSender(s.queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return nil, err
	}
	s.sender = sender
	return sender, nil
}

func (s *EngagementSender) Publish(ctx context.Context, event model.EngagementEvent) error {
	if s.client == nil {
		return errors.New("service bus client not configured")
	}
	sender, err := s.getSender()
	if err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &azservicebus.Message{
		Body:        body,
		MessageID:   to.Ptr(event.ID),
		Subject:     to.Ptr(string(event.Type)),
		ContentType: to.Ptr("application/json"),
	}
	if err := sender.SendMessage(ctx, msg, nil); err != nil {
		logger.FromContext(ctx).WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

// Close releases the cached sender.
func (s *EngagementSender) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sender == nil {
		return nil
	}
	err := s.sender.Close(ctx)
	s.sender = nil
	return err
}
