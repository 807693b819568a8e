package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/williamkasasa/hackathon-seaweed/internal/model"
	"github.com/williamkasasa/hackathon-seaweed/pkg/logger"
)

const (
	// StreamName is the JetStream stream carrying storefront events.
	StreamName = "STOREFRONT"

	subjectOrderCompleted = "storefront.orders.completed"
	subjectChatTurn       = "storefront.chat.turn"
)

// Publisher emits storefront domain events. Implementations must be safe to
// call from request handlers; a nil *JetStreamPublisher silently drops
// events so the engine can run without a broker.
type Publisher interface {
	PublishOrderCompleted(ctx context.Context, session *model.CheckoutSession) error
	PublishChatTurn(ctx context.Context, reply *model.AssistantReply) error
}

// OrderCompletedEvent is published when a checkout session finishes payment.
type OrderCompletedEvent struct {
	CheckoutID string    `json:"checkout_id"`
	OrderID    string    `json:"order_id"`
	Currency   string    `json:"currency"`
	Total      int64     `json:"total"`
	LineItems  int       `json:"line_items"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ChatTurnEvent is published after each orchestrated chat turn.
type ChatTurnEvent struct {
	ToolCalls  []string  `json:"tool_calls"`
	OccurredAt time.Time `json:"occurred_at"`
}

// JetStreamPublisher publishes events to NATS JetStream.
type JetStreamPublisher struct {
	client *Client
	logger *logger.Logger
}

// NewPublisher creates a JetStream-backed publisher.
func NewPublisher(client *Client, log *logger.Logger) *JetStreamPublisher {
	return &JetStreamPublisher{
		client: client,
		logger: log,
	}
}

// EnsureStream creates or updates the storefront stream.
func (p *JetStreamPublisher) EnsureStream(ctx context.Context) error {
	_, err := p.client.JetStream().CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{"storefront.>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure stream %s: %w", StreamName, err)
	}
	return nil
}

// PublishOrderCompleted emits an order-completed event for a session.
func (p *JetStreamPublisher) PublishOrderCompleted(ctx context.Context, session *model.CheckoutSession) error {
	if p == nil {
		return nil
	}

	event := OrderCompletedEvent{
		CheckoutID: session.ID,
		Currency:   session.Currency,
		Total:      session.TotalAmount(model.TotalTypeTotal),
		LineItems:  len(session.LineItems),
		OccurredAt: time.Now(),
	}
	if session.Order != nil {
		event.OrderID = session.Order.ID
	}

	if err := p.publish(ctx, subjectOrderCompleted, event); err != nil {
		return err
	}
	p.logger.Info("order completed event published",
		zap.String("checkout_id", event.CheckoutID),
		zap.String("order_id", event.OrderID),
	)
	return nil
}

// PublishChatTurn emits a chat-turn event.
func (p *JetStreamPublisher) PublishChatTurn(ctx context.Context, reply *model.AssistantReply) error {
	if p == nil {
		return nil
	}

	names := make([]string, 0, len(reply.OriginalToolCalls))
	for _, call := range reply.OriginalToolCalls {
		names = append(names, call.Function.Name)
	}

	return p.publish(ctx, subjectChatTurn, ChatTurnEvent{
		ToolCalls:  names,
		OccurredAt: time.Now(),
	})
}

func (p *JetStreamPublisher) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := p.client.JetStream().Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}
