package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	ledger "github.com/pearltrails/engagement-ledger"
)

// leadCapturedEvent is the message published for downstream consumers
// (curator paging, CRM sync) when a lead is captured.
type leadCapturedEvent struct {
	LeadID         string `json:"lead_id"`
	Source         string `json:"source"`
	PackageViewing string `json:"package_viewing,omitempty"`
	Timestamp      string `json:"timestamp"`
	FullName       string `json:"full_name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// AMQPNotifier publishes lead-captured events to a durable queue. It dials
// per publish so a broker restart never leaves it holding a dead channel.
type AMQPNotifier struct {
	url   string
	queue string
	log   *zap.SugaredLogger
}

func NewAMQPNotifier(url, queue string, log *zap.SugaredLogger) *AMQPNotifier {
	if queue == "" {
		queue = "lead.captured"
	}
	return &AMQPNotifier{
		url:   url,
		queue: queue,
		log:   log,
	}
}

// Notify publishes the lead event. Messages are marked persistent so they
// survive broker restarts.
func (n *AMQPNotifier) Notify(ctx context.Context, lead ledger.Lead) error {
	conn, err := amqp.Dial(n.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(n.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	body, err := json.Marshal(leadCapturedEvent{
		LeadID:         lead.ID,
		Source:         lead.Source,
		PackageViewing: lead.PackageViewing,
		Timestamp:      lead.Timestamp.Format(time.RFC3339),
		FullName:       lead.Data.FullName,
		Email:          lead.Data.Email,
		Phone:          lead.Data.Phone,
	})
	if err != nil {
		return fmt.Errorf("encoding lead event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", n.queue, false, false, pub); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}

	return nil
}
