package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"poolhall/internal/domain"
	applog "poolhall/internal/log"
)

// Publisher dials per message; completions are a few per hour at most.
// A zero URL disables publishing.
type Publisher struct {
	URL string
}

func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

func (p *Publisher) Enabled() bool { return p != nil && p.URL != "" }

// EventFor builds the event for an archived session.
func EventFor(s domain.TableSession) SessionCompletedEvent {
	ev := SessionCompletedEvent{
		SessionID:   s.ID,
		TableID:     s.TableID,
		TableName:   s.TableName,
		SessionType: string(s.SessionType),
		StartTime:   s.StartTime,
		HourlyRate:  s.HourlyRate,
		TotalAmount: s.Amount(),
	}
	if s.EndTime != nil {
		ev.EndTime = *s.EndTime
	}
	return ev
}

// PublishSessionCompleted sends the event to the durable session.completed
// queue. Errors are logged and returned; callers are free to ignore them.
func (p *Publisher) PublishSessionCompleted(ctx context.Context, ev SessionCompletedEvent) error {
	if !p.Enabled() {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		applog.Error(nil, "queue.marshal.fail", err, nil)
		return err
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		applog.Error(nil, "queue.dial.fail", err, nil)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		applog.Error(nil, "queue.channel.fail", err, nil)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(SessionCompletedQueue, true, false, false, false, nil); err != nil {
		applog.Error(nil, "queue.declare.fail", err, nil)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.SessionID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", SessionCompletedQueue, false, false, pub); err != nil {
		applog.Error(nil, "queue.publish.fail", err, map[string]any{"session_id": ev.SessionID})
		return err
	}
	applog.Info(nil, "queue.publish", map[string]any{"session_id": ev.SessionID, "amount": ev.TotalAmount})
	return nil
}
