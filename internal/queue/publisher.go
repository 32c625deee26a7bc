package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends events to RabbitMQ.  It dials per publish, which keeps
// it free of connection state at the volumes a marketing site sees.
type Publisher struct {
	URL         string
	Log         *zap.Logger
	DialTimeout time.Duration
}

// DefaultDialTimeout bounds connecting and the AMQP handshake.
const DefaultDialTimeout = 2 * time.Second

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{URL: url, Log: log, DialTimeout: DefaultDialTimeout}
}

// dialTimeout is the configured timeout, shortened to the time left on ctx.
func (p *Publisher) dialTimeout(ctx context.Context) time.Duration {
	d := p.DialTimeout
	if d <= 0 {
		d = DefaultDialTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = max(left, time.Millisecond)
		}
	}
	return d
}

// Publish sends ev to the events queue.  Errors are logged and returned
// so the caller can choose to ignore them.  Messages are persistent.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	log := p.Log.With(zap.String("event_type", ev.Type), zap.String("event_id", ev.ID))

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout(ctx)),
	})
	if err != nil {
		log.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(EventsQueue, true, false, false, false, nil); err != nil {
		log.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", EventsQueue, false, false, pub); err != nil {
		log.Warn("rabbitmq publish failed", zap.Error(err))
		return err
	}
	return nil
}

// Discard drops every event.  It is used when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
