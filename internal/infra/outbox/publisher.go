package outbox

import (
	"context"
	"time"

	"ponabri-api/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers outbox payloads to a broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

// AMQPPublisher publishes to a durable RabbitMQ queue per topic with
// persistent delivery. Queues are declared lazily on first publish.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]struct{}
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "failed to connect to amqp broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to open amqp channel")
	}
	return &AMQPPublisher{
		conn:     conn,
		ch:       ch,
		declared: make(map[string]struct{}),
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if _, ok := p.declared[topic]; !ok {
		if _, err := p.ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
			return errs.Wrap(err, "failed to declare queue")
		}
		p.declared[topic] = struct{}{}
	}

	err := p.ch.PublishWithContext(ctx,
		"",    // default exchange, routing key = queue name
		topic,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         payload,
		},
	)
	if err != nil {
		return errs.Wrap(err, "failed to publish message")
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return errs.Wrap(err, "failed to close amqp channel")
	}
	return p.conn.Close()
}
