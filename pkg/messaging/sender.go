package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	queueMaxLength  = 100_000
	queueMessageTTL = 24 * time.Hour
)

// queueArgs bounds the durable queue so events pile up only for a day,
// oldest dropped first once the length cap is hit.
func queueArgs() amqp.Table {
	return amqp.Table{
		"x-max-length":  int32(queueMaxLength),
		"x-message-ttl": int32(queueMessageTTL / time.Millisecond),
		"x-overflow":    "drop-head",
	}
}

func declareTopic(ch *amqp.Channel, name string) error {
	if err := ch.ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return errors.Wrapf(err, "declare exchange %s", name)
	}
	// durable, keeps events while no consumer is attached
	if _, err := ch.QueueDeclare(name, true, false, false, false, queueArgs()); err != nil {
		return errors.Wrapf(err, "declare queue %s", name)
	}
	if err := ch.QueueBind(name, name, name, false, nil); err != nil {
		return errors.Wrapf(err, "bind queue %s", name)
	}
	return nil
}

// Publisher sends json messages to one topic exchange. The channel is
// shared between calls and reopened if the broker closed it.
type Publisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
}

func NewPublisher(conn *amqp.Connection, prefix string, topic ChangeTopic) (*Publisher, error) {
	p := &Publisher{conn: conn, name: getName(prefix, topic)}
	ch, err := p.channel()
	if err != nil {
		return nil, err
	}
	if err := declareTopic(ch, p.name); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open channel")
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) Publish(ctx context.Context, data any) error {
	body, err := jsoncompat.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encode message")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, p.name, p.name, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	return errors.Wrapf(err, "publish to %s", p.name)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.ch.IsClosed() {
		return nil
	}
	return p.ch.Close()
}
