package messaging

import (
	"context"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, errors.Wrap(err, "declare consumer queue")
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "bind consumer queue to %s", name)
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		true,
		false,
		false,
		nil,
	)
}

// ListenToTopic calls handler for every message on the topic until ctx is
// done or the channel closes. Messages are acked after handler succeeds.
func ListenToTopic(ctx context.Context, ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(amqp.Delivery) error) error {
	msgs, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := handler(d); err != nil {
				log.Printf("Error processing message: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
