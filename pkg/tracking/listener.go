package tracking

import (
	"context"

	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/matst80/slask-shelf/pkg/messaging"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Received is a decoded tracking event as published by RabbitTracking.
type Received struct {
	BaseEvent
	Type      string       `json:"type,omitempty"`
	Item      types.ItemId `json:"item,omitempty"`
	Quantity  int          `json:"quantity,omitempty"`
	Version   uint64       `json:"version,omitempty"`
	UserAgent string       `json:"user_agent,omitempty"`
}

// DecodeBatch decodes one published message.
func DecodeBatch(body []byte) ([]Received, error) {
	var events []Received
	if err := jsoncompat.Unmarshal(body, &events); err != nil {
		return nil, errors.Wrap(err, "decode tracking batch")
	}
	return events, nil
}

// Tail calls fn with every tracking event until ctx is done.
func Tail(ctx context.Context, url string, fn func(Received)) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return errors.Wrap(err, "connect tracking")
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "open tracking channel")
	}
	defer ch.Close()
	return messaging.ListenToTopic(ctx, ch, messaging.GlobalPrefix, messaging.TrackingTopic, func(d amqp.Delivery) error {
		events, err := DecodeBatch(d.Body)
		if err != nil {
			return err
		}
		for _, ev := range events {
			fn(ev)
		}
		return nil
	})
}
