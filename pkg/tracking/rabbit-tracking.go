package tracking

import (
	"context"
	"net/http"
	"time"

	"github.com/matst80/slask-shelf/pkg/common"
	"github.com/matst80/slask-shelf/pkg/messaging"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

const (
	SessionEvent uint16 = 0
	CommandEvent uint16 = 2

	trackingContext = "shelf"
	batchSize       = 64
	publishTimeout  = 5 * time.Second
)

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

type Command struct {
	*BaseEvent
	types.CommandEvent
}

type publishFunc func(ctx context.Context, events []any) error

// RabbitTracking batches session and command events and publishes them to
// the global tracking exchange.
type RabbitTracking struct {
	country    string
	connection *amqp.Connection
	publisher  *messaging.Publisher
	queue      *common.QueueHandler[any]
}

func NewRabbitTracking(url, country string) (*RabbitTracking, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "connect tracking")
	}
	publisher, err := messaging.NewPublisher(conn, messaging.GlobalPrefix, messaging.TrackingTopic)
	if err != nil {
		conn.Close()
		return nil, err
	}
	rt := newTracking(country, func(ctx context.Context, events []any) error {
		return publisher.Publish(ctx, events)
	})
	rt.publisher = publisher
	rt.connection = conn
	return rt, nil
}

func newTracking(country string, publish publishFunc) *RabbitTracking {
	return &RabbitTracking{
		country: country,
		queue: common.NewQueueHandler(func(events []any) {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()
			if err := publish(ctx, events); err != nil {
				log.WithField("events", len(events)).Errorf("Error sending tracking events: %v", err)
			}
		}, batchSize, time.Second),
	}
}

// Close flushes queued events and closes the connection.
func (rt *RabbitTracking) Close() error {
	rt.queue.Close()
	if rt.connection == nil {
		return nil
	}
	if err := rt.publisher.Close(); err != nil {
		log.Warnf("Error closing tracking channel: %v", err)
	}
	return rt.connection.Close()
}

func (rt *RabbitTracking) base(sessionId string, event uint16) *BaseEvent {
	return &BaseEvent{SessionId: sessionId, Country: rt.country, Context: trackingContext, Event: event}
}

func (rt *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	rt.queue.Add(Session{
		BaseEvent:    rt.base(sessionId, SessionEvent),
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           ip,
		PragmaHeader: r.Header.Get("Pragma"),
	})
}

func (rt *RabbitTracking) TrackCommand(sessionId string, event types.CommandEvent) {
	rt.queue.Add(Command{
		BaseEvent:    rt.base(sessionId, CommandEvent),
		CommandEvent: event,
	})
}
