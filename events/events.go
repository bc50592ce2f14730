package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bloglist/stats"

	"github.com/nats-io/nats.go"
)

// Kind doubles as the NATS subject an event is published on.
type Kind string

const (
	PostCreated   Kind = "posts.created"
	PostUpdated   Kind = "posts.updated"
	PostDeleted   Kind = "posts.deleted"
	StatsComputed Kind = "posts.stats"
)

type Event struct {
	Type   Kind           `json:"type"`
	PostId string         `json:"postId,omitempty"`
	UserId string         `json:"userId,omitempty"`
	Stats  *stats.Summary `json:"stats,omitempty"`
	At     time.Time      `json:"at"`
}

func NewPostEvent(kind Kind, postId, userId string) Event {
	return Event{Type: kind, PostId: postId, UserId: userId, At: time.Now().UTC()}
}

// Publisher delivers events on a best effort basis. Publishing never fails
// the request that caused the event.
type Publisher interface {
	Publish(event Event)
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(Event) {}

type NatsPublisher struct {
	conn *nats.Conn
}

func CreateNatsPublisher(natsUrl string) (*NatsPublisher, error) {
	connection, err := nats.Connect(natsUrl, nats.Name("bloglist"))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %v: %w", natsUrl, err)
	}
	return &NatsPublisher{conn: connection}, nil
}

func (p *NatsPublisher) Publish(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to dump %s event to json: %s", event.Type, err.Error())
		return
	}
	err = p.conn.Publish(string(event.Type), message)
	if err != nil {
		log.Printf("(Publish) Failed to send message to %v, got error: %v", event.Type, err)
	}
}

func (p *NatsPublisher) Close() error {
	return p.conn.Drain()
}
