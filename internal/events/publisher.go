package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Match lifecycle subjects
const (
	SubjectMatchStarted  = "trivia.match.started"
	SubjectMatchFinished = "trivia.match.finished"
)

// Publisher emits match lifecycle events
type Publisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
	Close()
}

type natsPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to url. The connection reconnects forever.
func NewNATSPublisher(url string) (Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("triviabattle"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[Events] disconnected from NATS: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Printf("[Events] reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	log.Printf("[Events] connected to NATS at %s", conn.ConnectedUrl())
	return &natsPublisher{conn: conn}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

func (p *natsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		log.Printf("[Events] drain: %v", err)
	}
}

type nopPublisher struct{}

// NewNopPublisher is used when NATS_URL is unset
func NewNopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (nopPublisher) Close()                                             {}
