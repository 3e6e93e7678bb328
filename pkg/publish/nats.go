package publish

import (
	"context"

	"github.com/nats-io/nats.go"
)

type natsPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewNatsPublisher(url, subject string, opts ...nats.Option) (Publisher, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &natsPublisher{conn: conn, subject: subject}, nil
}

func (p *natsPublisher) Publish(_ context.Context, payload []byte) error {
	return p.conn.Publish(p.subject, payload)
}

// Close flushes pending messages before the connection is closed.
func (p *natsPublisher) Close() error {
	defer p.conn.Close()
	return p.conn.Flush()
}
