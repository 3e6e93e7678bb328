package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"

	"github.com/mpapenbr/gps-extractor/log"
	"github.com/mpapenbr/gps-extractor/pkg/model"
)

type (
	// Publisher sends single messages to a broker destination.
	Publisher interface {
		Publish(ctx context.Context, payload []byte) error
		Close() error
	}

	BrokerType string

	// FixMessage is the payload published for each fix. Absent values are null.
	FixMessage struct {
		Seq      int      `json:"seq"`
		FixTime  any      `json:"fixTime"`
		Lat      *float64 `json:"lat"`
		Lon      *float64 `json:"lon"`
		SpeedKph *float64 `json:"speedKph"`
		SpeedMph *float64 `json:"speedMph"`
	}
)

const (
	BrokerNats BrokerType = "nats"
	BrokerMqtt BrokerType = "mqtt"
)

func ParseBrokerType(s string) (BrokerType, error) {
	switch b := BrokerType(strings.ToLower(s)); b {
	case BrokerNats, BrokerMqtt:
		return b, nil
	default:
		return "", fmt.Errorf("unsupported broker %q (use nats or mqtt)", s)
	}
}

func NewFixMessage(seq int, f model.Fix) FixMessage {
	fixTime, _ := f.FixTime.Get()
	return FixMessage{
		Seq:      seq,
		FixTime:  fixTime,
		Lat:      ptr(f.Latitude),
		Lon:      ptr(f.Longitude),
		SpeedKph: ptr(f.SpeedKph),
		SpeedMph: ptr(f.SpeedMph),
	}
}

func ptr[T any](v null.Val[T]) *T {
	if x, ok := v.Get(); ok {
		return &x
	}
	return nil
}

// PublishTable publishes the fixes of t in table order and returns the number of
// published messages. Publishing stops at the first error.
func PublishTable(ctx context.Context, p Publisher, t *model.Table) (int, error) {
	l := log.GetFromContext(ctx).Named("publish")
	msgs := lo.Map(t.Rows, func(f model.Fix, i int) FixMessage {
		return NewFixMessage(i+1, f)
	})
	for i, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return i, err
		}
		if err := p.Publish(ctx, payload); err != nil {
			l.Error("could not publish fix", log.Int("seq", msg.Seq), log.ErrorField(err))
			return i, fmt.Errorf("publish fix %d: %w", msg.Seq, err)
		}
	}
	l.Debug("fixes published", log.Int("count", len(msgs)))
	return len(msgs), nil
}
