//nolint:lll // ok for tests
package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/gps-extractor/pkg/model"
)

type recordingPublisher struct {
	payloads [][]byte
	failAt   int
}

var errBroker = errors.New("broker gone")

func (r *recordingPublisher) Publish(_ context.Context, payload []byte) error {
	if r.failAt > 0 && len(r.payloads)+1 == r.failAt {
		return errBroker
	}
	r.payloads = append(r.payloads, payload)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func sampleTable() *model.Table {
	return model.NewTable([]model.Fix{
		{
			FixTime:   null.From[any](int64(100)),
			Latitude:  null.From(37.5),
			Longitude: null.From(-122.1),
			SpeedKph:  null.From(10.0),
			SpeedMph:  null.From(6.21371),
		},
		{},
		{FixTime: null.From[any]("t3")},
	})
}

func TestPublishTable(t *testing.T) {
	p := &recordingPublisher{}
	n, err := PublishTable(context.Background(), p, sampleTable())
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	if !assert.Len(t, p.payloads, 3) {
		return
	}
	assert.JSONEq(t, `{"seq":1,"fixTime":100,"lat":37.5,"lon":-122.1,"speedKph":10,"speedMph":6.21371}`, string(p.payloads[0]))
	assert.JSONEq(t, `{"seq":2,"fixTime":null,"lat":null,"lon":null,"speedKph":null,"speedMph":null}`, string(p.payloads[1]))
	assert.JSONEq(t, `{"seq":3,"fixTime":"t3","lat":null,"lon":null,"speedKph":null,"speedMph":null}`, string(p.payloads[2]))
}

func TestPublishTableStopsOnError(t *testing.T) {
	p := &recordingPublisher{failAt: 2}
	n, err := PublishTable(context.Background(), p, sampleTable())
	assert.ErrorIs(t, err, errBroker)
	assert.Equal(t, 1, n)
	assert.Len(t, p.payloads, 1)
}

func TestPublishTableCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &recordingPublisher{}
	n, err := PublishTable(ctx, p, sampleTable())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
	assert.Empty(t, p.payloads)
}

func TestParseBrokerType(t *testing.T) {
	tests := []struct {
		in      string
		want    BrokerType
		wantErr bool
	}{
		{in: "nats", want: BrokerNats},
		{in: "MQTT", want: BrokerMqtt},
		{in: "kafka", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBrokerType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseBrokerType() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientID(t *testing.T) {
	assert.Equal(t, "fixed", clientID(Settings{ClientID: "fixed"}))
	assert.Regexp(t, `^gpsx-.+-[0-9a-f]{8}$`, clientID(Settings{}))
}
