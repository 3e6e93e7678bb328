package publish

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/gps-extractor/version"
)

type (
	Settings struct {
		Broker   BrokerType
		URL      string
		Subject  string // nats subject or mqtt topic
		ClientID string
	}
)

// New connects to the broker described by s.
func New(s Settings) (Publisher, error) {
	switch s.Broker {
	case BrokerNats:
		return NewNatsPublisher(s.URL, s.Subject, nats.Name(clientID(s)))
	case BrokerMqtt:
		return NewMqttPublisher(s.URL, clientID(s), s.Subject)
	default:
		return nil, fmt.Errorf("unsupported broker %q", string(s.Broker))
	}
}

func clientID(s Settings) string {
	if s.ClientID != "" {
		return s.ClientID
	}
	return fmt.Sprintf("gpsx-%s-%s", version.Version, uuid.NewString()[:8])
}
