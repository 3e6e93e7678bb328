package publish

import (
	"context"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttQos             = 1
	mqttDisconnectQuiet = 250 // ms
)

type mqttPublisher struct {
	client mqtt.Client
	topic  string
}

func NewMqttPublisher(broker, clientID, topic string) (Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &mqttPublisher{client: client, topic: topic}, nil
}

func (p *mqttPublisher) Publish(ctx context.Context, payload []byte) error {
	token := p.client.Publish(p.topic, mqttQos, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *mqttPublisher) Close() error {
	p.client.Disconnect(mqttDisconnectQuiet)
	return nil
}
