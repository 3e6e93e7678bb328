package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromBrokerURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "nats with port", url: "nats://localhost:4223", want: "localhost:4223"},
		{name: "nats default port", url: "nats://broker", want: "broker:4222"},
		{name: "nats with credentials", url: "nats://user:pw@broker:5222", want: "broker:5222"},
		{name: "mqtt tcp default port", url: "tcp://localhost", want: "localhost:1883"},
		{name: "mqtt ssl default port", url: "ssl://mqtt.example.com", want: "mqtt.example.com:8883"},
		{name: "websocket with path", url: "wss://mqtt.example.com/mqtt", want: "mqtt.example.com:443"},
		{name: "unknown scheme", url: "foo://host", want: ""},
		{name: "no scheme", url: "localhost:4222", want: ""},
		{name: "empty", url: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromBrokerURL(tt.url))
		})
	}
}

func TestWaitForTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	assert.NoError(t, WaitForTCP(context.Background(), addr, time.Second))

	l.Close()
	err = WaitForTCP(context.Background(), addr, 300*time.Millisecond)
	assert.Error(t, err)
}
