package utils

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"time"

	"github.com/mpapenbr/gps-extractor/log"
)

// default ports by url scheme
var defaultPorts = map[string]string{
	"nats":  "4222",
	"tls":   "4222",
	"tcp":   "1883",
	"mqtt":  "1883",
	"ssl":   "8883",
	"mqtts": "8883",
	"ws":    "80",
	"wss":   "443",
}

var brokerURLRegex = regexp.MustCompile(
	`^(?P<proto>[a-z]+)://(.*@)?(?P<host>[^:/@]+)(:(?P<port>\d+))?(/.*)?$`)

// WaitForTCP tries to connect to addr until it succeeds, timeout is reached or
// ctx is done.
func WaitForTCP(ctx context.Context, addr string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	start := time.Now()
	log.Debug("wait for tcp connection",
		log.String("addr", addr),
		log.String("timeout", timeout.String()))
	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()
			log.Debug("tcp connection successful",
				log.String("addr", addr),
				log.String("duration", time.Since(start).String()))
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s could not be reached after %v", addr, timeout)
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// ExtractFromBrokerURL returns host:port for broker urls like nats://host:4222 or
// tcp://host. Missing ports are derived from the scheme. An empty string is returned
// for urls which cannot be parsed.
func ExtractFromBrokerURL(url string) string {
	param := resolveRegex(brokerURLRegex, url)
	if len(param) == 0 || param["host"] == "" {
		return ""
	}
	if port := param["port"]; port != "" {
		return net.JoinHostPort(param["host"], port)
	}
	if port, ok := defaultPorts[param["proto"]]; ok {
		return net.JoinHostPort(param["host"], port)
	}
	return ""
}

func resolveRegex(re *regexp.Regexp, url string) (paramsMap map[string]string) {
	match := re.FindStringSubmatch(url)
	paramsMap = make(map[string]string)
	if match == nil {
		return paramsMap
	}
	for i, name := range re.SubexpNames() {
		if i > 0 && name != "" {
			paramsMap[name] = match[i]
		}
	}
	return paramsMap
}
