package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogFilter         string // zapfilter rules, empty means no filtering
	Format            string // output format (csv, xlsx)
	Output            string // output file, "-" means stdout
	ServerAddr        string // listen addr for http server
	MaxUploadSize     int64  // max size of uploaded json documents in bytes
	TLSCertFile       string // path to TLS certificate
	TLSKeyFile        string // path to TLS key
	TraefikCerts      string // path to traefik certs file
	TraefikCertDomain string // the domain to lookup within the traefik certs
	Broker            string // broker type for publishing (nats, mqtt)
	BrokerURL         string // URL of the broker
	Subject           string // subject (nats) or topic (mqtt) to publish fixes to
	ClientID          string // client id used for the mqtt connection
	WaitForServices   string // duration to wait for the broker to be ready
)

// Config holds the configuration values which are used by the conversion
type Config struct {
	Format        string // output format (csv, xlsx)
	MaxUploadSize int64  // max size of uploaded json documents in bytes
}

func Default() Config {
	return Config{Format: "csv", MaxUploadSize: 32 << 20}
}
