package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/gps-extractor/log"
	"github.com/mpapenbr/gps-extractor/pkg/config"
	"github.com/mpapenbr/gps-extractor/pkg/extract"
	"github.com/mpapenbr/gps-extractor/pkg/publish"
	"github.com/mpapenbr/gps-extractor/pkg/service"
	"github.com/mpapenbr/gps-extractor/pkg/utils"
)

func NewPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <file|->",
		Short: "publishes the GPS fixes of a JSON event log to NATS or MQTT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return publishFile(cmd.Context(), args[0], cmd.InOrStdin(), publish.New)
		},
	}
	cmd.Flags().StringVar(&config.Broker,
		"broker",
		"nats",
		"broker type (nats, mqtt)")
	cmd.Flags().StringVar(&config.BrokerURL,
		"url",
		"nats://localhost:4222",
		"URL of the broker")
	cmd.Flags().StringVar(&config.Subject,
		"subject",
		"gps.fixes",
		"NATS subject or MQTT topic to publish to")
	cmd.Flags().StringVar(&config.ClientID,
		"client-id",
		"",
		"client id for the broker connection (generated if empty)")
	cmd.Flags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"Duration to wait for the broker to be ready")
	return cmd
}

type publisherFactory func(publish.Settings) (publish.Publisher, error)

//nolint:whitespace // can't make both editor and linter happy
func publishFile(
	ctx context.Context, input string, stdin io.Reader, newPublisher publisherFactory,
) (err error) {
	broker, err := publish.ParseBrokerType(config.Broker)
	if err != nil {
		return err
	}
	var data []byte
	if input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return err
	}
	table, err := service.Extract(ctx, data)
	if err != nil {
		if errors.Is(err, extract.ErrEmptyResult) {
			log.Warn(fmt.Sprintf("No %s events found in the JSON.", extract.LocationTag))
		}
		return err
	}

	waitForBroker(ctx)
	p, err := newPublisher(publish.Settings{
		Broker:   broker,
		URL:      config.BrokerURL,
		Subject:  config.Subject,
		ClientID: config.ClientID,
	})
	if err != nil {
		log.Error("could not connect to broker",
			log.String("url", config.BrokerURL), log.ErrorField(err))
		return err
	}
	defer func() {
		if cerr := p.Close(); err == nil {
			err = cerr
		}
	}()
	n, err := publish.PublishTable(ctx, p, table)
	if err != nil {
		return err
	}
	log.Info("fixes published",
		log.String("broker", string(broker)),
		log.String("subject", config.Subject),
		log.Int("count", n))
	return nil
}

func waitForBroker(ctx context.Context) {
	addr := utils.ExtractFromBrokerURL(config.BrokerURL)
	if addr == "" {
		return
	}
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 15s", log.ErrorField(err))
		timeout = 15 * time.Second
	}
	if err := utils.WaitForTCP(ctx, addr, timeout); err != nil {
		log.Warn("broker not reachable yet", log.ErrorField(err))
	}
}
