package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mpapenbr/gps-extractor/log"
	"github.com/mpapenbr/gps-extractor/pkg/config"
	"github.com/mpapenbr/gps-extractor/pkg/server"
)

var appConfig config.Config // holds processed config values

const shutdownTimeout = 5 * time.Second

func NewServeCmd() *cobra.Command {
	appConfig = config.Default()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "starts the upload web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.ServerAddr,
		"addr",
		"a",
		"localhost:8080",
		"http server listen address")
	cmd.Flags().StringVar(&appConfig.Format,
		"format",
		appConfig.Format,
		"default output format if the request does not name one (csv, xlsx)")
	cmd.Flags().Int64Var(&appConfig.MaxUploadSize,
		"max-upload-size",
		appConfig.MaxUploadSize,
		"max size of an uploaded document in bytes")
	cmd.Flags().StringVar(&config.TLSCertFile,
		"tls-cert-file",
		"",
		"path to TLS certificate")
	cmd.Flags().StringVar(&config.TLSKeyFile,
		"tls-key-file",
		"",
		"path to TLS key")
	cmd.Flags().StringVar(&config.TraefikCerts,
		"traefik-certs",
		"",
		"path to traefik acme.json file")
	cmd.Flags().StringVar(&config.TraefikCertDomain,
		"traefik-cert-domain",
		"",
		"domain to lookup in the traefik certs file")
	return cmd
}

func startServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := log.Default().Named("server")
	ctx = log.AddToContext(ctx, logger)

	srv := server.NewServer(
		server.WithConfig(appConfig),
		server.WithLogger(logger))

	//nolint:gosec // timeouts are handled by the clients
	httpServer := &http.Server{
		Addr:      config.ServerAddr,
		Handler:   h2c.NewHandler(newCORS().Handler(srv.Handler()), &http2.Server{}),
		TLSConfig: server.NewTLSConfig(ctx),
	}

	errChan := make(chan error, 1)
	go func() {
		var err error
		if httpServer.TLSConfig != nil {
			logger.Info("Starting https server", log.String("addr", config.ServerAddr))
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			logger.Info("Starting http server", log.String("addr", config.ServerAddr))
			err = httpServer.ListenAndServe()
		}
		errChan <- err
	}()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server could not be started", log.ErrorField(err))
			return err
		}
	case <-ctx.Done():
		logger.Debug("Got signal, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", log.ErrorField(err))
			return err
		}
	}
	logger.Info("Server terminated")
	return nil
}

func newCORS() *cors.Cors {
	// uploads may come from pages served elsewhere, allow all origins
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Content-Disposition",
			"X-Request-Id",
		},
	})
}
