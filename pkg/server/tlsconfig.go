package server

import (
	"context"
	"crypto/tls"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/gps-extractor/log"
	"github.com/mpapenbr/gps-extractor/pkg/config"
)

type certs struct {
	log  *log.Logger
	cert *tls.Certificate
	mu   sync.RWMutex
}

// NewTLSConfig returns a tls config serving the configured certificate, nil if no
// certificate is configured or it could not be loaded. Changes of the certificate
// files are picked up until ctx is done.
func NewTLSConfig(ctx context.Context) *tls.Config {
	c := &certs{log: log.GetFromContext(ctx).Named("server.certs")}
	c.loadCert()
	if c.current() == nil {
		return nil
	}
	if watcher := c.newWatcher(); watcher != nil {
		go c.watchAndReloadCerts(ctx, watcher)
	}
	return &tls.Config{
		GetCertificate: func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
			return c.current(), nil
		},
		MinVersion: tls.VersionTLS13,
	}
}

func (c *certs) current() *tls.Certificate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cert
}

// newWatcher registers the certificate files. The files are watched before
// NewTLSConfig returns so no change gets lost.
func (c *certs) newWatcher() *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.log.Error("could not create fsnotify watcher", log.ErrorField(err))
		return nil
	}
	for _, file := range []string{config.TLSCertFile, config.TLSKeyFile, config.TraefikCerts} {
		if file == "" {
			continue
		}
		if err := watcher.Add(file); err != nil {
			c.log.Error("could not watch file", log.String("file", file), log.ErrorField(err))
		}
	}
	return watcher
}

func (c *certs) watchAndReloadCerts(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			c.log.Info("context done, stopping cert reload")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Chmod) {
				c.log.Info("cert file changed, reloading cert", log.String("file", event.Name))
				c.loadCert()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.log.Error("watcher error", log.ErrorField(err))
		}
	}
}

func (c *certs) loadCert() {
	var cert tls.Certificate
	var err error
	switch {
	case config.TraefikCerts != "" && config.TraefikCertDomain != "":
		c.log.Info("Looking up traefik certs",
			log.String("file", config.TraefikCerts),
			log.String("domain", config.TraefikCertDomain))
		cert, err = certFromTraefik(config.TraefikCerts, config.TraefikCertDomain)
	case config.TLSCertFile != "" && config.TLSKeyFile != "":
		c.log.Info("Loading cert",
			log.String("key", config.TLSKeyFile),
			log.String("cert", config.TLSCertFile))
		cert, err = tls.LoadX509KeyPair(config.TLSCertFile, config.TLSKeyFile)
	default:
		return
	}
	if err != nil {
		c.log.Error("could not load certificate", log.ErrorField(err))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cert = &cert
}
