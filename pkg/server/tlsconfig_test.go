package server

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/gps-extractor/pkg/config"
)

// selfSigned returns a pem encoded certificate and key along with the certificate DER.
func selfSigned(t *testing.T, serial int64) (certPEM, keyPEM, der []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err = x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, der
}

// setCertConfig sets the tls related config values for the duration of the test
func setCertConfig(t *testing.T, certFile, keyFile, traefikCerts, domain string) {
	t.Helper()
	old := []string{
		config.TLSCertFile, config.TLSKeyFile,
		config.TraefikCerts, config.TraefikCertDomain,
	}
	config.TLSCertFile, config.TLSKeyFile = certFile, keyFile
	config.TraefikCerts, config.TraefikCertDomain = traefikCerts, domain
	t.Cleanup(func() {
		config.TLSCertFile, config.TLSKeyFile = old[0], old[1]
		config.TraefikCerts, config.TraefikCertDomain = old[2], old[3]
	})
}

// servedDER returns the DER of the certificate cfg currently serves, nil if none.
func servedDER(cfg *tls.Config) []byte {
	cert, err := cfg.GetCertificate(nil)
	if err != nil || cert == nil || len(cert.Certificate) == 0 {
		return nil
	}
	return cert.Certificate[0]
}

func TestNewTLSConfigWithoutCert(t *testing.T) {
	setCertConfig(t, "", "", "", "")
	assert.Nil(t, NewTLSConfig(context.Background()))
}

func TestNewTLSConfigInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	setCertConfig(t, filepath.Join(dir, "missing.crt"), filepath.Join(dir, "missing.key"), "", "")
	assert.Nil(t, NewTLSConfig(context.Background()))
}

func TestNewTLSConfigReloadsCert(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "tls.crt")
	keyFile := filepath.Join(dir, "tls.key")
	certPEM, keyPEM, der := selfSigned(t, 1)
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o600))
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))
	setCertConfig(t, certFile, keyFile, "", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := NewTLSConfig(ctx)
	require.NotNil(t, cfg)
	assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
	assert.Equal(t, der, servedDER(cfg))

	newCertPEM, newKeyPEM, newDER := selfSigned(t, 2)
	require.NoError(t, os.WriteFile(certFile, newCertPEM, 0o600))
	require.NoError(t, os.WriteFile(keyFile, newKeyPEM, 0o600))

	assert.Eventually(t, func() bool {
		return bytes.Equal(servedDER(cfg), newDER)
	}, 5*time.Second, 20*time.Millisecond)
}

func TestNewTLSConfigFromTraefik(t *testing.T) {
	certPEM, keyPEM, der := selfSigned(t, 3)
	acme := fmt.Sprintf(
		`{"le":{"Certificates":[{"domain":{"main":"gps.example.com"},"certificate":%q,"key":%q}]}}`,
		base64.StdEncoding.EncodeToString(certPEM),
		base64.StdEncoding.EncodeToString(keyPEM))
	file := filepath.Join(t.TempDir(), "acme.json")
	require.NoError(t, os.WriteFile(file, []byte(acme), 0o600))
	setCertConfig(t, "", "", file, "gps.example.com")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := NewTLSConfig(ctx)
	require.NotNil(t, cfg)
	assert.Equal(t, der, servedDER(cfg))

	setCertConfig(t, "", "", file, "other.example.com")
	assert.Nil(t, NewTLSConfig(ctx))
}
