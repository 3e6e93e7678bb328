package server

import (
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/samber/lo"
)

var (
	errDomainNotFound = errors.New("domain not found")
	// certificates of all resolvers in a traefik acme.json file
	traefikCertsPath = jp.MustParseString("$.*.Certificates[*]")
)

// certFromTraefik reads the certificate for domain from a traefik acme.json file.
func certFromTraefik(file, domain string) (tls.Certificate, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return tls.Certificate{}, err
	}
	certData, keyData, err := traefikCertData(data, domain)
	if err != nil {
		return tls.Certificate{}, err
	}
	certPEM, err := base64.StdEncoding.DecodeString(certData)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decode certificate: %w", err)
	}
	keyPEM, err := base64.StdEncoding.DecodeString(keyData)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decode key: %w", err)
	}
	return tls.X509KeyPair(certPEM, keyPEM)
}

func traefikCertData(data []byte, domain string) (cert, key string, err error) {
	obj, err := oj.Parse(data)
	if err != nil {
		return "", "", err
	}
	entry, found := lo.Find(traefikCertsPath.Get(obj), func(c any) bool {
		main, _ := jp.C("domain").C("main").First(c).(string)
		return main == domain
	})
	if !found {
		return "", "", fmt.Errorf("%w: %s", errDomainNotFound, domain)
	}
	cert, _ = jp.C("certificate").First(entry).(string)
	key, _ = jp.C("key").First(entry).(string)
	return cert, key, nil
}
