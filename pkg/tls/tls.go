// SPDX-License-Identifier: Apache-2.0

// Package tls builds the TLS configuration of the search store connections.
package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

type Config struct {
	// Enabled determines if a custom TLS configuration is used. Defaults to
	// false, in which case https URLs are verified against the system pool.
	Enabled bool
	// CACert is the PEM encoded CA certificate of the cluster, or the path to
	// it. The system certificate pool is used when empty.
	CACert string
	// ClientCert and ClientKey are the PEM encoded client certificate and key,
	// or the paths to them. Both are required for mutual TLS.
	ClientCert string
	ClientKey  string
	// InsecureSkipVerify disables the verification of the cluster
	// certificate. Only meant for local clusters with self signed
	// certificates.
	InsecureSkipVerify bool
}

var errClientKeyPair = errors.New("client certificate and key must be provided together")

// NewConfig returns the TLS configuration for the config on input, or nil if
// TLS is not enabled.
func NewConfig(cfg *Config) (*tls.Config, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	rootCAs, err := cfg.rootCAs()
	if err != nil {
		return nil, fmt.Errorf("loading CA certificate: %w", err)
	}

	certificates, err := cfg.clientCertificates()
	if err != nil {
		return nil, fmt.Errorf("loading client certificate: %w", err)
	}

	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		RootCAs:            rootCAs,
		Certificates:       certificates,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}, nil
}

func (c *Config) rootCAs() (*x509.CertPool, error) {
	if c.CACert == "" {
		return x509.SystemCertPool()
	}

	pemBytes, err := readPEM(c.CACert)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, errors.New("no valid certificate found")
	}
	return pool, nil
}

func (c *Config) clientCertificates() ([]tls.Certificate, error) {
	switch {
	case c.ClientCert == "" && c.ClientKey == "":
		return nil, nil
	case c.ClientCert == "" || c.ClientKey == "":
		return nil, errClientKeyPair
	}

	certBytes, err := readPEM(c.ClientCert)
	if err != nil {
		return nil, err
	}
	keyBytes, err := readPEM(c.ClientKey)
	if err != nil {
		return nil, err
	}
	cert, err := tls.X509KeyPair(certBytes, keyBytes)
	if err != nil {
		return nil, err
	}
	return []tls.Certificate{cert}, nil
}

// readPEM accepts either PEM content or the path to a PEM file.
func readPEM(value string) ([]byte, error) {
	if isPEM(value) {
		return []byte(value), nil
	}
	return os.ReadFile(value)
}

func isPEM(value string) bool {
	const pemPrefix = "-----BEGIN"
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return len(value)-i >= len(pemPrefix) && value[i:i+len(pemPrefix)] == pemPrefix
	}
	return false
}
