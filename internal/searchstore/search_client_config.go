// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"crypto/tls"
	"net/http"
)

// ClientConfig is the connection configuration of a search store client.
type ClientConfig struct {
	URL string
	// Username and Password are optional basic auth credentials.
	Username string
	Password string
	// TLS is used for https connections when set.
	TLS *tls.Config
}

// HTTPTransport returns the round tripper of the store client.
func (c *ClientConfig) HTTPTransport() http.RoundTripper {
	if c.TLS == nil {
		return http.DefaultTransport
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = c.TLS
	return transport
}
