// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xataio/esdoc/internal/backoff"
	"github.com/xataio/esdoc/pkg/client"
	"github.com/xataio/esdoc/pkg/otel"
	"github.com/xataio/esdoc/pkg/tls"
)

func validateTestConfig(t *testing.T, cfg *Config) {
	want := &Config{
		Client: client.Config{
			ElasticsearchURL: "http://localhost:9200",
			Username:         "elastic",
			Password:         "changeme",
			TLS: tls.Config{
				Enabled:            true,
				CACert:             "/etc/esdoc/ca.pem",
				InsecureSkipVerify: true,
			},
			Retry: backoff.Config{
				Exponential: &backoff.ExponentialConfig{
					InitialInterval: time.Second,
					MaxInterval:     time.Minute,
					MaxRetries:      5,
				},
			},
		},
		Save: client.SaveOptions{
			CreateIndexes:      true,
			MaxBytesPerRequest: 5242880,
			RefreshAfter:       true,
			Validate:           true,
			ExactSize:          true,
		},
	}
	assert.Equal(t, want, cfg)
}

func validateTestOtelConfig(t *testing.T, cfg *otel.Config) {
	want := &otel.Config{
		Metrics: &otel.MetricsConfig{
			Endpoint:           "http://localhost:4317",
			CollectionInterval: time.Minute,
		},
		Traces: &otel.TracesConfig{
			Endpoint:    "http://localhost:4317",
			SampleRatio: 0.5,
		},
	}
	assert.Equal(t, want, cfg)
}
