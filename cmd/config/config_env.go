// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/xataio/esdoc/internal/backoff"
	"github.com/xataio/esdoc/pkg/client"
	"github.com/xataio/esdoc/pkg/otel"
	"github.com/xataio/esdoc/pkg/tls"
)

func envToConfig() *Config {
	return &Config{
		Client: client.Config{
			ElasticsearchURL: viper.GetString("ESDOC_ELASTICSEARCH_URL"),
			OpenSearchURL:    viper.GetString("ESDOC_OPENSEARCH_URL"),
			Username:         viper.GetString("ESDOC_STORE_USERNAME"),
			Password:         viper.GetString("ESDOC_STORE_PASSWORD"),
			TLS:              parseTLSConfig("ESDOC_STORE"),
			Retry:            parseBackoffConfig("ESDOC_STORE"),
		},
		Save: client.SaveOptions{
			CreateIndexes:      viper.GetBool("ESDOC_BULK_CREATE_INDEXES"),
			MaxBytesPerRequest: viper.GetInt64("ESDOC_BULK_MAX_BYTES_PER_REQUEST"),
			RefreshAfter:       viper.GetBool("ESDOC_BULK_REFRESH_AFTER"),
			Validate:           viper.GetBool("ESDOC_BULK_VALIDATE"),
			ExactSize:          viper.GetBool("ESDOC_BULK_EXACT_SIZE"),
		},
	}
}

func envToOtelConfig() (*otel.Config, error) {
	cfg := &otel.Config{}

	if endpoint := viper.GetString("ESDOC_METRICS_ENDPOINT"); endpoint != "" {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           endpoint,
			CollectionInterval: viper.GetDuration("ESDOC_METRICS_COLLECTION_INTERVAL"),
		}
	}

	if endpoint := viper.GetString("ESDOC_TRACES_ENDPOINT"); endpoint != "" {
		ratio := viper.GetFloat64("ESDOC_TRACES_SAMPLE_RATIO")
		if err := validateSampleRatio(ratio); err != nil {
			return nil, err
		}
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    endpoint,
			SampleRatio: ratio,
		}
	}

	return cfg, nil
}

func parseTLSConfig(prefix string) tls.Config {
	return tls.Config{
		Enabled:            viper.GetBool(fmt.Sprintf("%s_TLS_ENABLED", prefix)),
		CACert:             viper.GetString(fmt.Sprintf("%s_TLS_CA_CERT", prefix)),
		ClientCert:         viper.GetString(fmt.Sprintf("%s_TLS_CLIENT_CERT", prefix)),
		ClientKey:          viper.GetString(fmt.Sprintf("%s_TLS_CLIENT_KEY", prefix)),
		InsecureSkipVerify: viper.GetBool(fmt.Sprintf("%s_TLS_INSECURE_SKIP_VERIFY", prefix)),
	}
}

func parseBackoffConfig(prefix string) backoff.Config {
	return backoff.Config{
		Exponential: parseExponentialBackoffConfig(prefix),
		Constant:    parseConstantBackoffConfig(prefix),
	}
}

func parseExponentialBackoffConfig(prefix string) *backoff.ExponentialConfig {
	initialInterval := viper.GetDuration(fmt.Sprintf("%s_EXP_BACKOFF_INITIAL_INTERVAL", prefix))
	maxInterval := viper.GetDuration(fmt.Sprintf("%s_EXP_BACKOFF_MAX_INTERVAL", prefix))
	maxRetries := viper.GetUint(fmt.Sprintf("%s_EXP_BACKOFF_MAX_RETRIES", prefix))
	if initialInterval == 0 && maxInterval == 0 && maxRetries == 0 {
		return nil
	}
	return &backoff.ExponentialConfig{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxRetries:      maxRetries,
	}
}

func parseConstantBackoffConfig(prefix string) *backoff.ConstantConfig {
	interval := viper.GetDuration(fmt.Sprintf("%s_BACKOFF_INTERVAL", prefix))
	maxRetries := viper.GetUint(fmt.Sprintf("%s_BACKOFF_MAX_RETRIES", prefix))
	if interval == 0 && maxRetries == 0 {
		return nil
	}
	return &backoff.ConstantConfig{
		Interval:   interval,
		MaxRetries: maxRetries,
	}
}
