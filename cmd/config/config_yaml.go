// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/xataio/esdoc/internal/backoff"
	"github.com/xataio/esdoc/pkg/client"
	"github.com/xataio/esdoc/pkg/otel"
	"github.com/xataio/esdoc/pkg/tls"
)

type YAMLConfig struct {
	Store           StoreConfig            `mapstructure:"store" yaml:"store"`
	Bulk            BulkConfig             `mapstructure:"bulk" yaml:"bulk"`
	Log             LogConfig              `mapstructure:"log" yaml:"log"`
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation" yaml:"instrumentation"`
}

type StoreConfig struct {
	Elasticsearch *StoreEngineConfig `mapstructure:"elasticsearch" yaml:"elasticsearch"`
	OpenSearch    *StoreEngineConfig `mapstructure:"opensearch" yaml:"opensearch"`
	Backoff       *BackoffConfig     `mapstructure:"backoff" yaml:"backoff"`
	TLS           *TLSConfig         `mapstructure:"tls" yaml:"tls"`
}

type StoreEngineConfig struct {
	URL      string `mapstructure:"url" yaml:"url"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
}

// Certificates and keys accept either PEM content or a file path.
type TLSConfig struct {
	CACert             string `mapstructure:"ca_cert" yaml:"ca_cert"`
	ClientCert         string `mapstructure:"client_cert" yaml:"client_cert"`
	ClientKey          string `mapstructure:"client_key" yaml:"client_key"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

type BulkConfig struct {
	MaxBytesPerRequest int64 `mapstructure:"max_bytes_per_request" yaml:"max_bytes_per_request"`
	ExactSize          bool  `mapstructure:"exact_size" yaml:"exact_size"`
	Validate           bool  `mapstructure:"validate" yaml:"validate"`
	CreateIndexes      bool  `mapstructure:"create_indexes" yaml:"create_indexes"`
	RefreshAfter       bool  `mapstructure:"refresh_after" yaml:"refresh_after"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Intervals are in milliseconds.
type BackoffConfig struct {
	Exponential *ExponentialBackoffConfig `mapstructure:"exponential" yaml:"exponential"`
	Constant    *ConstantBackoffConfig    `mapstructure:"constant" yaml:"constant"`
}

type ExponentialBackoffConfig struct {
	MaxRetries      int `mapstructure:"max_retries" yaml:"max_retries"`
	InitialInterval int `mapstructure:"initial_interval" yaml:"initial_interval"`
	MaxInterval     int `mapstructure:"max_interval" yaml:"max_interval"`
}

type ConstantBackoffConfig struct {
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
	Interval   int `mapstructure:"interval" yaml:"interval"`
}

type InstrumentationConfig struct {
	Metrics *MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Traces  *TracesConfig  `mapstructure:"traces" yaml:"traces"`
}

type MetricsConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// CollectionInterval is in seconds.
	CollectionInterval int `mapstructure:"collection_interval" yaml:"collection_interval"`
}

type TracesConfig struct {
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
}

func (c *YAMLConfig) toConfig() *Config {
	cfg := &Config{
		Save: client.SaveOptions{
			CreateIndexes:      c.Bulk.CreateIndexes,
			MaxBytesPerRequest: c.Bulk.MaxBytesPerRequest,
			RefreshAfter:       c.Bulk.RefreshAfter,
			Validate:           c.Bulk.Validate,
			ExactSize:          c.Bulk.ExactSize,
		},
	}

	if es := c.Store.Elasticsearch; es != nil && es.URL != "" {
		cfg.Client.ElasticsearchURL = es.URL
		cfg.Client.Username = es.Username
		cfg.Client.Password = es.Password
	}
	if opensearch := c.Store.OpenSearch; opensearch != nil && opensearch.URL != "" {
		cfg.Client.OpenSearchURL = opensearch.URL
		cfg.Client.Username = opensearch.Username
		cfg.Client.Password = opensearch.Password
	}
	if c.Store.Backoff != nil {
		cfg.Client.Retry = c.Store.Backoff.parseBackoffConfig()
	}
	cfg.Client.TLS = c.Store.TLS.parseTLSConfig()

	return cfg
}

func (t *TLSConfig) parseTLSConfig() tls.Config {
	if t == nil {
		return tls.Config{Enabled: false}
	}
	return tls.Config{
		Enabled:            true,
		CACert:             t.CACert,
		ClientCert:         t.ClientCert,
		ClientKey:          t.ClientKey,
		InsecureSkipVerify: t.InsecureSkipVerify,
	}
}

func (bo *BackoffConfig) parseBackoffConfig() backoff.Config {
	return backoff.Config{
		Exponential: bo.parseExponentialBackoffConfig(),
		Constant:    bo.parseConstantBackoffConfig(),
	}
}

func (bo *BackoffConfig) parseExponentialBackoffConfig() *backoff.ExponentialConfig {
	if bo.Exponential == nil {
		return nil
	}
	return &backoff.ExponentialConfig{
		InitialInterval: time.Duration(bo.Exponential.InitialInterval) * time.Millisecond,
		MaxInterval:     time.Duration(bo.Exponential.MaxInterval) * time.Millisecond,
		MaxRetries:      uint(bo.Exponential.MaxRetries),
	}
}

func (bo *BackoffConfig) parseConstantBackoffConfig() *backoff.ConstantConfig {
	if bo.Constant == nil {
		return nil
	}
	return &backoff.ConstantConfig{
		Interval:   time.Duration(bo.Constant.Interval) * time.Millisecond,
		MaxRetries: uint(bo.Constant.MaxRetries),
	}
}

func (c *InstrumentationConfig) toOtelConfig() (*otel.Config, error) {
	cfg := &otel.Config{}
	if c.Metrics != nil {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           c.Metrics.Endpoint,
			CollectionInterval: time.Duration(c.Metrics.CollectionInterval) * time.Second,
		}
	}
	if c.Traces != nil {
		if err := validateSampleRatio(c.Traces.SampleRatio); err != nil {
			return nil, err
		}
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    c.Traces.Endpoint,
			SampleRatio: c.Traces.SampleRatio,
		}
	}
	return cfg, nil
}
