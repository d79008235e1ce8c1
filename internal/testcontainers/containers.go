// SPDX-License-Identifier: Apache-2.0

// Package testcontainers starts the search stores used by the integration
// tests.
package testcontainers

type cleanup func() error

const (
	ElasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.15.3"
	OpenSearchImage    = "opensearchproject/opensearch:2.11.1"
)
