// SPDX-License-Identifier: Apache-2.0

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xataio/esdoc/pkg/client"
	"github.com/xataio/esdoc/pkg/index"
	"github.com/xataio/esdoc/pkg/request"
	"github.com/xataio/esdoc/pkg/types"
)

func Test_SaveDocuments(t *testing.T) {
	if os.Getenv(integrationTestsEnv) == "" {
		t.Skip("skipping integration test...")
	}

	tests := []struct {
		name string
		cfg  client.Config
	}{
		{
			name: "elasticsearch",
			cfg:  client.Config{ElasticsearchURL: elasticsearchURL},
		},
		{
			name: "opensearch",
			cfg:  client.Config{OpenSearchURL: opensearchURL},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			c, err := client.New(tc.cfg)
			require.NoError(t, err)
			require.NoError(t, c.Ping(ctx))

			// unique per run, the containers may be reused across runs
			indexName := fmt.Sprintf("places-%s-%s", tc.name, uuid.NewString())
			schema := newPlaceSchema(t, indexName)

			acknowledged, err := c.CreateIndex(ctx, schema, "", false)
			require.NoError(t, err)
			require.True(t, acknowledged)

			// creating it again is only accepted when existing indexes are ok
			_, err = c.CreateIndex(ctx, schema, "", false)
			require.Error(t, err)
			acknowledged, err = c.CreateIndex(ctx, schema, "", true)
			require.NoError(t, err)
			require.False(t, acknowledged)

			responses, err := c.Execute(ctx, request.New("/"+indexName+"/_mapping"))
			require.NoError(t, err)
			require.Len(t, responses, 1)
			properties := responses[0].Get(indexName + ".mappings.properties")
			require.Equal(t, "geo_point", properties.Get("location.type").String())
			require.Equal(t, "keyword", properties.Get("name.type").String())
			require.False(t, properties.Get("code").Exists(), "identity field must not be mapped")

			docs := make([]*index.Document, 0, 20)
			for i := range 20 {
				docs = append(docs, schema.NewDocument(map[string]any{
					"code":     fmt.Sprintf("place-%02d", i),
					"name":     fmt.Sprintf("Place %d", i),
					"location": map[string]any{"lat": float64(i), "lon": float64(-i)},
					"visits":   i,
				}))
			}

			result, err := c.Save(ctx, docs, client.SaveOptions{
				CreateIndexes:      true,
				MaxBytesPerRequest: 2048,
				RefreshAfter:       true,
				Validate:           true,
			})
			require.NoError(t, err)
			require.Empty(t, result.Failed)
			require.True(t, result.Refreshed)
			require.Greater(t, result.Batches, 1)

			responses, err = c.Execute(ctx, request.New("/"+indexName+"/_count"))
			require.NoError(t, err)
			require.Equal(t, int64(len(docs)), responses[0].Get("count").Int())

			responses, err = c.Execute(ctx, request.New("/"+indexName+"/_doc/place-07"))
			require.NoError(t, err)
			require.Equal(t, "Place 7", responses[0].Get("_source.name").String())
		})
	}
}

func newPlaceSchema(t *testing.T, indexName string) *index.Schema {
	t.Helper()

	name, err := types.NewKeyword(types.KeywordOptions{})
	require.NoError(t, err)

	s, err := index.NewSchema("place",
		index.WithPrimitiveField("code", types.String),
		index.WithField("name", name),
		index.WithField("location", types.NewGeoPoint()),
		index.WithField("visits", types.NewLong()),
		index.WithIdentityField("code"),
		index.WithIndexName(indexName),
		index.WithReplicas(0),
	)
	require.NoError(t, err)
	return s
}
