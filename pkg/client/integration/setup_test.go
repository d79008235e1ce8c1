// SPDX-License-Identifier: Apache-2.0

package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/xataio/esdoc/internal/testcontainers"
	"golang.org/x/sync/errgroup"
)

const integrationTestsEnv = "ESDOC_INTEGRATION_TESTS"

var (
	opensearchURL    string
	elasticsearchURL string
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	// if integration tests are not enabled, nothing to setup
	if os.Getenv(integrationTestsEnv) == "" {
		return m.Run()
	}

	var oscleanup, escleanup func() error
	eg, ctx := errgroup.WithContext(context.Background())
	eg.Go(func() error {
		var err error
		oscleanup, err = testcontainers.SetupOpenSearchContainer(ctx, &opensearchURL)
		return err
	})
	eg.Go(func() error {
		var err error
		escleanup, err = testcontainers.SetupElasticsearchContainer(ctx, &elasticsearchURL)
		return err
	})
	err := eg.Wait()
	for _, cleanup := range []func() error{oscleanup, escleanup} {
		if cleanup != nil {
			defer cleanup()
		}
	}
	if err != nil {
		log.Print(err)
		return 1
	}

	return m.Run()
}
