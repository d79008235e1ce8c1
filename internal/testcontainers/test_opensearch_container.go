// SPDX-License-Identifier: Apache-2.0

package testcontainers

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go/modules/opensearch"
)

// SetupOpenSearchContainer starts a single node OpenSearch cluster and sets
// url to its address.
func SetupOpenSearchContainer(ctx context.Context, url *string) (cleanup, error) {
	ctr, err := opensearch.Run(ctx, OpenSearchImage)
	if err != nil {
		return nil, fmt.Errorf("failed to start opensearch container: %w", err)
	}

	*url, err = ctr.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieving url for opensearch container: %w", err)
	}

	return func() error {
		return ctr.Terminate(context.Background())
	}, nil
}
