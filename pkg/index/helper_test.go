// SPDX-License-Identifier: Apache-2.0

package index

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/esdoc/pkg/types"
)

func newTestSchema(t *testing.T, opts ...Option) *Schema {
	t.Helper()

	fields := []Option{
		WithPrimitiveField("a", types.String),
		WithPrimitiveField("b", types.Integer),
		WithField("g", types.NewGeoPoint()),
		WithOptionalPrimitiveField("c", types.String),
	}
	s, err := NewSchema("test_record", append(fields, opts...)...)
	require.NoError(t, err)
	return s
}
