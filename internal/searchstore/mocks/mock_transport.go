// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync/atomic"

	"github.com/xataio/esdoc/internal/searchstore"
	"github.com/xataio/esdoc/pkg/request"
)

type Transport struct {
	ExecuteFn    func(ctx context.Context, i uint, t *request.Template) (*searchstore.Response, error)
	executeCalls uint32
}

func (m *Transport) Execute(ctx context.Context, t *request.Template) (*searchstore.Response, error) {
	i := atomic.AddUint32(&m.executeCalls, 1)
	return m.ExecuteFn(ctx, uint(i), t)
}

func (m *Transport) GetExecuteCalls() uint {
	return uint(atomic.LoadUint32(&m.executeCalls))
}
