// SPDX-License-Identifier: Apache-2.0

package bulk

import (
	"errors"
	"fmt"
)

// Indexed is an item that targets an index.
type Indexed interface {
	// Index returns the target index name, or false when the item has no
	// fixed index, as is the case for data streams.
	Index() (string, bool)
}

var ErrNoIndex = errors.New("message has no target index")

// GroupByIndex groups the messages by target index, keeping their input
// order within each group. The returned names are in first seen order.
func GroupByIndex[T Indexed](msgs []T) (map[string][]T, []string, error) {
	groups := map[string][]T{}
	names := []string{}
	for i, msg := range msgs {
		name, ok := msg.Index()
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("message %d: %w", i, ErrNoIndex)
		}
		if _, found := groups[name]; !found {
			names = append(names, name)
		}
		groups[name] = append(groups[name], msg)
	}
	return groups, names, nil
}
