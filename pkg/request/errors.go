// SPDX-License-Identifier: Apache-2.0

package request

import (
	"errors"
	"fmt"
)

// MalformedInputError is returned when a query string can't be parsed into a
// request template.
type MalformedInputError struct {
	Input  string
	Reason string
}

func (e MalformedInputError) Error() string {
	return fmt.Sprintf("malformed request template input %q: %s", e.Input, e.Reason)
}

var ErrUnsupportedInput = errors.New("unsupported request template input")
