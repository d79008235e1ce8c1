// SPDX-License-Identifier: Apache-2.0

package index

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a document field fails its field type
// validation, or the document identity is invalid.
type ValidationError struct {
	Schema string
	Field  string
	Value  any
	Cause  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %v for field %q of %s: %v", e.Value, e.Field, e.Schema, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

var (
	ErrRequiredField   = errors.New("field is required")
	ErrIdentityMissing = errors.New("identity field is not set")
	ErrIdentityTooLong = fmt.Errorf("identity field exceeds %d bytes", idFieldLengthLimit)
	ErrNoIndexName     = errors.New("index name is required")
)
