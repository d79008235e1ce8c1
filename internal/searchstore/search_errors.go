// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/xataio/esdoc/internal/json"
)

// ResponseError is the error envelope of the search store responses.
type ResponseError struct {
	Type      string      `mapstructure:"type"`
	Reason    string      `mapstructure:"reason"`
	Index     string      `mapstructure:"index"`
	CausedBy  *CausedBy   `mapstructure:"caused_by"`
	RootCause []RootCause `mapstructure:"root_cause"`
}

type CausedBy struct {
	Type   string `mapstructure:"type"`
	Reason string `mapstructure:"reason"`
}

type RootCause struct {
	Type   string `mapstructure:"type"`
	Reason string `mapstructure:"reason"`
}

type RetryableError struct {
	Cause error
}

func (r RetryableError) Error() string {
	return fmt.Sprintf("%v", r.Cause)
}

func (r RetryableError) Unwrap() error {
	return r.Cause
}

// ErrResourceAlreadyExists is returned when creating an index or data stream
// that already exists.
type ErrResourceAlreadyExists struct {
	Reason string
}

func (e ErrResourceAlreadyExists) Error() string {
	return fmt.Sprintf("resource already exists: %s", e.Reason)
}

// ErrRequestInvalid is returned for generic bad requests.
type ErrRequestInvalid struct {
	Cause error
}

func (e ErrRequestInvalid) Error() string {
	return e.Cause.Error()
}

func (e ErrRequestInvalid) Unwrap() error {
	return e.Cause
}

const (
	ResourceAlreadyExistsException = "resource_already_exists_exception"
	SnapshotInProgressException    = "snapshot_in_progress_exception"
)

var (
	ErrTooManyRequests  = errors.New("too many requests")
	ErrResourceNotFound = errors.New("search resource not found")
)

// IsRetryable reports whether the error is a transient search store error.
func IsRetryable(err error) bool {
	var retryableErr RetryableError
	return errors.As(err, &retryableErr)
}

// IsResourceAlreadyExists reports whether the error is a resource already
// exists conflict.
func IsResourceAlreadyExists(err error) bool {
	var existsErr ErrResourceAlreadyExists
	return errors.As(err, &existsErr)
}

// ExtractResponseError converts an error response body into a typed error.
func ExtractResponseError(body []byte, statusCode int) error {
	var e map[string]any
	if err := json.Unmarshal(body, &e); err != nil {
		if err, ok := getRetryableError(statusCode); ok {
			return RetryableError{Cause: err}
		}
		return fmt.Errorf("[%d] decoding error response: %w", statusCode, err)
	}

	errType := "<unknown error type>"
	errReason := "<unknown error reason>"
	switch eErr := e["error"].(type) {
	case string:
		// some proxies and older versions return the error as a plain string
		errReason = eErr
	case map[string]any:
		var storeErr ResponseError
		if err := mapstructure.Decode(eErr, &storeErr); err == nil {
			errType = storeErr.Type
			errReason = storeErr.Reason
			if storeErr.CausedBy != nil && storeErr.CausedBy.Reason != "" {
				errReason = fmt.Sprintf("%s: %s", errReason, storeErr.CausedBy.Reason)
			}
		}
	}

	if err, ok := getRetryableError(statusCode); ok {
		return RetryableError{Cause: fmt.Errorf("%w: %s: %s", err, errType, errReason)}
	}

	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: [%d]: %s: %s", ErrResourceNotFound, statusCode, errType, errReason)
	case http.StatusBadRequest:
		switch errType {
		case ResourceAlreadyExistsException:
			return ErrResourceAlreadyExists{Reason: errReason}
		case SnapshotInProgressException:
			return RetryableError{Cause: fmt.Errorf("[%d] %s: %s", statusCode, errType, errReason)}
		default:
			return ErrRequestInvalid{
				Cause: fmt.Errorf("%s: %s", errType, errReason),
			}
		}
	}

	return fmt.Errorf("[%d] %s: %s", statusCode, errType, errReason)
}

func getRetryableError(statusCode int) (error, bool) {
	switch statusCode {
	case http.StatusRequestTimeout:
		return errors.New("request timeout"), true
	case http.StatusLocked:
		return errors.New("resource locked"), true
	case http.StatusTooEarly:
		return errors.New("too early"), true
	case http.StatusTooManyRequests:
		return ErrTooManyRequests, true
	case http.StatusBadGateway:
		return errors.New("bad gateway"), true
	case http.StatusServiceUnavailable:
		return errors.New("service unavailable"), true
	case http.StatusGatewayTimeout:
		return errors.New("gateway timeout"), true
	}

	return nil, false
}
