// SPDX-License-Identifier: Apache-2.0

// Package size estimates how many bytes a document will take once it is sent
// to the search store. Inputs must be acyclic: a value reachable from itself
// through pointers, maps or slices is never finished, and it could not be JSON
// encoded either.
package size

import (
	"reflect"

	"github.com/xataio/esdoc/internal/json"
)

// Approximate in-memory overheads used by Estimate. They are not wire byte
// counts: Estimate is an upper-bound style approximation that grows with the
// number and depth of containers, which is enough to keep bulk requests under
// a transport ceiling without encoding every document twice.
const (
	nilOverhead    = 16
	boolOverhead   = 28
	intOverhead    = 28
	floatOverhead  = 24
	stringOverhead = 49
	bytesOverhead  = 33
	sliceOverhead  = 56
	mapOverhead    = 64
	structOverhead = 48
	slotOverhead   = 8
)

// Estimate returns a deep size estimate of v: the overhead of every container
// plus the sizes of all its nested keys and values.
func Estimate(v any) int {
	if v == nil {
		return nilOverhead
	}

	switch val := v.(type) {
	case string:
		return stringOverhead + len(val)
	case []byte:
		return bytesOverhead + len(val)
	case bool:
		return boolOverhead
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return intOverhead
	case float32, float64:
		return floatOverhead
	case map[string]any:
		total := mapOverhead + slotOverhead*len(val)
		for k, item := range val {
			total += stringOverhead + len(k) + Estimate(item)
		}
		return total
	case []any:
		total := sliceOverhead + slotOverhead*len(val)
		for _, item := range val {
			total += Estimate(item)
		}
		return total
	}

	return estimateValue(reflect.ValueOf(v))
}

func estimateValue(rv reflect.Value) int {
	switch rv.Kind() {
	case reflect.Invalid:
		return nilOverhead
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nilOverhead
		}
		return slotOverhead + estimateValue(rv.Elem())
	case reflect.String:
		return stringOverhead + rv.Len()
	case reflect.Bool:
		return boolOverhead
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return intOverhead
	case reflect.Float32, reflect.Float64:
		return floatOverhead
	case reflect.Slice, reflect.Array:
		total := sliceOverhead + slotOverhead*rv.Len()
		for i := 0; i < rv.Len(); i++ {
			total += estimateValue(rv.Index(i))
		}
		return total
	case reflect.Map:
		total := mapOverhead + slotOverhead*rv.Len()
		iter := rv.MapRange()
		for iter.Next() {
			total += estimateValue(iter.Key()) + estimateValue(iter.Value())
		}
		return total
	case reflect.Struct:
		total := structOverhead
		for i := 0; i < rv.NumField(); i++ {
			if !rv.Type().Field(i).IsExported() {
				continue
			}
			total += estimateValue(rv.Field(i))
		}
		return total
	default:
		return int(rv.Type().Size())
	}
}

// Encoded returns the exact number of bytes of the JSON encoding of v.
func Encoded(v any) (int, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}
