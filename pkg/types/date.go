// SPDX-License-Identifier: Apache-2.0

package types

import (
	"strconv"
	"time"
)

// Day is a calendar date without a time of day.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in its own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Unix returns the seconds since epoch of the local midnight of the day.
func (d Day) Unix() int64 {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local).Unix()
}

// Date is a date field. Values are normalised to an integer timestamp:
//   - time.Time: milliseconds since epoch
//   - Day: seconds since epoch of its local midnight
//   - numbers: truncated to an integer
//   - strings made only of digits: parsed as an integer
//
// https://www.elastic.co/guide/en/elasticsearch/reference/current/date.html
type Date struct{}

func NewDate() *Date {
	return &Date{}
}

func (d *Date) Type() string {
	return "date"
}

func (d *Date) Normalize(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UnixMilli(), nil
	case *time.Time:
		if v == nil {
			return nil, invalid(d.Type(), value, errNilValue.Error())
		}
		return v.UnixMilli(), nil
	case Day:
		return v.Unix(), nil
	case string:
		if !isDigits(v) {
			return nil, invalid(d.Type(), value, "string is not a timestamp")
		}
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, invalid(d.Type(), value, err.Error())
		}
		return i, nil
	case bool:
		return nil, invalid(d.Type(), value, errUnsupportedValue.Error())
	}

	if i, ok := asInt64(value); ok {
		return i, nil
	}
	if f, ok := asFloat64(value); ok {
		i, ok := truncateToInt64(f)
		if !ok {
			return nil, invalid(d.Type(), value, "out of range")
		}
		return i, nil
	}

	if value == nil {
		return nil, invalid(d.Type(), value, errNilValue.Error())
	}
	return nil, invalid(d.Type(), value, errUnsupportedValue.Error())
}

func (d *Date) Mapping() map[string]any {
	return map[string]any{"type": d.Type()}
}
