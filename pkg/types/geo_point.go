// SPDX-License-Identifier: Apache-2.0

package types

import (
	"errors"
	"reflect"
	"strings"
)

// GeoPoint is a latitude/longitude pair. Accepted representations are:
//   - a GeoJSON point: {"type": "Point", "coordinates": [lon, lat]}
//   - an object with "lat" and "lon" keys
//   - a two element array: [lon, lat]
//   - a WKT point: "POINT (lon lat)"
//   - a string: "lat,lon"
//
// https://www.elastic.co/guide/en/elasticsearch/reference/current/geo-point.html
type GeoPoint struct{}

var (
	errLatitudeRange  = errors.New("latitude must be within [-90, 90]")
	errLongitudeRange = errors.New("longitude must be within [-180, 180]")
	errMalformedPoint = errors.New("malformed point")
)

const wktPointPrefix = "POINT"

func NewGeoPoint() *GeoPoint {
	return &GeoPoint{}
}

func (g *GeoPoint) Type() string {
	return "geo_point"
}

func (g *GeoPoint) Normalize(value any) (any, error) {
	if value == nil {
		return nil, invalid(g.Type(), value, errNilValue.Error())
	}

	lat, lon, err := extractLatLon(value)
	if err != nil {
		return nil, invalid(g.Type(), value, err.Error())
	}

	latitude, ok := parseFloat(lat)
	if !ok || !ValidLatitude(latitude) {
		return nil, invalid(g.Type(), value, errLatitudeRange.Error())
	}
	longitude, ok := parseFloat(lon)
	if !ok || !ValidLongitude(longitude) {
		return nil, invalid(g.Type(), value, errLongitudeRange.Error())
	}

	return value, nil
}

func (g *GeoPoint) Mapping() map[string]any {
	return map[string]any{"type": g.Type()}
}

// extractLatLon returns the raw latitude and longitude components of the
// value, without checking they are numbers.
func extractLatLon(value any) (lat, lon any, err error) {
	switch v := value.(type) {
	case map[string]any:
		return latLonFromMap(func(key string) (any, bool) {
			val, ok := v[key]
			return val, ok
		})
	case string:
		return latLonFromString(v)
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
		return lonLatPair(rv)
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		keyType := rv.Type().Key()
		return latLonFromMap(func(key string) (any, bool) {
			val := rv.MapIndex(reflect.ValueOf(key).Convert(keyType))
			if !val.IsValid() {
				return nil, false
			}
			return val.Interface(), true
		})
	}
	return nil, nil, errUnsupportedValue
}

// latLonFromMap reads a GeoJSON point or a lat/lon object through the lookup
// function, so that any string keyed map is supported.
func latLonFromMap(lookup func(key string) (any, bool)) (lat, lon any, err error) {
	if typ, _ := lookup("type"); typ == "Point" {
		coordinates, _ := lookup("coordinates")
		coords := reflect.ValueOf(coordinates)
		if coords.Kind() != reflect.Slice && coords.Kind() != reflect.Array {
			return nil, nil, errMalformedPoint
		}
		return lonLatPair(coords)
	}

	lat, latOK := lookup("lat")
	lon, lonOK := lookup("lon")
	if !latOK || !lonOK {
		return nil, nil, errors.New("lat and lon keys are required")
	}
	return lat, lon, nil
}

// lonLatPair reads a two element [lon, lat] sequence.
func lonLatPair(rv reflect.Value) (lat, lon any, err error) {
	if rv.Len() != 2 {
		return nil, nil, errMalformedPoint
	}
	return rv.Index(1).Interface(), rv.Index(0).Interface(), nil
}

func latLonFromString(s string) (lat, lon any, err error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, wktPointPrefix) {
		inner := strings.TrimSpace(strings.TrimPrefix(s, wktPointPrefix))
		inner = strings.TrimPrefix(inner, "(")
		inner = strings.TrimSuffix(inner, ")")
		parts := strings.Fields(inner)
		if len(parts) != 2 {
			return nil, nil, errMalformedPoint
		}
		return parts[1], parts[0], nil
	}

	parts := strings.Split(strings.ReplaceAll(s, " ", ""), ",")
	if len(parts) != 2 {
		return nil, nil, errMalformedPoint
	}
	return parts[0], parts[1], nil
}
