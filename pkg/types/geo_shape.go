// SPDX-License-Identifier: Apache-2.0

package types

// GeoShape is an arbitrary geo shape field. Values are not checked yet.
//
// https://www.elastic.co/guide/en/elasticsearch/reference/current/geo-shape.html
type GeoShape struct{}

func NewGeoShape() *GeoShape {
	return &GeoShape{}
}

func (g *GeoShape) Type() string {
	return "geo_shape"
}

func (g *GeoShape) Normalize(value any) (any, error) {
	return passthrough(g.Type(), value)
}

func (g *GeoShape) Mapping() map[string]any {
	return map[string]any{"type": g.Type()}
}

// Polygon is a polygon field. Values are not checked yet.
type Polygon struct{}

func NewPolygon() *Polygon {
	return &Polygon{}
}

func (p *Polygon) Type() string {
	return "polygon"
}

func (p *Polygon) Normalize(value any) (any, error) {
	return passthrough(p.Type(), value)
}

func (p *Polygon) Mapping() map[string]any {
	return map[string]any{"type": p.Type()}
}
