// Package geo builds geometries from route paths and measures them.
package geo

import (
	"errors"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/routepin/routepin/pkg/core"
)

// ErrTooFewPoints is returned when a path cannot form a line.
var ErrTooFewPoints = errors.New("path must have at least 2 points")

// LineString builds a geom.LineString from a path, in lng/lat (EPSG:4326)
// axis order.
func LineString(path core.Polyline) (geom.LineString, error) {
	if len(path) < 2 {
		return geom.LineString{}, ErrTooFewPoints
	}
	flat := make([]float64, 0, len(path)*2)
	for _, p := range path {
		flat = append(flat, p.Lng, p.Lat)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq), nil
}

// PathLengthMeters measures a path by projecting each position from
// EPSG:4326 to Web Mercator (EPSG:3857) and summing segment lengths.
// Mercator scale distortion grows with latitude, so this is a display
// figure, not survey-grade. Paths with fewer than 2 points measure 0.
func PathLengthMeters(path core.Polyline) float64 {
	if len(path) < 2 {
		return 0
	}
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)

	flat := make([]float64, 0, len(path)*2)
	for _, p := range path {
		x, y, _ := f(p.Lng, p.Lat, 0)
		flat = append(flat, x, y)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq).Length()
}
