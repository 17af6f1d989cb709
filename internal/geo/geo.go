package geo

import "errors"

// ErrEmptyGeometry is returned when a centroid is requested for geometry
// that contains no vertices.
var ErrEmptyGeometry = errors.New("geometry has no vertices")

// Point is a 2D coordinate pair (longitude, latitude).
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Polygon is an ordered sequence of points describing a closed ring.
// The first point is not repeated at the end. A valid room outline has
// at least three distinct points.
type Polygon []Point

// Centroid returns the arithmetic mean of the polygon's vertices.
//
// This is the averaging centroid, not an area-weighted centre of mass.
// It is sufficient for marker placement on a map and keeps the maths
// trivial for the small vertex counts facility data carries.
func Centroid(p Polygon) (Point, error) {
	if len(p) == 0 {
		return Point{}, ErrEmptyGeometry
	}

	var sumLon, sumLat float64
	for _, pt := range p {
		sumLon += pt.Lon
		sumLat += pt.Lat
	}
	n := float64(len(p))
	return Point{Lon: sumLon / n, Lat: sumLat / n}, nil
}

// CentroidOfAll flattens the vertices of all polygons and returns their
// arithmetic mean. Used to place a single marker representing a building
// made up of many room outlines.
func CentroidOfAll(polygons []Polygon) (Point, error) {
	var sumLon, sumLat float64
	var count int
	for _, p := range polygons {
		for _, pt := range p {
			sumLon += pt.Lon
			sumLat += pt.Lat
			count++
		}
	}
	if count == 0 {
		return Point{}, ErrEmptyGeometry
	}
	n := float64(count)
	return Point{Lon: sumLon / n, Lat: sumLat / n}, nil
}

// BoundingBox returns the axis-aligned bounding box of the polygon's
// vertices. The second return is false for an empty polygon.
func BoundingBox(p Polygon) (min, max Point, ok bool) {
	if len(p) == 0 {
		return Point{}, Point{}, false
	}
	min, max = p[0], p[0]
	for _, pt := range p[1:] {
		if pt.Lon < min.Lon {
			min.Lon = pt.Lon
		}
		if pt.Lat < min.Lat {
			min.Lat = pt.Lat
		}
		if pt.Lon > max.Lon {
			max.Lon = pt.Lon
		}
		if pt.Lat > max.Lat {
			max.Lat = pt.Lat
		}
	}
	return min, max, true
}
