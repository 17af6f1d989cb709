// Package geo provides the 2D geometry primitives used by the campus model.
//
// The geometry needs of Campus Core are deliberately small: room outlines
// are simple polygons with a handful of vertices, and the only derived
// quantity is the averaging centroid used to place room and building
// markers. There is no clipping, triangulation, or topology repair here.
package geo
