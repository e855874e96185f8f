package domain

import "errors"

var ErrEmptyPath = errors.New("path must contain at least one coordinate")

// Path is an ordered, non-empty sequence of coordinates in traversal order.
// Adjacent coordinates are assumed to be route-contiguous.
type Path struct {
	coords []Coordinate
}

func NewPath(coords []Coordinate) (Path, error) {
	if len(coords) == 0 {
		return Path{}, ErrEmptyPath
	}

	cp := make([]Coordinate, len(coords))
	copy(cp, coords)
	return Path{coords: cp}, nil
}

// Build a Path from GeoJSON style [lon, lat] pairs. Pairs with fewer than
// two components are skipped.
func PathFromLists(pairs [][]float64) (Path, error) {
	coords := make([]Coordinate, 0, len(pairs))
	for _, p := range pairs {
		c, ok := CoordinateFromList(p)
		if !ok {
			continue
		}
		coords = append(coords, c)
	}
	return NewPath(coords)
}

func (p Path) Len() int { return len(p.coords) }

func (p Path) IsEmpty() bool { return len(p.coords) == 0 }

// At returns the coordinate at index i. It panics when i is out of range,
// like a slice index.
func (p Path) At(i int) Coordinate { return p.coords[i] }

func (p Path) Start() Coordinate { return p.coords[0] }

func (p Path) End() Coordinate { return p.coords[len(p.coords)-1] }

// From returns the sub-path starting at index i through the end.
// An out-of-range index yields an empty Path.
func (p Path) From(i int) Path {
	if i < 0 {
		i = 0
	}
	if i >= len(p.coords) {
		return Path{}
	}
	cp := make([]Coordinate, len(p.coords)-i)
	copy(cp, p.coords[i:])
	return Path{coords: cp}
}

// Coordinates returns a copy of the underlying coordinates.
func (p Path) Coordinates() []Coordinate {
	cp := make([]Coordinate, len(p.coords))
	copy(cp, p.coords)
	return cp
}

// Return the path as [lon, lat] pairs.
func (p Path) ToLists() [][]float64 {
	out := make([][]float64, 0, len(p.coords))
	for _, c := range p.coords {
		out = append(out, c.CoordsToList())
	}
	return out
}
