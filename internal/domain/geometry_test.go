package domain

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func square() []Coordinate {
	return []Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 10},
		{Lat: 10, Lon: 10},
		{Lat: 10, Lon: 0},
	}
}

func reversed(ring []Coordinate) []Coordinate {
	out := make([]Coordinate, len(ring))
	for i, c := range ring {
		out[len(ring)-1-i] = c
	}
	return out
}

func TestPointInPolygon(t *testing.T) {
	ring := square()
	closed := append(square(), ring[0])

	tests := []struct {
		name  string
		point Coordinate
		want  bool
	}{
		{"center", Coordinate{Lat: 5, Lon: 5}, true},
		{"outside right", Coordinate{Lat: 5, Lon: 11}, false},
		{"outside below", Coordinate{Lat: -1, Lon: 5}, false},
		{"on edge", Coordinate{Lat: 0, Lon: 5}, true},
		{"on vertical edge", Coordinate{Lat: 5, Lon: 10}, true},
		{"on vertex", Coordinate{Lat: 10, Lon: 10}, true},
		{"ray through vertex", Coordinate{Lat: 10, Lon: -5}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PointInPolygon(tc.point, ring), "open ring")
			assert.Equal(t, tc.want, PointInPolygon(tc.point, closed), "closed ring")
			assert.Equal(t, tc.want, PointInPolygon(tc.point, reversed(ring)), "reversed winding")
		})
	}
}

func TestPointInPolygonConcave(t *testing.T) {
	// U shape opening upward.
	ring := []Coordinate{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: 9}, {Lat: 9, Lon: 9}, {Lat: 9, Lon: 6},
		{Lat: 3, Lon: 6}, {Lat: 3, Lon: 3}, {Lat: 9, Lon: 3}, {Lat: 9, Lon: 0},
	}

	assert.True(t, PointInPolygon(Coordinate{Lat: 5, Lon: 1}, ring))
	assert.True(t, PointInPolygon(Coordinate{Lat: 5, Lon: 8}, ring))
	assert.False(t, PointInPolygon(Coordinate{Lat: 5, Lon: 4.5}, ring))
	assert.True(t, PointInPolygon(Coordinate{Lat: 1, Lon: 4.5}, ring))
}

func TestPointInPolygonDegenerate(t *testing.T) {
	p := Coordinate{Lat: 0, Lon: 0}
	nan := math.NaN()

	assert.False(t, PointInPolygon(p, nil))
	assert.False(t, PointInPolygon(p, []Coordinate{{Lat: 0, Lon: 0}}))
	assert.False(t, PointInPolygon(p, []Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}))
	// Three vertices where the last closes the ring leave only two usable.
	assert.False(t, PointInPolygon(p, []Coordinate{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 0, Lon: 0}}))
	assert.False(t, PointInPolygon(Coordinate{Lat: nan, Lon: 5}, square()))
	assert.False(t, PointInPolygon(Coordinate{Lat: 5, Lon: 5}, []Coordinate{
		{Lat: 0, Lon: 0}, {Lat: nan, Lon: 10}, {Lat: 10, Lon: 10}, {Lat: 10, Lon: 0},
	}))
	assert.False(t, PointInPolygon(Coordinate{Lat: 5, Lon: 5}, []Coordinate{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: math.Inf(1)}, {Lat: 10, Lon: 10},
	}))
}

// windingNumber is an independent nonzero-rule reference. It agrees with the
// even-odd rule on simple polygons.
func windingNumber(p Coordinate, ring []Coordinate) bool {
	isLeft := func(a, b Coordinate) float64 {
		return (b.Lon-a.Lon)*(p.Lat-a.Lat) - (p.Lon-a.Lon)*(b.Lat-a.Lat)
	}
	wn := 0
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if a.Lat <= p.Lat {
			if b.Lat > p.Lat && isLeft(a, b) > 0 {
				wn++
			}
		} else if b.Lat <= p.Lat && isLeft(a, b) < 0 {
			wn--
		}
	}
	return wn != 0
}

// starPolygon builds a simple polygon by sorting random vertices by angle
// around a center point.
func starPolygon(r *rand.Rand, n int) []Coordinate {
	cx, cy := r.Float64()*10, r.Float64()*10
	type vertex struct {
		angle float64
		c     Coordinate
	}
	vs := make([]vertex, 0, n)
	for i := 0; i < n; i++ {
		angle := r.Float64() * 2 * math.Pi
		radius := 0.5 + r.Float64()*5
		vs = append(vs, vertex{
			angle: angle,
			c:     Coordinate{Lon: cx + radius*math.Cos(angle), Lat: cy + radius*math.Sin(angle)},
		})
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i].angle < vs[j].angle })

	ring := make([]Coordinate, 0, n)
	for _, v := range vs {
		ring = append(ring, v.c)
	}
	return ring
}

func TestPointInPolygonMatchesWindingNumber(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		ring := starPolygon(r, 3+r.Intn(10))
		for j := 0; j < 50; j++ {
			p := Coordinate{Lon: r.Float64()*20 - 5, Lat: r.Float64()*20 - 5}
			want := windingNumber(p, ring)
			if got := PointInPolygon(p, ring); got != want {
				t.Fatalf("PointInPolygon(%v, %v) = %v, want %v", p, ring, got, want)
			}
			if got := PointInPolygon(p, reversed(ring)); got != want {
				t.Fatalf("reversed PointInPolygon(%v) = %v, want %v", p, got, want)
			}
		}
	}
}

func TestNearestIndex(t *testing.T) {
	path, err := NewPath([]Coordinate{
		{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 1, Lon: 1}, {Lat: 3, Lon: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, 0, NearestIndex(path, path.At(0)))
	assert.Equal(t, 2, NearestIndex(path, path.At(2)))
	assert.Equal(t, 4, NearestIndex(path, Coordinate{Lat: 10, Lon: 10}))
	// Index 1 and 3 are equal; the first occurrence wins.
	assert.Equal(t, 1, NearestIndex(path, Coordinate{Lat: 1.1, Lon: 1}))
	assert.Equal(t, -1, NearestIndex(Path{}, Coordinate{}))
}
