package catchlocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMetersZeroForIdenticalPoints(t *testing.T) {
	p := Point{Lat: 60.0, Lon: 5.0}
	assert.InDelta(t, 0.0, DistanceMeters(p, p), 1e-6)
}

func TestDistanceMetersOneDegreeLatitudeIsRoughly111Km(t *testing.T) {
	a := Point{Lat: 60.0, Lon: 5.0}
	b := Point{Lat: 61.0, Lon: 5.0}
	d := DistanceMeters(a, b)
	assert.InDelta(t, 111000, d, 2000)
}

func TestPolygonContainsRejectsInvalidPoint(t *testing.T) {
	square := Polygon{
		Id: Id{MainArea: 1, SubArea: 1},
		Points: []Point{
			{Lat: 0, Lon: 0}, {Lat: 0, Lon: 10}, {Lat: 10, Lon: 10}, {Lat: 10, Lon: 0},
		},
	}
	assert.False(t, square.Contains(Point{Lat: 200, Lon: 0}))
	assert.True(t, square.Contains(Point{Lat: 5, Lon: 5}))
	assert.False(t, square.Contains(Point{Lat: 50, Lon: 50}))
}

func TestIndexLocateReturnsFirstMatchingPolygon(t *testing.T) {
	idx := NewIndex([]Polygon{
		{Id: Id{MainArea: 1}, Points: []Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 10}, {Lat: 10, Lon: 10}, {Lat: 10, Lon: 0}}},
	})
	id, ok := idx.Locate(Point{Lat: 5, Lon: 5})
	assert.True(t, ok)
	assert.Equal(t, Id{MainArea: 1}, id)

	_, ok = idx.Locate(Point{Lat: 50, Lon: 50})
	assert.False(t, ok)
}
