package hauldistributor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/position"
)

func square(id catchlocation.Id, lat, lon float64) catchlocation.Polygon {
	return catchlocation.Polygon{
		Id: id,
		Points: []catchlocation.Point{
			{Lat: lat, Lon: lon}, {Lat: lat, Lon: lon + 1},
			{Lat: lat + 1, Lon: lon + 1}, {Lat: lat + 1, Lon: lon},
		},
	}
}

func testHaul(start, stop time.Time, startPoint catchlocation.Point, weight float64) haul.Haul {
	h, _ := haul.New(haul.Haul{
		StartTimestamp: start, StopTimestamp: stop, StartPoint: startPoint,
		Catches: []haul.Catch{{Species: "COD", LivingWeight: weight}},
	})
	return h
}

func TestDistributeSplitsByPositionCount(t *testing.T) {
	idx := catchlocation.NewIndex([]catchlocation.Polygon{
		square(catchlocation.Id{MainArea: 1}, 0, 0),
		square(catchlocation.Id{MainArea: 2}, 10, 10),
	})
	dist := NewAisVms(idx)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := testHaul(start, start.Add(time.Hour), catchlocation.Point{Lat: 0.5, Lon: 0.5}, 100)

	positions := []position.Position{
		{Timestamp: start.Add(10 * time.Minute), Point: catchlocation.Point{Lat: 0.5, Lon: 0.5}},
		{Timestamp: start.Add(20 * time.Minute), Point: catchlocation.Point{Lat: 0.5, Lon: 0.5}},
		{Timestamp: start.Add(30 * time.Minute), Point: catchlocation.Point{Lat: 10.5, Lon: 10.5}},
		{Timestamp: start.Add(-time.Hour), Point: catchlocation.Point{Lat: 10.5, Lon: 10.5}}, // outside haul interval
	}

	allocations := dist.Distribute(h, positions)

	byLocation := make(map[catchlocation.Id]Allocation)
	for _, a := range allocations {
		byLocation[a.CatchLocation] = a
	}
	require.Len(t, byLocation, 2)
	assert.InDelta(t, 2.0/3.0, byLocation[catchlocation.Id{MainArea: 1}].Factor, 1e-9)
	assert.InDelta(t, 1.0/3.0, byLocation[catchlocation.Id{MainArea: 2}].Factor, 1e-9)
	assert.InDelta(t, 100*2.0/3.0, byLocation[catchlocation.Id{MainArea: 1}].Weight, 1e-9)
}

func TestDistributeFallsBackToHaulStartPointWhenNoPositionsMatch(t *testing.T) {
	idx := catchlocation.NewIndex([]catchlocation.Polygon{square(catchlocation.Id{MainArea: 3}, 0, 0)})
	dist := NewAisVms(idx)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := testHaul(start, start.Add(time.Hour), catchlocation.Point{Lat: 0.5, Lon: 0.5}, 50)

	allocations := dist.Distribute(h, nil)

	require.Len(t, allocations, 1)
	assert.Equal(t, catchlocation.Id{MainArea: 3}, allocations[0].CatchLocation)
	assert.Equal(t, 1.0, allocations[0].Factor)
	assert.Equal(t, 50.0, allocations[0].Weight)
}

func TestDistributeReturnsNilWhenNothingResolves(t *testing.T) {
	idx := catchlocation.NewIndex(nil)
	dist := NewAisVms(idx)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := testHaul(start, start.Add(time.Hour), catchlocation.Point{Lat: 0.5, Lon: 0.5}, 50)

	assert.Nil(t, dist.Distribute(h, nil))
}
