package fuel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

func testHull() vessel.HullParameters {
	return vessel.HullParameters{
		LengthWaterline:         30,
		Beam:                    8,
		Draught:                 4,
		BlockCoefficient:        0.6,
		PrismaticCoefficient:    0.62,
		MidshipSectionCoeff:     0.9,
		SternParameter:          10,
		PropellerDiameter:       2.2,
		PropellerEfficiency:     0.65,
		ShaftEfficiency:         0.96,
		ScrewType:               vessel.ScrewSingleConventionalStern,
		SpecificFuelConsumption: 200,
	}
}

func speed(v float64) *float64 { return &v }

func TestFuelLitersZeroForNoElapsedTime(t *testing.T) {
	assert.Equal(t, 0.0, FuelLiters(testHull(), Segment{SpeedKnots: 10, ElapsedHours: 0}))
}

func TestFuelLitersZeroWithoutSpecificFuelConsumption(t *testing.T) {
	hull := testHull()
	hull.SpecificFuelConsumption = 0
	assert.Equal(t, 0.0, FuelLiters(hull, Segment{SpeedKnots: 10, ElapsedHours: 1}))
}

func TestFuelLitersPositiveForUnderwaySegment(t *testing.T) {
	liters := FuelLiters(testHull(), Segment{SpeedKnots: 10, ElapsedHours: 2})
	assert.Greater(t, liters, 0.0)
}

func TestFuelLitersIncreasesWithSpeed(t *testing.T) {
	slow := FuelLiters(testHull(), Segment{SpeedKnots: 6, ElapsedHours: 1})
	fast := FuelLiters(testHull(), Segment{SpeedKnots: 14, ElapsedHours: 1})
	assert.Greater(t, fast, slow)
}

func TestEstimateTripLitersRequiresAtLeastTwoPositions(t *testing.T) {
	e := NewEstimator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	track := []position.Position{
		{Timestamp: base, Point: catchlocation.Point{Lat: 60, Lon: 5}, Speed: speed(10)},
	}
	assert.Equal(t, 0.0, e.EstimateTripLiters(testHull(), track))
}

func TestEstimateTripLitersSumsAcrossSegments(t *testing.T) {
	e := NewEstimator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	track := []position.Position{
		{Timestamp: base, Point: catchlocation.Point{Lat: 60, Lon: 5}, Speed: speed(8)},
		{Timestamp: base.Add(time.Hour), Point: catchlocation.Point{Lat: 60.1, Lon: 5.1}, Speed: speed(10)},
		{Timestamp: base.Add(2 * time.Hour), Point: catchlocation.Point{Lat: 60.2, Lon: 5.2}, Speed: speed(12)},
	}
	total := e.EstimateTripLiters(testHull(), track)

	single := FuelLiters(testHull(), Segment{SpeedKnots: 9, ElapsedHours: 1}) +
		FuelLiters(testHull(), Segment{SpeedKnots: 11, ElapsedHours: 1})
	assert.InDelta(t, single, total, 1e-6)
}

func TestEstimateTripLitersSkipsNonIncreasingTimestamps(t *testing.T) {
	e := NewEstimator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	track := []position.Position{
		{Timestamp: base, Point: catchlocation.Point{Lat: 60, Lon: 5}, Speed: speed(10)},
		{Timestamp: base, Point: catchlocation.Point{Lat: 60, Lon: 5}, Speed: speed(10)},
	}
	assert.Equal(t, 0.0, e.EstimateTripLiters(testHull(), track))
}
