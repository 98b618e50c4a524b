package precision

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/daterange"
	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/landing"
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

type fakePositions struct {
	track []position.Position
	err   error
}

func (f fakePositions) ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]position.Position, error) {
	return f.track, f.err
}

type fakeHauls struct {
	hauls []haul.Haul
}

func (f fakeHauls) ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]haul.Haul, error) {
	return f.hauls, nil
}

type fakeLandings struct {
	landings []landing.Landing
}

func (f fakeLandings) ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]landing.Landing, error) {
	return f.landings, nil
}

func deliveryCode(s string) *string { return &s }

func testTrip(t *testing.T, start, end time.Time) trip.Trip {
	t.Helper()
	period, err := daterange.New(start, end)
	require.NoError(t, err)
	return trip.Trip{Id: 1, VesselId: 1, Period: period, LandingCoverage: period}
}

func TestRefineNoPositionsLeavesTripUntouched(t *testing.T) {
	svc := NewService(fakePositions{}, fakeHauls{}, fakeLandings{}, Config{
		Strategies: []position.StrategyKind{position.FirstMovedPoint},
	})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := testTrip(t, base, base.Add(6*time.Hour))

	update, err := svc.Refine(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, tr.Id, update.TripId)
	assert.Nil(t, update.PrecisionPeriod)
}

func TestRefineAppliesFirstMovedPointStrategy(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	speed := func(v float64) *float64 { return &v }
	track := []position.Position{
		{Timestamp: base, Speed: speed(0.1)},
		{Timestamp: base.Add(time.Hour), Speed: speed(5)},
		{Timestamp: base.Add(5 * time.Hour), Speed: speed(5)},
		{Timestamp: base.Add(6 * time.Hour), Speed: speed(0.1)},
	}
	svc := NewService(fakePositions{track: track}, fakeHauls{}, fakeLandings{}, Config{
		Strategies: []position.StrategyKind{position.FirstMovedPoint},
	})
	tr := testTrip(t, base, base.Add(6*time.Hour))

	update, err := svc.Refine(context.Background(), tr)
	require.NoError(t, err)
	require.NotNil(t, update.PrecisionPeriod)
	assert.True(t, update.PrecisionPeriod.Start().Equal(base.Add(time.Hour)))
	assert.True(t, update.PrecisionPeriod.End().Equal(base.Add(5*time.Hour)))
}

// TestRefineDeliveryPointStrategyResolvesFromLandingCode exercises the
// previously-missing DeliveryPoint strategy end to end: the trip itself
// carries no delivery-point field, so the service must resolve one from
// the landing covering the trip and look it up in the configured
// reference set.
func TestRefineDeliveryPointStrategyResolvesFromLandingCode(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	deliveryPoint := catchlocation.Point{Lat: 60.0, Lon: 5.0}
	track := []position.Position{
		{Timestamp: base, Point: catchlocation.Point{Lat: 10, Lon: 10}},
		{Timestamp: base.Add(time.Hour), Point: deliveryPoint},
		{Timestamp: base.Add(2 * time.Hour), Point: deliveryPoint},
	}
	landings := []landing.Landing{
		{LandingTimestamp: base.Add(time.Hour), DeliveryPoint: deliveryCode("BGO")},
	}
	svc := NewService(fakePositions{track: track}, fakeHauls{}, fakeLandings{landings: landings}, Config{
		Strategies:          []position.StrategyKind{position.DeliveryPoint},
		NearshoreBandMeters: 500,
		DeliveryPoints:      map[string]catchlocation.Point{"BGO": deliveryPoint},
	})
	tr := testTrip(t, base, base.Add(2*time.Hour))

	update, err := svc.Refine(context.Background(), tr)
	require.NoError(t, err)
	require.NotNil(t, update.PrecisionPeriod)
	assert.True(t, update.PrecisionPeriod.Start().Equal(base.Add(time.Hour)))
}

func TestRefineDeliveryPointStrategyFailsWithoutLandingCode(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	track := []position.Position{{Timestamp: base, Point: catchlocation.Point{Lat: 60, Lon: 5}}}
	svc := NewService(fakePositions{track: track}, fakeHauls{}, fakeLandings{}, Config{
		Strategies:          []position.StrategyKind{position.DeliveryPoint},
		NearshoreBandMeters: 500,
		DeliveryPoints:      map[string]catchlocation.Point{"BGO": {Lat: 60, Lon: 5}},
	})
	tr := testTrip(t, base, base)

	update, err := svc.Refine(context.Background(), tr)
	require.NoError(t, err)
	assert.Nil(t, update.PrecisionPeriod)
}

func TestRefinePortStrategyPrefersEndPortOverStartPort(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	startPort := catchlocation.Point{Lat: 10, Lon: 10}
	endPort := catchlocation.Point{Lat: 62, Lon: 6}
	track := []position.Position{
		{Timestamp: base, Point: startPort},
		{Timestamp: base.Add(time.Hour), Point: endPort},
		{Timestamp: base.Add(2 * time.Hour), Point: endPort},
	}
	start, end := "AAA", "BBB"
	svc := NewService(fakePositions{track: track}, fakeHauls{}, fakeLandings{}, Config{
		Strategies:          []position.StrategyKind{position.Port},
		NearshoreBandMeters: 500,
		Ports: map[string]position.PortReference{
			"AAA": {Point: startPort},
			"BBB": {Point: endPort},
		},
	})
	tr := trip.Trip{Id: 1, VesselId: 1, StartPortCode: &start, EndPortCode: &end}
	tr.Period, _ = daterange.New(base, base.Add(2*time.Hour))
	tr.LandingCoverage = tr.Period

	update, err := svc.Refine(context.Background(), tr)
	require.NoError(t, err)
	require.NotNil(t, update.PrecisionPeriod)
	// Snapping to the start port would give [base, base]; the end port
	// gives [base+1h, base+2h].
	assert.True(t, update.PrecisionPeriod.Start().Equal(base.Add(time.Hour)))
}
