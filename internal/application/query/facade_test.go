package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyogre-go/fisheries/internal/domain/daterange"
	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/landing"
	"github.com/kyogre-go/fisheries/internal/domain/matrix"
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

type fakeTrips struct {
	byVessel map[vessel.Id][]trip.Trip
}

func (f fakeTrips) ListByVessel(ctx context.Context, vesselId vessel.Id, assembler trip.AssemblerKind) ([]trip.Trip, error) {
	return f.byVessel[vesselId], nil
}
func (f fakeTrips) Apply(ctx context.Context, set trip.TripSet) ([]trip.Trip, error) { return nil, nil }
func (f fakeTrips) Update(ctx context.Context, update trip.TripUpdate) error         { return nil }
func (f fakeTrips) AppendLogEntry(ctx context.Context, entry trip.LogEntry) error    { return nil }
func (f fakeTrips) QueueReset(ctx context.Context, vesselId vessel.Id, assembler trip.AssemblerKind) error {
	return nil
}

type fakeHauls struct{ hauls []haul.Haul }

func (f fakeHauls) ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]haul.Haul, error) {
	return f.hauls, nil
}

type fakeLandings struct{ landings []landing.Landing }

func (f fakeLandings) ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]landing.Landing, error) {
	return f.landings, nil
}

type fakePositions struct{ positions []position.Position }

func (f fakePositions) ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]position.Position, error) {
	return f.positions, nil
}

type fakeMatrixCache struct {
	result map[matrix.Dimension]*matrix.Matrix
	err    error
}

func (f fakeMatrixCache) Watermark(ctx context.Context, source matrix.Source) (matrix.Watermark, error) {
	return matrix.Watermark{}, nil
}
func (f fakeMatrixCache) PendingVersions(ctx context.Context, source matrix.Source, since matrix.Watermark) ([]matrix.DataVersion, error) {
	return nil, nil
}
func (f fakeMatrixCache) RefreshBucket(ctx context.Context, source matrix.Source, bucket int) error {
	return nil
}
func (f fakeMatrixCache) AdvanceWatermark(ctx context.Context, wm matrix.Watermark) error { return nil }
func (f fakeMatrixCache) Query(ctx context.Context, source matrix.Source, features matrix.Features) (map[matrix.Dimension]*matrix.Matrix, error) {
	return f.result, f.err
}

func tripPeriod(t *testing.T, start, end time.Time) daterange.DateRange {
	t.Helper()
	p, err := daterange.New(start, end)
	require.NoError(t, err)
	return p
}

func TestFacadeTripsReturnsNilWithoutVesselFilter(t *testing.T) {
	f := NewFacade(fakeTrips{}, fakeHauls{}, fakeLandings{}, fakePositions{}, fakeMatrixCache{}, matrix.MissOnError)
	trips, err := f.Trips(context.Background(), trip.ERS, TripFilter{})
	require.NoError(t, err)
	assert.Nil(t, trips)
}

func TestFacadeTripsFiltersSortsAndPaginates(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id trip.Id, start time.Time) trip.Trip {
		return trip.Trip{Id: id, VesselId: 1, Period: tripPeriod(t, start, start.Add(time.Hour))}
	}
	trips := fakeTrips{byVessel: map[vessel.Id][]trip.Trip{
		1: {mk(3, base.Add(2*time.Hour)), mk(1, base), mk(2, base.Add(time.Hour))},
	}}
	f := NewFacade(trips, fakeHauls{}, fakeLandings{}, fakePositions{}, fakeMatrixCache{}, matrix.MissOnError)

	result, err := f.Trips(context.Background(), trip.ERS, TripFilter{
		VesselIds: []vessel.Id{1},
		SortBy:    SortByStart,
		Ordering:  Ascending,
		Page:      Page{Limit: 2},
	})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, trip.Id(1), result[0].Id)
	assert.Equal(t, trip.Id(2), result[1].Id)
}

func TestFacadeTripsAppliesTimeRangeFilter(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id trip.Id, start time.Time) trip.Trip {
		return trip.Trip{Id: id, VesselId: 1, Period: tripPeriod(t, start, start.Add(time.Hour))}
	}
	trips := fakeTrips{byVessel: map[vessel.Id][]trip.Trip{
		1: {mk(1, base), mk(2, base.Add(24 * time.Hour))},
	}}
	f := NewFacade(trips, fakeHauls{}, fakeLandings{}, fakePositions{}, fakeMatrixCache{}, matrix.MissOnError)

	cutoff := base.Add(12 * time.Hour)
	result, err := f.Trips(context.Background(), trip.ERS, TripFilter{
		VesselIds: []vessel.Id{1},
		End:       &cutoff,
	})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, trip.Id(1), result[0].Id)
}

func TestFacadeHaulsForTripOnlyReturnsOverlappingHauls(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inRange, _ := haul.New(haul.Haul{StartTimestamp: base, StopTimestamp: base.Add(time.Hour)})
	outOfRange, _ := haul.New(haul.Haul{StartTimestamp: base.Add(48 * time.Hour), StopTimestamp: base.Add(49 * time.Hour)})
	f := NewFacade(fakeTrips{}, fakeHauls{hauls: []haul.Haul{inRange, outOfRange}}, fakeLandings{}, fakePositions{}, fakeMatrixCache{}, matrix.MissOnError)

	tr := trip.Trip{VesselId: 1, LandingCoverage: tripPeriod(t, base, base.Add(2*time.Hour))}
	hs, err := f.HaulsForTrip(context.Background(), tr)

	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.True(t, hs[0].StartTimestamp.Equal(base))
}

func TestFacadeLandingsForTripOnlyReturnsLandingsWithinCoverage(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inside := landing.Landing{LandingTimestamp: base.Add(time.Hour)}
	outside := landing.Landing{LandingTimestamp: base.Add(48 * time.Hour)}
	f := NewFacade(fakeTrips{}, fakeHauls{}, fakeLandings{landings: []landing.Landing{inside, outside}}, fakePositions{}, fakeMatrixCache{}, matrix.MissOnError)

	tr := trip.Trip{VesselId: 1, LandingCoverage: tripPeriod(t, base, base.Add(2*time.Hour))}
	ls, err := f.LandingsForTrip(context.Background(), tr)

	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.True(t, ls[0].LandingTimestamp.Equal(inside.LandingTimestamp))
}

func TestFacadeMatrixReturnsNilOnCacheErrorWithMissOnError(t *testing.T) {
	f := NewFacade(fakeTrips{}, fakeHauls{}, fakeLandings{}, fakePositions{}, fakeMatrixCache{err: assert.AnError}, matrix.MissOnError)

	result, err := f.Matrix(context.Background(), matrix.Hauls, matrix.Features{})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestFacadeMatrixSurfacesErrorWithReturnError(t *testing.T) {
	f := NewFacade(fakeTrips{}, fakeHauls{}, fakeLandings{}, fakePositions{}, fakeMatrixCache{err: assert.AnError}, matrix.ReturnError)

	_, err := f.Matrix(context.Background(), matrix.Hauls, matrix.Features{})
	assert.Error(t, err)
}
