package position

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/daterange"
)

func trackPoint(ts time.Time, lat, lon float64) Position {
	return Position{Timestamp: ts, Point: catchlocation.Point{Lat: lat, Lon: lon}}
}

func testPeriod(t *testing.T, start, end time.Time) daterange.DateRange {
	t.Helper()
	p, err := daterange.New(start, end)
	require.NoError(t, err)
	return p
}

func TestApplyDeliveryPointSnapsToNearbyPositions(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	deliveryPoint := catchlocation.Point{Lat: 60.0, Lon: 5.0}
	track := []Position{
		trackPoint(base, 62.0, 5.0),                // far from delivery point
		trackPoint(base.Add(time.Hour), 60.0, 5.0), // at delivery point
		trackPoint(base.Add(2*time.Hour), 60.001, 5.0),
		trackPoint(base.Add(3*time.Hour), 63.0, 5.0), // far again
	}
	period := testPeriod(t, base, base.Add(3*time.Hour))

	outcome := ApplyDeliveryPoint(period, track, deliveryPoint, 500)

	require.True(t, outcome.Succeeded)
	assert.True(t, outcome.Period.Start().Equal(base.Add(time.Hour)))
	assert.True(t, outcome.Period.End().Equal(base.Add(2*time.Hour)))
}

func TestApplyDeliveryPointFailsWhenNothingWithinBand(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	deliveryPoint := catchlocation.Point{Lat: 60.0, Lon: 5.0}
	track := []Position{trackPoint(base, 10.0, 10.0)}
	period := testPeriod(t, base, base)

	outcome := ApplyDeliveryPoint(period, track, deliveryPoint, 500)
	assert.False(t, outcome.Succeeded)
}

func TestApplyPortUsesPortCoordinate(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	port := catchlocation.Point{Lat: 62.5, Lon: 6.0}
	track := []Position{
		trackPoint(base, 62.5, 6.0),
		trackPoint(base.Add(time.Hour), 62.5001, 6.0),
	}
	period := testPeriod(t, base, base.Add(time.Hour))

	outcome := ApplyPort(period, track, port, 200)
	require.True(t, outcome.Succeeded)
}

func TestApplyDockPointTriesEachDockUntilOneSucceeds(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	dockA := catchlocation.Point{Lat: 10, Lon: 10}
	dockB := catchlocation.Point{Lat: 62.0, Lon: 6.0}
	track := []Position{
		trackPoint(base, 62.0, 6.0),
		trackPoint(base.Add(time.Hour), 62.0001, 6.0),
	}
	period := testPeriod(t, base, base.Add(time.Hour))

	outcome := ApplyDockPoint(period, track, []catchlocation.Point{dockA, dockB}, 200)
	require.True(t, outcome.Succeeded, "should fall through to the second dock point")
}

func TestApplyDockPointFailsWhenNoDockInBand(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	track := []Position{trackPoint(base, 62.0, 6.0)}
	period := testPeriod(t, base, base)

	outcome := ApplyDockPoint(period, track, []catchlocation.Point{{Lat: -10, Lon: -10}}, 100)
	assert.False(t, outcome.Succeeded)
}
