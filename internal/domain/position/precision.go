package position

import (
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/daterange"
)

// StrategyKind names one of the trip-boundary precision strategies.
type StrategyKind int

const (
	FirstMovedPoint StrategyKind = iota + 1
	DeliveryPoint
	Port
	DockPoint
	DistanceToShoreStrategy
)

// Outcome is a precision strategy's result: either a refined period with
// the adjustments applied, or Failed (the strategy found nothing to
// snap to).
type Outcome struct {
	Succeeded      bool
	Period         daterange.DateRange
	StartAdjustment *time.Duration
	EndAdjustment   *time.Duration
}

var Failed = Outcome{Succeeded: false}

// StationarySpeedThreshold (knots) below which a point is considered
// part of a stationary segment for FirstMovedPoint trimming.
const StationarySpeedThreshold = 0.5

// ApplyFirstMovedPoint trims leading/trailing stationary segments from
// period by walking the fused track inward until speed exceeds the
// stationary threshold.
func ApplyFirstMovedPoint(period daterange.DateRange, points []Position) Outcome {
	if len(points) == 0 {
		return Failed
	}
	first := -1
	for i, p := range points {
		if p.Speed != nil && *p.Speed > StationarySpeedThreshold {
			first = i
			break
		}
	}
	last := -1
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Speed != nil && *points[i].Speed > StationarySpeedThreshold {
			last = i
			break
		}
	}
	if first == -1 || last == -1 || first > last {
		return Failed
	}
	newPeriod, err := daterange.New(points[first].Timestamp, points[last].Timestamp)
	if err != nil {
		return Failed
	}
	startAdj := points[first].Timestamp.Sub(period.Start())
	endAdj := period.End().Sub(points[last].Timestamp)
	return Outcome{Succeeded: true, Period: newPeriod, StartAdjustment: &startAdj, EndAdjustment: &endAdj}
}

// ApplyDistanceToShore snaps period's endpoints to the nearest positions
// within the configured nearshore band, used when a vessel's AIS/VMS
// track approaches a port without a recognized dock point.
func ApplyDistanceToShore(period daterange.DateRange, points []Position, bandMeters float64) Outcome {
	var start, end *Position
	for i := range points {
		if points[i].DistanceToShore <= bandMeters {
			if start == nil {
				start = &points[i]
			}
			end = &points[i]
		}
	}
	if start == nil || end == nil {
		return Failed
	}
	newPeriod, err := daterange.New(start.Timestamp, end.Timestamp)
	if err != nil {
		return Failed
	}
	return Outcome{Succeeded: true, Period: newPeriod}
}

// PortReference is a port's own coordinate plus the coordinates of its
// recognized dock points, used by the Port and DockPoint strategies.
// DockPoints is empty for ports with no surveyed dock positions, which
// simply makes ApplyDockPoint fail for that port.
type PortReference struct {
	Point      catchlocation.Point
	DockPoints []catchlocation.Point
}

// snapToPoint finds the first and last track position within bandMeters
// of ref and returns the sub-period they bound, the shared shape behind
// ApplyDeliveryPoint, ApplyPort and ApplyDockPoint.
func snapToPoint(period daterange.DateRange, points []Position, ref catchlocation.Point, bandMeters float64) Outcome {
	var start, end *Position
	for i := range points {
		if catchlocation.DistanceMeters(points[i].Point, ref) <= bandMeters {
			if start == nil {
				start = &points[i]
			}
			end = &points[i]
		}
	}
	if start == nil || end == nil {
		return Failed
	}
	newPeriod, err := daterange.New(start.Timestamp, end.Timestamp)
	if err != nil {
		return Failed
	}
	return Outcome{Succeeded: true, Period: newPeriod}
}

// ApplyDeliveryPoint snaps period's endpoints to track positions within
// the nearshore band of the trip's declared delivery point.
func ApplyDeliveryPoint(period daterange.DateRange, points []Position, deliveryPoint catchlocation.Point, bandMeters float64) Outcome {
	return snapToPoint(period, points, deliveryPoint, bandMeters)
}

// ApplyPort snaps period's endpoints to track positions within the
// nearshore band of a port's own coordinate.
func ApplyPort(period daterange.DateRange, points []Position, port catchlocation.Point, bandMeters float64) Outcome {
	return snapToPoint(period, points, port, bandMeters)
}

// ApplyDockPoint snaps period's endpoints to track positions within the
// nearshore band of any of a port's surveyed dock points, trying each
// and keeping the first that succeeds.
func ApplyDockPoint(period daterange.DateRange, points []Position, dockPoints []catchlocation.Point, bandMeters float64) Outcome {
	for _, dp := range dockPoints {
		if outcome := snapToPoint(period, points, dp, bandMeters); outcome.Succeeded {
			return outcome
		}
	}
	return Failed
}

// Clamp constrains a precision outcome's period so it never widens past
// landingCoverage and stays within (or immediately adjacent to, by at
// most slack) the original period.
func Clamp(outcome Outcome, original, landingCoverage daterange.DateRange, slack time.Duration) Outcome {
	if !outcome.Succeeded {
		return outcome
	}
	start := outcome.Period.Start()
	end := outcome.Period.End()

	earliestStart := original.Start().Add(-slack)
	if start.Before(earliestStart) {
		start = earliestStart
	}
	if start.Before(landingCoverage.Start()) {
		start = landingCoverage.Start()
	}

	latestEnd := original.End().Add(slack)
	if end.After(latestEnd) {
		end = latestEnd
	}
	if end.After(landingCoverage.End()) {
		end = landingCoverage.End()
	}

	clamped, err := daterange.New(start, end)
	if err != nil {
		return Failed
	}
	outcome.Period = clamped
	return outcome
}
