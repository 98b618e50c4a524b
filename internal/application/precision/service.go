// Package precision runs the trip position layer: fusing AIS/VMS
// streams for a trip, tagging positions with active gear and cumulative
// cargo weight, and running the precision strategies to refine trip
// boundaries.
package precision

import (
	"context"
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/daterange"
	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/landing"
	"github.com/kyogre-go/fisheries/internal/domain/ports"
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/shared"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
)

// Config carries the operator-tunable parts of the precision pass: the
// ordered list of strategies to attempt, the nearshore band/slack
// parameters a couple of them need, and the delivery-point/port
// reference lookups the DeliveryPoint/Port/DockPoint strategies snap
// against.
type Config struct {
	Strategies          []position.StrategyKind
	NearshoreBandMeters float64
	Slack               time.Duration
	TrackMargin         time.Duration
	DeliveryPoints      map[string]catchlocation.Point
	Ports               map[string]position.PortReference
}

type Service struct {
	positions ports.PositionRepository
	hauls     ports.HaulRepository
	landings  ports.LandingRepository
	cfg       Config
}

func NewService(positions ports.PositionRepository, hauls ports.HaulRepository, landings ports.LandingRepository, cfg Config) *Service {
	return &Service{positions: positions, hauls: hauls, landings: landings, cfg: cfg}
}

// Refine implements the §4.3 contract: given a trip, assemble its fused
// track, tag positions, and run the configured precision strategies in
// order until one succeeds. Idempotent; if no positions are found it
// returns a TripUpdate with Failed precision and an untouched period.
func (s *Service) Refine(ctx context.Context, t trip.Trip) (trip.TripUpdate, error) {
	start := t.Period.Start().Add(-s.cfg.TrackMargin)
	end := t.Period.End().Add(s.cfg.TrackMargin)

	raw, err := s.positions.ListByVesselAndRange(ctx, t.VesselId, start, end)
	if err != nil {
		return trip.TripUpdate{}, shared.NewStorageTransientError(err)
	}
	if len(raw) == 0 {
		return trip.TripUpdate{TripId: t.Id}, nil
	}

	fused := position.Fuse(raw)

	hs, err := s.hauls.ListByVesselAndRange(ctx, t.VesselId, t.Period.Start(), t.Period.End())
	if err != nil {
		return trip.TripUpdate{}, shared.NewStorageTransientError(err)
	}
	fused = position.TagActiveGear(fused, hs)
	fused = position.TagCumulativeCargoWeight(fused, hs, priorLandedWeight(hs))

	ls, err := s.landings.ListByVesselAndRange(ctx, t.VesselId, t.LandingCoverage.Start(), t.LandingCoverage.End())
	if err != nil {
		return trip.TripUpdate{}, shared.NewStorageTransientError(err)
	}
	deliveryPoint, hasDeliveryPoint := s.deliveryPointFor(ls)

	outcome := s.runStrategies(t.Period, fused, t.StartPortCode, t.EndPortCode, deliveryPoint, hasDeliveryPoint)
	if !outcome.Succeeded {
		return trip.TripUpdate{TripId: t.Id}, nil
	}

	clamped := position.Clamp(outcome, t.Period, t.LandingCoverage, s.cfg.Slack)
	if !clamped.Succeeded {
		return trip.TripUpdate{TripId: t.Id}, nil
	}
	period := clamped.Period
	return trip.TripUpdate{TripId: t.Id, PrecisionPeriod: &period}, nil
}

func (s *Service) runStrategies(period daterange.DateRange, track []position.Position, startPort, endPort *string, deliveryPoint catchlocation.Point, hasDeliveryPoint bool) position.Outcome {
	for _, kind := range s.cfg.Strategies {
		var outcome position.Outcome
		switch kind {
		case position.FirstMovedPoint:
			outcome = position.ApplyFirstMovedPoint(period, track)
		case position.DeliveryPoint:
			if hasDeliveryPoint {
				outcome = position.ApplyDeliveryPoint(period, track, deliveryPoint, s.cfg.NearshoreBandMeters)
			}
		case position.Port:
			outcome = s.applyPort(period, track, startPort, endPort)
		case position.DockPoint:
			outcome = s.applyDockPoint(period, track, startPort, endPort)
		case position.DistanceToShoreStrategy:
			outcome = position.ApplyDistanceToShore(period, track, s.cfg.NearshoreBandMeters)
		}
		if outcome.Succeeded {
			return outcome
		}
	}
	return position.Failed
}

// deliveryPointFor resolves the coordinate to snap to for the
// DeliveryPoint strategy: the code on the trip's latest covered
// landing, if any, looked up in the configured reference set. Trip
// itself carries no delivery-point field — only its landings do.
func (s *Service) deliveryPointFor(landings []landing.Landing) (catchlocation.Point, bool) {
	var code string
	var latest time.Time
	for _, l := range landings {
		if l.DeliveryPoint == nil || *l.DeliveryPoint == "" {
			continue
		}
		if code == "" || l.LandingTimestamp.After(latest) {
			code = *l.DeliveryPoint
			latest = l.LandingTimestamp
		}
	}
	if code == "" {
		return catchlocation.Point{}, false
	}
	p, ok := s.cfg.DeliveryPoints[code]
	return p, ok
}

// applyPort tries the trip's end port then its start port against the
// Port strategy, since an arrival port is the more reliable boundary
// marker of the two.
func (s *Service) applyPort(period daterange.DateRange, track []position.Position, startPort, endPort *string) position.Outcome {
	for _, code := range []*string{endPort, startPort} {
		if code == nil {
			continue
		}
		ref, ok := s.cfg.Ports[*code]
		if !ok {
			continue
		}
		if outcome := position.ApplyPort(period, track, ref.Point, s.cfg.NearshoreBandMeters); outcome.Succeeded {
			return outcome
		}
	}
	return position.Failed
}

// applyDockPoint mirrors applyPort but snaps against a port's surveyed
// dock points instead of its own coordinate.
func (s *Service) applyDockPoint(period daterange.DateRange, track []position.Position, startPort, endPort *string) position.Outcome {
	for _, code := range []*string{endPort, startPort} {
		if code == nil {
			continue
		}
		ref, ok := s.cfg.Ports[*code]
		if !ok || len(ref.DockPoints) == 0 {
			continue
		}
		if outcome := position.ApplyDockPoint(period, track, ref.DockPoints, s.cfg.NearshoreBandMeters); outcome.Succeeded {
			return outcome
		}
	}
	return position.Failed
}

// priorLandedWeight is a placeholder hook for summing preceding trips'
// landed weight; the precision pass itself only needs a starting value
// to seed the running cumulative total.
func priorLandedWeight(hs []haul.Haul) float64 {
	return 0
}
