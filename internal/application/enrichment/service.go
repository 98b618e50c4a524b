// Package enrichment runs the trip-scoped derived-field passes (C4
// precision periods, C7 fuel estimate, and trip distance) against
// already-assembled trips and persists the results via TripUpdate.
package enrichment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kyogre-go/fisheries/internal/application/precision"
	"github.com/kyogre-go/fisheries/internal/domain/fuel"
	"github.com/kyogre-go/fisheries/internal/domain/ports"
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/shared"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

type Service struct {
	trips     ports.TripRepository
	positions ports.PositionRepository
	vessels   ports.VesselRepository
	precision *precision.Service
	fuel      *fuel.Estimator
	log       zerolog.Logger
}

func NewService(
	trips ports.TripRepository,
	positions ports.PositionRepository,
	vessels ports.VesselRepository,
	precisionSvc *precision.Service,
	fuelEstimator *fuel.Estimator,
	log zerolog.Logger,
) *Service {
	return &Service{
		trips: trips, positions: positions, vessels: vessels,
		precision: precisionSvc, fuel: fuelEstimator,
		log: log.With().Str("component", "enrichment").Logger(),
	}
}

// RefineVessel runs the precision and fuel/distance passes over every
// trip currently assembled for vesselId under assembler, applying each
// resulting TripUpdate as it completes rather than batching them.
func (s *Service) RefineVessel(ctx context.Context, vesselId vessel.Id, assembler trip.AssemblerKind) error {
	trips, err := s.trips.ListByVessel(ctx, vesselId, assembler)
	if err != nil {
		return shared.NewStorageTransientError(err)
	}

	var v vessel.Vessel
	if len(trips) > 0 {
		v, err = s.vessels.Get(ctx, vesselId)
		if err != nil {
			return shared.NewStorageTransientError(err)
		}
	}

	for _, t := range trips {
		update, err := s.precision.Refine(ctx, t)
		if err != nil {
			s.log.Warn().Err(err).Int64("trip_id", int64(t.Id)).Msg("precision refinement failed")
			continue
		}

		if v.Hull != nil {
			raw, err := s.positions.ListByVesselAndRange(ctx, vesselId, t.Period.Start(), t.Period.End())
			if err != nil {
				s.log.Warn().Err(err).Int64("trip_id", int64(t.Id)).Msg("failed to load track for fuel estimate")
			} else {
				track := position.Fuse(raw)
				liters := s.fuel.EstimateTripLiters(*v.Hull, track)
				update.FuelLiters = &liters
				distance := trackDistanceNm(track)
				update.Distance = &distance
			}
		}

		if update.PrecisionPeriod == nil && update.Distance == nil && update.FuelLiters == nil {
			continue
		}
		if err := s.trips.Update(ctx, update); err != nil {
			s.log.Warn().Err(err).Int64("trip_id", int64(t.Id)).Msg("failed to apply trip enrichment update")
		}
	}
	return nil
}
