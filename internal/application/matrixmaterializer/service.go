// Package matrixmaterializer projects distributed hauls and landings
// into the primary store's pre-aggregated fact rows the matrix engine
// refreshes from: it is the write side of C5 (haul distributor), the
// step between "a trip's hauls are known" and "the matrix engine has
// something to refresh into its cube".
package matrixmaterializer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kyogre-go/fisheries/internal/adapters/cache"
	"github.com/kyogre-go/fisheries/internal/application/hauldistributor"
	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/landing"
	"github.com/kyogre-go/fisheries/internal/domain/matrix"
	"github.com/kyogre-go/fisheries/internal/domain/ports"
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/shared"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// Service recomputes every matrix fact row touched by one vessel's
// hauls and landings in a time window and writes them through the
// cache's materialization path, which also bumps data_version so the
// refresher picks the affected buckets up.
type Service struct {
	vessels     ports.VesselRepository
	hauls       ports.HaulRepository
	landings    ports.LandingRepository
	positions   ports.PositionRepository
	cache       *cache.GormMatrixCache
	distributor *hauldistributor.AisVms
	sizes       cache.DimensionSizes
	log         zerolog.Logger
}

func NewService(
	vessels ports.VesselRepository,
	hauls ports.HaulRepository,
	landings ports.LandingRepository,
	positions ports.PositionRepository,
	cache *cache.GormMatrixCache,
	distributor *hauldistributor.AisVms,
	sizes cache.DimensionSizes,
	log zerolog.Logger,
) *Service {
	return &Service{
		vessels: vessels, hauls: hauls, landings: landings, positions: positions,
		cache: cache, distributor: distributor, sizes: sizes,
		log: log.With().Str("component", "matrix_materializer").Logger(),
	}
}

// MaterializeVessel recomputes fact rows for one vessel's hauls and
// landings falling in [start, end) and writes them bucket by bucket.
func (s *Service) MaterializeVessel(ctx context.Context, vesselId vessel.Id, start, end time.Time) error {
	v, err := s.vessels.Get(ctx, vesselId)
	if err != nil {
		return shared.NewStorageTransientError(err)
	}

	hs, err := s.hauls.ListByVesselAndRange(ctx, vesselId, start, end)
	if err != nil {
		return shared.NewStorageTransientError(err)
	}
	ls, err := s.landings.ListByVesselAndRange(ctx, vesselId, start, end)
	if err != nil {
		return shared.NewStorageTransientError(err)
	}
	raw, err := s.positions.ListByVesselAndRange(ctx, vesselId, start, end)
	if err != nil {
		return shared.NewStorageTransientError(err)
	}
	fused := position.Fuse(raw)

	if err := s.materializeHauls(ctx, v, hs, fused); err != nil {
		return err
	}
	return s.materializeLandings(ctx, ls)
}

func (s *Service) materializeHauls(ctx context.Context, v vessel.Vessel, hs []haul.Haul, track []position.Position) error {
	byBucket := make(map[int][]matrix.Row)
	for _, h := range hs {
		var inInterval []position.Position
		for _, p := range track {
			if h.ContainsTimestamp(p.Timestamp) {
				inInterval = append(inInterval, p)
			}
		}

		allocations := s.distributor.Distribute(h, inInterval)
		bucket := matrix.MonthBucketOf(h.StartTimestamp)
		gearCode := codeOf(string(h.GearGroup), s.sizes[matrix.GearGroup])
		total := h.TotalLivingWeight()

		for _, alloc := range allocations {
			location := catchLocationCode(alloc.CatchLocation.MainArea, alloc.CatchLocation.SubArea)
			for _, c := range h.Catches {
				var share float64
				if total > 0 {
					share = c.LivingWeight / total
				}
				row := matrix.Row{
					VesselId:          int64(v.Id),
					MonthBucket:       bucket,
					GearGroup:         gearCode,
					SpeciesGroup:      codeOf(string(c.SpeciesGroup), s.sizes[matrix.SpeciesGroup]),
					VesselLengthGroup: int(v.LengthGroup),
					CatchLocation:     location,
					LivingWeight:      alloc.Weight * share,
				}
				byBucket[bucket] = append(byBucket[bucket], row)
			}
		}
	}

	for bucket, rows := range byBucket {
		if err := s.cache.MaterializeRows(ctx, matrix.Hauls, bucket, rows); err != nil {
			return err
		}
	}
	return nil
}

// materializeLandings projects landings directly: a landing carries no
// AIS/VMS track to distribute across catch locations, so every row
// lands on CatchLocation 0 absent a delivery-point-to-polygon reference
// table (an open question the spec leaves to external reference data).
func (s *Service) materializeLandings(ctx context.Context, ls []landing.Landing) error {
	byBucket := make(map[int][]matrix.Row)
	for _, l := range ls {
		bucket := matrix.MonthBucketOf(l.LandingTimestamp)
		gearCode := codeOf(string(l.GearGroup), s.sizes[matrix.GearGroup])

		var vesselId int64
		if l.VesselId != nil {
			vesselId = int64(*l.VesselId)
		}

		for _, c := range l.Catches {
			row := matrix.Row{
				VesselId:          vesselId,
				MonthBucket:       bucket,
				GearGroup:         gearCode,
				SpeciesGroup:      codeOf(string(c.SpeciesGroup), s.sizes[matrix.SpeciesGroup]),
				VesselLengthGroup: int(l.VesselLengthGroup),
				CatchLocation:     0,
				LivingWeight:      c.LivingWeight,
			}
			byBucket[bucket] = append(byBucket[bucket], row)
		}
	}

	for bucket, rows := range byBucket {
		if err := s.cache.MaterializeRows(ctx, matrix.Landings, bucket, rows); err != nil {
			return err
		}
	}
	return nil
}
