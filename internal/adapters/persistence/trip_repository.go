package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kyogre-go/fisheries/internal/domain/daterange"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// GormTripRepository implements ports.TripRepository using GORM. Apply
// is the one write path an assembler run uses: it replaces the affected
// window's trips within a single transaction, so a reader never
// observes a half-applied trip set.
type GormTripRepository struct {
	db *gorm.DB
}

func NewGormTripRepository(db *gorm.DB) *GormTripRepository {
	return &GormTripRepository{db: db}
}

func (r *GormTripRepository) ListByVessel(ctx context.Context, vesselId vessel.Id, assembler trip.AssemblerKind) ([]trip.Trip, error) {
	var models []TripModel
	result := r.db.WithContext(ctx).
		Where("vessel_id = ? AND assembler = ?", int64(vesselId), int(assembler)).
		Order("period_start ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list trips for vessel %d: %w", vesselId, result.Error)
	}

	out := make([]trip.Trip, len(models))
	for i, m := range models {
		t, err := modelToTrip(m)
		if err != nil {
			return nil, fmt.Errorf("failed to convert trip %d: %w", m.TripID, err)
		}
		out[i] = t
	}
	return out, nil
}

func modelToTrip(m TripModel) (trip.Trip, error) {
	period, err := daterange.NewWithBounds(m.PeriodStart, m.PeriodEnd, daterange.Bound(m.PeriodStartBound), daterange.Bound(m.PeriodEndBound))
	if err != nil {
		return trip.Trip{}, err
	}
	coverage, err := daterange.NewWithBounds(m.LandingCoverageStart, m.LandingCoverageEnd, daterange.Inclusive, daterange.Exclusive)
	if err != nil {
		return trip.Trip{}, err
	}

	t := trip.Trip{
		Id:              trip.Id(m.TripID),
		VesselId:        vessel.Id(m.VesselID),
		Period:          period,
		LandingCoverage: coverage,
		Assembler:       trip.AssemblerKind(m.Assembler),
		StartPortCode:   m.StartPortCode,
		EndPortCode:     m.EndPortCode,
		TargetSpecies:   m.TargetSpecies,
		Distance:        m.Distance,
		FuelLiters:      m.FuelLiters,
	}
	if m.PrecisionStart != nil && m.PrecisionEnd != nil {
		precision, err := daterange.New(*m.PrecisionStart, *m.PrecisionEnd)
		if err != nil {
			return trip.Trip{}, err
		}
		t.PrecisionPeriod = &precision
	}
	return t, nil
}

func newTripToModel(vesselId vessel.Id, assembler trip.AssemblerKind, n trip.NewTrip) TripModel {
	return TripModel{
		VesselID:             int64(vesselId),
		Assembler:            int(assembler),
		PeriodStart:          n.Period.Start(),
		PeriodEnd:            n.Period.End(),
		PeriodStartBound:     int(n.Period.StartBound()),
		PeriodEndBound:       int(n.Period.EndBound()),
		LandingCoverageStart: n.LandingCoverage.Start(),
		LandingCoverageEnd:   n.LandingCoverage.End(),
		StartPortCode:        n.StartPortCode,
		EndPortCode:          n.EndPortCode,
	}
}

// Apply replaces, within one transaction, the trips an assembler run
// supersedes (set.Superseded, or every existing trip for the
// vessel/assembler on StrategyReplaceAll) with the newly computed ones,
// and returns the full persisted trip list afterward.
func (r *GormTripRepository) Apply(ctx context.Context, set trip.TripSet) ([]trip.Trip, error) {
	var result []trip.Trip
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if set.Strategy == trip.StrategyReplaceAll {
			if err := tx.Where("vessel_id = ? AND assembler = ?", int64(set.VesselId), int(set.Assembler)).Delete(&TripModel{}).Error; err != nil {
				return fmt.Errorf("failed to clear trips for reset: %w", err)
			}
		} else if len(set.Superseded) > 0 {
			ids := make([]int64, len(set.Superseded))
			for i, id := range set.Superseded {
				ids[i] = int64(id)
			}
			if err := tx.Where("trip_id IN ?", ids).Delete(&TripModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete superseded trips: %w", err)
			}
		}

		models := make([]TripModel, len(set.Trips))
		for i, n := range set.Trips {
			models[i] = newTripToModel(set.VesselId, set.Assembler, n)
		}
		if len(models) > 0 {
			if err := tx.Create(&models).Error; err != nil {
				return fmt.Errorf("failed to insert assembled trips: %w", err)
			}
		}

		var persisted []TripModel
		if err := tx.Where("vessel_id = ? AND assembler = ?", int64(set.VesselId), int(set.Assembler)).
			Order("period_start ASC").Find(&persisted).Error; err != nil {
			return fmt.Errorf("failed to reload trips after apply: %w", err)
		}

		result = make([]trip.Trip, len(persisted))
		for i, m := range persisted {
			t, err := modelToTrip(m)
			if err != nil {
				return fmt.Errorf("failed to convert reloaded trip %d: %w", m.TripID, err)
			}
			result[i] = t
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update applies a derived-field patch (precision period, distance,
// target species) computed by a downstream pass; it never touches a
// trip's identity or assembled period.
func (r *GormTripRepository) Update(ctx context.Context, update trip.TripUpdate) error {
	patch := map[string]any{}
	if update.PrecisionPeriod != nil {
		patch["precision_start"] = update.PrecisionPeriod.Start()
		patch["precision_end"] = update.PrecisionPeriod.End()
	}
	if update.Distance != nil {
		patch["distance"] = *update.Distance
	}
	if update.FuelLiters != nil {
		patch["fuel_liters"] = *update.FuelLiters
	}
	if update.TargetSpecies != nil {
		patch["target_species"] = *update.TargetSpecies
	}
	if len(patch) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&TripModel{}).Where("trip_id = ?", int64(update.TripId)).Updates(patch)
	if result.Error != nil {
		return fmt.Errorf("failed to update trip %d: %w", update.TripId, result.Error)
	}
	return nil
}

func (r *GormTripRepository) AppendLogEntry(ctx context.Context, entry trip.LogEntry) error {
	model := TripAssemblerLogModel{
		LogID:                 uuid.UUID(entry.Id).String(),
		VesselID:              int64(entry.VesselId),
		Assembler:             int(entry.Assembler),
		CalculationTimerPrior: entry.CalculationTimerPrior,
		CalculationTimerPost:  entry.CalculationTimerPost,
		ConflictStrategy:      int(entry.ConflictStrategy),
		PriorTripVesselEvents: entry.PriorTripVesselEvents,
		NewVesselEvents:       entry.NewVesselEvents,
	}
	if entry.Conflict != nil {
		model.ConflictWindowStart = &entry.Conflict.WindowStart
		model.ConflictWindowEnd = &entry.Conflict.WindowEnd
	}
	if result := r.db.WithContext(ctx).Create(&model); result.Error != nil {
		return fmt.Errorf("failed to append trip assembler log entry: %w", result.Error)
	}
	return nil
}

// QueueReset clears every trip for the vessel/assembler, the effect a
// StrategyReplaceAll conflict resolution commits eagerly rather than
// merely scheduling.
func (r *GormTripRepository) QueueReset(ctx context.Context, vesselId vessel.Id, assembler trip.AssemblerKind) error {
	if result := r.db.WithContext(ctx).Where("vessel_id = ? AND assembler = ?", int64(vesselId), int(assembler)).Delete(&TripModel{}); result.Error != nil {
		return fmt.Errorf("failed to queue reset for vessel %d: %w", vesselId, result.Error)
	}
	return nil
}
