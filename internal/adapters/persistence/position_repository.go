package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// GormPositionRepository implements ports.PositionRepository using GORM.
type GormPositionRepository struct {
	db *gorm.DB
}

func NewGormPositionRepository(db *gorm.DB) *GormPositionRepository {
	return &GormPositionRepository{db: db}
}

func (r *GormPositionRepository) ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]position.Position, error) {
	var models []PositionModel
	result := r.db.WithContext(ctx).
		Where("vessel_id = ? AND ts >= ? AND ts <= ?", int64(vesselId), start, end).
		Order("ts ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list positions for vessel %d: %w", vesselId, result.Error)
	}

	out := make([]position.Position, len(models))
	for i, m := range models {
		out[i] = position.Position{
			Timestamp:       m.Timestamp,
			Point:           catchlocation.Point{Lat: m.Lat, Lon: m.Lon},
			Course:          m.Course,
			Speed:           m.Speed,
			DistanceToShore: m.DistanceToShore,
			Source:          position.Source(m.Source),
		}
	}
	return out, nil
}

// Save persists a batch of raw AIS/VMS position reports. Unlike events
// and landings, positions carry no natural key to deduplicate on — a
// feed resending the same point is expected to be a rare, harmless
// duplicate rather than a conflict.
func (r *GormPositionRepository) Save(ctx context.Context, vesselId vessel.Id, points []position.Position) error {
	if len(points) == 0 {
		return nil
	}
	models := make([]PositionModel, len(points))
	for i, p := range points {
		models[i] = PositionModel{
			VesselID:        int64(vesselId),
			Timestamp:       p.Timestamp,
			Lat:             p.Point.Lat,
			Lon:             p.Point.Lon,
			Course:          p.Course,
			Speed:           p.Speed,
			DistanceToShore: p.DistanceToShore,
			Source:          int(p.Source),
		}
	}
	if result := r.db.WithContext(ctx).Create(&models); result.Error != nil {
		return fmt.Errorf("failed to save positions for vessel %d: %w", vesselId, result.Error)
	}
	return nil
}
