package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/landing"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// GormLandingRepository implements ports.LandingRepository using GORM.
type GormLandingRepository struct {
	db *gorm.DB
}

func NewGormLandingRepository(db *gorm.DB) *GormLandingRepository {
	return &GormLandingRepository{db: db}
}

func (r *GormLandingRepository) ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]landing.Landing, error) {
	var models []LandingModel
	id := int64(vesselId)
	result := r.db.WithContext(ctx).
		Where("vessel_id = ? AND landing_ts >= ? AND landing_ts < ?", id, start, end).
		Order("landing_ts ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list landings for vessel %d: %w", vesselId, result.Error)
	}

	out := make([]landing.Landing, len(models))
	for i, m := range models {
		l, err := modelToLanding(m)
		if err != nil {
			return nil, fmt.Errorf("failed to convert landing %s: %w", m.LandingID, err)
		}
		out[i] = l
	}
	return out, nil
}

func modelToLanding(m LandingModel) (landing.Landing, error) {
	l := landing.Landing{
		Id:                landing.Id(m.LandingID),
		Version:           m.Version,
		LandingTimestamp:  m.LandingTimestamp,
		Gear:              m.Gear,
		GearGroup:         haul.GearGroup(m.GearGroup),
		DeliveryPoint:     m.DeliveryPoint,
		VesselLengthGroup: vessel.LengthGroup(m.VesselLengthGroup),
	}
	if m.VesselID != nil {
		id := vessel.Id(*m.VesselID)
		l.VesselId = &id
	}
	if m.CatchesJSON != "" {
		if err := json.Unmarshal([]byte(m.CatchesJSON), &l.Catches); err != nil {
			return landing.Landing{}, fmt.Errorf("failed to unmarshal landing catches: %w", err)
		}
	}
	return l, nil
}

func landingToModel(l landing.Landing) (*LandingModel, error) {
	catches, err := json.Marshal(l.Catches)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal landing catches: %w", err)
	}
	m := &LandingModel{
		LandingID:         string(l.Id),
		Version:           l.Version,
		LandingTimestamp:  l.LandingTimestamp,
		Gear:              l.Gear,
		GearGroup:         string(l.GearGroup),
		DeliveryPoint:     l.DeliveryPoint,
		VesselLengthGroup: int(l.VesselLengthGroup),
		CatchesJSON:       string(catches),
	}
	if l.VesselId != nil {
		id := int64(*l.VesselId)
		m.VesselID = &id
	}
	return m, nil
}

// Save upserts a batch of ingested landings, keeping only the highest
// document Version under each landing id.
func (r *GormLandingRepository) Save(ctx context.Context, landings []landing.Landing) error {
	deduplicated := landing.Dedupe(landings)
	if len(deduplicated) == 0 {
		return nil
	}
	models := make([]LandingModel, len(deduplicated))
	for i, l := range deduplicated {
		m, err := landingToModel(l)
		if err != nil {
			return fmt.Errorf("failed to convert landing %s to model: %w", l.Id, err)
		}
		models[i] = *m
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "landing_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "vessel_id", "landing_ts", "gear", "gear_group", "delivery_point", "vessel_length_group", "catches_json"}),
		Where:     clause.Where{Exprs: []clause.Expression{clause.Lt{Column: "landings.version", Value: clause.Column{Table: "excluded", Name: "version"}}}},
	}).Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save landings: %w", result.Error)
	}
	return nil
}
