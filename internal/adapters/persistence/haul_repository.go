package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// GormHaulRepository implements ports.HaulRepository using GORM.
type GormHaulRepository struct {
	db *gorm.DB
}

func NewGormHaulRepository(db *gorm.DB) *GormHaulRepository {
	return &GormHaulRepository{db: db}
}

func (r *GormHaulRepository) ListByVesselAndRange(ctx context.Context, vesselId vessel.Id, start, end time.Time) ([]haul.Haul, error) {
	var models []HaulModel
	result := r.db.WithContext(ctx).
		Where("vessel_id = ? AND start_ts <= ? AND stop_ts >= ?", int64(vesselId), end, start).
		Order("start_ts ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list hauls for vessel %d: %w", vesselId, result.Error)
	}

	out := make([]haul.Haul, len(models))
	for i, m := range models {
		h, err := modelToHaul(m)
		if err != nil {
			return nil, fmt.Errorf("failed to convert haul %d: %w", m.HaulID, err)
		}
		out[i] = h
	}
	return out, nil
}

func modelToHaul(m HaulModel) (haul.Haul, error) {
	h := haul.Haul{
		Id:             haul.Id(m.HaulID),
		VesselId:       vessel.Id(m.VesselID),
		Gear:           m.Gear,
		GearGroup:      haul.GearGroup(m.GearGroup),
		StartTimestamp: m.StartTimestamp,
		StopTimestamp:  m.StopTimestamp,
		StartPoint:     catchlocation.Point{Lat: m.StartLat, Lon: m.StartLon},
		StopPoint:      catchlocation.Point{Lat: m.StopLat, Lon: m.StopLon},
	}
	if m.CatchesJSON != "" {
		if err := json.Unmarshal([]byte(m.CatchesJSON), &h.Catches); err != nil {
			return haul.Haul{}, fmt.Errorf("failed to unmarshal catches: %w", err)
		}
	}
	if m.WhaleCatchesJSON != "" {
		if err := json.Unmarshal([]byte(m.WhaleCatchesJSON), &h.WhaleCatches); err != nil {
			return haul.Haul{}, fmt.Errorf("failed to unmarshal whale catches: %w", err)
		}
	}
	return haul.New(h)
}

func haulToModel(h haul.Haul) (*HaulModel, error) {
	catches, err := json.Marshal(h.Catches)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catches: %w", err)
	}
	whaleCatches, err := json.Marshal(h.WhaleCatches)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal whale catches: %w", err)
	}
	return &HaulModel{
		HaulID:           int64(h.Id),
		VesselID:         int64(h.VesselId),
		Gear:             h.Gear,
		GearGroup:        string(h.GearGroup),
		StartTimestamp:   h.StartTimestamp,
		StopTimestamp:    h.StopTimestamp,
		StartLat:         h.StartPoint.Lat,
		StartLon:         h.StartPoint.Lon,
		StopLat:          h.StopPoint.Lat,
		StopLon:          h.StopPoint.Lon,
		CatchesJSON:      string(catches),
		WhaleCatchesJSON: string(whaleCatches),
	}, nil
}

// Save upserts a batch of ingested hauls, keyed by their natural haul id.
func (r *GormHaulRepository) Save(ctx context.Context, hauls []haul.Haul) error {
	if len(hauls) == 0 {
		return nil
	}
	models := make([]HaulModel, len(hauls))
	for i, h := range hauls {
		m, err := haulToModel(h)
		if err != nil {
			return fmt.Errorf("failed to convert haul %d to model: %w", h.Id, err)
		}
		models[i] = *m
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "haul_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"gear", "gear_group", "start_ts", "stop_ts", "start_lat", "start_lon", "stop_lat", "stop_lon", "catches_json", "whale_catches_json"}),
	}).Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save hauls: %w", result.Error)
	}
	return nil
}
