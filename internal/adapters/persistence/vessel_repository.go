package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// GormVesselRepository implements ports.VesselRepository using GORM.
type GormVesselRepository struct {
	db *gorm.DB
}

func NewGormVesselRepository(db *gorm.DB) *GormVesselRepository {
	return &GormVesselRepository{db: db}
}

// ListWithPendingEvents returns every vessel with at least one event
// whose occurrence timestamp is newer than its latest assembled trip,
// i.e. candidates for the next trip assembler sweep.
func (r *GormVesselRepository) ListWithPendingEvents(ctx context.Context) ([]vessel.Id, error) {
	var ids []int64
	result := r.db.WithContext(ctx).
		Table("events").
		Distinct("vessel_id").
		Where("occurrence_ts > (SELECT COALESCE(MAX(period_end), ?) FROM trips WHERE trips.vessel_id = events.vessel_id)", 0).
		Pluck("vessel_id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list vessels with pending events: %w", result.Error)
	}

	out := make([]vessel.Id, len(ids))
	for i, id := range ids {
		out[i] = vessel.Id(id)
	}
	return out, nil
}

func (r *GormVesselRepository) Get(ctx context.Context, id vessel.Id) (vessel.Vessel, error) {
	var model VesselModel
	result := r.db.WithContext(ctx).Where("id = ?", int64(id)).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return vessel.Vessel{}, fmt.Errorf("vessel not found: %d", id)
		}
		return vessel.Vessel{}, fmt.Errorf("failed to find vessel: %w", result.Error)
	}
	return modelToVessel(&model)
}

func modelToVessel(model *VesselModel) (vessel.Vessel, error) {
	v := vessel.Vessel{
		Id:          vessel.Id(model.ID),
		CallSign:    model.CallSign,
		Length:      model.Length,
		LengthGroup: vessel.LengthGroup(model.LengthGroup),
	}
	if model.Mmsi != nil {
		mmsi := vessel.Mmsi(*model.Mmsi)
		v.Mmsi = &mmsi
	}
	if model.HullJSON != "" {
		var hull vessel.HullParameters
		if err := json.Unmarshal([]byte(model.HullJSON), &hull); err != nil {
			return vessel.Vessel{}, fmt.Errorf("failed to unmarshal hull parameters: %w", err)
		}
		v.Hull = &hull
	}
	return v, nil
}

func vesselToModel(v vessel.Vessel) (*VesselModel, error) {
	model := &VesselModel{
		ID:          int64(v.Id),
		CallSign:    v.CallSign,
		Length:      v.Length,
		LengthGroup: int(v.LengthGroup),
	}
	if v.Mmsi != nil {
		mmsi := int32(*v.Mmsi)
		model.Mmsi = &mmsi
	}
	if v.Hull != nil {
		bytes, err := json.Marshal(v.Hull)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal hull parameters: %w", err)
		}
		model.HullJSON = string(bytes)
	}
	return model, nil
}

// Save upserts a vessel record.
func (r *GormVesselRepository) Save(ctx context.Context, v vessel.Vessel) error {
	model, err := vesselToModel(v)
	if err != nil {
		return fmt.Errorf("failed to convert vessel to model: %w", err)
	}
	if result := r.db.WithContext(ctx).Save(model); result.Error != nil {
		return fmt.Errorf("failed to save vessel: %w", result.Error)
	}
	return nil
}
