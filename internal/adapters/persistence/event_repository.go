package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kyogre-go/fisheries/internal/domain/event"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// GormEventRepository implements ports.EventRepository using GORM. Events
// of every Kind share one table; ListByVessel filters by which of the
// two assemblers cares about which kinds (ERS reads departures, arrivals
// and port calls; Landings reads landing events).
type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func ersKinds() []int {
	return []int{int(event.Departure), int(event.Arrival), int(event.PortCall)}
}

func landingsKinds() []int {
	return []int{int(event.Landing)}
}

func (r *GormEventRepository) ListByVessel(ctx context.Context, vesselId vessel.Id, assembler trip.AssemblerKind) ([]event.Event, error) {
	kinds := ersKinds()
	if assembler == trip.Landings {
		kinds = landingsKinds()
	}

	var models []EventModel
	result := r.db.WithContext(ctx).
		Where("vessel_id = ? AND type IN ?", int64(vesselId), kinds).
		Order("occurrence_ts ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list events for vessel %d: %w", vesselId, result.Error)
	}

	out := make([]event.Event, len(models))
	for i, m := range models {
		out[i] = modelToEvent(m)
	}
	return out, nil
}

func modelToEvent(m EventModel) event.Event {
	return event.Event{
		VesselId:            event.VesselId(m.VesselID),
		Kind:                event.Kind(m.Type),
		ReportTimestamp:     m.ReportTimestamp,
		OccurrenceTimestamp: m.OccurrenceTimestamp,
		MessageId:           event.MessageId(m.MessageID),
		MessageVersion:      m.MessageVersion,
		PortCode:            m.PortCode,
	}
}

func eventToModel(e event.Event) EventModel {
	return EventModel{
		VesselID:            int64(e.VesselId),
		Type:                int(e.Kind),
		ReportTimestamp:     e.ReportTimestamp,
		OccurrenceTimestamp: e.OccurrenceTimestamp,
		MessageID:           string(e.MessageId),
		MessageVersion:      e.MessageVersion,
		PortCode:            e.PortCode,
	}
}

// Insert appends new events, upserting on the (vessel_id, message_id)
// natural key so a redelivered message only replaces its row when the
// incoming version is higher — the same keep-max-version rule
// event.Dedupe applies in memory, pushed down to the database upsert.
func (r *GormEventRepository) Insert(ctx context.Context, events []event.Event) (inserted, deduped int, err error) {
	if len(events) == 0 {
		return 0, 0, nil
	}

	deduplicated := event.Dedupe(events)
	deduped = len(events) - len(deduplicated)

	models := make([]EventModel, len(deduplicated))
	for i, e := range deduplicated {
		models[i] = eventToModel(e)
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"report_ts", "occurrence_ts", "message_version", "port_code", "type", "vessel_id"}),
		Where:     clause.Where{Exprs: []clause.Expression{clause.Lt{Column: "events.message_version", Value: clause.Column{Table: "excluded", Name: "message_version"}}}},
	}).Create(&models)
	if result.Error != nil {
		return 0, deduped, fmt.Errorf("failed to insert events: %w", result.Error)
	}

	return len(models), deduped, nil
}
