package trip

import (
	"time"

	"github.com/google/uuid"
	"github.com/kyogre-go/fisheries/internal/domain/event"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// LogEntryId identifies one append-only assembler audit record. The
// source document rarely supplies a natural id for this record, so a
// uuid stands in for it.
type LogEntryId uuid.UUID

// LogEntry is the audit record an assembler run appends so downstream
// consumers can recompute derived state only for affected trips, rather
// than replaying the whole vessel.
type LogEntry struct {
	Id                     LogEntryId
	VesselId               vessel.Id
	Assembler              AssemblerKind
	CalculationTimerPrior  *time.Time
	CalculationTimerPost   time.Time
	Conflict               *Conflict
	ConflictVesselEventId  *event.MessageId
	ConflictStrategy       ConflictStrategy
	PriorTripVesselEvents  int
	NewVesselEvents        int
}

func NewLogEntry(set TripSet, priorTimer *time.Time, postTimer time.Time, priorEvents, newEvents int) LogEntry {
	return LogEntry{
		Id:                    LogEntryId(uuid.New()),
		VesselId:              set.VesselId,
		Assembler:             set.Assembler,
		CalculationTimerPrior: priorTimer,
		CalculationTimerPost:  postTimer,
		Conflict:              set.Conflict,
		ConflictStrategy:      set.Strategy,
		PriorTripVesselEvents: priorEvents,
		NewVesselEvents:       newEvents,
	}
}

func (e LogEntry) IsConflict() bool {
	return e.Conflict != nil
}
