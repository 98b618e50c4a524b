package trip

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyogre-go/fisheries/internal/domain/event"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

func depArr(vesselId vessel.Id, dep, arr time.Time, seq int) []event.Event {
	depId := event.MessageId("dep-" + strconv.Itoa(seq))
	arrId := event.MessageId("arr-" + strconv.Itoa(seq))
	return []event.Event{
		{VesselId: event.VesselId(vesselId), Kind: event.Departure, OccurrenceTimestamp: dep, MessageId: depId, MessageVersion: 1},
		{VesselId: event.VesselId(vesselId), Kind: event.Arrival, OccurrenceTimestamp: arr, MessageId: arrId, MessageVersion: 1},
	}
}

// asPersisted simulates what the repository does after Apply: assigns
// each NewTrip a stable Id as if freshly inserted.
func asPersisted(start Id, trips []NewTrip) []Trip {
	out := make([]Trip, len(trips))
	for i, nt := range trips {
		out[i] = Trip{
			Id:              start + Id(i),
			VesselId:        nt.VesselId,
			Period:          nt.Period,
			LandingCoverage: nt.LandingCoverage,
			Assembler:       nt.Assembler,
			StartPortCode:   nt.StartPortCode,
			EndPortCode:     nt.EndPortCode,
		}
	}
	return out
}

func TestErsAssemblerFirstRunInsertsEverything(t *testing.T) {
	a := NewErsAssembler(time.Hour)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	events := depArr(1, base, base.Add(6*time.Hour), 1)

	set := a.Assemble(1, events, nil)

	assert.Equal(t, StrategyReplace, set.Strategy)
	assert.Len(t, set.Trips, 1)
	assert.Empty(t, set.Superseded)
}

// TestErsAssemblerSteadyStateIsNoop reproduces the scenario the review
// flagged: assembling twice from the same event history, with the
// first run's output fed back in as "persisted", must not re-insert any
// trip or touch any existing id.
func TestErsAssemblerSteadyStateIsNoop(t *testing.T) {
	a := NewErsAssembler(time.Hour)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	events := depArr(1, base, base.Add(6*time.Hour), 1)

	first := a.Assemble(1, events, nil)
	require.Len(t, first.Trips, 1)
	persisted := asPersisted(100, first.Trips)

	second := a.Assemble(1, events, persisted)

	assert.Empty(t, second.Trips, "steady-state re-run must not insert any rows")
	assert.Empty(t, second.Superseded, "steady-state re-run must not delete any rows")
	assert.Nil(t, second.Conflict)
}

// TestErsAssemblerOnlyChangedTripIsSuperseded ensures a late event
// affecting one trip doesn't rewrite the identity of unrelated,
// unaffected trips elsewhere in the vessel's history.
func TestErsAssemblerOnlyChangedTripIsSuperseded(t *testing.T) {
	a := NewErsAssembler(time.Hour)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	trip1 := depArr(1, base, base.Add(6*time.Hour), 1)
	trip2 := depArr(1, base.Add(24*time.Hour), base.Add(30*time.Hour), 2)
	trip3 := depArr(1, base.Add(48*time.Hour), base.Add(54*time.Hour), 3)
	events := append(append(trip1, trip2...), trip3...)

	first := a.Assemble(1, events, nil)
	require.Len(t, first.Trips, 3)
	persisted := asPersisted(200, first.Trips)

	// A late correction only moves trip 2's arrival.
	corrected := append(append(append([]event.Event{}, trip1...), event.Event{
		VesselId: 1, Kind: event.Departure, OccurrenceTimestamp: base.Add(24 * time.Hour),
		MessageId: "dep-2", MessageVersion: 1,
	}, event.Event{
		VesselId: 1, Kind: event.Arrival, OccurrenceTimestamp: base.Add(31 * time.Hour),
		MessageId: "arr-2", MessageVersion: 2,
	}), trip3...)

	second := a.Assemble(1, corrected, persisted)

	require.Len(t, second.Trips, 1, "only the changed trip should be recomputed")
	assert.Equal(t, []Id{persisted[1].Id}, second.Superseded, "only the changed trip's id should be superseded")
}
