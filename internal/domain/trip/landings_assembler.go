package trip

import (
	"sort"
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/daterange"
	"github.com/kyogre-go/fisheries/internal/domain/event"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// LandingsAssembler derives trip boundaries from consecutive landing
// declarations, used for vessels too small to carry ERS equipment
// (typically under 15m). Non-landing events are recorded but never
// redraw trip boundaries under this assembler.
type LandingsAssembler struct{}

func NewLandingsAssembler() *LandingsAssembler {
	return &LandingsAssembler{}
}

// Assemble computes the full canonical Landings trip set for one vessel
// and diffs it against what is currently persisted, same recompute
// strategy as the ERS assembler.
func (a *LandingsAssembler) Assemble(vesselId vessel.Id, events []event.Event, existing []Trip) TripSet {
	computed := a.recompute(vesselId, events)

	if len(existing) == 0 {
		return TripSet{VesselId: vesselId, Assembler: Landings, Strategy: StrategyReplace, Trips: computed}
	}

	superseded, toInsert, conflict := diffTrips(existing, computed)

	return TripSet{
		VesselId:   vesselId,
		Assembler:  Landings,
		Strategy:   StrategyReplace,
		Trips:      toInsert,
		Conflict:   conflict,
		Superseded: superseded,
	}
}

func (a *LandingsAssembler) recompute(vesselId vessel.Id, events []event.Event) []NewTrip {
	landings := make([]event.Event, 0, len(events))
	for _, e := range events {
		if vessel.Id(e.VesselId) != vesselId || e.Kind != event.Landing {
			continue
		}
		if e.OccurrenceTimestamp.Before(epoch) {
			continue
		}
		landings = append(landings, e)
	}
	deduped := event.Dedupe(landings)
	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].OccurrenceTimestamp.Before(deduped[j].OccurrenceTimestamp)
	})

	boundaries := make([]event.Event, 0, len(deduped))
	for _, e := range deduped {
		if len(boundaries) > 0 && sameCalendarDay(boundaries[len(boundaries)-1].OccurrenceTimestamp, e.OccurrenceTimestamp) {
			boundaries[len(boundaries)-1] = e
			continue
		}
		boundaries = append(boundaries, e)
	}
	if len(boundaries) == 0 {
		return nil
	}

	trips := make([]NewTrip, 0, len(boundaries))
	start := boundaries[0].OccurrenceTimestamp.AddDate(0, 0, -1)
	for _, b := range boundaries {
		period, _ := daterange.New(start, b.OccurrenceTimestamp)
		trips = append(trips, NewTrip{
			VesselId:        vesselId,
			Period:          period,
			LandingCoverage: period,
			Assembler:       Landings,
		})
		start = b.OccurrenceTimestamp
	}
	return trips
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
