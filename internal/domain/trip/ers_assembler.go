package trip

import (
	"sort"
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/daterange"
	"github.com/kyogre-go/fisheries/internal/domain/event"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// ErsAssembler derives trip boundaries from DEP/POR (departure/arrival)
// event pairs. Each run recomputes the complete canonical trip set from
// the vessel's full DEP/POR history, so that a trip reconstructed from
// the same event stream twice is byte-identical on its non-derived
// fields (the idempotency/round-trip properties) — conflict detection
// is then just a diff against what is currently persisted.
type ErsAssembler struct {
	// LandingCoverageExtension absorbs late landings declared after a
	// vessel's most recent trip arrival. Its exact value is
	// implementation/configuration specific (spec open question),
	// surfaced here rather than hardcoded.
	LandingCoverageExtension time.Duration
}

func NewErsAssembler(landingCoverageExtension time.Duration) *ErsAssembler {
	return &ErsAssembler{LandingCoverageExtension: landingCoverageExtension}
}

// epoch is the Unix epoch instant; DEP/POR events occurring before it are
// discarded outright.
var epoch = time.Unix(0, 0).UTC()

// Assemble computes the full canonical ERS trip set for one vessel from
// its entire DEP/POR event history and compares it against the trips
// currently persisted, returning a TripSet describing the change.
//
// existing must be sorted by Period.Start ascending and contain only
// trips for vesselId under the ERS assembler.
func (a *ErsAssembler) Assemble(vesselId vessel.Id, events []event.Event, existing []Trip) TripSet {
	computed := a.recompute(vesselId, events)

	if len(existing) == 0 {
		return TripSet{VesselId: vesselId, Assembler: ERS, Strategy: StrategyReplace, Trips: computed}
	}

	superseded, toInsert, conflict := diffTrips(existing, computed)

	return TripSet{
		VesselId:   vesselId,
		Assembler:  ERS,
		Strategy:   StrategyReplace,
		Trips:      toInsert,
		Conflict:   conflict,
		Superseded: superseded,
	}
}

// recompute rebuilds the complete DEP/POR trip sequence for one vessel.
func (a *ErsAssembler) recompute(vesselId vessel.Id, events []event.Event) []NewTrip {
	relevant := make([]event.Event, 0, len(events))
	for _, e := range events {
		if vessel.Id(e.VesselId) != vesselId {
			continue
		}
		if e.Kind != event.Departure && e.Kind != event.Arrival {
			continue
		}
		if e.OccurrenceTimestamp.Before(epoch) {
			continue
		}
		relevant = append(relevant, e)
	}
	deduped := event.Dedupe(relevant)
	sort.Slice(deduped, func(i, j int) bool {
		if deduped[i].OccurrenceTimestamp.Equal(deduped[j].OccurrenceTimestamp) {
			// Departures sort before arrivals at an identical instant so a
			// DEP/POR pair sharing a timestamp still closes a trip rather
			// than being read as an arrival-before-departure.
			return deduped[i].Kind == event.Departure && deduped[j].Kind != event.Departure
		}
		return deduped[i].OccurrenceTimestamp.Before(deduped[j].OccurrenceTimestamp)
	})

	var (
		trips      []NewTrip
		hasDeparted bool
		openStart  *time.Time
		openPort   *string
	)

	closeTrip := func(end time.Time, endPort *string) {
		period, _ := daterange.New(*openStart, end)
		trips = append(trips, NewTrip{
			VesselId:      vesselId,
			Period:        period,
			Assembler:     ERS,
			StartPortCode: openPort,
			EndPortCode:   endPort,
		})
		openStart = nil
		openPort = nil
	}

	for _, e := range deduped {
		switch e.Kind {
		case event.Departure:
			hasDeparted = true
			ts := e.OccurrenceTimestamp
			openStart = &ts
			if e.PortCode != "" {
				pc := e.PortCode
				openPort = &pc
			}
		case event.Arrival:
			if !hasDeparted {
				continue
			}
			var endPort *string
			if e.PortCode != "" {
				pc := e.PortCode
				endPort = &pc
			}
			if openStart != nil {
				closeTrip(e.OccurrenceTimestamp, endPort)
				continue
			}
			if len(trips) > 0 {
				last := &trips[len(trips)-1]
				last.Period = last.Period.SetEnd(e.OccurrenceTimestamp)
				last.EndPortCode = endPort
			}
		}
	}

	for i := range trips {
		var end time.Time
		if i+1 < len(trips) {
			end = trips[i+1].Period.Start()
		} else {
			end = trips[i].Period.End().Add(a.LandingCoverageExtension)
		}
		coverage, _ := daterange.NewWithBounds(trips[i].Period.Start(), end, daterange.Inclusive, daterange.Exclusive)
		trips[i].LandingCoverage = coverage
	}

	return trips
}

// diffTrips scopes a Replace to the trips that actually changed: it finds
// the longest matching prefix and suffix (by Period equality, existing
// and computed both being start-ascending) and reports only the middle
// span as superseded/to-insert, leaving every trip outside that span —
// and its persisted identity — untouched. Returns nil, nil, nil when
// existing and computed are identical, so a steady-state re-run writes
// nothing.
func diffTrips(existing []Trip, computed []NewTrip) (superseded []Id, toInsert []NewTrip, conflict *Conflict) {
	n, m := len(existing), len(computed)

	prefix := 0
	for prefix < n && prefix < m && existing[prefix].Period.Equal(computed[prefix].Period) {
		prefix++
	}

	suffix := 0
	for suffix < n-prefix && suffix < m-prefix &&
		existing[n-1-suffix].Period.Equal(computed[m-1-suffix].Period) {
		suffix++
	}

	supersededTrips := existing[prefix : n-suffix]
	toInsert = computed[prefix : m-suffix]

	if len(supersededTrips) == 0 && len(toInsert) == 0 {
		return nil, nil, nil
	}

	superseded = make([]Id, len(supersededTrips))
	for i, t := range supersededTrips {
		superseded[i] = t.Id
	}

	var window Conflict
	first := true
	extend := func(start, end time.Time) {
		if first {
			window.WindowStart, window.WindowEnd = start, end
			first = false
			return
		}
		if start.Before(window.WindowStart) {
			window.WindowStart = start
		}
		if end.After(window.WindowEnd) {
			window.WindowEnd = end
		}
	}
	for _, t := range supersededTrips {
		extend(t.Period.Start(), t.Period.End())
	}
	for _, t := range toInsert {
		extend(t.Period.Start(), t.Period.End())
	}
	conflict = &window

	return superseded, toInsert, conflict
}
