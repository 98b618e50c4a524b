// Package haul models a single deployment-and-retrieval of fishing gear
// and its catch composition.
package haul

import (
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/shared"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

type Id int64

// GearGroup buckets a haul's gear code for matrix aggregation (~15
// codes in the full taxonomy; callers needing the mapping supply it via
// a reference table, not hardcoded here).
type GearGroup string

// SpeciesGroup buckets a catch's species code (~60 codes).
type SpeciesGroup string

// Catch is one species' share of a haul's or landing's weight.
type Catch struct {
	Species      string
	SpeciesGroup SpeciesGroup
	LivingWeight float64
}

// WhaleCatch records a cetacean bycatch entry, tracked separately from
// the commercial species breakdown.
type WhaleCatch struct {
	Species      string
	LivingWeight float64
	Grenades     int
}

// Haul is a single gear deployment. Invariant: StopTimestamp must not
// precede StartTimestamp, and every Catch.LivingWeight must be
// non-negative — both are enforced in New.
type Haul struct {
	Id              Id
	VesselId        vessel.Id
	Gear            string
	GearGroup       GearGroup
	StartTimestamp  time.Time
	StopTimestamp   time.Time
	StartPoint      catchlocation.Point
	StopPoint       catchlocation.Point
	Catches         []Catch
	WhaleCatches    []WhaleCatch
}

func New(h Haul) (Haul, error) {
	if h.StopTimestamp.Before(h.StartTimestamp) {
		return Haul{}, shared.NewTemporalOrderingError("haul stop precedes start")
	}
	for _, c := range h.Catches {
		if c.LivingWeight < 0 {
			return Haul{}, shared.NewTemporalOrderingError("haul catch living weight is negative")
		}
	}
	return h, nil
}

// TotalLivingWeight sums all catch weights on the haul, excluding whale
// bycatch.
func (h Haul) TotalLivingWeight() float64 {
	var total float64
	for _, c := range h.Catches {
		total += c.LivingWeight
	}
	return total
}

// Duration is the haul's active interval length.
func (h Haul) Duration() time.Duration {
	return h.StopTimestamp.Sub(h.StartTimestamp)
}

// ContainsTimestamp reports whether t falls inside [Start, Stop], used
// when tagging positions with their active gear.
func (h Haul) ContainsTimestamp(t time.Time) bool {
	return !t.Before(h.StartTimestamp) && !t.After(h.StopTimestamp)
}
