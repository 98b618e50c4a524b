// Package trip implements the per-vessel trip assemblers (ERS and
// Landings variants) and the Trip aggregate they produce.
package trip

import (
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/daterange"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

type Id int64

// AssemblerKind selects which of the two independent event streams a
// trip's boundaries were derived from.
type AssemblerKind int

const (
	Unknown AssemblerKind = iota
	ERS
	Landings
)

func (a AssemblerKind) String() string {
	if a == ERS {
		return "ers"
	}
	if a == Landings {
		return "landings"
	}
	return "unknown"
}

// NewTrip is the assembler's output for one trip before it is assigned a
// persisted identity.
type NewTrip struct {
	VesselId        vessel.Id
	Period          daterange.DateRange
	LandingCoverage daterange.DateRange
	Assembler       AssemblerKind
	StartPortCode   *string
	EndPortCode     *string
}

// Trip is the canonical, persisted trip aggregate. Identity is fixed on
// creation; only derived fields (PrecisionPeriod, Distance,
// TargetSpecies) are mutated afterward, via TripUpdate.
type Trip struct {
	Id              Id
	VesselId        vessel.Id
	Period          daterange.DateRange
	LandingCoverage daterange.DateRange
	PrecisionPeriod *daterange.DateRange
	Assembler       AssemblerKind
	StartPortCode   *string
	EndPortCode     *string
	TargetSpecies   *string
	Distance        *float64
	FuelLiters      *float64
}

// TripUpdate carries the derived fields a precision/position/fuel pass
// computes for an already-assembled trip. Applying it never changes the
// trip's identity or its Period/LandingCoverage.
type TripUpdate struct {
	TripId          Id
	PrecisionPeriod *daterange.DateRange
	Distance        *float64
	FuelLiters      *float64
	TargetSpecies   *string
}

func (t *Trip) Apply(u TripUpdate) {
	if u.PrecisionPeriod != nil {
		t.PrecisionPeriod = u.PrecisionPeriod
	}
	if u.Distance != nil {
		t.Distance = u.Distance
	}
	if u.FuelLiters != nil {
		t.FuelLiters = u.FuelLiters
	}
	if u.TargetSpecies != nil {
		t.TargetSpecies = u.TargetSpecies
	}
}

// ConflictStrategy controls how an assembler run reconciles newly
// produced trips against what is already persisted for a vessel.
type ConflictStrategy int

const (
	// StrategyError bubbles the conflict up and preserves current state.
	StrategyError ConflictStrategy = iota
	// StrategyReplace deletes the trips overlapping the conflict window
	// and inserts the newly computed ones in their place.
	StrategyReplace
	// StrategyReplaceAll deletes every trip for the vessel under this
	// assembler and reconstructs from scratch (queued reset).
	StrategyReplaceAll
)

// Conflict describes the window of previously-assembled state a new run
// invalidated.
type Conflict struct {
	WindowStart time.Time
	WindowEnd   time.Time
}

// TripSet is the atomic unit of change a single assembler run produces:
// the caller applies it as one transaction keyed by vessel + assembler.
type TripSet struct {
	VesselId  vessel.Id
	Assembler AssemblerKind
	Strategy  ConflictStrategy
	Trips     []NewTrip
	Conflict  *Conflict
	Superseded []Id
}

// State is the per-(vessel, assembler) assembly state machine position.
type State int

const (
	StateFresh State = iota
	StateSteady
	StateConflict
	StateReset
)
