// Package landing models a declared offload of catch at a delivery
// point, independent of the electronic-report trip assembler.
package landing

import (
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// Id is a landing's natural key; storage keeps only the highest
// document version seen for a given Id.
type Id string

// Catch is a landing's per-species weight breakdown, carrying the full
// product/quality detail rather than a single collapsed weight.
type Catch struct {
	Species       string
	SpeciesGroup  haul.SpeciesGroup
	LivingWeight  float64
	GrossWeight   float64
	ProductWeight float64
	Quality       string
}

// Landing is one versioned delivery declaration.
type Landing struct {
	Id              Id
	Version         int
	VesselId        *vessel.Id
	LandingTimestamp time.Time
	Gear            string
	GearGroup       haul.GearGroup
	DeliveryPoint   *string
	VesselLengthGroup vessel.LengthGroup
	Catches         []Catch
}

func (l Landing) TotalLivingWeight() float64 {
	var total float64
	for _, c := range l.Catches {
		total += c.LivingWeight
	}
	return total
}

// Dedupe keeps, for each landing Id, only the highest-version record —
// the "stored row is the max-version one" invariant.
func Dedupe(landings []Landing) []Landing {
	best := make(map[Id]Landing, len(landings))
	for _, l := range landings {
		cur, ok := best[l.Id]
		if !ok || l.Version > cur.Version {
			best[l.Id] = l
		}
	}
	out := make([]Landing, 0, len(best))
	for _, l := range best {
		out = append(out, l)
	}
	return out
}
