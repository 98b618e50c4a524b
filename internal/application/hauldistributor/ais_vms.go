// Package hauldistributor reallocates a haul's living weight across the
// catch-location polygons a vessel crossed during the haul, in
// proportion to the count of AIS/VMS positions observed in each
// polygon — not by polygon area or time spent.
package hauldistributor

import (
	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/position"
)

// Allocation is one (catch location, factor) pair for a distributed
// haul; the sum of factors across a haul's allocations is 1.
type Allocation struct {
	CatchLocation catchlocation.Id
	Factor        float64
	Weight        float64
}

// AisVms distributes hauls using the vessel's fused AIS/VMS track.
type AisVms struct {
	index *catchlocation.Index
}

func NewAisVms(index *catchlocation.Index) *AisVms {
	return &AisVms{index: index}
}

// Distribute returns the catch-location allocations for one haul given
// the positions falling inside its interval. If the haul's own
// start-point does not map to any polygon, distribution proceeds from
// positions alone — the haul is never left unallocated as long as at
// least one position resolves to a polygon.
func (a *AisVms) Distribute(h haul.Haul, positionsInInterval []position.Position) []Allocation {
	counts := make(map[catchlocation.Id]int)
	total := 0
	for _, p := range positionsInInterval {
		if !h.ContainsTimestamp(p.Timestamp) {
			continue
		}
		loc, ok := a.index.Locate(p.Point)
		if !ok {
			continue
		}
		counts[loc]++
		total++
	}

	if total == 0 {
		if loc, ok := a.index.Locate(h.StartPoint); ok {
			return []Allocation{{CatchLocation: loc, Factor: 1, Weight: h.TotalLivingWeight()}}
		}
		return nil
	}

	weight := h.TotalLivingWeight()
	allocations := make([]Allocation, 0, len(counts))
	for loc, count := range counts {
		factor := float64(count) / float64(total)
		allocations = append(allocations, Allocation{
			CatchLocation: loc,
			Factor:        factor,
			Weight:        weight * factor,
		})
	}
	return allocations
}
