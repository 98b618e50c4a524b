// Package position fuses AIS and VMS point streams into a single
// ordered track and refines trip boundaries against it.
package position

import (
	"sort"
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/catchlocation"
	"github.com/kyogre-go/fisheries/internal/domain/haul"
)

// Source identifies which feed a position report came from.
type Source int

const (
	AIS Source = iota + 1
	VMS
)

// Position is one point on a fused vessel track. CumulativeCargoWeight
// and ActiveGear are computed lazily for a trip context at read time,
// never stored per point.
type Position struct {
	Timestamp             time.Time
	Point                 catchlocation.Point
	Course                *float64
	Speed                 *float64
	DistanceToShore        float64
	Source                Source
	ActiveGear            *haul.GearGroup
	CumulativeCargoWeight  float64
	PrunedBy              *string
}

// Fuse interleaves AIS and VMS points into a single stream ordered
// strictly ascending by timestamp, collapsing duplicate (source,
// timestamp) pairs to one point. Points with syntactically invalid
// lat/lon are kept (never dropped) but will never match a catch-location
// polygon.
func Fuse(points []Position) []Position {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	seen := make(map[dedupeKey]struct{}, len(points))
	out := make([]Position, 0, len(points))
	for _, p := range points {
		key := dedupeKey{p.Source, p.Timestamp.UnixNano()}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

type dedupeKey struct {
	source Source
	nanos  int64
}

// TagActiveGear assigns each position the gear group of the haul whose
// interval contains its timestamp. On ties (multiple matching hauls) the
// haul spanning the longest interval wins.
func TagActiveGear(points []Position, hauls []haul.Haul) []Position {
	out := make([]Position, len(points))
	copy(out, points)
	for i := range out {
		var best *haul.Haul
		for j := range hauls {
			h := &hauls[j]
			if !h.ContainsTimestamp(out[i].Timestamp) {
				continue
			}
			if best == nil || h.Duration() > best.Duration() {
				best = h
			}
		}
		if best != nil {
			g := best.GearGroup
			out[i].ActiveGear = &g
		}
	}
	return out
}

// TagCumulativeCargoWeight assigns each position the running cargo
// weight aboard at that instant: the sum of all prior trips' landed
// weight, plus, within the current trip, each haul's total catch spread
// evenly across the positions that fall inside its interval.
func TagCumulativeCargoWeight(points []Position, hauls []haul.Haul, priorLandedWeight float64) []Position {
	out := make([]Position, len(points))
	copy(out, points)

	type share struct {
		perPosition float64
		haulEnd     time.Time
	}
	shares := make([]share, len(hauls))
	for hi, h := range hauls {
		count := 0
		for _, p := range out {
			if h.ContainsTimestamp(p.Timestamp) {
				count++
			}
		}
		if count == 0 {
			continue
		}
		shares[hi] = share{perPosition: h.TotalLivingWeight() / float64(count), haulEnd: h.StopTimestamp}
	}

	running := priorLandedWeight
	for i := range out {
		for hi, h := range hauls {
			if h.ContainsTimestamp(out[i].Timestamp) {
				running += shares[hi].perPosition
			}
		}
		out[i].CumulativeCargoWeight = running
	}
	return out
}
