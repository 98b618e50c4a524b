package matrix

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Features is the filter/projection contract an external consumer (the
// matrix cache RPC, the query façade) passes to the engine: an active
// dimension plus optional filter sets for every other dimension and for
// vessel id. Sets are stored as roaring bitmaps so large filter lists
// (hundreds of catch locations, thousands of vessel ids) stay compact.
type Features struct {
	ActiveFilter       Dimension
	MonthBuckets       *roaring.Bitmap
	GearGroups         *roaring.Bitmap
	SpeciesGroups      *roaring.Bitmap
	VesselLengthGroups *roaring.Bitmap
	CatchLocations     *roaring.Bitmap
	VesselIds          *roaring.Bitmap
}

func (f Features) setFor(d Dimension) *roaring.Bitmap {
	switch d {
	case MonthBucket:
		return f.MonthBuckets
	case GearGroup:
		return f.GearGroups
	case SpeciesGroup:
		return f.SpeciesGroups
	case VesselLengthGroup:
		return f.VesselLengthGroups
	case CatchLocation:
		return f.CatchLocations
	default:
		return nil
	}
}

// Matches reports whether a fact row's dimension value passes this
// query's filters, excluding the dimensions matching the active filter
// or xAxis so as to preserve marginal totals along those axes.
func (f Features) Matches(d Dimension, value int, xAxis Dimension) bool {
	if d == f.ActiveFilter || d == xAxis {
		return true
	}
	set := f.setFor(d)
	if set == nil || set.IsEmpty() {
		return true
	}
	return set.Contains(uint32(value))
}

// MatchesVessel applies the vessel-id filter, which is never excluded
// since no axis of the cube is keyed by vessel.
func (f Features) MatchesVessel(vesselId int64) bool {
	if f.VesselIds == nil || f.VesselIds.IsEmpty() {
		return true
	}
	return f.VesselIds.Contains(uint32(vesselId))
}

// Row is one source fact (a haul or landing allocation) projected onto
// the cube's coordinate space, prior to filtering and aggregation.
type Row struct {
	VesselId          int64
	MonthBucket       int
	GearGroup         int
	SpeciesGroup      int
	VesselLengthGroup int
	CatchLocation     int
	LivingWeight      float64
}

func (r Row) valueFor(d Dimension) int {
	switch d {
	case MonthBucket:
		return r.MonthBucket
	case GearGroup:
		return r.GearGroup
	case SpeciesGroup:
		return r.SpeciesGroup
	case VesselLengthGroup:
		return r.VesselLengthGroup
	case CatchLocation:
		return r.CatchLocation
	default:
		return 0
	}
}

// Cube holds one source's (hauls or landings) matrices, keyed by which
// non-location dimension is the matrix's own x-axis. Per spec.md's query
// shape: for three of the four non-location matrices the y-axis is the
// active filter's dimension and the x-axis is the matrix's own
// dimension; for the matrix whose x-axis equals the active filter, the
// y-axis switches to CatchLocation.
type Cube struct {
	Source  Source
	widths  map[Dimension]int
	rows    []Row
}

// NewCube builds an empty cube. sizes gives each non-location
// dimension's cardinality plus CatchLocation's, used to size the dense
// matrices.
func NewCube(source Source, sizes map[Dimension]int) *Cube {
	return &Cube{Source: source, widths: sizes}
}

func (c *Cube) Ingest(rows []Row) {
	c.rows = append(c.rows, rows...)
}

func (c *Cube) Reset() {
	c.rows = nil
}

// Query builds the four 2D matrices for f.ActiveFilter and computes
// their summed-area tables, ready for RangeSum.
func (c *Cube) Query(f Features) map[Dimension]*Matrix {
	result := make(map[Dimension]*Matrix, len(NonLocationDimensions))
	for _, xAxis := range NonLocationDimensions {
		yAxis := f.ActiveFilter
		if xAxis == f.ActiveFilter {
			yAxis = CatchLocation
		}
		width := c.widths[xAxis]
		height := c.widths[yAxis]
		m := NewMatrix(width, height)
		result[xAxis] = m
	}

	for _, r := range c.rows {
		if !f.MatchesVessel(r.VesselId) {
			continue
		}
		for _, xAxis := range NonLocationDimensions {
			yAxis := f.ActiveFilter
			if xAxis == f.ActiveFilter {
				yAxis = CatchLocation
			}
			if !f.Matches(MonthBucket, r.MonthBucket, xAxis) ||
				!f.Matches(GearGroup, r.GearGroup, xAxis) ||
				!f.Matches(SpeciesGroup, r.SpeciesGroup, xAxis) ||
				!f.Matches(VesselLengthGroup, r.VesselLengthGroup, xAxis) ||
				!f.Matches(CatchLocation, r.CatchLocation, xAxis) {
				continue
			}
			result[xAxis].Add(r.valueFor(xAxis), r.valueFor(yAxis), r.LivingWeight)
		}
	}

	for _, m := range result {
		m.ComputeSummedAreaTable()
	}
	return result
}
