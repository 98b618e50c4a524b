// Package query implements the typed query façade (C8): filterable,
// paginated query objects for trips, hauls, landings, matrices and
// tracks.
package query

import (
	"context"
	"time"

	"github.com/kyogre-go/fisheries/internal/domain/daterange"
	"github.com/kyogre-go/fisheries/internal/domain/haul"
	"github.com/kyogre-go/fisheries/internal/domain/landing"
	"github.com/kyogre-go/fisheries/internal/domain/matrix"
	"github.com/kyogre-go/fisheries/internal/domain/position"
	"github.com/kyogre-go/fisheries/internal/domain/ports"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
	"github.com/samber/lo"
)

// Ordering selects ascending or descending row order.
type Ordering int

const (
	Ascending Ordering = iota
	Descending
)

// SortBy selects which field a trip/haul/landing list is sorted by.
type SortBy int

const (
	SortByStart SortBy = iota
	SortByEnd
	SortByWeight
)

// Page bounds a list query's result size.
type Page struct {
	Limit  int
	Offset int
}

// TripFilter carries every optional constraint a trip query may apply.
type TripFilter struct {
	VesselIds []vessel.Id
	Start     *time.Time
	End       *time.Time
	Ordering  Ordering
	SortBy    SortBy
	Page      Page
}

// Facade answers trip/haul/landing/matrix/track queries. List queries
// load their full result set into memory before filtering, sorting and
// paginating it; they do not stream.
type Facade struct {
	trips     ports.TripRepository
	hauls     ports.HaulRepository
	landings  ports.LandingRepository
	positions ports.PositionRepository
	cache     ports.MatrixCache
	missPolicy matrix.CacheMissPolicy
}

func NewFacade(
	trips ports.TripRepository,
	hauls ports.HaulRepository,
	landings ports.LandingRepository,
	positions ports.PositionRepository,
	cache ports.MatrixCache,
	missPolicy matrix.CacheMissPolicy,
) *Facade {
	return &Facade{
		trips: trips, hauls: hauls, landings: landings, positions: positions,
		cache: cache, missPolicy: missPolicy,
	}
}

// Trips returns the trips for the filtered vessels/assembler. It loads
// every trip of each listed vessel and applies the time-range filter,
// ordering and pagination in memory.
func (f *Facade) Trips(ctx context.Context, assembler trip.AssemblerKind, filter TripFilter) ([]trip.Trip, error) {
	var all []trip.Trip
	ids := filter.VesselIds
	if len(ids) == 0 {
		return nil, nil
	}
	for _, id := range ids {
		ts, err := f.trips.ListByVessel(ctx, id, assembler)
		if err != nil {
			return nil, err
		}
		all = append(all, ts...)
	}

	all = lo.Filter(all, func(t trip.Trip, _ int) bool {
		if filter.Start != nil && t.Period.End().Before(*filter.Start) {
			return false
		}
		if filter.End != nil && t.Period.Start().After(*filter.End) {
			return false
		}
		return true
	})

	sortTrips(all, filter.SortBy, filter.Ordering)
	return paginate(all, filter.Page), nil
}

func sortTrips(trips []trip.Trip, sortBy SortBy, ordering Ordering) {
	less := func(i, j int) bool {
		var cmp bool
		switch sortBy {
		case SortByEnd:
			cmp = trips[i].Period.End().Before(trips[j].Period.End())
		default:
			cmp = trips[i].Period.Start().Before(trips[j].Period.Start())
		}
		if ordering == Descending {
			return !cmp
		}
		return cmp
	}
	insertionSort(trips, less)
}

func insertionSort[T any](s []T, less func(i, j int) bool) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func paginate[T any](items []T, p Page) []T {
	if p.Offset >= len(items) {
		return nil
	}
	end := len(items)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return items[p.Offset:end]
}

// HaulsForTrip returns the hauls associated with t: a haul is associated
// with a trip iff its interval intersects the trip's landing coverage.
func (f *Facade) HaulsForTrip(ctx context.Context, t trip.Trip) ([]haul.Haul, error) {
	hs, err := f.hauls.ListByVesselAndRange(ctx, t.VesselId, t.LandingCoverage.Start(), t.LandingCoverage.End())
	if err != nil {
		return nil, err
	}
	return lo.Filter(hs, func(h haul.Haul, _ int) bool {
		hRange, err := daterange.New(h.StartTimestamp, h.StopTimestamp)
		if err != nil {
			return false
		}
		return t.LandingCoverage.Overlaps(hRange)
	}), nil
}

// LandingsForTrip returns the landings whose timestamp falls within the
// trip's landing coverage.
func (f *Facade) LandingsForTrip(ctx context.Context, t trip.Trip) ([]landing.Landing, error) {
	ls, err := f.landings.ListByVesselAndRange(ctx, t.VesselId, t.LandingCoverage.Start(), t.LandingCoverage.End())
	if err != nil {
		return nil, err
	}
	return lo.Filter(ls, func(l landing.Landing, _ int) bool {
		return t.LandingCoverage.Contains(l.LandingTimestamp)
	}), nil
}

// Track returns a trip's fused AIS/VMS position stream.
func (f *Facade) Track(ctx context.Context, t trip.Trip) ([]position.Position, error) {
	raw, err := f.positions.ListByVesselAndRange(ctx, t.VesselId, t.Period.Start(), t.Period.End())
	if err != nil {
		return nil, err
	}
	return position.Fuse(raw), nil
}

// Matrix answers a matrix query from the columnar cache. On cache
// unavailability: MissOnError returns (nil, nil) so the caller can fall
// back to the primary store; ReturnError surfaces the error.
func (f *Facade) Matrix(ctx context.Context, source matrix.Source, features matrix.Features) (map[matrix.Dimension]*matrix.Matrix, error) {
	result, err := f.cache.Query(ctx, source, features)
	if err != nil {
		if f.missPolicy == matrix.MissOnError {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

