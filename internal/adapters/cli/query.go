package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kyogre-go/fisheries/internal/application/query"
	"github.com/kyogre-go/fisheries/internal/domain/matrix"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

// NewQueryCommand groups the read-side commands that exercise the query
// façade: trips, hauls, landings, track, and matrix.
func NewQueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Answer trip, haul, landing, track and matrix queries",
	}
	cmd.AddCommand(newQueryTripsCommand())
	cmd.AddCommand(newQueryTrackCommand())
	cmd.AddCommand(newQueryMatrixCommand())
	return cmd
}

var (
	queryTripsVesselIds []int64
	queryTripsAssembler string
	queryTripsSince     string
	queryTripsUntil     string
	queryTripsLimit     int
	queryTripsOffset    int
	queryTripsDesc      bool
)

func newQueryTripsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "List assembled trips for one or more vessels",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(queryTripsVesselIds) == 0 {
				return fmt.Errorf("at least one --vessel is required")
			}
			kind, err := parseAssemblerKind(queryTripsAssembler)
			if err != nil {
				return err
			}

			var start, end *time.Time
			if queryTripsSince != "" {
				t, err := time.Parse(time.RFC3339, queryTripsSince)
				if err != nil {
					return fmt.Errorf("invalid --since value %q: %w", queryTripsSince, err)
				}
				start = &t
			}
			if queryTripsUntil != "" {
				t, err := time.Parse(time.RFC3339, queryTripsUntil)
				if err != nil {
					return fmt.Errorf("invalid --until value %q: %w", queryTripsUntil, err)
				}
				end = &t
			}

			ordering := query.Ascending
			if queryTripsDesc {
				ordering = query.Descending
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ids := make([]vessel.Id, len(queryTripsVesselIds))
			for i, id := range queryTripsVesselIds {
				ids[i] = vessel.Id(id)
			}

			facade := a.queryFacade()
			trips, err := facade.Trips(cmd.Context(), kind, query.TripFilter{
				VesselIds: ids,
				Start:     start,
				End:       end,
				Ordering:  ordering,
				SortBy:    query.SortByStart,
				Page:      query.Page{Limit: queryTripsLimit, Offset: queryTripsOffset},
			})
			if err != nil {
				return fmt.Errorf("trip query failed: %w", err)
			}

			for _, t := range trips {
				fmt.Printf("vessel=%d trip=%d start=%s end=%s\n",
					t.VesselId, t.Id, t.Period.Start().Format(time.RFC3339), t.Period.End().Format(time.RFC3339))
			}
			fmt.Printf("%d trip(s)\n", len(trips))
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&queryTripsVesselIds, "vessel", nil, "Vessel ID to include (repeatable)")
	cmd.Flags().StringVar(&queryTripsAssembler, "assembler", "ers", "Assembler whose trips to query: ers or landings")
	cmd.Flags().StringVar(&queryTripsSince, "since", "", "Only trips ending after this RFC3339 timestamp")
	cmd.Flags().StringVar(&queryTripsUntil, "until", "", "Only trips starting before this RFC3339 timestamp")
	cmd.Flags().IntVar(&queryTripsLimit, "limit", 50, "Maximum number of trips to return (0 = unbounded)")
	cmd.Flags().IntVar(&queryTripsOffset, "offset", 0, "Number of trips to skip before the returned page")
	cmd.Flags().BoolVar(&queryTripsDesc, "desc", false, "Sort descending by trip start instead of ascending")
	return cmd
}

var (
	queryTrackVesselId int64
	queryTrackTripId   int64
)

func newQueryTrackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Print a trip's fused AIS/VMS position track",
		RunE: func(cmd *cobra.Command, args []string) error {
			if queryTrackVesselId == 0 || queryTrackTripId == 0 {
				return fmt.Errorf("both --vessel and --trip are required")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			facade := a.queryFacade()
			trips, err := facade.Trips(cmd.Context(), trip.ERS, query.TripFilter{
				VesselIds: []vessel.Id{vessel.Id(queryTrackVesselId)},
			})
			if err != nil {
				return fmt.Errorf("trip lookup failed: %w", err)
			}

			var found *trip.Trip
			for i := range trips {
				if int64(trips[i].Id) == queryTrackTripId {
					found = &trips[i]
					break
				}
			}
			if found == nil {
				return fmt.Errorf("trip %d not found for vessel %d", queryTrackTripId, queryTrackVesselId)
			}

			track, err := facade.Track(cmd.Context(), *found)
			if err != nil {
				return fmt.Errorf("track query failed: %w", err)
			}
			for _, p := range track {
				fmt.Printf("t=%s lat=%.5f lon=%.5f\n", p.Timestamp.Format(time.RFC3339), p.Point.Lat, p.Point.Lon)
			}
			fmt.Printf("%d position(s)\n", len(track))
			return nil
		},
	}
	cmd.Flags().Int64Var(&queryTrackVesselId, "vessel", 0, "Vessel ID owning the trip")
	cmd.Flags().Int64Var(&queryTrackTripId, "trip", 0, "Trip ID to print the track for")
	return cmd
}

var (
	queryMatrixSource string
	queryMatrixActive string
)

func newQueryMatrixCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print range-sum totals from the aggregation matrix cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := parseMatrixSource(queryMatrixSource)
			if err != nil {
				return err
			}
			active, err := parseDimension(queryMatrixActive)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			facade := a.queryFacade()
			result, err := facade.Matrix(cmd.Context(), source, matrix.Features{ActiveFilter: active})
			if err != nil {
				return fmt.Errorf("matrix query failed: %w", err)
			}
			if result == nil {
				fmt.Println("matrix cache unavailable; fall back to the primary store")
				return nil
			}

			for _, dim := range matrix.NonLocationDimensions {
				m := result[dim]
				if m == nil {
					continue
				}
				total, err := m.RangeSum(0, 0, m.Width-1, m.Height-1)
				if err != nil {
					return fmt.Errorf("range sum failed for %s: %w", dim, err)
				}
				fmt.Printf("%s: %dx%d total=%.1f\n", dim, m.Width, m.Height, total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&queryMatrixSource, "source", "hauls", "Matrix source: hauls or landings")
	cmd.Flags().StringVar(&queryMatrixActive, "active", "month_bucket", "Active filter dimension: month_bucket, gear_group, species_group, vessel_length_group or catch_location")
	return cmd
}

func parseMatrixSource(s string) (matrix.Source, error) {
	switch s {
	case "hauls":
		return matrix.Hauls, nil
	case "landings":
		return matrix.Landings, nil
	default:
		return 0, fmt.Errorf("unknown matrix source %q: want hauls or landings", s)
	}
}

func parseDimension(s string) (matrix.Dimension, error) {
	switch s {
	case "month_bucket":
		return matrix.MonthBucket, nil
	case "gear_group":
		return matrix.GearGroup, nil
	case "species_group":
		return matrix.SpeciesGroup, nil
	case "vessel_length_group":
		return matrix.VesselLengthGroup, nil
	case "catch_location":
		return matrix.CatchLocation, nil
	default:
		return 0, fmt.Errorf("unknown dimension %q", s)
	}
}
