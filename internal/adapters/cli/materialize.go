package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

var (
	materializeVesselId int64
	materializeSince    string
	materializeUntil    string
)

// NewMaterializeCommand projects one vessel's distributed hauls and
// landings into the primary store's pre-aggregated matrix fact rows,
// so the next refresh cycle picks up the change. Without --vessel it
// runs for every vessel with pending events.
func NewMaterializeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Project distributed hauls and landings into the matrix fact tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseWindow(materializeSince, materializeUntil)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			materializer := a.matrixMaterializer()

			ids, err := resolveVesselIds(cmd, a, materializeVesselId)
			if err != nil {
				return err
			}

			for _, id := range ids {
				if err := materializer.MaterializeVessel(cmd.Context(), id, start, end); err != nil {
					return fmt.Errorf("materialization failed for vessel %d: %w", id, err)
				}
			}
			fmt.Printf("materialized matrix rows for %d vessel(s)\n", len(ids))
			return nil
		},
	}
	cmd.Flags().Int64Var(&materializeVesselId, "vessel", 0, "Restrict materialization to a single vessel ID (default: all vessels with pending events)")
	cmd.Flags().StringVar(&materializeSince, "since", "", "Window start, RFC3339 (default: 30 days ago)")
	cmd.Flags().StringVar(&materializeUntil, "until", "", "Window end, RFC3339 (default: now)")
	return cmd
}

func parseWindow(since, until string) (time.Time, time.Time, error) {
	end := time.Now().UTC()
	if until != "" {
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until value %q: %w", until, err)
		}
		end = t
	}

	start := end.AddDate(0, 0, -30)
	if since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since value %q: %w", since, err)
		}
		start = t
	}
	return start, end, nil
}

// resolveVesselIds returns a single-element slice around explicitVesselId
// when set, or every vessel with pending events otherwise.
func resolveVesselIds(cmd *cobra.Command, a *app, explicitVesselId int64) ([]vessel.Id, error) {
	if explicitVesselId != 0 {
		return []vessel.Id{vessel.Id(explicitVesselId)}, nil
	}
	return a.vessels.ListWithPendingEvents(cmd.Context())
}
