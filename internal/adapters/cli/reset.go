package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

var (
	resetVesselId  int64
	resetAssembler string
)

// NewResetCommand discards a vessel's assembled trips for one assembler
// kind, so the next assemble run rebuilds them from full event history.
func NewResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Queue a vessel's assembled trips for a full rebuild",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseAssemblerKind(resetAssembler)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			id := vessel.Id(resetVesselId)
			if err := a.trips.QueueReset(cmd.Context(), id, kind); err != nil {
				return fmt.Errorf("failed to queue reset for vessel %d: %w", resetVesselId, err)
			}
			fmt.Printf("queued %s trip reset for vessel %d\n", kind, resetVesselId)
			return nil
		},
	}
	cmd.Flags().Int64Var(&resetVesselId, "vessel", 0, "Vessel ID to reset")
	cmd.Flags().StringVar(&resetAssembler, "assembler", "", "Assembler to reset: ers or landings")
	_ = cmd.MarkFlagRequired("vessel")
	_ = cmd.MarkFlagRequired("assembler")
	return cmd
}

func parseAssemblerKind(s string) (trip.AssemblerKind, error) {
	switch s {
	case "ers":
		return trip.ERS, nil
	case "landings":
		return trip.Landings, nil
	default:
		return trip.Unknown, fmt.Errorf("unknown assembler %q: expected ers or landings", s)
	}
}
