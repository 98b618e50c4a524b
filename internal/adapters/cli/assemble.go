package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kyogre-go/fisheries/internal/domain/trip"
	"github.com/kyogre-go/fisheries/internal/domain/vessel"
)

var assembleVesselId int64

// NewAssembleCommand runs the trip assemblers, either for every vessel
// with pending events or for a single named vessel.
func NewAssembleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble vessel trips from accumulated ERS and landing events",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			assembler := a.tripAssembler()
			defer assembler.Shutdown()

			if assembleVesselId != 0 {
				id := vessel.Id(assembleVesselId)
				if err := assembler.RunVessel(cmd.Context(), id, trip.ERS); err != nil {
					return fmt.Errorf("ERS assembly failed for vessel %d: %w", assembleVesselId, err)
				}
				if err := assembler.RunVessel(cmd.Context(), id, trip.Landings); err != nil {
					return fmt.Errorf("landings assembly failed for vessel %d: %w", assembleVesselId, err)
				}
				fmt.Printf("assembled trips for vessel %d\n", assembleVesselId)
				return nil
			}

			if err := assembler.RunAll(cmd.Context()); err != nil {
				return fmt.Errorf("trip assembly run failed: %w", err)
			}
			fmt.Println("assembled trips for all vessels with pending events")
			return nil
		},
	}
	cmd.Flags().Int64Var(&assembleVesselId, "vessel", 0, "Restrict assembly to a single vessel ID (default: all pending vessels)")
	return cmd
}
