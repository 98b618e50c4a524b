package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kyogre-go/fisheries/internal/domain/trip"
)

var (
	enrichVesselId  int64
	enrichAssembler string
)

// NewEnrichCommand runs the precision and fuel/distance passes over a
// vessel's already-assembled trips, or every vessel with pending
// events if --vessel is unset.
func NewEnrichCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Refine trip boundaries and compute fuel/distance for assembled trips",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := trip.ERS
			if enrichAssembler != "" {
				parsed, err := parseAssemblerKind(enrichAssembler)
				if err != nil {
					return err
				}
				kind = parsed
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ids, err := resolveVesselIds(cmd, a, enrichVesselId)
			if err != nil {
				return err
			}

			enricher := a.enrichmentService()
			for _, id := range ids {
				if err := enricher.RefineVessel(cmd.Context(), id, kind); err != nil {
					return fmt.Errorf("enrichment failed for vessel %d: %w", id, err)
				}
			}
			fmt.Printf("enriched trips for %d vessel(s)\n", len(ids))
			return nil
		},
	}
	cmd.Flags().Int64Var(&enrichVesselId, "vessel", 0, "Restrict enrichment to a single vessel ID (default: all vessels with pending events)")
	cmd.Flags().StringVar(&enrichAssembler, "assembler", "ers", "Assembler whose trips to enrich: ers or landings")
	return cmd
}
