package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kyogre-go/fisheries/internal/adapters/grpchealth"
	"github.com/kyogre-go/fisheries/internal/application/enrichment"
	"github.com/kyogre-go/fisheries/internal/application/matrixmaterializer"
	"github.com/kyogre-go/fisheries/internal/application/tripassembler"
	"github.com/kyogre-go/fisheries/internal/domain/trip"
)

// NewServeCommand runs the long-lived daemon: the matrix refresh loop
// and a gRPC health listener, until an interrupt or terminate signal
// arrives.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the matrix refresh loop and health listener until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			health := grpchealth.New()
			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Health.Port))
			if err != nil {
				return fmt.Errorf("failed to bind health listener: %w", err)
			}

			go func() {
				health.SetServing("", true)
				if err := health.Serve(lis); err != nil {
					a.log.Error().Err(err).Msg("health server stopped")
				}
			}()

			refresher := a.matrixRefresher()
			assembler := a.tripAssembler()
			defer assembler.Shutdown()
			materializer := a.matrixMaterializer()
			enricher := a.enrichmentService()

			go refresher.Loop(ctx)
			go runPipelineLoop(ctx, a, assembler, enricher, materializer, a.cfg.Refresh.Interval)

			a.log.Info().Int("health_port", a.cfg.Health.Port).Msg("fisheries daemon started")

			<-ctx.Done()
			a.log.Info().Msg("shutting down")
			health.Stop()
			return nil
		},
	}
}

// runPipelineLoop reassembles every vessel with pending events, then
// runs the precision/fuel enrichment and matrix materialization passes
// over the trips just rebuilt, on the same interval the matrix
// refresher uses. The two loops run in separate goroutines with no
// ordering between them; the refresher picks up newly materialized
// fact rows on whichever of its cycles runs after they are written.
func runPipelineLoop(
	ctx context.Context,
	a *app,
	assembler *tripassembler.Service,
	enricher *enrichment.Service,
	materializer *matrixmaterializer.Service,
	interval time.Duration,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runPipelineOnce(ctx, a, assembler, enricher, materializer)
		}
	}
}

func runPipelineOnce(
	ctx context.Context,
	a *app,
	assembler *tripassembler.Service,
	enricher *enrichment.Service,
	materializer *matrixmaterializer.Service,
) {
	ids, err := a.vessels.ListWithPendingEvents(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("failed to list vessels for enrichment/materialization")
		return
	}

	if err := assembler.RunAll(ctx); err != nil {
		a.log.Error().Err(err).Msg("trip assembly failed")
		return
	}

	now := time.Now().UTC()
	window := now.AddDate(0, 0, -30)
	for _, id := range ids {
		for _, kind := range []trip.AssemblerKind{trip.ERS, trip.Landings} {
			if err := enricher.RefineVessel(ctx, id, kind); err != nil {
				a.log.Error().Err(err).Int64("vessel_id", int64(id)).Str("assembler", kind.String()).Msg("enrichment failed")
			}
		}
		if err := materializer.MaterializeVessel(ctx, id, window, now); err != nil {
			a.log.Error().Err(err).Int64("vessel_id", int64(id)).Msg("matrix materialization failed")
		}
	}
}
