package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kyogre-go/fisheries/internal/domain/matrix"
)

var refreshSource string

// NewRefreshCommand advances the matrix cache by one refresh cycle per
// source, or both if none is named.
func NewRefreshCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the aggregation matrix cache from pending data versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			sources, err := resolveSources(refreshSource)
			if err != nil {
				return err
			}

			refresher := a.matrixRefresher()
			for _, source := range sources {
				if err := refresher.RefreshOnce(cmd.Context(), source); err != nil {
					return fmt.Errorf("refresh failed for %s: %w", source, err)
				}
				fmt.Printf("refreshed %s\n", source)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&refreshSource, "source", "", "Matrix source to refresh: hauls or landings (default: both)")
	return cmd
}

func resolveSources(name string) ([]matrix.Source, error) {
	switch name {
	case "":
		return []matrix.Source{matrix.Hauls, matrix.Landings}, nil
	case "hauls":
		return []matrix.Source{matrix.Hauls}, nil
	case "landings":
		return []matrix.Source{matrix.Landings}, nil
	default:
		return nil, fmt.Errorf("unknown matrix source %q: expected hauls or landings", name)
	}
}
