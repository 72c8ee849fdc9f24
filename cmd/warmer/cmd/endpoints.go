package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"route-warmer/internal/domain/entity"
	"route-warmer/internal/pkg/apperrors"
)

var (
	endpointKind    string
	endpointRefresh bool
)

// endpointsCmd shows the health of a chain's endpoints.
var endpointsCmd = &cobra.Command{
	Use:   "endpoints <chain-id>",
	Short: "Probe a chain's endpoints and show their health",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainID := args[0]
		kind, ok := entity.ParseEndpointKind(endpointKind)
		if !ok {
			return fmt.Errorf("%w: --kind must be rpc or rest", apperrors.ErrInvalidInput)
		}

		if endpointRefresh {
			if err := services.Endpoints.RefreshAll(cmd.Context(), chainID); err != nil {
				return err
			}
		} else if _, err := services.Endpoints.GetHealthyEndpoint(cmd.Context(), chainID, kind); err != nil {
			cmd.PrintErrln("warning:", err)
		}
		return printJSON(cmd, services.Endpoints.Endpoints(chainID, kind))
	},
}

func init() {
	endpointsCmd.Flags().StringVar(&endpointKind, "kind", "rpc", "endpoint kind: rpc or rest")
	endpointsCmd.Flags().BoolVar(&endpointRefresh, "refresh", false, "probe every candidate instead of stopping at the first healthy one")
	rootCmd.AddCommand(endpointsCmd)
}
