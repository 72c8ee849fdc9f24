package cmd

import (
	"github.com/spf13/cobra"

	"route-warmer/internal/application/port"
	"route-warmer/internal/domain/entity"
)

var chainsFilter port.ChainFilter

// chainsCmd lists chains known to configuration and the route service.
var chainsCmd = &cobra.Command{
	Use:   "chains [chain-id]",
	Short: "List known chains, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			chain, err := services.Chains.GetChain(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, chain)
		}

		chains, err := services.Chains.ListChains(cmd.Context(), chainsFilter)
		if err != nil {
			return err
		}
		type row struct {
			ChainID string           `json:"chainId"`
			Name    string           `json:"name"`
			Type    entity.ChainType `json:"type"`
			Prefix  string           `json:"bech32Prefix,omitempty"`
		}
		rows := make([]row, 0, len(chains))
		for _, ch := range chains {
			rows = append(rows, row{ChainID: ch.ChainID, Name: ch.ChainName, Type: ch.ChainType, Prefix: ch.Bech32Prefix})
		}
		return printJSON(cmd, rows)
	},
}

func init() {
	chainsCmd.Flags().BoolVar(&chainsFilter.Testnets, "testnets", false, "include testnets")
	chainsCmd.Flags().BoolVar(&chainsFilter.CosmosOnly, "cosmos", false, "only Cosmos chains")
	rootCmd.AddCommand(chainsCmd)
}
