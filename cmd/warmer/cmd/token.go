package cmd

import (
	"github.com/spf13/cobra"
)

var (
	tokenPreload  bool
	tokenDecimals int
)

// tokenCmd resolves token metadata.
var tokenCmd = &cobra.Command{
	Use:   "token <chain-id> <denom>...",
	Short: "Resolve symbol and decimals of denominations",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, err := services.Chains.GetChain(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		denoms := args[1:]

		if tokenPreload {
			stored, err := services.Tokens.Preload(cmd.Context(), chain)
			if err != nil {
				return err
			}
			cmd.PrintErrf("preloaded %d denominations\n", stored)
		}
		if cmd.Flags().Changed("decimals") {
			for _, denom := range denoms {
				if err := services.Tokens.SetDecimalsOverride(chain.ChainID, denom, tokenDecimals); err != nil {
					return err
				}
			}
		}

		if len(denoms) == 1 {
			return printJSON(cmd, services.Tokens.Resolve(cmd.Context(), chain, denoms[0]))
		}
		return printJSON(cmd, services.Tokens.BatchResolve(cmd.Context(), chain, denoms))
	},
}

func init() {
	tokenCmd.Flags().BoolVar(&tokenPreload, "preload", false, "cache all published metadata of the chain first")
	tokenCmd.Flags().IntVar(&tokenDecimals, "decimals", 0, "override decimals for the given denoms")
	rootCmd.AddCommand(tokenCmd)
}
