package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"route-warmer/internal/pkg/apperrors"
)

var disclaimerCmd = &cobra.Command{
	Use:       "disclaimer [accept|revoke]",
	Short:     "Show or change disclaimer acceptance",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"accept", "revoke"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			var accepted bool
			switch args[0] {
			case "accept":
				accepted = true
			case "revoke":
			default:
				return fmt.Errorf("%w: expected accept or revoke, got %q", apperrors.ErrInvalidInput, args[0])
			}
			if err := services.Prefs.SetDisclaimerAccepted(cmd.Context(), accepted); err != nil {
				return err
			}
		}

		accepted, err := services.Prefs.DisclaimerAccepted(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]bool{"accepted": accepted})
	},
}

func init() {
	rootCmd.AddCommand(disclaimerCmd)
}
