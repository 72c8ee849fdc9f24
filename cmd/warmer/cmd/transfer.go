package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"route-warmer/internal/application/port"
	"route-warmer/internal/domain/entity"
	"route-warmer/internal/pkg/apperrors"
)

var (
	transferReq      port.TransferRequest
	transferRoute    string
	acceptDisclaimer bool
)

func bindTransferFlags(fs *pflag.FlagSet) {
	fs.StringVar(&transferRoute, "route", string(entity.TxRouteIBC), "route type: ibc or eureka")
	fs.StringVar(&transferReq.SourceChainID, "source", "", "source chain id")
	fs.StringVar(&transferReq.DestinationChainID, "dest", "", "destination chain id (derived from the receiver when empty)")
	fs.StringVar(&transferReq.Channel, "channel", "", "source channel (recommended when empty)")
	fs.StringVar(&transferReq.Denom, "denom", "", "denomination to send")
	fs.StringVar(&transferReq.Amount, "amount", "1", "amount to send")
	fs.BoolVar(&transferReq.PrettyAmount, "pretty", false, "amount is in display units")
	fs.StringVar(&transferReq.Receiver, "receiver", "", "receiver address")
	fs.StringVar(&transferReq.Memo, "memo", "", "transfer memo")
}

func buildTransferRequest() (port.TransferRequest, error) {
	req := transferReq
	switch entity.TxRouteType(transferRoute) {
	case entity.TxRouteIBC, entity.TxRouteEureka:
		req.RouteType = entity.TxRouteType(transferRoute)
	default:
		return req, fmt.Errorf("%w: --route must be ibc or eureka", apperrors.ErrInvalidInput)
	}
	return req, nil
}

// recommendCmd asks the route service for a channel.
var recommendCmd = &cobra.Command{
	Use:   "recommend <denom> <source-chain-id> <dest-chain-id>",
	Short: "Recommend the IBC channel for a denom between two chains",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := services.Transfers.RecommendChannel(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]string{"channel": channel})
	},
}

// simulateCmd builds and simulates a transfer without signing it.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Build a transfer and estimate its gas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := buildTransferRequest()
		if err != nil {
			return err
		}
		res, err := services.Transfers.Simulate(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

// sendCmd signs and broadcasts a warm-up transfer.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and broadcast a warm-up transfer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := buildTransferRequest()
		if err != nil {
			return err
		}
		if acceptDisclaimer {
			if err := services.Prefs.SetDisclaimerAccepted(cmd.Context(), true); err != nil {
				return err
			}
		}

		record, err := services.Transfers.Warm(cmd.Context(), req)
		if err != nil {
			return err
		}
		logInfo("transfer broadcast",
			zap.String("hash", record.Hash),
			zap.String("status", string(record.Status)),
		)
		return printJSON(cmd, record)
	},
}

// historyCmd prints transfers sent during this process.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent transfers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printJSON(cmd, services.Transfers.History())
	},
}

func init() {
	bindTransferFlags(simulateCmd.Flags())
	bindTransferFlags(sendCmd.Flags())
	sendCmd.Flags().BoolVar(&transferReq.Wait, "wait", false, "wait for the transaction to be included")
	sendCmd.Flags().BoolVar(&acceptDisclaimer, "accept-disclaimer", false, "record acceptance of the disclaimer before sending")

	rootCmd.AddCommand(recommendCmd, simulateCmd, sendCmd, historyCmd)
}
