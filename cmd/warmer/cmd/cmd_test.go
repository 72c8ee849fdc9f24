package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"route-warmer/internal/application/port"
	"route-warmer/internal/domain/entity"
	"route-warmer/internal/pkg/apperrors"
)

func TestCommandsRegistered(t *testing.T) {
	c := require.New(t)

	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"chains", "endpoints", "token", "recommend", "simulate", "send", "history", "disclaimer"} {
		c.True(names[want], "missing subcommand %s", want)
	}
}

func TestBuildTransferRequest(t *testing.T) {
	t.Run("should map flags onto the request", func(t *testing.T) {
		c := require.New(t)
		c.NoError(sendCmd.Flags().Parse([]string{
			"--route", "eureka",
			"--source", "cosmoshub-4",
			"--denom", "uatom",
			"--amount", "1.5",
			"--pretty",
			"--receiver", "0xabc",
			"--wait",
		}))
		t.Cleanup(resetTransferFlags)

		req, err := buildTransferRequest()
		c.NoError(err)
		c.Equal(entity.TxRouteEureka, req.RouteType)
		c.Equal("cosmoshub-4", req.SourceChainID)
		c.Equal("uatom", req.Denom)
		c.Equal("1.5", req.Amount)
		c.True(req.PrettyAmount)
		c.True(req.Wait)
		c.Equal("0xabc", req.Receiver)
	})

	t.Run("should reject an unknown route", func(t *testing.T) {
		c := require.New(t)
		t.Cleanup(resetTransferFlags)
		transferRoute = "lightning"

		_, err := buildTransferRequest()
		c.ErrorIs(err, apperrors.ErrInvalidInput)
	})
}

func resetTransferFlags() {
	transferReq = port.TransferRequest{}
	transferRoute = string(entity.TxRouteIBC)
}
