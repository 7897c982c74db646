package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BaR488/Raiblocks.Api/balance"
	"github.com/BaR488/Raiblocks.Api/lib/metrics"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the balances of observed addresses and publish balance events",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		r := balance.NewRefresher(a.wallet, a.tracker, a.mb, a.conf.Refresh, a.log, metrics.NewRefresher())

		err = r.Run(cmd.Context())
		a.log.Info("refresher service stopped", zap.Error(err))
		return err
	},
}
