package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BaR488/Raiblocks.Api/balance"
	"github.com/BaR488/Raiblocks.Api/lib/metrics"
)

var withRefresher bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the RESTful API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		g, ctx := errgroup.WithContext(cmd.Context())

		if a.mb != nil {
			if err := a.wallet.ManageEvents(ctx); err != nil {
				a.log.Error("cannot consume balance events", zap.Error(err))
			}
		}

		if withRefresher {
			r := balance.NewRefresher(a.wallet, a.tracker, a.mb, a.conf.Refresh, a.log, metrics.NewRefresher())
			g.Go(func() error { return r.Run(ctx) })
		}

		g.Go(func() error {
			return a.wallet.Serve(ctx, a.conf.RestfulEndpoint, a.conf.Port, a.conf.SSLPort, a.conf.SSLCert, a.conf.SSLKey)
		})

		err = g.Wait()
		a.log.Info("api service stopped", zap.Error(err))
		return err
	},
}

func init() {
	serveCmd.Flags().BoolVarP(&withRefresher, "refresher", "r", false, "also run the balance refresher")
}
