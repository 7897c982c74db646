// Package main: raiapi, the RaiBlocks ledger api and balance refresher services.
//
// The api service (raiapi serve) answers RESTful requests by querying the node through the retrying gateway. The
// refresher service (raiapi refresh) keeps the balances of observed addresses up to date and publishes balance events.
// Both services must share the same database and message broker; with the memory database, run the refresher inside
// the api service (raiapi serve --refresher).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// capture CTRL+C or docker's SIGTERM for gracious exit
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
