package balance

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// BalanceSource returns the current balances of a set of addresses, keyed by address, in raw.
	BalanceSource interface {
		GetBalances(ctx context.Context, addresses []string) (map[string]string, error)
	}

	RefresherMetrics interface {
		ObservePass(err error, started time.Time)
		ObservePage(size, changed int)
	}
)
