// Package msg defines the interface for different message brokers.
package msg

import (
	"sync"
)

// Actions to be applied to observed addresses.
const (
	LISTEN   = 0
	UNLISTEN = 1
)

// ObservationReq is published by the api service when an address starts or stops being observed.
type ObservationReq struct {
	Address string `json:"address"`
	Act     int    `json:"act"` // action to be applied
}

// BalanceEvent is published by the refresher when the balance of an observed address changes. Balance is in raw.
type BalanceEvent struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	TS      int64  `json:"ts"` // unix seconds
}

// ActName returns the routing name of an action.
func ActName(act int) string {
	if act == UNLISTEN {
		return "unlisten"
	}
	return "listen"
}

//go:generate mockgen -source=$GOFILE -destination=mock/broker.go -package=mock

// MsgBroker defines the methods the api and refresher services use to talk to each other.
type MsgBroker interface {
	Setup() error
	Close() error

	// methods for api service
	SendRequest(r ObservationReq) error
	GetEvents(mut *sync.Mutex) (<-chan BalanceEvent, <-chan error, error)

	// methods for refresher service
	GetReqs(mut *sync.Mutex) (<-chan ObservationReq, <-chan error, error)
	SendBalances(evs []BalanceEvent) error
}
