// Package store defines the interface for database implementations to the api and refresher services.
package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
)

// DefaultTake is the page size used when callers do not ask for one.
const DefaultTake = 100

// ObservationRepository keeps the set of addresses whose balances are tracked.
type ObservationRepository interface {
	// CreateIfNotExists reports whether o was added.
	CreateIfNotExists(ctx context.Context, o Observation) (bool, error)
	// DeleteIfExists reports whether o was removed.
	DeleteIfExists(ctx context.Context, o Observation) (bool, error)
	Exists(ctx context.Context, o Observation) (bool, error)
	// Get returns up to take observations after continuation in address order. next is empty on the last page.
	Get(ctx context.Context, take int, continuation string) (next string, items []Observation, err error)
}

// BalanceRepository keeps the last known balance of every observed address.
type BalanceRepository interface {
	// CreateIfNotExists reports whether b was added. An existing balance is left untouched.
	CreateIfNotExists(ctx context.Context, b AddressBalance) (bool, error)
	// Update overwrites an existing balance. ErrAddrNotFound when there is none.
	Update(ctx context.Context, b AddressBalance) error
	DeleteIfExists(ctx context.Context, b AddressBalance) (bool, error)
	Exists(ctx context.Context, b AddressBalance) (bool, error)
	Get(ctx context.Context, take int, continuation string) (next string, items []AddressBalance, err error)
}

// DB defines required methods for the api and refresher services.
type DB interface {
	Observations() ObservationRepository
	Balances() BalanceRepository
	Close(ctx context.Context) error
}

// Errors returned
var (
	ErrAddrNotFound    = errors.New("Address was not found in store")
	ErrBadContinuation = errors.New("malformed continuation token")
	ErrBadTake         = errors.New("take must be positive")
)

// EncodeToken returns the opaque continuation token resuming after address.
func EncodeToken(address string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(address))
}

// DecodeToken returns the address a continuation token resumes after. The empty token starts from the beginning.
func DecodeToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(b) == 0 {
		return "", fmt.Errorf("%w: %q", ErrBadContinuation, token)
	}

	return string(b), nil
}

// CheckPage validates the paging arguments of a Get call and returns the address to resume after.
func CheckPage(take int, continuation string) (after string, err error) {
	if take < 1 {
		return "", fmt.Errorf("%w: %d", ErrBadTake, take)
	}

	return DecodeToken(continuation)
}
