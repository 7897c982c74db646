package store

import "time"

// Observation is an address whose balance is tracked.
type Observation struct {
	Address string `json:"address" bson:"address"`
}

// AddressBalance is the last balance seen for an observed address, in raw as a decimal string.
type AddressBalance struct {
	Address   string    `json:"address" bson:"address"`
	Balance   string    `json:"balance" bson:"balance"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
