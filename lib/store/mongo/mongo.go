// Package mongo implements the interface for MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BaR488/Raiblocks.Api/lib/store"
)

// Database and collection names.
const (
	Database               = "rai"
	ObservationsCollection = "observations"
	BalancesCollection     = "balances"
)

// Mongo implements a connection to a MongoDB database.
type Mongo struct {
	c    *mgo.Client
	obs  *Observations
	bals *Balances
}

// New returns a Mongo client connection to the specified MongoDB database uri. Unique address indexes are created on
// both collections.
func New(uri string) (*Mongo, error) {
	// get a client
	c, err := mgo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongo DB in %s: %w", uri, err)
	}
	// connect client
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:gomnd // 5 seconds timeout
	defer cancel()

	if err = c.Connect(ctx); err != nil {
		return nil, fmt.Errorf("error connecting to mongo DB: %w", err)
	}

	db := c.Database(Database)
	m := &Mongo{
		c:    c,
		obs:  &Observations{col: db.Collection(ObservationsCollection)},
		bals: &Balances{col: db.Collection(BalancesCollection)},
	}

	for _, col := range []*mgo.Collection{m.obs.col, m.bals.col} {
		if _, err = col.Indexes().CreateOne(ctx, mgo.IndexModel{
			Keys:    bson.D{{Key: "address", Value: 1}},
			Options: options.Index().SetUnique(true),
		}); err != nil {
			_ = c.Disconnect(context.Background())
			return nil, fmt.Errorf("error creating index on %s: %w", col.Name(), err)
		}
	}

	return m, nil
}

// Observations implements store.DB.
func (m *Mongo) Observations() store.ObservationRepository { return m.obs }

// Balances implements store.DB.
func (m *Mongo) Balances() store.BalanceRepository { return m.bals }

// Close will close a database connection. Must be called at termination time.
func (m *Mongo) Close(ctx context.Context) error {
	return m.c.Disconnect(ctx)
}

// insertIfMissing upserts doc keyed by address without touching an existing document.
func insertIfMissing(ctx context.Context, col *mgo.Collection, address string, doc interface{}) (bool, error) {
	res, err := col.UpdateOne(ctx,
		bson.M{"address": address},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("could not insert address %s in db: %w", address, err)
	}
	return res.UpsertedCount == 1, nil
}

func deleteIfPresent(ctx context.Context, col *mgo.Collection, address string) (bool, error) {
	res, err := col.DeleteOne(ctx, bson.M{"address": address})
	if err != nil {
		return false, fmt.Errorf("could not delete address %s from db: %w", address, err)
	}
	return res.DeletedCount == 1, nil
}

func exists(ctx context.Context, col *mgo.Collection, address string) (bool, error) {
	n, err := col.CountDocuments(ctx, bson.M{"address": address}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("could not look up address %s in db: %w", address, err)
	}
	return n > 0, nil
}

// find opens a cursor over one more document than the page after continuation holds, in address order.
func find(ctx context.Context, col *mgo.Collection, take int, continuation string) (*mgo.Cursor, error) {
	after, err := store.CheckPage(take, continuation)
	if err != nil {
		return nil, err
	}

	filter := bson.M{}
	if after != "" {
		filter["address"] = bson.M{"$gt": after}
	}

	cur, err := col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "address", Value: 1}}).
		SetLimit(int64(take)+1))
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", col.Name(), err)
	}
	return cur, nil
}

// Observations is the observation repository on MongoDB.
type Observations struct {
	col *mgo.Collection
}

// CreateIfNotExists implements store.ObservationRepository.
func (r *Observations) CreateIfNotExists(ctx context.Context, o store.Observation) (bool, error) {
	return insertIfMissing(ctx, r.col, o.Address, bson.M{"address": o.Address})
}

// DeleteIfExists implements store.ObservationRepository.
func (r *Observations) DeleteIfExists(ctx context.Context, o store.Observation) (bool, error) {
	return deleteIfPresent(ctx, r.col, o.Address)
}

// Exists implements store.ObservationRepository.
func (r *Observations) Exists(ctx context.Context, o store.Observation) (bool, error) {
	return exists(ctx, r.col, o.Address)
}

// Get implements store.ObservationRepository.
func (r *Observations) Get(ctx context.Context, take int, continuation string) (string, []store.Observation, error) {
	cur, err := find(ctx, r.col, take, continuation)
	if err != nil {
		return "", nil, err
	}

	var items []store.Observation
	if err = cur.All(ctx, &items); err != nil {
		return "", nil, fmt.Errorf("error decoding observations: %w", err)
	}

	var next string
	if len(items) > take {
		items = items[:take]
		next = store.EncodeToken(items[take-1].Address)
	}
	return next, items, nil
}

// Balances is the balance repository on MongoDB.
type Balances struct {
	col *mgo.Collection
}

// CreateIfNotExists implements store.BalanceRepository.
func (r *Balances) CreateIfNotExists(ctx context.Context, b store.AddressBalance) (bool, error) {
	return insertIfMissing(ctx, r.col, b.Address, bson.M{
		"address":   b.Address,
		"balance":   b.Balance,
		"updatedAt": b.UpdatedAt,
	})
}

// Update implements store.BalanceRepository.
func (r *Balances) Update(ctx context.Context, b store.AddressBalance) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"address": b.Address},
		bson.M{"$set": bson.M{"balance": b.Balance, "updatedAt": b.UpdatedAt}})
	if err != nil {
		return fmt.Errorf("could not update balance of %s: %w", b.Address, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrAddrNotFound
	}
	return nil
}

// DeleteIfExists implements store.BalanceRepository.
func (r *Balances) DeleteIfExists(ctx context.Context, b store.AddressBalance) (bool, error) {
	return deleteIfPresent(ctx, r.col, b.Address)
}

// Exists implements store.BalanceRepository.
func (r *Balances) Exists(ctx context.Context, b store.AddressBalance) (bool, error) {
	return exists(ctx, r.col, b.Address)
}

// Get implements store.BalanceRepository.
func (r *Balances) Get(ctx context.Context, take int, continuation string) (string, []store.AddressBalance, error) {
	cur, err := find(ctx, r.col, take, continuation)
	if err != nil {
		return "", nil, err
	}

	var items []store.AddressBalance
	if err = cur.All(ctx, &items); err != nil {
		return "", nil, fmt.Errorf("error decoding balances: %w", err)
	}

	var next string
	if len(items) > take {
		items = items[:take]
		next = store.EncodeToken(items[take-1].Address)
	}
	return next, items, nil
}
