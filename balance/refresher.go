package balance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/BaR488/Raiblocks.Api/lib/config"
	"github.com/BaR488/Raiblocks.Api/lib/msg"
	"github.com/BaR488/Raiblocks.Api/lib/store"
	"github.com/BaR488/Raiblocks.Api/lib/util"
)

// Refresher periodically walks every observed address, stores its current balance and publishes an event for each
// balance that differs from the last one it saw. It also consumes observation requests from the broker so addresses
// that stop being observed are forgotten.
type Refresher struct {
	src      BalanceSource
	tracker  *Tracker
	mb       msg.MsgBroker // optional
	snap     *Snapshot
	interval time.Duration
	pageSize int
	limiter  ratelimit.Limiter
	log      *zap.Logger
	m        RefresherMetrics

	now func() time.Time
}

// NewRefresher returns a refresher reading balances from src. mb may be nil, in which case no events are published and
// no requests consumed.
func NewRefresher(src BalanceSource, tracker *Tracker, mb msg.MsgBroker, rc config.RefreshConfig, logger *zap.Logger,
	m RefresherMetrics,
) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}

	pageSize := rc.PageSize
	if pageSize < 1 {
		pageSize = store.DefaultTake
	}

	limiter := ratelimit.NewUnlimited()
	if rc.RPS > 0 {
		limiter = ratelimit.New(rc.RPS)
	}

	return &Refresher{
		src:      src,
		tracker:  tracker,
		mb:       mb,
		snap:     NewSnapshot(),
		interval: rc.Interval,
		pageSize: pageSize,
		limiter:  limiter,
		log:      logger.Named("refresher"),
		m:        m,
		now:      time.Now,
	}
}

// Snapshot returns the balances last seen by the refresher.
func (r *Refresher) Snapshot() *Snapshot {
	return r.snap
}

// Run loads the stored balances, starts consuming observation requests and refreshes every interval until ctx is
// done. A failed pass is logged and retried on the next tick.
func (r *Refresher) Run(ctx context.Context) error {
	if err := r.Load(ctx); err != nil {
		return fmt.Errorf("refresher: cannot load balances: %w", err)
	}

	if r.mb != nil {
		if err := r.ManageRequests(ctx); err != nil {
			return err
		}
	}

	r.log.Info("refreshing", zap.Duration("interval", r.interval), zap.Int("page_size", r.pageSize))

	for {
		if err := r.Pass(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.log.Error("refresh pass failed", zap.Error(err))
		}

		if err := util.SleepWithContext(ctx, r.interval); err != nil {
			r.log.Info("refresher stopped")
			return nil
		}
	}
}

// Load seeds the snapshot from the balance repository so a restart does not republish unchanged balances.
func (r *Refresher) Load(ctx context.Context) error {
	var next string

	for {
		n, items, err := r.tracker.Balances(ctx, r.pageSize, next)
		if err != nil {
			return err
		}

		for _, b := range items {
			r.snap.Set(b.Address, b.Balance)
		}

		if n == "" {
			r.log.Debug("balances loaded", zap.Int("count", r.snap.Len()))
			return nil
		}
		next = n
	}
}

// Pass refreshes every observed address once, one page per node call.
func (r *Refresher) Pass(ctx context.Context) (err error) {
	started := time.Now()

	defer func() {
		if r.m != nil {
			r.m.ObservePass(err, started)
		}
	}()

	var next string

	for {
		r.limiter.Take()

		if err = ctx.Err(); err != nil {
			return err
		}

		var items []store.Observation

		next, items, err = r.tracker.Observations(ctx, r.pageSize, next)
		if err != nil {
			return fmt.Errorf("refresher: cannot read observations: %w", err)
		}

		if len(items) > 0 {
			if err = r.refresh(ctx, items); err != nil {
				return err
			}
		}

		if next == "" {
			return nil
		}
	}
}

// refresh fetches and stores the balances of one page of observations and publishes the changed ones.
func (r *Refresher) refresh(ctx context.Context, items []store.Observation) error {
	addrs := make([]string, len(items))
	for i, o := range items {
		addrs[i] = o.Address
	}

	bals, err := r.src.GetBalances(ctx, addrs)
	if err != nil {
		return fmt.Errorf("refresher: cannot get balances: %w", err)
	}

	now := r.now().UTC()

	var evs []msg.BalanceEvent

	for _, a := range addrs {
		bal, ok := bals[a]
		if !ok {
			r.log.Warn("node did not return a balance", zap.String("address", a))
			continue
		}

		// the address may have been unobserved while its balance was fetched
		observed, err := r.tracker.IsObserved(ctx, a)
		if err != nil {
			return fmt.Errorf("refresher: cannot check observation of %s: %w", a, err)
		}
		if !observed {
			r.snap.Forget(a)
			continue
		}

		b := store.AddressBalance{Address: a, Balance: bal, UpdatedAt: now}

		created, err := r.tracker.AddBalance(ctx, b)
		if err != nil {
			return fmt.Errorf("refresher: cannot store balance of %s: %w", a, err)
		}

		if !created {
			if err = r.tracker.UpdateBalance(ctx, b); err != nil && !errors.Is(err, store.ErrAddrNotFound) {
				return fmt.Errorf("refresher: cannot update balance of %s: %w", a, err)
			}
		}

		if r.snap.Changed(a, bal) {
			evs = append(evs, msg.BalanceEvent{Address: a, Balance: bal, TS: now.Unix()})
		}
	}

	if r.m != nil {
		r.m.ObservePage(len(items), len(evs))
	}

	if len(evs) > 0 && r.mb != nil {
		if err := r.mb.SendBalances(evs); err != nil {
			// the snapshot already holds the new balances; the events are lost until the next change
			r.log.Error("cannot publish balance events", zap.Int("events", len(evs)), zap.Error(err))
		}
	}

	return nil
}

// ManageRequests starts a go routine to receive observation requests from the api service. An unlisten request drops
// the address from the snapshot and removes its stored balance; listen requests are picked up by the next pass.
func (r *Refresher) ManageRequests(ctx context.Context) error {
	mut := new(sync.Mutex)

	mut.Lock()

	reqCh, errCh, err := r.mb.GetReqs(mut)
	if err != nil {
		return fmt.Errorf("refresher: cannot get requests: %w", err)
	}

	go func() {
		r.log.Info("listening to observation requests")

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errCh:
				if !ok {
					return
				}
				// the broker drops the undecodable message and goes on delivering
				r.log.Error("cannot read observation request", zap.Error(err))
			case req, ok := <-reqCh:
				if !ok {
					return
				}
				r.handle(ctx, req)
				mut.Unlock()
			}
		}
	}()

	return nil
}

func (r *Refresher) handle(ctx context.Context, req msg.ObservationReq) {
	l := r.log.With(zap.String("address", req.Address), zap.String("act", msg.ActName(req.Act)))

	if req.Act != msg.UNLISTEN {
		l.Debug("observation request")
		return
	}

	r.snap.Forget(req.Address)

	if _, err := r.tracker.RemoveBalance(ctx, store.AddressBalance{Address: req.Address}); err != nil {
		l.Error("cannot remove balance", zap.Error(err))
		return
	}

	l.Debug("observation removed")
}
