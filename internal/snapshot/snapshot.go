// Package snapshot fans out the dashboard's read calls and assembles their
// results into one atomic snapshot.
//
// A snapshot is all-or-nothing: if any endpoint fails, no snapshot is
// produced and the caller keeps whatever it rendered last. Mixing fields
// from two different poll cycles is a correctness bug, so partial results
// are never returned.
package snapshot

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"botwatch/pkg/botapi"
)

// Snapshot is one internally consistent bundle of dashboard state. Seq
// increases monotonically with each successful refresh so consumers can
// discard a slow response that completes after a newer one has already
// been rendered.
type Snapshot struct {
	Seq   uint64
	Taken time.Time

	Account    botapi.Account
	PnL        botapi.PnL
	Positions  []botapi.Position
	OpenOrders []botapi.OpenOrder
	Activity   botapi.Activity
	Status     botapi.Status
}

// HistorySnapshot is the history tab's unit of consistency: today's
// terminal orders plus the process-wide status for the header.
type HistorySnapshot struct {
	Seq   uint64
	Taken time.Time

	Orders []botapi.HistoricalOrder
	Status botapi.Status
}

// Aggregator owns the sequence counter and the API client.
type Aggregator struct {
	client *botapi.Client
	log    *zap.Logger
	seq    atomic.Uint64
}

// New creates an aggregator around the given client. log must not be nil;
// pass zap.NewNop() to discard diagnostics.
func New(client *botapi.Client, log *zap.Logger) *Aggregator {
	return &Aggregator{client: client, log: log}
}

// Refresh runs the six dashboard reads concurrently and returns one
// snapshot. Latency is bounded by the slowest single call. The first
// error cancels the remaining calls and fails the whole refresh.
func (a *Aggregator) Refresh(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		acct, err := a.client.Account(ctx)
		if err != nil {
			return err
		}
		snap.Account = *acct
		return nil
	})
	g.Go(func() error {
		pnl, err := a.client.PnL(ctx)
		if err != nil {
			return err
		}
		snap.PnL = *pnl
		return nil
	})
	g.Go(func() error {
		positions, err := a.client.Positions(ctx)
		if err != nil {
			return err
		}
		snap.Positions = positions
		return nil
	})
	g.Go(func() error {
		orders, err := a.client.OpenOrders(ctx)
		if err != nil {
			return err
		}
		snap.OpenOrders = orders
		return nil
	})
	g.Go(func() error {
		act, err := a.client.Activity(ctx)
		if err != nil {
			return err
		}
		snap.Activity = *act
		return nil
	})
	g.Go(func() error {
		status, err := a.client.Status(ctx)
		if err != nil {
			return err
		}
		snap.Status = *status
		return nil
	})

	if err := g.Wait(); err != nil {
		a.log.Warn("refresh failed", zap.Error(err))
		return nil, err
	}

	snap.Seq = a.seq.Add(1)
	snap.Taken = time.Now()
	a.log.Debug("refresh complete",
		zap.Uint64("seq", snap.Seq),
		zap.Int("positions", len(snap.Positions)),
		zap.Int("open_orders", len(snap.OpenOrders)))
	return snap, nil
}

// History fetches the history region: today's orders plus status, also
// all-or-nothing. It shares the sequence counter with Refresh so snapshots
// of either kind are totally ordered.
func (a *Aggregator) History(ctx context.Context) (*HistorySnapshot, error) {
	snap := &HistorySnapshot{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := a.client.History(ctx)
		if err != nil {
			return err
		}
		snap.Orders = orders
		return nil
	})
	g.Go(func() error {
		status, err := a.client.Status(ctx)
		if err != nil {
			return err
		}
		snap.Status = *status
		return nil
	})

	if err := g.Wait(); err != nil {
		a.log.Warn("history refresh failed", zap.Error(err))
		return nil, err
	}

	snap.Seq = a.seq.Add(1)
	snap.Taken = time.Now()
	return snap, nil
}
