// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/creator-staking/metrics"
	"github.com/vechain/creator-staking/staking"
)

var metricInserted = metrics.LazyLoadCounter("eventdb_inserted_count")

// EventSource publishes committed staking events.
type EventSource interface {
	SubscribeEvents(ch chan *staking.Event) event.Subscription
}

// Recorder persists every event published by a source.
type Recorder struct {
	db  *EventDB
	ch  chan *staking.Event
	sub event.Subscription
}

// NewRecorder subscribes to src. Events published from now on are recorded by Run.
func NewRecorder(db *EventDB, src EventSource) *Recorder {
	ch := make(chan *staking.Event, 256)
	return &Recorder{
		db:  db,
		ch:  ch,
		sub: src.SubscribeEvents(ch),
	}
}

// Run records events until ctx is done or the subscription ends.
func (r *Recorder) Run(ctx context.Context) error {
	logger.Debug("enter recorder loop")
	defer logger.Debug("leave recorder loop")
	defer r.sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return r.flush(context.Background())
		case err := <-r.sub.Err():
			if err != nil {
				return err
			}
			return r.flush(context.Background())
		case ev := <-r.ch:
			batch := []*staking.Event{ev}
			batch = r.drain(batch)
			if err := r.db.Insert(ctx, batch); err != nil {
				logger.Warn("failed to record events", "count", len(batch), "error", err)
				continue
			}
			logger.Trace("recorded events", "count", len(batch))
		}
	}
}

// drain appends the events already queued without waiting.
func (r *Recorder) drain(batch []*staking.Event) []*staking.Event {
	for {
		select {
		case ev := <-r.ch:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
}

func (r *Recorder) flush(ctx context.Context) error {
	return r.db.Insert(ctx, r.drain(nil))
}
