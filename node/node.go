// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/creator-staking/cache"
	"github.com/vechain/creator-staking/co"
	"github.com/vechain/creator-staking/custody"
	"github.com/vechain/creator-staking/health"
	"github.com/vechain/creator-staking/kv"
	"github.com/vechain/creator-staking/log"
	"github.com/vechain/creator-staking/slots"
	"github.com/vechain/creator-staking/staking"
	"github.com/vechain/creator-staking/state"
	"github.com/vechain/creator-staking/thor"
)

var logger = log.WithContext("pkg", "node")

// stateBucket holds every staking and custody record in the main database.
const stateBucket = kv.Bucket("s")

// Options for Node.
type Options struct {
	// BlockInterval is the period of the block clock. Zero disables the clock.
	BlockInterval time.Duration
	// SnapshotCacheSize bounds the cached round snapshots.
	SnapshotCacheSize int
	// Genesis balances are credited once, when the store is empty.
	Genesis map[thor.Address]*uint256.Int
}

// Call is an operation run against a fresh view of the stored state.
type Call func(s *staking.Staking, ledger *custody.Ledger) error

// Node is the reference host of the staking engine. It serializes every
// mutation, commits each successful call in one batch and publishes the
// events of committed calls.
type Node struct {
	db      kv.Store
	params  *staking.Params
	options Options

	lock      sync.RWMutex
	tickLock  sync.Mutex
	block     atomic.Uint32
	snapshots *cache.LRU
	health    *health.Health

	pendingLock sync.Mutex
	pending     []*staking.Event
	dispatch    chan struct{}

	ctx    context.Context
	cancel func()
	feed   event.Feed
	scope  event.SubscriptionScope
	goes   co.Goes
}

// New opens the node over db, writing the genesis round and balances on first use.
// Close is required to be called at end.
func New(db kv.Store, params *staking.Params, options Options) (*Node, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid staking params")
	}
	if options.SnapshotCacheSize <= 0 {
		options.SnapshotCacheSize = 256
	}
	snapshots, err := cache.NewLRU("snapshots", options.SnapshotCacheSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &Node{
		db:        stateBucket.NewStore(db),
		params:    params,
		options:   options,
		snapshots: snapshots,
		health:    health.New(options.BlockInterval),
		dispatch:  make(chan struct{}, 1),
		ctx:       ctx,
		cancel:    cancel,
	}
	if err := n.initialize(); err != nil {
		cancel()
		return nil, err
	}
	n.goes.Go(n.dispatchLoop)
	return n, nil
}

func (n *Node) initialize() error {
	return n.execute(func(st *state.State, s *staking.Staking, ledger *custody.Ledger) error {
		clock := blockValue(st)
		exists, err := clock.Exists()
		if err != nil {
			return err
		}
		if exists {
			block, err := clock.Get()
			if err != nil {
				return err
			}
			n.block.Store(block)
			n.health.NewBlock(block)
			logger.Info("opened existing state", "block", block)
			return s.Initialize()
		}

		for acc, amount := range n.options.Genesis {
			if err := ledger.Deposit(acc, amount); err != nil {
				return errors.WithMessagef(err, "genesis balance of %v", acc)
			}
		}
		if err := clock.Set(0); err != nil {
			return err
		}
		logger.Info("created genesis state", "accounts", len(n.options.Genesis))
		return s.Initialize()
	})
}

// Start runs the block clock, if enabled.
func (n *Node) Start() {
	if n.options.BlockInterval > 0 {
		n.goes.Go(n.clockLoop)
	}
}

// Close stops the clock and ends every subscription.
func (n *Node) Close() {
	n.cancel()
	// unblocks a delivery stuck on a subscriber that stopped reading
	n.scope.Close()
	n.goes.Wait()
	logger.Debug("closed")
}

// Params returns the staking params.
func (n *Node) Params() *staking.Params {
	return n.params
}

// Block returns the height of the latest block fed to housekeeping.
func (n *Node) Block() uint32 {
	return n.block.Load()
}

// SubscribeEvents receivers will receive each event of committed calls in commit order.
// Delivery is asynchronous; a receiver that stops draining ch delays the other
// receivers but never the calls.
func (n *Node) SubscribeEvents(ch chan *staking.Event) event.Subscription {
	return n.scope.Track(n.feed.Subscribe(ch))
}

// Execute runs call and commits its writes if it succeeds.
func (n *Node) Execute(call Call) error {
	return n.execute(func(_ *state.State, s *staking.Staking, ledger *custody.Ledger) error {
		return call(s, ledger)
	})
}

// View runs call against the committed state and discards any write.
func (n *Node) View(call Call) error {
	n.lock.RLock()
	defer n.lock.RUnlock()

	st := state.New(n.db)
	ledger := custody.New(st)
	return call(staking.New(st, n.params, ledger), ledger)
}

// Tick feeds the next block to housekeeping. It returns whether a new round started.
func (n *Node) Tick() (bool, error) {
	n.tickLock.Lock()
	defer n.tickLock.Unlock()

	var advanced bool
	err := n.execute(func(st *state.State, s *staking.Staking, _ *custody.Ledger) error {
		block := n.block.Load() + 1
		ok, err := s.Housekeep(block)
		if err != nil {
			return err
		}
		if err := blockValue(st).Set(block); err != nil {
			return err
		}
		advanced = ok
		return nil
	})
	if err != nil {
		return false, err
	}
	block := n.block.Add(1)
	n.health.NewBlock(block)
	metricBlock().Set(int64(block))
	return advanced, nil
}

// Health reports whether the block clock is keeping up.
func (n *Node) Health() *health.Status {
	return n.health.Status()
}

// StakedAt returns the total staked snapshot of a finished round. Snapshots never
// change once taken, so they are served from cache.
func (n *Node) StakedAt(round uint32) (*uint256.Int, error) {
	v, err := n.snapshots.GetOrLoad(round, func(any) (any, error) {
		var staked *uint256.Int
		err := n.View(func(s *staking.Staking, _ *custody.Ledger) (err error) {
			staked, err = s.StakedAt(round)
			return
		})
		return staked, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*uint256.Int).Clone(), nil
}

func (n *Node) execute(fn func(st *state.State, s *staking.Staking, ledger *custody.Ledger) error) error {
	n.lock.Lock()
	defer n.lock.Unlock()

	st := state.New(n.db)
	ledger := custody.New(st)
	s := staking.New(st, n.params, ledger)
	if err := fn(st, s, ledger); err != nil {
		metricCommits().AddWithLabel(1, map[string]string{"result": "discarded"})
		return err
	}

	stage := st.Stage()
	if err := stage.Commit(); err != nil {
		metricCommits().AddWithLabel(1, map[string]string{"result": "error"})
		logger.Error("failed to commit", "error", err)
		return errors.Wrap(err, "commit")
	}
	metricCommits().AddWithLabel(1, map[string]string{"result": "committed"})
	metricCommitSize().Observe(int64(stage.Len()))

	n.publish(s.Events())
	return nil
}

// publish queues the events of a committed call for delivery.
func (n *Node) publish(events []*staking.Event) {
	if len(events) == 0 {
		return
	}
	n.pendingLock.Lock()
	n.pending = append(n.pending, events...)
	n.pendingLock.Unlock()

	select {
	case n.dispatch <- struct{}{}:
	default:
	}
}

func (n *Node) dispatchLoop() {
	logger.Debug("enter dispatch loop")
	defer logger.Debug("leave dispatch loop")

	for {
		select {
		case <-n.ctx.Done():
			return
		case <-n.dispatch:
			n.pendingLock.Lock()
			events := n.pending
			n.pending = nil
			n.pendingLock.Unlock()

			for _, ev := range events {
				n.feed.Send(ev)
			}
		}
	}
}

func (n *Node) clockLoop() {
	logger.Debug("enter clock loop")
	defer logger.Debug("leave clock loop")

	ticker := time.NewTicker(n.options.BlockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-n.ctx.Done():
			return
		case <-ticker.C:
			advanced, err := n.Tick()
			if err != nil {
				logger.Warn("failed to tick", "block", n.Block()+1, "error", err)
				continue
			}
			if advanced {
				logger.Debug("new round started", "block", n.Block())
			}
		}
	}
}

func blockValue(st *state.State) *slots.Value[uint32] {
	return slots.NewValue[uint32](slots.NewContext("node", st), "block")
}
