// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/masterchef/co"
	"github.com/vechain/masterchef/kv"
	"github.com/vechain/masterchef/log"
	"github.com/vechain/masterchef/state"
	"github.com/vechain/masterchef/xenv"
)

const propStoreName = "chain.props" // for property-named values such as the head

var (
	logger = log.WithContext("pkg", "chain")

	headKey = []byte("head")
)

// Head is the latest committed block.
type Head struct {
	Number uint32
	Time   uint64
}

// Repository persists the chain head and hands out block contexts on top of it.
// Block time never goes backwards, it is the clock of the farm.
//
// It's thread-safe.
type Repository struct {
	propStore kv.Store

	head atomic.Value
	tick co.Signal
}

// NewRepository create an instance of repository.
func NewRepository(db kv.Store) (*Repository, error) {
	repo := &Repository{
		propStore: kv.Bucket(propStoreName).NewStore(db),
	}

	var head Head
	if data, err := repo.propStore.Get(headKey); err != nil {
		if !repo.propStore.IsNotFound(err) {
			return nil, errors.Wrap(err, "get head")
		}
	} else if err := rlp.DecodeBytes(data, &head); err != nil {
		return nil, errors.Wrap(err, "decode head")
	}
	repo.head.Store(&head)
	return repo, nil
}

// Head returns the latest committed block.
func (r *Repository) Head() Head {
	return *r.head.Load().(*Head)
}

// NewBlockContext returns the context of the next block at the given time.
// A zero time reuses the head time.
func (r *Repository) NewBlockContext(time uint64) (*xenv.BlockContext, error) {
	head := r.Head()
	if time == 0 {
		time = head.Time
	}
	if time < head.Time {
		return nil, errors.Errorf("block time %d is before head time %d", time, head.Time)
	}
	return &xenv.BlockContext{
		Number: head.Number + 1,
		Time:   time,
	}, nil
}

// Commit writes the staged state changes and moves the head to the block.
func (r *Repository) Commit(blockCtx *xenv.BlockContext, stage *state.Stage) error {
	head := r.Head()
	if blockCtx.Number != head.Number+1 {
		return errors.Errorf("block number %d does not follow head %d", blockCtx.Number, head.Number)
	}
	if blockCtx.Time < head.Time {
		return errors.Errorf("block time %d is before head time %d", blockCtx.Time, head.Time)
	}
	if err := stage.Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}

	newHead := Head{Number: blockCtx.Number, Time: blockCtx.Time}
	data, err := rlp.EncodeToBytes(&newHead)
	if err != nil {
		return err
	}
	if err := r.propStore.Put(headKey, data); err != nil {
		return errors.Wrap(err, "save head")
	}
	r.head.Store(&newHead)
	r.tick.Broadcast()

	metricHeadNumber().Set(int64(newHead.Number))
	metricHeadTime().Set(int64(newHead.Time))
	logger.Debug("head moved", "number", newHead.Number, "time", newHead.Time, "changes", stage.Len())
	return nil
}

// NewTicker create a signal Waiter to receive event that the head changed.
func (r *Repository) NewTicker() co.Waiter {
	return r.tick.NewWaiter()
}
