// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"github.com/pkg/errors"

	"github.com/vechain/masterchef/chain"
	"github.com/vechain/masterchef/eventdb"
	"github.com/vechain/masterchef/genesis"
	"github.com/vechain/masterchef/log"
	"github.com/vechain/masterchef/runtime"
	"github.com/vechain/masterchef/state"
)

var logger = log.WithContext("pkg", "packer")

// Packer to pack txs and build new blocks.
type Packer struct {
	repo    *chain.Repository
	stater  *state.Stater
	eventDB *eventdb.EventDB
}

// New create a new Packer instance. A nil eventDB disables indexing.
func New(
	repo *chain.Repository,
	stater *state.Stater,
	eventDB *eventdb.EventDB,
) *Packer {
	return &Packer{
		repo,
		stater,
		eventDB,
	}
}

// Schedule starts the flow of the block following the head, at the given time.
// A zero time reuses the head time.
func (p *Packer) Schedule(time uint64) (*Flow, error) {
	blockCtx, err := p.repo.NewBlockContext(time)
	if err != nil {
		return nil, err
	}
	return newFlow(p, runtime.New(p.stater.NewState(), blockCtx)), nil
}

// Pack executes txs in a single block and commits it. Reverted txs are
// included with their receipts.
func (p *Packer) Pack(time uint64, txs ...*runtime.Transaction) ([]*runtime.Receipt, error) {
	flow, err := p.Schedule(time)
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		if _, err := flow.Adopt(tx); err != nil {
			return nil, err
		}
	}
	if err := flow.Commit(); err != nil {
		return nil, err
	}
	return flow.Receipts(), nil
}

// PackGenesis replays the genesis deployment as the first block.
func (p *Packer) PackGenesis(gen *genesis.Genesis) ([]*runtime.Receipt, error) {
	if head := p.repo.Head(); head.Number != 0 {
		return nil, errors.Errorf("already initialized at block %d", head.Number)
	}
	if err := gen.Validate(); err != nil {
		return nil, errors.WithMessage(err, "genesis")
	}
	flow, err := p.Schedule(gen.LaunchTime)
	if err != nil {
		return nil, err
	}
	receipts, err := gen.Builder().Build(flow.runtime.State(), flow.runtime.BlockContext())
	if err != nil {
		return nil, err
	}
	flow.receipts = receipts
	if err := flow.Commit(); err != nil {
		return nil, err
	}
	logger.Info("genesis packed", "time", gen.LaunchTime, "pools", len(gen.Pools), "balances", len(gen.Balances))
	return receipts, nil
}
