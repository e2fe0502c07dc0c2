// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/masterchef/builtin/farm"
	"github.com/vechain/masterchef/builtin/farm/reverts"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/ledger"
	"github.com/vechain/masterchef/log"
	"github.com/vechain/masterchef/metrics"
	"github.com/vechain/masterchef/state"
	"github.com/vechain/masterchef/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricTxCount = metrics.LazyLoadCounterVec("runtime_tx_count", []string{"op", "reverted"})
)

// Runtime is to support transaction execution.
type Runtime struct {
	state    *state.State
	blockCtx *xenv.BlockContext
	ledger   *ledger.Ledger
	farm     *farm.Farm
	txIndex  uint32
}

// New create a Runtime object.
func New(state *state.State, blockCtx *xenv.BlockContext) *Runtime {
	l := ledger.New(chef.LedgerAddress, state)
	return &Runtime{
		state:    state,
		blockCtx: blockCtx,
		ledger:   l,
		farm:     farm.New(chef.FarmAddress, state, blockCtx, l),
	}
}

func (rt *Runtime) State() *state.State              { return rt.state }
func (rt *Runtime) BlockContext() *xenv.BlockContext { return rt.blockCtx }
func (rt *Runtime) Farm() *farm.Farm                 { return rt.farm }
func (rt *Runtime) Ledger() *ledger.Ledger           { return rt.ledger }

func (rt *Runtime) txID(origin chef.Address) chef.Bytes32 {
	var b [16]byte
	binary.BigEndian.PutUint32(b[:4], rt.blockCtx.Number)
	binary.BigEndian.PutUint64(b[4:12], rt.blockCtx.Time)
	binary.BigEndian.PutUint32(b[12:], rt.txIndex)
	return chef.Blake2b(b[:], origin.Bytes())
}

// ExecuteTransaction executes a transaction atomically.
// A revert yields a receipt with Reverted set and leaves the state untouched,
// while infrastructure failures are returned as error.
func (rt *Runtime) ExecuteTransaction(tx *Transaction) (*Receipt, error) {
	receipt := &Receipt{
		TxID:   rt.txID(tx.Origin),
		Block:  rt.blockCtx.Number,
		Time:   rt.blockCtx.Time,
		Origin: tx.Origin,
		Op:     tx.Clause.Op,
	}
	rt.txIndex++

	checkpoint := rt.state.NewCheckpoint()
	// discard leftovers of direct calls
	rt.ledger.TakeTransfers()
	rt.farm.TakeEvents()

	env := xenv.New(rt.state, rt.blockCtx, &xenv.TransactionContext{ID: receipt.TxID, Origin: tx.Origin})
	output, err := rt.execute(env, tx)
	metricTxCount().AddWithLabel(1, map[string]string{"op": string(tx.Clause.Op), "reverted": boolLabel(err != nil)})
	if err != nil {
		rt.state.RevertTo(checkpoint)
		rt.ledger.TakeTransfers()
		rt.farm.TakeEvents()
		if !reverts.IsRevertErr(err) {
			return nil, err
		}
		receipt.Reverted = true
		receipt.Error = err.Error()
		logger.Debug("transaction reverted", "tx", receipt.TxID, "op", tx.Clause.Op, "err", err)
		return receipt, nil
	}

	receipt.Output = output
	receipt.Events = rt.farm.TakeEvents()
	receipt.Transfers = rt.ledger.TakeTransfers()
	return receipt, nil
}

func (rt *Runtime) execute(env *xenv.Environment, tx *Transaction) (*big.Int, error) {
	origin, clause := env.Caller(), &tx.Clause

	if tx.Payment != nil {
		if clause.Op != OpDeposit {
			return nil, reverts.Newf(reverts.InvalidArgument, "%s does not accept payment", clause.Op)
		}
		if tx.Payment.Amount == nil || tx.Payment.Amount.Sign() <= 0 {
			return nil, reverts.New(reverts.InvalidArgument, "payment amount must be positive")
		}
		if err := rt.ledger.Transfer(origin, rt.farm.Address(), tx.Payment.Token, tx.Payment.Amount, "payment"); err != nil {
			return nil, err
		}
	}

	switch clause.Op {
	case OpInitialize:
		return nil, rt.farm.Initialize(clause.To, clause.Token, clause.Amount, clause.SettleOnChange)
	case OpAddPool:
		id, err := rt.farm.AddPool(origin, clause.Token, clause.Amount)
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(uint64(id)), nil
	case OpSetAllocPoint:
		return nil, rt.farm.SetAllocPoint(origin, clause.PoolID, clause.Amount)
	case OpSetRewardRate:
		return nil, rt.farm.SetRewardRate(origin, clause.Amount)
	case OpDeposit:
		if tx.Payment == nil {
			return nil, reverts.New(reverts.InvalidArgument, "deposit requires payment")
		}
		return nil, rt.farm.Deposit(origin, clause.PoolID, *tx.Payment)
	case OpWithdraw:
		return nil, rt.farm.Withdraw(origin, clause.PoolID, clause.Amount)
	case OpHarvest:
		return rt.farm.Harvest(origin, clause.PoolID)
	case OpUpdatePool:
		_, err := rt.farm.UpdatePool(clause.PoolID)
		return nil, err
	case OpMassUpdatePools:
		return nil, rt.farm.MassUpdatePools()
	case OpClearPosition:
		return nil, rt.farm.ClearPosition(origin, clause.PoolID)
	case OpMint:
		return nil, rt.mint(origin, clause)
	default:
		return nil, reverts.Newf(reverts.InvalidArgument, "unknown operation %q", clause.Op)
	}
}

// mint credits tokens, restricted to the farm admin.
func (rt *Runtime) mint(origin chef.Address, clause *Clause) error {
	admin, err := rt.farm.Admin()
	if err != nil {
		return errors.Wrap(err, "get admin")
	}
	if admin.IsZero() || origin != admin {
		return reverts.New(reverts.Unauthorized, "only the admin mints")
	}
	return rt.ledger.Mint(clause.To, clause.Token, clause.Amount)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
