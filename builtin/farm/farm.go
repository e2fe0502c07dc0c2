// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/builtin/farm/position"
	"github.com/vechain/masterchef/builtin/farm/reverts"
	"github.com/vechain/masterchef/builtin/farm/reward"
	"github.com/vechain/masterchef/builtin/solidity"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/log"
	"github.com/vechain/masterchef/state"
)

var logger = log.WithContext("pkg", "farm")

// Clock supplies the logical time of the running operation.
type Clock interface {
	Now() uint64
}

// Ledger holds token balances and executes transfers.
type Ledger interface {
	BalanceOf(holder chef.Address, token chef.TokenID) (*big.Int, error)
	Transfer(from, to chef.Address, token chef.TokenID, amount *big.Int, memo string) error
}

// Payment is the token transfer accompanying a deposit. It is already in the
// custody of the farm when the deposit runs.
type Payment struct {
	Token  chef.TokenID
	Amount *big.Int
}

// Farm implements the staking engine. Every mutating operation settles the
// target pool, updates the position, moves tokens and then notifies, all
// inside a state checkpoint.
type Farm struct {
	addr   chef.Address
	state  *state.State
	clock  Clock
	ledger Ledger

	poolService     *pool.Service
	rewardService   *reward.Service
	positionService *position.Service

	pending []*Event
	events  []*Event
}

// New create a new instance.
func New(addr chef.Address, state *state.State, clock Clock, ledger Ledger) *Farm {
	sctx := solidity.NewContext(addr, state)
	pools := pool.New(sctx)
	return &Farm{
		addr:            addr,
		state:           state,
		clock:           clock,
		ledger:          ledger,
		poolService:     pools,
		rewardService:   reward.New(pools, addr, ledger),
		positionService: position.New(sctx),
	}
}

// Address returns the custody address of the farm.
func (f *Farm) Address() chef.Address {
	return f.addr
}

// Events returns the notifications of all successful operations so far.
func (f *Farm) Events() []*Event {
	return f.events
}

// TakeEvents returns and forgets the notifications collected so far.
func (f *Farm) TakeEvents() []*Event {
	events := f.events
	f.events = nil
	return events
}

func (f *Farm) emit(ev *Event) {
	f.pending = append(f.pending, ev)
}

// atomic runs fn inside a state checkpoint. On error all state changes and
// pending notifications are discarded.
func (f *Farm) atomic(op string, fn func() error) error {
	checkpoint := f.state.NewCheckpoint()
	f.pending = nil

	err := fn()
	metricOperationCount().AddWithLabel(1, map[string]string{"op": op, "result": operationResult(err)})
	if err != nil {
		f.state.RevertTo(checkpoint)
		f.pending = nil
		logger.Debug("operation reverted", "op", op, "err", err)
		return err
	}
	for _, ev := range f.pending {
		metricEventCount().AddWithLabel(1, map[string]string{"name": ev.Name})
	}
	f.events = append(f.events, f.pending...)
	f.pending = nil
	return nil
}

func (f *Farm) requireAdmin(caller chef.Address) error {
	admin, err := f.poolService.Admin()
	if err != nil {
		return err
	}
	if admin.IsZero() {
		return reverts.New(reverts.Unauthorized, "not initialized")
	}
	if caller != admin {
		return reverts.Newf(reverts.Unauthorized, "caller %v is not the admin", caller)
	}
	return nil
}

// settleOnChange settles every active pool when the deployment asks for it.
func (f *Farm) settleOnChange() error {
	enabled, err := f.poolService.SettleOnChange()
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}
	return f.rewardService.SettleAll(f.clock.Now())
}

//
// Admin operations
//

// Initialize stores the deployment parameters. It fails when called twice.
func (f *Farm) Initialize(admin chef.Address, rewardToken chef.TokenID, rewardRate *big.Int, settleOnChange bool) error {
	return f.atomic("initialize", func() error {
		if err := f.poolService.Initialize(admin, rewardToken, rewardRate, settleOnChange); err != nil {
			return err
		}
		logger.Info("farm initialized", "admin", admin, "reward-token", rewardToken, "reward-rate", rewardRate, "settle-on-change", settleOnChange)
		return nil
	})
}

// AddPool registers a pool for the staking token and returns its id.
// Adding the same staking token twice is not rejected, the pools would share a staked supply.
func (f *Farm) AddPool(caller chef.Address, token chef.TokenID, allocPoint *big.Int) (id pool.ID, err error) {
	err = f.atomic("add-pool", func() error {
		if err := f.requireAdmin(caller); err != nil {
			return err
		}
		if err := f.settleOnChange(); err != nil {
			return err
		}
		var err error
		if id, err = f.poolService.Add(token, allocPoint, f.clock.Now()); err != nil {
			return err
		}
		f.emit(&Event{Name: EventPoolAdded, PoolID: id, User: caller, Token: token, Amount: new(big.Int).Set(allocPoint)})
		logger.Info("pool added", "pool", id, "token", token, "alloc-point", allocPoint)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SetAllocPoint changes the weight of a pool.
func (f *Farm) SetAllocPoint(caller chef.Address, id pool.ID, allocPoint *big.Int) error {
	return f.atomic("set-alloc-point", func() error {
		if err := f.requireAdmin(caller); err != nil {
			return err
		}
		p, err := f.poolService.Get(id)
		if err != nil {
			return err
		}
		if err := f.settleOnChange(); err != nil {
			return err
		}
		old, err := f.poolService.SetAllocPoint(id, allocPoint)
		if err != nil {
			return err
		}
		f.emit(&Event{Name: EventPoolWeightUpdated, PoolID: id, User: caller, Token: p.StakingToken, Amount: new(big.Int).Set(allocPoint)})
		logger.Info("pool weight updated", "pool", id, "old", old, "new", allocPoint)
		return nil
	})
}

// SetRewardRate replaces the global emission rate.
func (f *Farm) SetRewardRate(caller chef.Address, rate *big.Int) error {
	return f.atomic("set-reward-rate", func() error {
		if err := f.requireAdmin(caller); err != nil {
			return err
		}
		if err := f.settleOnChange(); err != nil {
			return err
		}
		if err := f.poolService.SetRewardRate(rate); err != nil {
			return err
		}
		token, err := f.poolService.RewardToken()
		if err != nil {
			return err
		}
		f.emit(&Event{Name: EventRewardRateUpdated, User: caller, Token: token, Amount: new(big.Int).Set(rate)})
		logger.Info("reward rate updated", "rate", rate)
		return nil
	})
}

//
// User operations
//

// Deposit stakes the payment into the pool.
func (f *Farm) Deposit(caller chef.Address, id pool.ID, payment Payment) error {
	return f.atomic("deposit", func() error {
		p, err := f.poolService.Get(id)
		if err != nil {
			return err
		}
		if payment.Token != p.StakingToken {
			return reverts.Newf(reverts.TokenMismatch, "pool %d stakes %v, paid %v", id, p.StakingToken, payment.Token)
		}
		if payment.Amount == nil || payment.Amount.Sign() <= 0 {
			return reverts.New(reverts.InvalidArgument, "deposit amount must be positive")
		}
		settled, err := f.rewardService.SettleExcluding(id, f.clock.Now(), payment.Amount)
		if err != nil {
			return err
		}
		if _, err := f.positionService.RecordDeposit(id, caller, payment.Amount, settled.AccRewardPerShare); err != nil {
			return err
		}
		f.emit(&Event{Name: EventDeposited, PoolID: id, User: caller, Token: payment.Token, Amount: new(big.Int).Set(payment.Amount)})
		return nil
	})
}

// Withdraw returns amount of staked tokens to the caller. The reward is not harvested.
func (f *Farm) Withdraw(caller chef.Address, id pool.ID, amount *big.Int) error {
	return f.atomic("withdraw", func() error {
		settled, err := f.rewardService.Settle(id, f.clock.Now())
		if err != nil {
			return err
		}
		if _, err := f.positionService.RecordWithdraw(id, caller, amount, settled.AccRewardPerShare); err != nil {
			return err
		}
		if amount.Sign() > 0 {
			if err := f.ledger.Transfer(f.addr, caller, settled.StakingToken, amount, EventWithdrawn); err != nil {
				return err
			}
		}
		f.emit(&Event{Name: EventWithdrawn, PoolID: id, User: caller, Token: settled.StakingToken, Amount: new(big.Int).Set(amount)})
		return nil
	})
}

// Harvest pays the pending reward of the caller and returns it.
func (f *Farm) Harvest(caller chef.Address, id pool.ID) (paid *big.Int, err error) {
	err = f.atomic("harvest", func() error {
		settled, err := f.rewardService.Settle(id, f.clock.Now())
		if err != nil {
			return err
		}
		if paid, err = f.positionService.Harvest(id, caller, settled.AccRewardPerShare); err != nil {
			return err
		}
		if paid.Sign() == 0 {
			return nil
		}
		token, err := f.poolService.RewardToken()
		if err != nil {
			return err
		}
		if err := f.ledger.Transfer(f.addr, caller, token, paid, EventHarvested); err != nil {
			return err
		}
		f.emit(&Event{Name: EventHarvested, PoolID: id, User: caller, Token: token, Amount: new(big.Int).Set(paid)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// ClearPosition removes the empty position of the caller.
func (f *Farm) ClearPosition(caller chef.Address, id pool.ID) error {
	return f.atomic("clear-position", func() error {
		settled, err := f.rewardService.Settle(id, f.clock.Now())
		if err != nil {
			return err
		}
		if err := f.positionService.Clear(id, caller, settled.AccRewardPerShare); err != nil {
			return err
		}
		f.emit(&Event{Name: EventPositionCleared, PoolID: id, User: caller, Token: settled.StakingToken, Amount: new(big.Int)})
		return nil
	})
}

// UpdatePool settles a pool. Anyone may call it.
func (f *Farm) UpdatePool(id pool.ID) (*pool.Pool, error) {
	var settled *pool.Pool
	err := f.atomic("update-pool", func() (err error) {
		settled, err = f.rewardService.Settle(id, f.clock.Now())
		return
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// MassUpdatePools settles every pool with a nonzero weight.
func (f *Farm) MassUpdatePools() error {
	return f.atomic("mass-update-pools", func() error {
		return f.rewardService.SettleAll(f.clock.Now())
	})
}

//
// Getters - no state change
//

// PendingReward returns what Harvest would pay the user now.
func (f *Farm) PendingReward(id pool.ID, user chef.Address) (*big.Int, error) {
	simulated, err := f.rewardService.Simulate(id, f.clock.Now())
	if err != nil {
		return nil, err
	}
	pos, err := f.positionService.Get(id, user)
	if err != nil {
		return nil, err
	}
	return position.Pending(pos, simulated.AccRewardPerShare)
}

// Pool returns the stored pool, not settled.
func (f *Farm) Pool(id pool.ID) (*pool.Pool, error) {
	return f.poolService.Get(id)
}

// PoolLength returns the number of pools.
func (f *Farm) PoolLength() (uint64, error) {
	return f.poolService.Length()
}

// Pools returns every pool in id order.
func (f *Farm) Pools() ([]*pool.Pool, error) {
	var pools []*pool.Pool
	err := f.poolService.Iterate(func(_ pool.ID, p *pool.Pool) error {
		pools = append(pools, p)
		return nil
	})
	return pools, err
}

// PoolTokens returns the staking token of every pool in id order.
func (f *Farm) PoolTokens() ([]chef.TokenID, error) {
	return f.poolService.Tokens()
}

// Position returns the position of the user in the pool.
func (f *Farm) Position(id pool.ID, user chef.Address) (*position.Position, error) {
	if _, err := f.poolService.Get(id); err != nil {
		return nil, err
	}
	return f.positionService.Get(id, user)
}

func (f *Farm) Admin() (chef.Address, error) {
	return f.poolService.Admin()
}

func (f *Farm) RewardToken() (chef.TokenID, error) {
	return f.poolService.RewardToken()
}

func (f *Farm) RewardRate() (*big.Int, error) {
	return f.poolService.RewardRate()
}

func (f *Farm) TotalAllocPoint() (*big.Int, error) {
	return f.poolService.TotalAllocPoint()
}

func (f *Farm) SettleOnChange() (bool, error) {
	return f.poolService.SettleOnChange()
}

func (f *Farm) Initialized() (bool, error) {
	return f.poolService.Initialized()
}
