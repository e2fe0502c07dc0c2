// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward settles pool accumulators against elapsed time.
package reward

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/builtin/farm/reverts"
	"github.com/vechain/masterchef/chef"
)

var precision = uint256.MustFromBig(chef.AccRewardPrecision)

// BalanceReader reports token balances.
type BalanceReader interface {
	BalanceOf(holder chef.Address, token chef.TokenID) (*big.Int, error)
}

// Service settles pools. The staked supply of a pool is the balance of its
// staking token held by the custodian.
type Service struct {
	pools     *pool.Service
	custodian chef.Address
	balances  BalanceReader
}

func New(pools *pool.Service, custodian chef.Address, balances BalanceReader) *Service {
	return &Service{
		pools:     pools,
		custodian: custodian,
		balances:  balances,
	}
}

// Settle brings the accumulator of the pool up to now and persists it.
func (s *Service) Settle(id pool.ID, now uint64) (*pool.Pool, error) {
	return s.settle(id, now, nil, true)
}

// SettleExcluding is Settle with inflight subtracted from the staked supply.
// It prices the elapsed interval against the stake that existed before a
// payment already moved into custody.
func (s *Service) SettleExcluding(id pool.ID, now uint64, inflight *big.Int) (*pool.Pool, error) {
	return s.settle(id, now, inflight, true)
}

// Simulate returns the pool as Settle would leave it, without persisting.
func (s *Service) Simulate(id pool.ID, now uint64) (*pool.Pool, error) {
	return s.settle(id, now, nil, false)
}

// SettleAll settles every pool. Pools without weight only move their
// last reward time, so a later weight change does not price the idle interval.
func (s *Service) SettleAll(now uint64) error {
	return s.pools.Iterate(func(id pool.ID, _ *pool.Pool) error {
		_, err := s.settle(id, now, nil, true)
		return err
	})
}

func (s *Service) settle(id pool.ID, now uint64, inflight *big.Int, persist bool) (*pool.Pool, error) {
	p, err := s.pools.Get(id)
	if err != nil {
		return nil, err
	}
	if now <= p.LastRewardTime {
		return p, nil
	}
	if !p.IsActive() {
		p.LastRewardTime = now
		if persist {
			if err := s.pools.Update(id, p); err != nil {
				return nil, err
			}
		}
		return p, nil
	}

	supply, err := s.balances.BalanceOf(s.custodian, p.StakingToken)
	if err != nil {
		return nil, err
	}
	if inflight != nil {
		supply = new(big.Int).Sub(supply, inflight)
		if supply.Sign() < 0 {
			return nil, reverts.New(reverts.ArithmeticFault, "inflight payment exceeds custody")
		}
	}
	rate, err := s.pools.RewardRate()
	if err != nil {
		return nil, err
	}
	total, err := s.pools.TotalAllocPoint()
	if err != nil {
		return nil, err
	}

	acc, err := Accrue(p.AccRewardPerShare, now-p.LastRewardTime, rate, p.AllocPoint, total, supply)
	if err != nil {
		return nil, err
	}
	p.AccRewardPerShare = acc
	p.LastRewardTime = now

	if persist {
		if err := s.pools.Update(id, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Accrue returns the accumulator after elapsed time units:
//
//	reward = elapsed * rate * allocPoint / totalAllocPoint
//	acc'   = acc + reward * PRECISION / supply
//
// Both divisions floor. A zero supply or a zero total leaves acc unchanged.
func Accrue(acc *big.Int, elapsed uint64, rate, allocPoint, totalAllocPoint, supply *big.Int) (*big.Int, error) {
	if supply.Sign() == 0 || totalAllocPoint.Sign() == 0 {
		return new(big.Int).Set(acc), nil
	}

	a, err := toUint256(acc)
	if err != nil {
		return nil, err
	}
	r, err := toUint256(rate)
	if err != nil {
		return nil, err
	}
	w, err := toUint256(allocPoint)
	if err != nil {
		return nil, err
	}
	total, err := toUint256(totalAllocPoint)
	if err != nil {
		return nil, err
	}
	sup, err := toUint256(supply)
	if err != nil {
		return nil, err
	}

	reward := uint256.NewInt(elapsed)
	if _, overflow := reward.MulOverflow(reward, r); overflow {
		return nil, errOverflow("elapsed * rate")
	}
	if _, overflow := reward.MulOverflow(reward, w); overflow {
		return nil, errOverflow("elapsed * rate * alloc point")
	}
	reward.Div(reward, total)

	if _, overflow := reward.MulOverflow(reward, precision); overflow {
		return nil, errOverflow("reward * precision")
	}
	reward.Div(reward, sup)

	if _, overflow := a.AddOverflow(a, reward); overflow {
		return nil, errOverflow("acc reward per share")
	}
	return a.ToBig(), nil
}

func toUint256(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, reverts.New(reverts.ArithmeticFault, "negative operand")
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errOverflow("operand")
	}
	return u, nil
}

func errOverflow(what string) error {
	return reverts.Newf(reverts.ArithmeticFault, "%s overflows 256 bits", what)
}
