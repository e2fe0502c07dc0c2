// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package types contains the JSON types of the API.
package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/builtin/farm/position"
	"github.com/vechain/masterchef/chain"
	"github.com/vechain/masterchef/chef"
)

// Head is the latest committed block.
type Head struct {
	Number uint32 `json:"number"`
	Time   uint64 `json:"time"`
}

func ConvertHead(head chain.Head) Head {
	return Head{Number: head.Number, Time: head.Time}
}

// Farm is the global state of the farm.
type Farm struct {
	Admin           chef.Address          `json:"admin"`
	RewardToken     chef.TokenID          `json:"rewardToken"`
	RewardRate      *math.HexOrDecimal256 `json:"rewardRate"`
	TotalAllocPoint *math.HexOrDecimal256 `json:"totalAllocPoint"`
	SettleOnChange  bool                  `json:"settleOnChange"`
	PoolLength      uint64                `json:"poolLength"`
	Head            Head                  `json:"head"`
}

// Pool is a staking pool, as stored or as settled at a given time.
type Pool struct {
	ID                uint64                `json:"id"`
	StakingToken      chef.TokenID          `json:"stakingToken"`
	AllocPoint        *math.HexOrDecimal256 `json:"allocPoint"`
	AccRewardPerShare *math.HexOrDecimal256 `json:"accRewardPerShare"`
	LastRewardTime    uint64                `json:"lastRewardTime"`
}

func ConvertPool(id pool.ID, p *pool.Pool) *Pool {
	return &Pool{
		ID:                uint64(id),
		StakingToken:      p.StakingToken,
		AllocPoint:        amount(p.AllocPoint),
		AccRewardPerShare: amount(p.AccRewardPerShare),
		LastRewardTime:    p.LastRewardTime,
	}
}

// Position is the stake of a user in a pool with its pending reward at Time.
type Position struct {
	PoolID        uint64                `json:"poolId"`
	User          chef.Address          `json:"user"`
	Amount        *math.HexOrDecimal256 `json:"amount"`
	RewardDebt    *math.HexOrDecimal256 `json:"rewardDebt"`
	PendingReward *math.HexOrDecimal256 `json:"pendingReward"`
	Time          uint64                `json:"time"`
}

func ConvertPosition(id pool.ID, user chef.Address, p *position.Position, pending *big.Int, time uint64) *Position {
	return &Position{
		PoolID:        uint64(id),
		User:          user,
		Amount:        amount(p.Amount),
		RewardDebt:    amount(p.RewardDebt),
		PendingReward: amount(pending),
		Time:          time,
	}
}

// Balance is the ledger balance of a holder.
type Balance struct {
	Holder chef.Address          `json:"holder"`
	Token  chef.TokenID          `json:"token"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}
