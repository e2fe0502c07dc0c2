// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"encoding/binary"
	"math/big"
	"strconv"

	"github.com/vechain/masterchef/chef"
)

// ID identifies a pool. Ids start at 1 and are never reused.
type ID uint64

func (id ID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Pool is the stored state of a staking pool.
type Pool struct {
	StakingToken      chef.TokenID
	AllocPoint        *big.Int
	AccRewardPerShare *big.Int // scaled by chef.AccRewardPrecision
	LastRewardTime    uint64
}

// Copy returns a deep copy of the pool.
func (p *Pool) Copy() *Pool {
	return &Pool{
		StakingToken:      p.StakingToken,
		AllocPoint:        new(big.Int).Set(p.AllocPoint),
		AccRewardPerShare: new(big.Int).Set(p.AccRewardPerShare),
		LastRewardTime:    p.LastRewardTime,
	}
}

// IsActive reports whether the pool receives emissions.
func (p *Pool) IsActive() bool {
	return p.AllocPoint.Sign() > 0
}
