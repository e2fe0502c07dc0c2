// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/chef"
)

// Key addresses the position of a user in a pool.
type Key struct {
	PoolID pool.ID
	User   chef.Address
}

func (k Key) Bytes() []byte {
	return append(k.PoolID.Bytes(), k.User.Bytes()...)
}

// Position is the stake of a user in a pool and the reward already accounted for.
// RewardDebt is signed: withdrawals after accrual can push it below zero.
type Position struct {
	Amount     *big.Int
	RewardDebt *big.Int
}

func newPosition() *Position {
	return &Position{Amount: new(big.Int), RewardDebt: new(big.Int)}
}

// IsEmpty reports whether nothing is staked and no debt is tracked.
func (p *Position) IsEmpty() bool {
	return p.Amount.Sign() == 0 && p.RewardDebt.Sign() == 0
}

// rlp cannot encode negative big integers, the debt is stored as sign and magnitude.
type positionRLP struct {
	Amount       *big.Int
	DebtNegative bool
	Debt         *big.Int
}

func (p *Position) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &positionRLP{
		Amount:       p.Amount,
		DebtNegative: p.RewardDebt.Sign() < 0,
		Debt:         new(big.Int).Abs(p.RewardDebt),
	})
}

func (p *Position) DecodeRLP(s *rlp.Stream) error {
	var obj positionRLP
	if err := s.Decode(&obj); err != nil {
		return err
	}
	p.Amount = obj.Amount
	p.RewardDebt = obj.Debt
	if obj.DebtNegative {
		p.RewardDebt.Neg(p.RewardDebt)
	}
	return nil
}
