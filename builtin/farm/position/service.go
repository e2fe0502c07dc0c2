// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/builtin/farm/reverts"
	"github.com/vechain/masterchef/builtin/solidity"
	"github.com/vechain/masterchef/chef"
)

var slotPositions = chef.BytesToBytes32([]byte("positions"))

// Service is the per (pool, user) position store.
// Callers pass the settled accumulator of the pool, positions never settle pools themselves.
type Service struct {
	positions *solidity.Mapping[Key, *Position]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		positions: solidity.NewMapping[Key, *Position](sctx, slotPositions),
	}
}

// Get returns the position, or a zero position when none was created.
func (s *Service) Get(id pool.ID, user chef.Address) (*Position, error) {
	p, err := s.positions.Get(Key{id, user})
	if err != nil {
		return nil, errors.Wrapf(err, "get position %d/%v", id, user)
	}
	if p == nil {
		return newPosition(), nil
	}
	return p, nil
}

// Exists reports whether a position record is stored.
func (s *Service) Exists(id pool.ID, user chef.Address) (bool, error) {
	return s.positions.Exists(Key{id, user})
}

// RecordDeposit adds amount to the stake and amount*acc/PRECISION to the debt,
// so the deposit does not change the pending reward.
func (s *Service) RecordDeposit(id pool.ID, user chef.Address, amount, acc *big.Int) (*Position, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidArgument, "deposit amount must be positive")
	}
	p, err := s.Get(id, user)
	if err != nil {
		return nil, err
	}
	accrued, err := Accrued(amount, acc)
	if err != nil {
		return nil, err
	}
	p.Amount.Add(p.Amount, amount)
	if p.Amount.BitLen() > 256 {
		return nil, reverts.New(reverts.ArithmeticFault, "staked amount exceeds 256 bits")
	}
	p.RewardDebt.Add(p.RewardDebt, accrued)

	if err := s.positions.Set(Key{id, user}, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordWithdraw removes amount from the stake and amount*acc/PRECISION from the debt.
// Flooring both products can leave the debt one unit above the entitlement of
// the remaining stake. The debt is then capped at that entitlement, so the
// withdraw forfeits the rounding unit and pending never goes negative.
func (s *Service) RecordWithdraw(id pool.ID, user chef.Address, amount, acc *big.Int) (*Position, error) {
	if amount == nil || amount.Sign() < 0 {
		return nil, reverts.New(reverts.InvalidArgument, "negative withdraw amount")
	}
	p, err := s.Get(id, user)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(p.Amount) > 0 {
		return nil, reverts.Newf(reverts.InsufficientStake, "staked %v, requested %v", p.Amount, amount)
	}
	if _, err := Pending(p, acc); err != nil {
		return nil, err
	}
	accrued, err := Accrued(amount, acc)
	if err != nil {
		return nil, err
	}
	p.Amount.Sub(p.Amount, amount)
	p.RewardDebt.Sub(p.RewardDebt, accrued)

	entitled, err := Accrued(p.Amount, acc)
	if err != nil {
		return nil, err
	}
	if p.RewardDebt.Cmp(entitled) > 0 {
		p.RewardDebt = entitled
	}

	if err := s.positions.Set(Key{id, user}, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Harvest resets the debt to the current entitlement and returns the pending reward.
func (s *Service) Harvest(id pool.ID, user chef.Address, acc *big.Int) (*big.Int, error) {
	p, err := s.Get(id, user)
	if err != nil {
		return nil, err
	}
	entitled, err := Accrued(p.Amount, acc)
	if err != nil {
		return nil, err
	}
	pending := new(big.Int).Sub(entitled, p.RewardDebt)
	if pending.Sign() < 0 {
		return nil, reverts.Newf(reverts.ArithmeticFault, "negative pending reward %v", pending)
	}
	if pending.Sign() == 0 {
		return pending, nil
	}
	p.RewardDebt = entitled
	if err := s.positions.Set(Key{id, user}, p); err != nil {
		return nil, err
	}
	return pending, nil
}

// Clear deletes a position that holds no stake and no pending reward.
func (s *Service) Clear(id pool.ID, user chef.Address, acc *big.Int) error {
	p, err := s.Get(id, user)
	if err != nil {
		return err
	}
	if p.Amount.Sign() != 0 {
		return reverts.New(reverts.InvalidArgument, "position still holds stake")
	}
	pending, err := Pending(p, acc)
	if err != nil {
		return err
	}
	if pending.Sign() != 0 {
		return reverts.New(reverts.InvalidArgument, "position has unharvested reward")
	}
	s.positions.Delete(Key{id, user})
	return nil
}

// Pending returns amount*acc/PRECISION - debt.
func Pending(p *Position, acc *big.Int) (*big.Int, error) {
	entitled, err := Accrued(p.Amount, acc)
	if err != nil {
		return nil, err
	}
	pending := entitled.Sub(entitled, p.RewardDebt)
	if pending.Sign() < 0 {
		return nil, reverts.Newf(reverts.ArithmeticFault, "negative pending reward %v", pending)
	}
	return pending, nil
}

// Accrued returns amount*acc/PRECISION, floored.
func Accrued(amount, acc *big.Int) (*big.Int, error) {
	if amount.Sign() < 0 || acc.Sign() < 0 {
		return nil, reverts.New(reverts.ArithmeticFault, "negative operand")
	}
	a, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, reverts.New(reverts.ArithmeticFault, "amount exceeds 256 bits")
	}
	b, overflow := uint256.FromBig(acc)
	if overflow {
		return nil, reverts.New(reverts.ArithmeticFault, "accumulator exceeds 256 bits")
	}
	if _, overflow := a.MulOverflow(a, b); overflow {
		return nil, reverts.New(reverts.ArithmeticFault, "amount * acc overflows 256 bits")
	}
	return a.Div(a, precision).ToBig(), nil
}

var precision = uint256.MustFromBig(chef.AccRewardPrecision)
