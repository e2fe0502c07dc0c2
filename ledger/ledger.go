// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger keeps fungible token balances in contract storage.
package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/masterchef/builtin/farm/reverts"
	"github.com/vechain/masterchef/builtin/solidity"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/log"
	"github.com/vechain/masterchef/state"
)

var (
	logger = log.WithContext("pkg", "ledger")

	slotBalances = chef.BytesToBytes32([]byte("balances"))
	slotSupplies = chef.BytesToBytes32([]byte("supplies"))
)

type balanceKey struct {
	holder chef.Address
	token  chef.TokenID
}

func (k balanceKey) Bytes() []byte {
	return append(k.holder.Bytes(), k.token.Bytes()...)
}

// Transfer records a movement of tokens.
type Transfer struct {
	From   chef.Address
	To     chef.Address
	Token  chef.TokenID
	Amount *big.Int
	Memo   string
}

// Ledger implements token balances over state.
type Ledger struct {
	balances *solidity.Mapping[balanceKey, *big.Int]
	supplies *solidity.Mapping[chef.TokenID, *big.Int]

	transfers []*Transfer
}

// New create a new instance.
func New(addr chef.Address, state *state.State) *Ledger {
	sctx := solidity.NewContext(addr, state)
	return &Ledger{
		balances: solidity.NewMapping[balanceKey, *big.Int](sctx, slotBalances),
		supplies: solidity.NewMapping[chef.TokenID, *big.Int](sctx, slotSupplies),
	}
}

// BalanceOf returns the balance of token held by holder.
func (l *Ledger) BalanceOf(holder chef.Address, token chef.TokenID) (*big.Int, error) {
	return getAmount(l.balances, balanceKey{holder, token})
}

// TotalSupply returns the minted amount of token.
func (l *Ledger) TotalSupply(token chef.TokenID) (*big.Int, error) {
	return getAmount(l.supplies, token)
}

// Mint creates amount of token for the holder.
func (l *Ledger) Mint(to chef.Address, token chef.TokenID, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if token.IsZero() {
		return reverts.New(reverts.InvalidArgument, "empty token")
	}
	supply, err := l.TotalSupply(token)
	if err != nil {
		return err
	}
	supply.Add(supply, amount)
	if supply.BitLen() > 256 {
		return reverts.Newf(reverts.ArithmeticFault, "supply of %v exceeds 256 bits", token)
	}
	if err := setAmount(l.supplies, token, supply); err != nil {
		return err
	}

	balance, err := l.BalanceOf(to, token)
	if err != nil {
		return err
	}
	if err := setAmount(l.balances, balanceKey{to, token}, balance.Add(balance, amount)); err != nil {
		return err
	}
	l.transfers = append(l.transfers, &Transfer{To: to, Token: token, Amount: new(big.Int).Set(amount), Memo: "mint"})
	logger.Debug("minted", "to", to, "token", token, "amount", amount)
	return nil
}

// Transfer moves amount of token between holders. A zero amount is a no-op.
func (l *Ledger) Transfer(from, to chef.Address, token chef.TokenID, amount *big.Int, memo string) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	fromBalance, err := l.BalanceOf(from, token)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "%v holds %v %v, needs %v", from, fromBalance, token, amount)
	}
	if err := setAmount(l.balances, balanceKey{from, token}, fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}
	toBalance, err := l.BalanceOf(to, token)
	if err != nil {
		return err
	}
	if err := setAmount(l.balances, balanceKey{to, token}, toBalance.Add(toBalance, amount)); err != nil {
		return err
	}
	l.transfers = append(l.transfers, &Transfer{From: from, To: to, Token: token, Amount: new(big.Int).Set(amount), Memo: memo})
	return nil
}

// TakeTransfers returns and forgets the transfers recorded so far.
func (l *Ledger) TakeTransfers() []*Transfer {
	transfers := l.transfers
	l.transfers = nil
	return transfers
}

func getAmount[K solidity.Key](m *solidity.Mapping[K, *big.Int], key K) (*big.Int, error) {
	v, err := m.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "get amount")
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

// setAmount stores v, clearing the slot for zero.
func setAmount[K solidity.Key](m *solidity.Mapping[K, *big.Int], key K, v *big.Int) error {
	if v.Sign() == 0 {
		m.Delete(key)
		return nil
	}
	return m.Set(key, v)
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return reverts.New(reverts.InvalidArgument, "negative amount")
	}
	if amount.BitLen() > 256 {
		return reverts.New(reverts.ArithmeticFault, "amount exceeds 256 bits")
	}
	return nil
}
