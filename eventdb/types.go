// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"

	"github.com/vechain/masterchef/builtin/farm"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/ledger"
	"github.com/vechain/masterchef/xenv"
)

// Event represents farm.Event that can be stored in db.
type Event struct {
	BlockNumber uint32
	Index       uint32
	BlockTime   uint64
	TxID        chef.Bytes32
	TxOrigin    chef.Address
	Name        string
	PoolID      uint64
	User        chef.Address
	Token       chef.TokenID
	Amount      *big.Int
}

// newEvent converts farm.Event to Event.
func newEvent(blockCtx *xenv.BlockContext, index uint32, txID chef.Bytes32, txOrigin chef.Address, ev *farm.Event) *Event {
	return &Event{
		BlockNumber: blockCtx.Number,
		Index:       index,
		BlockTime:   blockCtx.Time,
		TxID:        txID,
		TxOrigin:    txOrigin,
		Name:        ev.Name,
		PoolID:      uint64(ev.PoolID),
		User:        ev.User,
		Token:       ev.Token,
		Amount:      ev.Amount,
	}
}

// Transfer represents ledger.Transfer that can be stored in db.
type Transfer struct {
	BlockNumber uint32
	Index       uint32
	BlockTime   uint64
	TxID        chef.Bytes32
	TxOrigin    chef.Address
	Sender      chef.Address
	Recipient   chef.Address
	Token       chef.TokenID
	Amount      *big.Int
	Memo        string
}

// newTransfer converts ledger.Transfer to Transfer.
func newTransfer(blockCtx *xenv.BlockContext, index uint32, txID chef.Bytes32, txOrigin chef.Address, transfer *ledger.Transfer) *Transfer {
	return &Transfer{
		BlockNumber: blockCtx.Number,
		Index:       index,
		BlockTime:   blockCtx.Time,
		TxID:        txID,
		TxOrigin:    txOrigin,
		Sender:      transfer.From,
		Recipient:   transfer.To,
		Token:       transfer.Token,
		Amount:      transfer.Amount,
		Memo:        transfer.Memo,
	}
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events, nil fields match anything.
type EventCriteria struct {
	Name   *string
	PoolID *uint64
	User   *chef.Address
	Token  *chef.TokenID
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	TxOrigin  *chef.Address // who sent the transaction
	Sender    *chef.Address
	Recipient *chef.Address
	Token     *chef.TokenID
}

type TransferFilter struct {
	TxID        *chef.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
