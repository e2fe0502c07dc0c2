// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"fmt"
	"math"

	ethmath "github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/eventdb"
)

// LogMeta is the block and transaction of a record.
type LogMeta struct {
	BlockNumber uint32       `json:"blockNumber"`
	BlockTime   uint64       `json:"blockTime"`
	TxID        chef.Bytes32 `json:"txID"`
	TxOrigin    chef.Address `json:"txOrigin"`
	Index       *uint32      `json:"index,omitempty"`
}

// FilteredEvent is a farm notification.
type FilteredEvent struct {
	Name   string                   `json:"name"`
	PoolID uint64                   `json:"poolId"`
	User   chef.Address             `json:"user"`
	Token  chef.TokenID             `json:"token"`
	Amount *ethmath.HexOrDecimal256 `json:"amount"`
	Meta   LogMeta                  `json:"meta"`
}

// ConvertEvent converts an eventdb.Event into its json form.
func ConvertEvent(event *eventdb.Event, addIndexes bool) *FilteredEvent {
	fe := &FilteredEvent{
		Name:   event.Name,
		PoolID: event.PoolID,
		User:   event.User,
		Token:  event.Token,
		Amount: amount(event.Amount),
		Meta: LogMeta{
			BlockNumber: event.BlockNumber,
			BlockTime:   event.BlockTime,
			TxID:        event.TxID,
			TxOrigin:    event.TxOrigin,
		},
	}
	if addIndexes {
		fe.Meta.Index = &event.Index
	}
	return fe
}

// FilteredTransfer is a ledger transfer.
type FilteredTransfer struct {
	Sender    chef.Address             `json:"sender"`
	Recipient chef.Address             `json:"recipient"`
	Token     chef.TokenID             `json:"token"`
	Amount    *ethmath.HexOrDecimal256 `json:"amount"`
	Memo      string                   `json:"memo"`
	Meta      LogMeta                  `json:"meta"`
}

// ConvertTransfer converts an eventdb.Transfer into its json form.
func ConvertTransfer(transfer *eventdb.Transfer, addIndexes bool) *FilteredTransfer {
	ft := &FilteredTransfer{
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Token:     transfer.Token,
		Amount:    amount(transfer.Amount),
		Memo:      transfer.Memo,
		Meta: LogMeta{
			BlockNumber: transfer.BlockNumber,
			BlockTime:   transfer.BlockTime,
			TxID:        transfer.TxID,
			TxOrigin:    transfer.TxOrigin,
		},
	}
	if addIndexes {
		ft.Meta.Index = &transfer.Index
	}
	return ft
}

type RangeType string

const (
	BlockRangeType RangeType = "block"
	TimeRangeType  RangeType = "time"
)

type Range struct {
	Unit RangeType `json:"unit,omitempty"`
	From *uint64   `json:"from,omitempty"`
	To   *uint64   `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" && r.Unit != BlockRangeType && r.Unit != TimeRangeType {
		return fmt.Errorf("range.unit must be either 'block' or 'time', got '%s'", r.Unit)
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return nil
}

// ConvertRange fills the open ends of the range. Values are capped to what sqlite stores.
func ConvertRange(r *Range) *eventdb.Range {
	if r == nil {
		return nil
	}
	rng := &eventdb.Range{Unit: eventdb.Block, From: 0, To: math.MaxInt64}
	if r.Unit == TimeRangeType {
		rng.Unit = eventdb.Time
	}
	if r.From != nil {
		rng.From = min(*r.From, math.MaxInt64)
	}
	if r.To != nil {
		rng.To = min(*r.To, math.MaxInt64)
	}
	return rng
}

type Options struct {
	Offset         uint64  `json:"offset,omitempty"`
	Limit          *uint64 `json:"limit,omitempty"`
	IncludeIndexes bool    `json:"includeIndexes,omitempty"`
}

func (o *Options) Validate(limit uint64) error {
	if o == nil {
		return nil
	}
	if o.Limit != nil && *o.Limit > limit {
		return fmt.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
	}
	if o.Offset > math.MaxInt64 {
		return fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64))
	}
	return nil
}

type EventCriteria struct {
	Name   *string       `json:"name,omitempty"`
	PoolID *uint64       `json:"poolId,omitempty"`
	User   *chef.Address `json:"user,omitempty"`
	Token  *chef.TokenID `json:"token,omitempty"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet,omitempty"`
	Range       *Range           `json:"range,omitempty"`
	Options     *Options         `json:"options,omitempty"`
	Order       eventdb.Order    `json:"order,omitempty"`
}

// ConvertEventFilter expects validated options with the limit set.
func ConvertEventFilter(filter *EventFilter) *eventdb.EventFilter {
	f := &eventdb.EventFilter{
		Range: ConvertRange(filter.Range),
		Options: &eventdb.Options{
			Offset: filter.Options.Offset,
			Limit:  *filter.Options.Limit,
		},
		Order: filter.Order,
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &eventdb.EventCriteria{
			Name:   c.Name,
			PoolID: c.PoolID,
			User:   c.User,
			Token:  c.Token,
		})
	}
	return f
}

type TransferCriteria struct {
	TxOrigin  *chef.Address `json:"txOrigin,omitempty"`
	Sender    *chef.Address `json:"sender,omitempty"`
	Recipient *chef.Address `json:"recipient,omitempty"`
	Token     *chef.TokenID `json:"token,omitempty"`
}

type TransferFilter struct {
	TxID        *chef.Bytes32       `json:"txID,omitempty"`
	CriteriaSet []*TransferCriteria `json:"criteriaSet,omitempty"`
	Range       *Range              `json:"range,omitempty"`
	Options     *Options            `json:"options,omitempty"`
	Order       eventdb.Order       `json:"order,omitempty"`
}

// ConvertTransferFilter expects validated options with the limit set.
func ConvertTransferFilter(filter *TransferFilter) *eventdb.TransferFilter {
	f := &eventdb.TransferFilter{
		TxID:  filter.TxID,
		Range: ConvertRange(filter.Range),
		Options: &eventdb.Options{
			Offset: filter.Options.Offset,
			Limit:  *filter.Options.Limit,
		},
		Order: filter.Order,
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &eventdb.TransferCriteria{
			TxOrigin:  c.TxOrigin,
			Sender:    c.Sender,
			Recipient: c.Recipient,
			Token:     c.Token,
		})
	}
	return f
}
