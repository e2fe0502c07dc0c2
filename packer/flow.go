// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"github.com/pkg/errors"

	"github.com/vechain/masterchef/runtime"
	"github.com/vechain/masterchef/xenv"
)

// Flow the flow of packing a new block.
type Flow struct {
	packer    *Packer
	runtime   *runtime.Runtime
	receipts  []*runtime.Receipt
	committed bool
}

func newFlow(packer *Packer, runtime *runtime.Runtime) *Flow {
	return &Flow{
		packer:  packer,
		runtime: runtime,
	}
}

// BlockContext returns the context of the block being packed.
func (f *Flow) BlockContext() *xenv.BlockContext {
	return f.runtime.BlockContext()
}

// Receipts returns receipts of adopted txs.
func (f *Flow) Receipts() []*runtime.Receipt {
	return f.receipts
}

// Adopt executes the given transaction. A reverted tx is still adopted,
// while an infrastructure error leaves the flow unchanged.
func (f *Flow) Adopt(tx *runtime.Transaction) (*runtime.Receipt, error) {
	if f.committed {
		return nil, errFlowCommitted
	}
	receipt, err := f.runtime.ExecuteTransaction(tx)
	if err != nil {
		return nil, err
	}
	f.receipts = append(f.receipts, receipt)
	metricTransactionCounter().AddWithLabel(1, map[string]string{"reverted": boolLabel(receipt.Reverted)})
	return receipt, nil
}

// Commit indexes the receipts, then writes the state and moves the head.
func (f *Flow) Commit() error {
	if f.committed {
		return errFlowCommitted
	}
	blockCtx := f.runtime.BlockContext()
	if db := f.packer.eventDB; db != nil {
		batch := db.NewBatch(blockCtx)
		for _, r := range f.receipts {
			if !r.Reverted {
				batch.Insert(r.TxID, r.Origin, r.Events, r.Transfers)
			}
		}
		if err := batch.Commit(); err != nil {
			return errors.Wrap(err, "index events")
		}
	}
	if err := f.packer.repo.Commit(blockCtx, f.runtime.State().Stage()); err != nil {
		return err
	}
	f.committed = true
	metricBlockTxs().Set(int64(len(f.receipts)))
	return nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
