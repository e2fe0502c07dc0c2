// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/masterchef/runtime"
	"github.com/vechain/masterchef/state"
	"github.com/vechain/masterchef/xenv"
)

// Builder helper to build the genesis block.
type Builder struct {
	calls []*runtime.Transaction
}

// Call add a farm call.
func (b *Builder) Call(tx *runtime.Transaction) *Builder {
	b.calls = append(b.calls, tx)
	return b
}

// Build executes the calls in order on the state. Any reverted call fails the build.
func (b *Builder) Build(st *state.State, blockCtx *xenv.BlockContext) ([]*runtime.Receipt, error) {
	rt := runtime.New(st, blockCtx)

	receipts := make([]*runtime.Receipt, 0, len(b.calls))
	for i, call := range b.calls {
		receipt, err := rt.ExecuteTransaction(call)
		if err != nil {
			return nil, errors.Wrapf(err, "call %d", i)
		}
		if receipt.Reverted {
			return nil, errors.Errorf("call %d (%s) reverted: %s", i, call.Clause.Op, receipt.Error)
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}
