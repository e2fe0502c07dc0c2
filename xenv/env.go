// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/state"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// Now returns the logical time of the block.
func (b *BlockContext) Now() uint64 {
	return b.Time
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     chef.Bytes32
	Origin chef.Address
}

// Environment an env to execute a farm operation.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
}

// New create a new env.
func New(state *state.State, blockCtx *BlockContext, txCtx *TransactionContext) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() chef.Address                    { return env.txCtx.Origin }
