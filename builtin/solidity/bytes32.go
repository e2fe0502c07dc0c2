// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/masterchef/chef"
)

// Bytes32 is a wrapper for storage and retrieval of [32]byte
type Bytes32 struct {
	context *Context
	pos     chef.Bytes32
}

func NewBytes32(context *Context, pos chef.Bytes32) *Bytes32 {
	return &Bytes32{context: context, pos: pos}
}

func (b *Bytes32) Get() (chef.Bytes32, error) {
	return b.context.state.GetStorage(b.context.address, b.pos)
}

func (b *Bytes32) Set(bytes *chef.Bytes32) {
	if bytes == nil {
		bytes = &chef.Bytes32{}
	}
	b.context.state.SetStorage(b.context.address, b.pos, *bytes)
}

// Bool stores a flag in a single slot.
type Bool struct {
	context *Context
	pos     chef.Bytes32
}

func NewBool(context *Context, pos chef.Bytes32) *Bool {
	return &Bool{context: context, pos: pos}
}

func (b *Bool) Get() (bool, error) {
	storage, err := b.context.state.GetStorage(b.context.address, b.pos)
	if err != nil {
		return false, err
	}
	return !storage.IsZero(), nil
}

func (b *Bool) Set(v bool) {
	var storage chef.Bytes32
	if v {
		storage[31] = 1
	}
	b.context.state.SetStorage(b.context.address, b.pos, storage)
}
