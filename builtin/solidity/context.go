// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/state"
)

// Context binds storage primitives to the contract address owning them.
type Context struct {
	address chef.Address
	state   *state.State
}

func NewContext(address chef.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() chef.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
