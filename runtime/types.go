// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/vechain/masterchef/builtin/farm"
	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/ledger"
)

// Op names a farm operation.
type Op string

const (
	OpInitialize      Op = "initialize"
	OpAddPool         Op = "add-pool"
	OpSetAllocPoint   Op = "set-alloc-point"
	OpSetRewardRate   Op = "set-reward-rate"
	OpDeposit         Op = "deposit"
	OpWithdraw        Op = "withdraw"
	OpHarvest         Op = "harvest"
	OpUpdatePool      Op = "update-pool"
	OpMassUpdatePools Op = "mass-update-pools"
	OpClearPosition   Op = "clear-position"
	OpMint            Op = "mint"
)

// Clause is the operation a transaction invokes. Unused fields are ignored.
type Clause struct {
	Op     Op
	PoolID pool.ID
	// Token is the staking token of add-pool, the reward token of initialize and the minted token.
	Token chef.TokenID
	// Amount is the alloc point, the reward rate, the withdraw or the mint amount.
	Amount *big.Int
	// To is the admin of initialize and the receiver of mint.
	To chef.Address
	// SettleOnChange is the initialize flag.
	SettleOnChange bool
}

// Transaction is one operation sent by Origin, with an optional payment.
type Transaction struct {
	Origin  chef.Address
	Clause  Clause
	Payment *farm.Payment
}

// Receipt is the outcome of an executed transaction.
type Receipt struct {
	TxID     chef.Bytes32
	Block    uint32
	Time     uint64
	Origin   chef.Address
	Op       Op
	Reverted bool
	// Error is the revert reason.
	Error string
	// Output is the new pool id of add-pool and the paid reward of harvest.
	Output    *big.Int
	Events    []*farm.Event
	Transfers []*ledger.Transfer
}
