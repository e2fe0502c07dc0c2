// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/chef"
)

// Notification names.
const (
	EventPoolAdded         = "pool-added"
	EventPoolWeightUpdated = "pool-weight-updated"
	EventRewardRateUpdated = "reward-rate-updated"
	EventDeposited         = "deposited"
	EventWithdrawn         = "withdrawn"
	EventHarvested         = "harvested"
	EventPositionCleared   = "position-cleared"
)

// Event is a notification emitted by a successful operation.
// Amount is the alloc point for pool events and the reward rate for rate updates.
type Event struct {
	Name   string
	PoolID pool.ID
	User   chef.Address
	Token  chef.TokenID
	Amount *big.Int
}
